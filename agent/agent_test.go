package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeCompleter returns canned responses or a fixed error.
type fakeCompleter struct {
	response string
	err      error
	calls    [][]Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestRegisterCapability(t *testing.T) {
	a := New("test", "query: %s", nil)

	err := a.RegisterCapability("lookup", func(ctx context.Context, args Args) (interface{}, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	err = a.RegisterCapability("lookup", func(ctx context.Context, args Args) (interface{}, error) {
		return "shadow", nil
	})
	if !errors.Is(err, ErrDuplicateCapability) {
		t.Fatalf("duplicate registration: got %v, want ErrDuplicateCapability", err)
	}

	// The original registration must survive the rejected shadow.
	v, err := a.Invoke(context.Background(), "lookup", nil)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if v != "ok" {
		t.Errorf("Invoke returned %v, want ok", v)
	}

	if err := a.RegisterCapability("nil-cap", nil); err == nil {
		t.Error("registering a nil capability should fail")
	}
}

func TestInvokeUnknownCapability(t *testing.T) {
	a := New("test", "", nil)
	_, err := a.Invoke(context.Background(), "missing", nil)
	if !errors.Is(err, ErrUnknownCapability) {
		t.Fatalf("got %v, want ErrUnknownCapability", err)
	}
}

func TestInvokeAs(t *testing.T) {
	a := New("test", "", nil)
	if err := a.RegisterCapability("count", func(ctx context.Context, args Args) (interface{}, error) {
		return args.Int("n") + 1, nil
	}); err != nil {
		t.Fatal(err)
	}

	n, err := InvokeAs[int](context.Background(), a, "count", Args{"n": 41})
	if err != nil {
		t.Fatalf("InvokeAs failed: %v", err)
	}
	if n != 42 {
		t.Errorf("got %d, want 42", n)
	}

	if _, err := InvokeAs[string](context.Background(), a, "count", Args{"n": 1}); err == nil {
		t.Error("type mismatch should fail")
	}
}

func TestInvokePropagatesCapabilityError(t *testing.T) {
	a := New("test", "", nil)
	boom := errors.New("backend down")
	_ = a.RegisterCapability("flaky", func(ctx context.Context, args Args) (interface{}, error) {
		return nil, boom
	})

	_, err := a.Invoke(context.Background(), "flaky", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want the capability's error", err)
	}
}

func TestCompleteWrapsErrors(t *testing.T) {
	a := New("verifier", "", &fakeCompleter{err: errors.New("rate limited")})
	_, err := a.Complete(context.Background(), []Message{User("hi")})
	if err == nil {
		t.Fatal("expected error")
	}

	a = New("verifier", "", nil)
	if _, err := a.Complete(context.Background(), nil); err == nil {
		t.Fatal("nil completer should error, not panic")
	}
}

func TestMemoryBounded(t *testing.T) {
	a := New("test", "", nil)
	for i := 0; i < 150; i++ {
		a.Record(i)
	}

	history := a.History()
	if len(history) != 100 {
		t.Fatalf("history length = %d, want 100", len(history))
	}
	if history[0].Payload != 50 {
		t.Errorf("oldest entry = %v, want 50", history[0].Payload)
	}
	if history[99].Payload != 149 {
		t.Errorf("newest entry = %v, want 149", history[99].Payload)
	}
}

func TestFormatPrompt(t *testing.T) {
	a := New("test", "investigate: %s", nil)
	if got := a.FormatPrompt("the query"); got != "investigate: the query" {
		t.Errorf("FormatPrompt = %q", got)
	}
}

func TestArgsAccessors(t *testing.T) {
	args := Args{
		"s":    "text",
		"n":    3,
		"f":    float64(7),
		"list": []string{"a", "b"},
	}
	if args.String("s") != "text" || args.String("missing") != "" {
		t.Error("String accessor")
	}
	if args.Int("n") != 3 || args.Int("f") != 7 || args.Int("missing") != 0 {
		t.Error("Int accessor")
	}
	if fmt.Sprint(args.Strings("list")) != "[a b]" || args.Strings("missing") != nil {
		t.Error("Strings accessor")
	}
}
