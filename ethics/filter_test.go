package ethics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ctrevinoi1/agent/agent"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []agent.Message) (string, error) {
	for _, m := range messages {
		f.prompts = append(f.prompts, m.Content)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestApplyReturnsReviewedReport(t *testing.T) {
	f := New(&fakeCompleter{response: "Adjusted report."})
	got, err := f.Apply(context.Background(), "Draft report.")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Adjusted report." {
		t.Errorf("got %q", got)
	}
}

func TestApplyFallsBackToDraftOnError(t *testing.T) {
	f := New(&fakeCompleter{err: errors.New("model down")})
	got, err := f.Apply(context.Background(), "Draft survives.")
	if err != nil {
		t.Fatalf("filtering must be total: %v", err)
	}
	if got != "Draft survives." {
		t.Errorf("got %q, want the draft", got)
	}
}

func TestApplyFallsBackToDraftOnEmptyResponse(t *testing.T) {
	f := New(&fakeCompleter{response: "   \n"})
	got, err := f.Apply(context.Background(), "Draft survives.")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Draft survives." {
		t.Errorf("got %q, want the draft", got)
	}
}

func TestApplyRedactsPII(t *testing.T) {
	f := New(&fakeCompleter{err: errors.New("model down")})
	got, err := f.Apply(context.Background(), "Contact witness at witness@example.com for details.")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "witness@example.com") {
		t.Errorf("email survived redaction: %q", got)
	}
	if !strings.Contains(got, "[EMAIL REDACTED]") {
		t.Errorf("redaction tag missing: %q", got)
	}
}

func TestApplySurfacesPolicyViolationsToReview(t *testing.T) {
	completer := &fakeCompleter{response: "Adjusted."}
	f := New(completer)
	if _, err := f.Apply(context.Background(), "Footage shows graphic violence at the scene."); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(completer.prompts, "\n")
	if !strings.Contains(joined, "graphic content") {
		t.Errorf("policy findings not surfaced to the review prompt:\n%s", joined)
	}
}
