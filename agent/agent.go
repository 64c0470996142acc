package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrUnknownCapability is returned when a capability name was never
	// registered with the agent.
	ErrUnknownCapability = errors.New("unknown capability")
	// ErrDuplicateCapability is returned when a name is registered twice.
	// Last-write-wins is deliberately not supported: silently shadowing a
	// capability would make tool dispatch unauditable.
	ErrDuplicateCapability = errors.New("capability already registered")
)

// Args carries named arguments into a capability invocation.
type Args map[string]interface{}

// String returns the string argument for key, or "" when absent.
func (a Args) String(key string) string {
	v, _ := a[key].(string)
	return v
}

// Int returns the int argument for key, or 0 when absent.
func (a Args) Int(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Strings returns the string-slice argument for key, or nil when absent.
func (a Args) Strings(key string) []string {
	v, _ := a[key].([]string)
	return v
}

// Capability is a named external operation an agent can invoke. It may
// suspend on the context and may fail independently per call; the agent never
// retries it.
type Capability func(ctx context.Context, args Args) (interface{}, error)

// MemoryEntry is one record in the agent's append-only memory log.
type MemoryEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Agent wraps "ask the model" and "invoke a named capability" for one
// pipeline role. The memory log is audit-only: it is never read back by
// decision logic.
type Agent struct {
	name           string
	promptTemplate string
	completer      Completer

	mu        sync.Mutex
	caps      map[string]Capability
	memory    []MemoryEntry
	maxMemory int
}

// New creates an agent for the given role.
func New(name, promptTemplate string, completer Completer) *Agent {
	return &Agent{
		name:           name,
		promptTemplate: promptTemplate,
		completer:      completer,
		caps:           make(map[string]Capability),
		maxMemory:      100,
	}
}

// Name returns the agent's role name.
func (a *Agent) Name() string { return a.name }

// FormatPrompt renders the agent's prompt template with the given arguments.
func (a *Agent) FormatPrompt(args ...interface{}) string {
	return fmt.Sprintf(a.promptTemplate, args...)
}

// RegisterCapability registers a named capability. Registering a nil function
// or a duplicate name is an error.
func (a *Agent) RegisterCapability(name string, fn Capability) error {
	if fn == nil {
		return fmt.Errorf("agent %s: capability %q is nil", a.name, name)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.caps[name]; exists {
		return fmt.Errorf("agent %s: %q: %w", a.name, name, ErrDuplicateCapability)
	}
	a.caps[name] = fn
	return nil
}

// Invoke dispatches a registered capability by name, returning its result or
// propagating its failure unchanged.
func (a *Agent) Invoke(ctx context.Context, name string, args Args) (interface{}, error) {
	a.mu.Lock()
	fn, ok := a.caps[name]
	a.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("agent %s: %q: %w", a.name, name, ErrUnknownCapability)
	}
	return fn(ctx, args)
}

// InvokeAs dispatches a capability and asserts its result to T.
func InvokeAs[T any](ctx context.Context, a *Agent, name string, args Args) (T, error) {
	var zero T
	v, err := a.Invoke(ctx, name, args)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("agent %s: capability %q returned %T", a.name, name, v)
	}
	return out, nil
}

// Complete sends role-tagged messages to the completion client. Transport and
// provider failures come back as errors, never panics; callers treat an error
// as a terminal failure for that operation.
func (a *Agent) Complete(ctx context.Context, messages []Message) (string, error) {
	if a.completer == nil {
		return "", fmt.Errorf("agent %s: no completion client configured", a.name)
	}
	text, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("agent %s: completion: %w", a.name, err)
	}
	return text, nil
}

// Record appends an entry to the agent's memory log.
func (a *Agent) Record(payload interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory = append(a.memory, MemoryEntry{Timestamp: time.Now(), Payload: payload})
	if len(a.memory) > a.maxMemory {
		a.memory = a.memory[len(a.memory)-a.maxMemory:]
	}
}

// History returns a copy of the memory log in append order.
func (a *Agent) History() []MemoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]MemoryEntry{}, a.memory...)
}
