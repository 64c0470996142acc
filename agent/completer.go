package agent

import "context"

// Message roles, matching the chat-completion convention.
const (
	RoleSystem = "system"
	RoleUser   = "user"
	RoleChat   = "assistant"
)

// Message is one role-tagged entry in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is an opaque text-completion capability: given an ordered list of
// role-tagged messages it returns generated text or a failure. No retry or
// backoff logic lives here; that is the caller's business.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// System is shorthand for a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User is shorthand for a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }
