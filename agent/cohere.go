package agent

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// CohereCompleter implements Completer using the Cohere Chat API.
type CohereCompleter struct {
	client      *cohereclient.Client
	model       string
	temperature float64
}

// NewCohereCompleter builds a Cohere-backed completer. The custom HTTP client
// forces HTTP/1.1 to avoid HTTP/2 protocol errors seen with the Cohere edge.
func NewCohereCompleter(apiKey, model string) *CohereCompleter {
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereCompleter{client: client, model: model, temperature: 0.2}
}

// Complete maps the role-tagged messages onto Cohere's chat shape: system
// messages become the preamble, earlier turns become chat history, and the
// final user message carries the request.
func (c *CohereCompleter) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages")
	}

	var preamble []string
	var history []*cohere.Message
	last := ""

	for i, m := range messages {
		switch m.Role {
		case RoleSystem:
			preamble = append(preamble, m.Content)
		case RoleChat:
			history = append(history, &cohere.Message{
				Role:    "CHATBOT",
				Chatbot: &cohere.ChatMessage{Message: m.Content},
			})
		default:
			if i == len(messages)-1 {
				last = m.Content
			} else {
				history = append(history, &cohere.Message{
					Role: "USER",
					User: &cohere.ChatMessage{Message: m.Content},
				})
			}
		}
	}
	if last == "" {
		return "", fmt.Errorf("no trailing user message")
	}

	req := &cohere.ChatRequest{
		Message:     last,
		Model:       cohere.String(c.model),
		Temperature: cohere.Float64(c.temperature),
		ChatHistory: history,
	}
	if len(preamble) > 0 {
		req.Preamble = cohere.String(strings.Join(preamble, "\n\n"))
	}

	resp, err := c.client.Chat(ctx, req)
	if err != nil {
		return "", fmt.Errorf("cohere chat: %w", err)
	}
	return resp.Text, nil
}
