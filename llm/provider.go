// Package llm provides chat-completion providers behind a single interface.
// Providers make exactly one attempt per call: callers own time budgets via
// context deadlines, and the layers above degrade gracefully when a call
// fails, so retry loops here would only stretch tail latency.
package llm

import (
	"context"
	"fmt"
)

// Message is one turn of a chat conversation. Role is "system", "user", or
// "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// ChatRequest is a chat-completion request.
type ChatRequest struct {
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

// ChatResponse is a chat-completion response.
type ChatResponse struct {
	Content      string `json:"content"`
	StopReason   string `json:"stop_reason"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	Model        string `json:"model"`
}

// Provider is the interface all chat-completion backends implement.
type Provider interface {
	// Chat sends a chat request and returns the response. Implementations
	// make a single attempt and respect ctx cancellation.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Config selects and tunes a chat-completion provider.
type Config struct {
	Provider  string `json:"provider"` // openai, anthropic, google, mock
	Model     string `json:"model"`
	APIKey    string `json:"api_key"`
	MaxTokens int    `json:"max_tokens"`
	BaseURL   string `json:"base_url,omitempty"`
}

// NewProvider constructs the configured provider.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "anthropic":
		return NewAnthropicProvider(cfg)
	case "google":
		return NewGoogleProvider(cfg)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
