// Package llm provides the chat-completion collaborator consumed by the
// extraction layer. Structured output is requested through function tools;
// the response surfaces tool invocations as name plus JSON-encoded argument
// string, leaving argument parsing to the caller.
package llm

import (
	"context"
	"errors"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyResponse is returned when the completion API produced no choices.
var ErrEmptyResponse = errors.New("no choices returned from completion API")

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool describes a function the model may invoke to return structured
// output.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall is a function invocation returned by the model. Arguments is the
// raw JSON-encoded argument string; it is loosely validated payload and the
// caller decides how parse failures are handled.
type ToolCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Response is the model's reply: plain text, tool invocations, or both.
type Response struct {
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

// Client is the chat-completion interface the engine depends on.
type Client interface {
	// Generate sends messages plus an optional tools schema and returns the
	// model's response.
	Generate(ctx context.Context, messages []Message, tools []Tool) (*Response, error)
}

// Config holds settings for a completion client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}
