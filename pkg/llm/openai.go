package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Defaults applied when the config leaves them unset.
const (
	DefaultModel = "gpt-4o-mini"
	MaxRetries   = 2
)

// OpenAIClient implements Client against any OpenAI-compatible completion
// endpoint.
type OpenAIClient struct {
	client *openai.Client
	config Config
	logger *slog.Logger
}

// NewOpenAIClient creates a completion client. An empty APIKey is rejected
// at construction, before any request is attempted.
func NewOpenAIClient(config Config, logger *slog.Logger) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("llm: api key is required")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger,
	}, nil
}

// Generate implements Client with retry and exponential backoff on
// retriable transport failures.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message, tools []Tool) (*Response, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    c.convertMessages(messages),
		Temperature: c.config.Temperature,
	}
	if c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}

	for _, tool := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * time.Second
			c.logger.Warn("retrying completion request",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff))

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			if isRetriableError(err) && attempt < MaxRetries {
				continue
			}
			return nil, fmt.Errorf("openai completion failed: %w", err)
		}

		if len(resp.Choices) == 0 {
			return nil, ErrEmptyResponse
		}

		return convertResponse(resp.Choices[0].Message), nil
	}

	return nil, fmt.Errorf("all retries exhausted: %w", lastErr)
}

func (c *OpenAIClient) convertMessages(messages []Message) []openai.ChatCompletionMessage {
	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		converted = append(converted, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return converted
}

func convertResponse(msg openai.ChatCompletionMessage) *Response {
	resp := &Response{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return resp
}

// isRetriableError classifies transient transport failures worth retrying.
func isRetriableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retriable := []string{
		"timeout",
		"connection",
		"rate limit",
		"rate_limit",
		"internal server error",
		"service unavailable",
		"bad gateway",
		"gateway timeout",
	}

	for _, s := range retriable {
		if strings.Contains(errStr, s) {
			return true
		}
	}
	return false
}
