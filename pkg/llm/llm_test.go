package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	resp  *Response
	err   error
	calls int
}

func (s *stubClient) Generate(ctx context.Context, messages []Message, tools []Tool) (*Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestNewOpenAIClientRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient(Config{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	client, err := NewOpenAIClient(Config{APIKey: "test-key"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.config.Model)
}

func TestIsRetriableError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retriable bool
	}{
		{"timeout", errors.New("request timeout"), true},
		{"rate limit", errors.New("429 rate limit exceeded"), true},
		{"bad gateway", errors.New("502 Bad Gateway"), true},
		{"invalid api key", errors.New("401 invalid api key"), false},
		{"bad request", errors.New("400 bad request"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retriable, isRetriableError(tt.err))
		})
	}
}

func TestBreakerPassesThrough(t *testing.T) {
	stub := &stubClient{resp: &Response{Content: "ok"}}
	breaker := NewBreakerClient(stub, BreakerConfig{}, nil)

	resp, err := breaker.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 1, stub.calls)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	stub := &stubClient{err: errors.New("boom")}
	breaker := NewBreakerClient(stub, BreakerConfig{Timeout: 60, ReadyToTripRatio: 0.5}, nil)

	for i := 0; i < 5; i++ {
		_, err := breaker.Generate(context.Background(), nil, nil)
		require.Error(t, err)
	}

	// Once open, calls fail fast without reaching the wrapped client.
	callsBefore := stub.calls
	_, err := breaker.Generate(context.Background(), nil, nil)
	require.Error(t, err)
	assert.Equal(t, callsBefore, stub.calls)
}
