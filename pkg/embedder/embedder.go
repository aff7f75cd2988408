// Package embedder provides the embedding-model collaborator used for node
// resolution and similarity search.
package embedder

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when the config leaves the model unset.
const DefaultModel = "text-embedding-3-small"

// Client is the embedding interface the engine depends on.
type Client interface {
	// Embed returns a fixed-length float vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds settings for an embedding client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIEmbedder implements Client against any OpenAI-compatible embedding
// endpoint.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an embedding client. An empty APIKey is
// rejected at construction, before any request is attempted.
func NewOpenAIEmbedder(config Config) (*OpenAIEmbedder, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("embedder: api key is required")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.Model,
	}, nil
}

// Embed implements Client.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return resp.Data[0].Embedding, nil
}
