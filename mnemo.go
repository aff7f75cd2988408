package mnemo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/soundprediction/mnemo/pkg/embedder"
	"github.com/soundprediction/mnemo/pkg/extraction"
	"github.com/soundprediction/mnemo/pkg/llm"
	"github.com/soundprediction/mnemo/pkg/store"
	"github.com/soundprediction/mnemo/pkg/types"
)

// Default thresholds and limits. The merge threshold is deliberately
// higher than the search threshold: node identity wants high precision to
// avoid false unifications, search wants broad semantic recall.
const (
	DefaultMergeThreshold  = 0.9
	DefaultSearchThreshold = 0.7
	DefaultSearchLimit     = 100
	DefaultTopK            = 5
)

// Construction errors.
var (
	ErrNoStore    = errors.New("mnemo: graph store is required")
	ErrNoLLM      = errors.New("mnemo: llm client is required")
	ErrNoEmbedder = errors.New("mnemo: embedder client is required")
)

// Memory is the public operation surface of the graph memory engine.
type Memory interface {
	// Add ingests text for a tenant: extraction, resolution, deletion of
	// contradicted facts, and idempotent persistence of the rest.
	Add(ctx context.Context, text, tenantID string) (*types.AddResult, error)

	// Search answers a natural-language query with the tenant's top
	// re-ranked triples. limit caps the similarity recall stage; zero
	// means DefaultSearchLimit. At most DefaultTopK triples are returned.
	Search(ctx context.Context, query, tenantID string, limit int) ([]types.Triple, error)

	// GetAll returns up to limit of the tenant's triples; zero means
	// DefaultSearchLimit.
	GetAll(ctx context.Context, tenantID string, limit int) ([]types.Triple, error)

	// DeleteAll removes every node and attached edge scoped to the tenant.
	DeleteAll(ctx context.Context, tenantID string) error

	// Ping verifies the graph store is reachable without touching any
	// tenant's data. Suitable for readiness probes.
	Ping(ctx context.Context) error

	// Close releases the graph store connection.
	Close(ctx context.Context) error
}

// Config holds tuning knobs for the engine. The zero value gets defaults.
type Config struct {
	// MergeThreshold is the minimum similarity for treating an extracted
	// entity as an existing node during ingestion.
	MergeThreshold float64
	// SearchThreshold is the minimum similarity for recall during search
	// and neighborhood lookups.
	SearchThreshold float64
	// TopK caps the number of triples returned by Search after re-ranking.
	TopK int
	// CustomPrompt, when set, is appended to the relation-extraction
	// system prompt.
	CustomPrompt string
}

// Client implements Memory.
type Client struct {
	store     store.GraphStore
	extractor *extraction.Extractor
	embedder  embedder.Client
	config    Config
	logger    *slog.Logger
}

var _ Memory = (*Client)(nil)

// NewClient creates the engine. Missing collaborators are rejected here,
// before any connection attempt; the store itself connects lazily on first
// use.
func NewClient(graphStore store.GraphStore, llmClient llm.Client, embedderClient embedder.Client, config *Config, logger *slog.Logger) (*Client, error) {
	if graphStore == nil {
		return nil, ErrNoStore
	}
	if llmClient == nil {
		return nil, ErrNoLLM
	}
	if embedderClient == nil {
		return nil, ErrNoEmbedder
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if cfg.MergeThreshold <= 0 {
		cfg.MergeThreshold = DefaultMergeThreshold
	}
	if cfg.SearchThreshold <= 0 {
		cfg.SearchThreshold = DefaultSearchThreshold
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	return &Client{
		store:     graphStore,
		extractor: extraction.New(llmClient, logger),
		embedder:  embedderClient,
		config:    cfg,
		logger:    logger,
	}, nil
}

// Ping implements Memory.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close implements Memory.
func (c *Client) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}
