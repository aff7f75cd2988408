// Package store provides the graph-store boundary the engine persists
// through. All query templates are written in Neo4j-dialect Cypher; the
// FalkorDB provider runs every query through the dialect translator before
// execution, so a single set of templates serves both backends.
package store

import (
	"context"
	"errors"

	"github.com/soundprediction/mnemo/pkg/types"
)

// Provider identifies the graph database dialect behind a store.
type Provider string

const (
	ProviderNeo4j    Provider = "neo4j"
	ProviderFalkorDB Provider = "falkordb"
)

// ErrNoConfig is returned at construction when no store configuration was
// supplied.
var ErrNoConfig = errors.New("store: configuration is required")

// Config holds connection settings for a graph store.
type Config struct {
	Provider Provider `mapstructure:"provider"`
	URI      string   `mapstructure:"uri"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	// Base is the base graph namespace name. On FalkorDB each tenant's
	// state lives in its own graph key "<Base>_<tenantID>".
	Base string `mapstructure:"base"`
	// Database is the Neo4j database all tenants share; Neo4j does not
	// create databases on demand, so tenants are isolated there by the
	// tenant_id property instead of by database. Ignored by FalkorDB.
	Database string `mapstructure:"database"`
}

// GraphStore is the persistence contract the engine depends on. Every
// operation is scoped to a single tenant; no cross-tenant read or write
// path exists.
type GraphStore interface {
	// SearchSimilarNodes returns the tenant's nodes with stored embeddings
	// whose cosine similarity to embedding is at least threshold, ordered
	// by similarity descending. Similarity is rounded to 4 decimal digits
	// before the threshold comparison.
	SearchSimilarNodes(ctx context.Context, tenantID string, embedding []float32, threshold float64, limit int) ([]types.NodeMatch, error)

	// SearchSimilarTriples runs a bidirectional similarity search: for
	// every sufficiently similar node, both its outgoing and incoming
	// edges are returned, unioned, ordered by similarity descending.
	SearchSimilarTriples(ctx context.Context, tenantID string, embedding []float32, threshold float64, limit int) ([]types.SearchHit, error)

	// MergeNode creates the named node if absent, otherwise reuses it,
	// stamping the embedding either way, and returns its identifier. The
	// identifier is only valid within the current call chain.
	MergeNode(ctx context.Context, tenantID, name, entityType string, embedding []float32) (string, error)

	// MergeEdge creates the relType edge between two resolved nodes if
	// absent. Distinct relationship types between the same endpoints are
	// kept as separate edges.
	MergeEdge(ctx context.Context, tenantID, sourceID, destinationID, relType string) error

	// DeleteTriple removes the edge matching the triple exactly on
	// normalized names and relationship label. Deleting a non-existent
	// edge is a no-op.
	DeleteTriple(ctx context.Context, tenantID string, triple types.Triple) error

	// AllTriples returns up to limit of the tenant's triples.
	AllTriples(ctx context.Context, tenantID string, limit int) ([]types.Triple, error)

	// DeleteTenant removes every node, and thereby every attached edge,
	// scoped to the tenant.
	DeleteTenant(ctx context.Context, tenantID string) error

	// Ping verifies the backend is reachable without reading or writing
	// any tenant's data.
	Ping(ctx context.Context) error

	// Close releases the connection. Safe to call when never connected.
	Close(ctx context.Context) error
}
