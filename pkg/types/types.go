package types

import (
	"errors"
	"strings"
	"time"
)

// Validation errors
var (
	ErrEmptyTenantID = errors.New("tenant_id cannot be empty")
	ErrEmptyText     = errors.New("text cannot be empty")
)

// DefaultEntityType is used when extraction produced a relationship endpoint
// without a corresponding entry in the entity-type map.
const DefaultEntityType = "unknown"

// Entity is an extracted entity name/type pair. Both fields are stored in
// normalized form.
type Entity struct {
	Name string `json:"entity"`
	Type string `json:"entity_type"`
}

// Triple is a directed (source, relationship, destination) fact. All three
// fields are stored in normalized form. Triples are not unique: multiple
// triples may share endpoints under different relationship labels.
type Triple struct {
	Source       string `json:"source"`
	Relationship string `json:"relationship"`
	Destination  string `json:"destination"`
}

// NodeMatch is a candidate node returned by embedding similarity search
// during resolution. The ID is only valid for the lifetime of the query
// response; the engine never caches node identity across calls.
type NodeMatch struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// SearchHit is a transient record returned by bidirectional similarity
// search over a tenant's graph neighborhood.
type SearchHit struct {
	Source        string  `json:"source"`
	SourceID      string  `json:"source_id"`
	Relationship  string  `json:"relationship"`
	RelationID    string  `json:"relation_id"`
	Destination   string  `json:"destination"`
	DestinationID string  `json:"destination_id"`
	Similarity    float64 `json:"similarity"`
}

// Triple converts a hit to its bare triple form.
func (h SearchHit) Triple() Triple {
	return Triple{Source: h.Source, Relationship: h.Relationship, Destination: h.Destination}
}

// AddResult is returned by an ingestion call for observability: which
// triples were deleted as contradicted, which were persisted, and the full
// list the extractor proposed.
type AddResult struct {
	DeletedTriples []Triple `json:"deleted_entities"`
	AddedTriples   []Triple `json:"added_entities"`
	AllTriples     []Triple `json:"relations"`
}

// GraphNode is the persisted node shape owned by the graph store.
type GraphNode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	TenantID  string    `json:"tenant_id"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GraphEdge is the persisted edge shape owned by the graph store.
type GraphEdge struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	SourceID      string    `json:"source_id"`
	DestinationID string    `json:"destination_id"`
	TenantID      string    `json:"tenant_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Normalize lower-cases a name and replaces spaces with underscores. It is
// applied to every entity name, entity type, and relationship label before
// comparison or persistence.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// NormalizeTriple returns a copy of t with all three fields normalized.
func NormalizeTriple(t Triple) Triple {
	return Triple{
		Source:       Normalize(t.Source),
		Relationship: Normalize(t.Relationship),
		Destination:  Normalize(t.Destination),
	}
}
