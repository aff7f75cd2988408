package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/soundprediction/mnemo/pkg/translate"
	"github.com/soundprediction/mnemo/pkg/types"
)

// DefaultBase is the graph namespace base name when the config leaves it
// unset.
const DefaultBase = "mnemo"

// DefaultDatabase is the Neo4j database name when the config leaves it
// unset.
const DefaultDatabase = "neo4j"

// BoltStore implements GraphStore over the Bolt protocol. Both Neo4j and
// FalkorDB are served by the same client; for FalkorDB every query is
// rewritten by the dialect translator before execution.
type BoltStore struct {
	config Config
	logger *slog.Logger

	connectOnce sync.Once
	connectErr  error
	client      neo4j.DriverWithContext
}

// NewBoltStore validates the configuration and returns an unconnected
// store. The connection is established lazily on first use.
func NewBoltStore(config *Config, logger *slog.Logger) (*BoltStore, error) {
	if config == nil {
		return nil, ErrNoConfig
	}
	if config.URI == "" {
		return nil, fmt.Errorf("store: uri is required")
	}
	if config.Provider == "" {
		config.Provider = ProviderNeo4j
	}
	if config.Base == "" {
		config.Base = DefaultBase
	}
	if config.Database == "" {
		config.Database = DefaultDatabase
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BoltStore{config: *config, logger: logger}, nil
}

// connect establishes the underlying connection exactly once; repeated and
// concurrent calls are no-ops after (or during) the first.
func (s *BoltStore) connect(ctx context.Context) error {
	s.connectOnce.Do(func() {
		client, err := neo4j.NewDriverWithContext(s.config.URI,
			neo4j.BasicAuth(s.config.Username, s.config.Password, ""))
		if err != nil {
			s.connectErr = fmt.Errorf("failed to create bolt driver: %w", err)
			return
		}
		if err := client.VerifyConnectivity(ctx); err != nil {
			s.connectErr = fmt.Errorf("failed to connect to %s: %w", s.config.URI, err)
			return
		}
		s.client = client
		s.logger.Debug("graph store connected",
			slog.String("provider", string(s.config.Provider)),
			slog.String("uri", s.config.URI))
	})
	return s.connectErr
}

// databaseName returns the database a tenant's queries run in. FalkorDB
// keys a graph per tenant and creates it on first write; Neo4j does not
// create databases on demand, so all tenants share one fixed database and
// isolation comes from the tenant_id property on every node and query.
func (s *BoltStore) databaseName(tenantID string) string {
	if s.config.Provider == ProviderFalkorDB {
		return fmt.Sprintf("%s_%s", s.config.Base, tenantID)
	}
	return s.config.Database
}

func (s *BoltStore) sessionConfig(tenantID string, access neo4j.AccessMode) neo4j.SessionConfig {
	return neo4j.SessionConfig{
		DatabaseName: s.databaseName(tenantID),
		AccessMode:   access,
	}
}

func (s *BoltStore) runRead(ctx context.Context, tenantID, query string, params map[string]any) ([]*db.Record, error) {
	return s.run(ctx, tenantID, query, params, neo4j.AccessModeRead)
}

func (s *BoltStore) runWrite(ctx context.Context, tenantID, query string, params map[string]any) ([]*db.Record, error) {
	return s.run(ctx, tenantID, query, params, neo4j.AccessModeWrite)
}

// run executes a query in the tenant's database and returns the collected
// records. A failure wraps both the underlying error and the executed
// query text.
func (s *BoltStore) run(ctx context.Context, tenantID, query string, params map[string]any, access neo4j.AccessMode) ([]*db.Record, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	if s.config.Provider == ProviderFalkorDB {
		query, params = translate.Translate(query, params)
	}

	session := s.client.NewSession(ctx, s.sessionConfig(tenantID, access))
	defer session.Close(ctx)

	execute := session.ExecuteWrite
	if access == neo4j.AccessModeRead {
		execute = session.ExecuteRead
	}
	result, err := execute(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("query failed: %w (query: %s)", err, query)
	}

	return result.([]*db.Record), nil
}

// SearchSimilarNodes implements GraphStore.
func (s *BoltStore) SearchSimilarNodes(ctx context.Context, tenantID string, embedding []float32, threshold float64, limit int) ([]types.NodeMatch, error) {
	records, err := s.runRead(ctx, tenantID, searchSimilarNodesQuery, map[string]any{
		"tenant_id": tenantID,
		"embedding": toFloat64(embedding),
		"threshold": threshold,
		"limit":     limit,
	})
	if err != nil {
		return nil, err
	}

	matches := make([]types.NodeMatch, 0, len(records))
	for _, record := range records {
		matches = append(matches, types.NodeMatch{
			ID:         recordID(record, "id"),
			Name:       recordString(record, "name"),
			Similarity: recordFloat(record, "similarity"),
		})
	}
	return matches, nil
}

// SearchSimilarTriples implements GraphStore.
func (s *BoltStore) SearchSimilarTriples(ctx context.Context, tenantID string, embedding []float32, threshold float64, limit int) ([]types.SearchHit, error) {
	records, err := s.runRead(ctx, tenantID, searchSimilarTriplesQuery, map[string]any{
		"tenant_id": tenantID,
		"embedding": toFloat64(embedding),
		"threshold": threshold,
		"limit":     limit,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]types.SearchHit, 0, len(records))
	for _, record := range records {
		hits = append(hits, types.SearchHit{
			Source:        recordString(record, "source"),
			SourceID:      recordID(record, "source_id"),
			Relationship:  recordString(record, "relationship"),
			RelationID:    recordID(record, "relation_id"),
			Destination:   recordString(record, "destination"),
			DestinationID: recordID(record, "destination_id"),
			Similarity:    recordFloat(record, "similarity"),
		})
	}
	return hits, nil
}

// MergeNode implements GraphStore.
func (s *BoltStore) MergeNode(ctx context.Context, tenantID, name, entityType string, embedding []float32) (string, error) {
	if entityType == "" {
		entityType = types.DefaultEntityType
	}

	query := fmt.Sprintf(mergeNodeQuery, entityType)
	records, err := s.runWrite(ctx, tenantID, query, map[string]any{
		"name":      name,
		"tenant_id": tenantID,
		"embedding": toFloat64(embedding),
		"uuid":      uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", fmt.Errorf("merge of node %q returned no identifier", name)
	}
	return recordID(records[0], "id"), nil
}

// MergeEdge implements GraphStore.
func (s *BoltStore) MergeEdge(ctx context.Context, tenantID, sourceID, destinationID, relType string) error {
	_, err := s.runWrite(ctx, tenantID, mergeEdgeQuery, map[string]any{
		"source_id":      s.idParam(sourceID),
		"destination_id": s.idParam(destinationID),
		"rel_type":       relType,
		"tenant_id":      tenantID,
	})
	return err
}

// DeleteTriple implements GraphStore.
func (s *BoltStore) DeleteTriple(ctx context.Context, tenantID string, triple types.Triple) error {
	_, err := s.runWrite(ctx, tenantID, deleteTripleQuery, map[string]any{
		"source":       triple.Source,
		"destination":  triple.Destination,
		"relationship": triple.Relationship,
		"tenant_id":    tenantID,
	})
	return err
}

// AllTriples implements GraphStore.
func (s *BoltStore) AllTriples(ctx context.Context, tenantID string, limit int) ([]types.Triple, error) {
	records, err := s.runRead(ctx, tenantID, allTriplesQuery, map[string]any{
		"tenant_id": tenantID,
		"limit":     limit,
	})
	if err != nil {
		return nil, err
	}

	triples := make([]types.Triple, 0, len(records))
	for _, record := range records {
		triples = append(triples, types.Triple{
			Source:       recordString(record, "source"),
			Relationship: recordString(record, "relationship"),
			Destination:  recordString(record, "target"),
		})
	}
	return triples, nil
}

// DeleteTenant implements GraphStore.
func (s *BoltStore) DeleteTenant(ctx context.Context, tenantID string) error {
	_, err := s.runWrite(ctx, tenantID, deleteTenantQuery, map[string]any{
		"tenant_id": tenantID,
	})
	return err
}

// Ping implements GraphStore. It forces the lazy connection if needed and
// verifies the backend still answers, without touching any tenant's data.
func (s *BoltStore) Ping(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return err
	}
	return s.client.VerifyConnectivity(ctx)
}

// Close implements GraphStore. Calling it on a store that never connected
// is a no-op.
func (s *BoltStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Close(ctx)
}

// idParam converts an opaque identifier back into the value the backend
// compares against: FalkorDB's id() yields integers, Neo4j's elementId()
// yields strings.
func (s *BoltStore) idParam(id string) any {
	if s.config.Provider == ProviderFalkorDB {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			return n
		}
	}
	return id
}

// toFloat64 widens an embedding for the Bolt wire format, which has no
// 32-bit float list type.
func toFloat64(embedding []float32) []float64 {
	out := make([]float64, len(embedding))
	for i, v := range embedding {
		out[i] = float64(v)
	}
	return out
}

func recordString(record *db.Record, key string) string {
	value, found := record.Get(key)
	if !found {
		return ""
	}
	s, _ := value.(string)
	return s
}

// recordID formats a node or relationship identifier as an opaque string
// regardless of the backend's native id type.
func recordID(record *db.Record, key string) string {
	value, found := record.Get(key)
	if !found {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func recordFloat(record *db.Record, key string) float64 {
	value, found := record.Get(key)
	if !found {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}
