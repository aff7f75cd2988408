package mnemo

import (
	"context"
	"log/slog"

	"github.com/soundprediction/mnemo/pkg/rank"
	"github.com/soundprediction/mnemo/pkg/types"
)

// Search implements Memory. Two stages: embedding similarity recall over
// the tenant's graph neighborhood of the query's entities, then a BM25
// re-rank of the recalled triples as 3-token documents against the
// whitespace-split query.
func (c *Client) Search(ctx context.Context, query, tenantID string, limit int) ([]types.Triple, error) {
	if tenantID == "" {
		return nil, types.ErrEmptyTenantID
	}
	if query == "" {
		return nil, types.ErrEmptyText
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	entityMap, err := c.extractor.ExtractEntities(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}

	hits, err := c.searchNeighborhood(ctx, tenantID, sortedNames(entityMap), limit)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	docs := make([][]string, len(hits))
	for i, hit := range hits {
		docs[i] = []string{hit.Source, hit.Relationship, hit.Destination}
	}

	ranked := rank.BM25(docs, query)
	if len(ranked) > c.config.TopK {
		ranked = ranked[:c.config.TopK]
	}

	triples := make([]types.Triple, len(ranked))
	for i, doc := range ranked {
		triples[i] = types.Triple{Source: doc[0], Relationship: doc[1], Destination: doc[2]}
	}

	c.logger.Debug("search complete",
		slog.String("tenant_id", tenantID),
		slog.Int("recalled", len(hits)),
		slog.Int("returned", len(triples)))

	return triples, nil
}

// GetAll implements Memory.
func (c *Client) GetAll(ctx context.Context, tenantID string, limit int) ([]types.Triple, error) {
	if tenantID == "" {
		return nil, types.ErrEmptyTenantID
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return c.store.AllTriples(ctx, tenantID, limit)
}

// DeleteAll implements Memory.
func (c *Client) DeleteAll(ctx context.Context, tenantID string) error {
	if tenantID == "" {
		return types.ErrEmptyTenantID
	}
	return c.store.DeleteTenant(ctx, tenantID)
}
