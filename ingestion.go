package mnemo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/soundprediction/mnemo/pkg/types"
)

// Add implements Memory. The pipeline is sequential: extract entities,
// extract relations, fetch the existing neighborhood of the extracted
// entities, compute and execute deletions of contradicted facts, then
// merge the new triples. A crash between the deletion and addition phases
// can leave a partially updated graph; the engine claims no cross-phase
// atomicity.
func (c *Client) Add(ctx context.Context, text, tenantID string) (*types.AddResult, error) {
	if tenantID == "" {
		return nil, types.ErrEmptyTenantID
	}
	if text == "" {
		return nil, types.ErrEmptyText
	}

	entityMap, err := c.extractor.ExtractEntities(ctx, text, tenantID)
	if err != nil {
		return nil, err
	}

	triples, err := c.extractor.ExtractRelations(ctx, text, tenantID, entityMap, c.config.CustomPrompt)
	if err != nil {
		return nil, err
	}

	neighborhood, err := c.searchNeighborhood(ctx, tenantID, sortedNames(entityMap), DefaultSearchLimit)
	if err != nil {
		return nil, err
	}

	deletions, err := c.extractor.DeleteDecisions(ctx, text, tenantID, neighborhood)
	if err != nil {
		return nil, err
	}

	deleted := make([]types.Triple, 0, len(deletions))
	for _, triple := range deletions {
		if err := c.store.DeleteTriple(ctx, tenantID, triple); err != nil {
			return nil, fmt.Errorf("deleting %s -[%s]-> %s: %w",
				triple.Source, triple.Relationship, triple.Destination, err)
		}
		deleted = append(deleted, triple)
	}

	added := make([]types.Triple, 0, len(triples))
	for _, triple := range triples {
		if err := c.mergeTriple(ctx, tenantID, triple, entityMap); err != nil {
			return nil, err
		}
		added = append(added, triple)
	}

	c.logger.Info("ingested text",
		slog.String("tenant_id", tenantID),
		slog.Int("entities", len(entityMap)),
		slog.Int("added", len(added)),
		slog.Int("deleted", len(deleted)))

	return &types.AddResult{
		DeletedTriples: deleted,
		AddedTriples:   added,
		AllTriples:     triples,
	}, nil
}

// mergeTriple resolves both endpoints independently against the tenant
// graph and persists the edge. The four source/destination resolution
// combinations all reduce to resolve-or-create per endpoint followed by an
// idempotent edge merge, so re-ingesting the same fact never duplicates an
// edge of the same type between the same resolved endpoints.
func (c *Client) mergeTriple(ctx context.Context, tenantID string, triple types.Triple, entityMap map[string]string) error {
	sourceID, err := c.resolveOrCreate(ctx, tenantID, triple.Source, entityMap)
	if err != nil {
		return err
	}
	destinationID, err := c.resolveOrCreate(ctx, tenantID, triple.Destination, entityMap)
	if err != nil {
		return err
	}
	return c.store.MergeEdge(ctx, tenantID, sourceID, destinationID, triple.Relationship)
}

// resolveOrCreate maps an extracted entity name to a node id: the best
// existing node at the merge threshold when one qualifies, otherwise a
// merged-in node typed by the entity-type map (default "unknown"). The id
// is never cached across calls.
func (c *Client) resolveOrCreate(ctx context.Context, tenantID, name string, entityMap map[string]string) (string, error) {
	embedding, err := c.embedder.Embed(ctx, name)
	if err != nil {
		return "", fmt.Errorf("embedding %q: %w", name, err)
	}

	matches, err := c.store.SearchSimilarNodes(ctx, tenantID, embedding, c.config.MergeThreshold, 1)
	if err != nil {
		return "", err
	}
	if len(matches) > 0 {
		c.logger.Debug("resolved entity to existing node",
			slog.String("tenant_id", tenantID),
			slog.String("entity", name),
			slog.String("node", matches[0].Name),
			slog.Float64("similarity", matches[0].Similarity))
		return matches[0].ID, nil
	}

	entityType, ok := entityMap[name]
	if !ok {
		entityType = types.DefaultEntityType
	}
	return c.store.MergeNode(ctx, tenantID, name, entityType, embedding)
}

// searchNeighborhood accumulates bidirectional similarity hits for each
// candidate name, one candidate at a time, preserving candidate order in
// the result.
func (c *Client) searchNeighborhood(ctx context.Context, tenantID string, names []string, limit int) ([]types.SearchHit, error) {
	var hits []types.SearchHit
	for _, name := range names {
		embedding, err := c.embedder.Embed(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("embedding %q: %w", name, err)
		}

		found, err := c.store.SearchSimilarTriples(ctx, tenantID, embedding, c.config.SearchThreshold, limit)
		if err != nil {
			return nil, err
		}
		hits = append(hits, found...)
	}
	return hits, nil
}

// sortedNames fixes an iteration order for the extracted entity map so
// candidate accumulation, and with it tie-breaking downstream, is
// deterministic.
func sortedNames(entityMap map[string]string) []string {
	names := make([]string, 0, len(entityMap))
	for name := range entityMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
