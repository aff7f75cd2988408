// Package extraction turns unstructured text into typed entity and
// relationship records by way of LLM tool calls. Malformed structured
// output is never surfaced to the caller: after a jsonrepair pass, anything
// still unparsable degrades to zero extracted items, on the premise that
// partial knowledge extraction beats blocking ingestion.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	"github.com/soundprediction/mnemo/pkg/llm"
	"github.com/soundprediction/mnemo/pkg/types"
)

// Extractor wraps the chat-completion collaborator and parses its
// structured tool-call output into typed records.
type Extractor struct {
	llm    llm.Client
	logger *slog.Logger
}

// New creates an Extractor.
func New(client llm.Client, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{llm: client, logger: logger}
}

// entityPayload is the argument shape of the entity and relation tools.
type entityPayload struct {
	Entities []json.RawMessage `json:"entities"`
}

// ExtractEntities extracts a normalized entityName -> entityType mapping
// from text. Self-references in the text resolve to tenantID. Transport
// failures propagate; parse failures yield an empty map.
func (e *Extractor) ExtractEntities(ctx context.Context, text, tenantID string) (map[string]string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(entityExtractionPrompt, tenantID)},
		{Role: llm.RoleUser, Content: text},
	}

	resp, err := e.llm.Generate(ctx, messages, []llm.Tool{extractEntitiesTool})
	if err != nil {
		return nil, fmt.Errorf("entity extraction failed: %w", err)
	}

	entityMap := make(map[string]string)
	for _, call := range resp.ToolCalls {
		payload, ok := parseArguments[entityPayload](e.logger, call)
		if !ok {
			continue
		}
		for _, raw := range payload.Entities {
			var entity types.Entity
			if err := json.Unmarshal(raw, &entity); err != nil {
				e.logger.Warn("skipping malformed entity", slog.String("error", err.Error()))
				continue
			}
			if entity.Name == "" {
				continue
			}
			entityMap[types.Normalize(entity.Name)] = types.Normalize(entity.Type)
		}
	}

	if len(entityMap) == 0 {
		e.logger.Debug("no entities extracted", slog.String("tenant_id", tenantID))
	}
	return entityMap, nil
}

// ExtractRelations extracts normalized relationship triples from text,
// given the already-known entity names. customPrompt, when non-empty, is
// appended to the system prompt. Only the first tool call of the response
// is parsed; an absent tool call yields an empty slice.
func (e *Extractor) ExtractRelations(ctx context.Context, text, tenantID string, entityMap map[string]string, customPrompt string) ([]types.Triple, error) {
	systemPrompt := fmt.Sprintf(relationExtractionPrompt, tenantID)
	if customPrompt != "" {
		systemPrompt += "\n" + customPrompt
	}

	names := make([]string, 0, len(entityMap))
	for name := range entityMap {
		names = append(names, name)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: relationUserMessage(text, names)},
	}

	resp, err := e.llm.Generate(ctx, messages, []llm.Tool{establishRelationsTool})
	if err != nil {
		return nil, fmt.Errorf("relation extraction failed: %w", err)
	}

	if len(resp.ToolCalls) == 0 {
		return nil, nil
	}

	payload, ok := parseArguments[entityPayload](e.logger, resp.ToolCalls[0])
	if !ok {
		return nil, nil
	}

	var triples []types.Triple
	for _, raw := range payload.Entities {
		var triple types.Triple
		if err := json.Unmarshal(raw, &triple); err != nil {
			e.logger.Warn("skipping malformed triple", slog.String("error", err.Error()))
			continue
		}
		if triple.Source == "" || triple.Relationship == "" || triple.Destination == "" {
			continue
		}
		triples = append(triples, types.NormalizeTriple(triple))
	}
	return triples, nil
}

// DeleteDecisions asks the model which triples in the tenant's existing
// graph neighborhood are contradicted or superseded by text. The policy is
// conservative: additional but non-conflicting facts are not deleted. Every
// tool call of the response contributes decisions.
func (e *Extractor) DeleteDecisions(ctx context.Context, text, tenantID string, existing []types.SearchHit) ([]types.Triple, error) {
	if len(existing) == 0 {
		return nil, nil
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(deleteMemoryPrompt, tenantID)},
		{Role: llm.RoleUser, Content: deleteUserMessage(text, existing)},
	}

	resp, err := e.llm.Generate(ctx, messages, []llm.Tool{deleteMemoryTool})
	if err != nil {
		return nil, fmt.Errorf("deletion decision failed: %w", err)
	}

	var triples []types.Triple
	for _, call := range resp.ToolCalls {
		triple, ok := parseArguments[types.Triple](e.logger, call)
		if !ok {
			continue
		}
		if triple.Source == "" || triple.Relationship == "" || triple.Destination == "" {
			continue
		}
		triples = append(triples, types.NormalizeTriple(triple))
	}
	return triples, nil
}

// parseArguments unmarshals a tool call's JSON-encoded argument string,
// running it through jsonrepair when strict parsing fails. The boolean is
// the tagged parse outcome: false means the payload stays unusable after
// repair and contributes zero items.
func parseArguments[T any](logger *slog.Logger, call llm.ToolCall) (T, bool) {
	var parsed T
	if err := json.Unmarshal([]byte(call.Arguments), &parsed); err == nil {
		return parsed, true
	}

	repaired, err := jsonrepair.JSONRepair(call.Arguments)
	if err == nil {
		if err := json.Unmarshal([]byte(repaired), &parsed); err == nil {
			return parsed, true
		}
	}

	logger.Warn("discarding unparsable tool call arguments",
		slog.String("tool", call.Name))
	var zero T
	return zero, false
}
