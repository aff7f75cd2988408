package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/mnemo/pkg/llm"
	"github.com/soundprediction/mnemo/pkg/types"
)

// fakeLLM returns canned responses and records the last request.
type fakeLLM struct {
	resp         *llm.Response
	err          error
	lastMessages []llm.Message
	lastTools    []llm.Tool
}

func (f *fakeLLM) Generate(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.Response, error) {
	f.lastMessages = messages
	f.lastTools = tools
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestExtractEntities(t *testing.T) {
	fake := &fakeLLM{resp: &llm.Response{
		ToolCalls: []llm.ToolCall{
			{
				Name:      "extract_entities",
				Arguments: `{"entities": [{"entity": "Alice", "entity_type": "Person"}, {"entity": "Acme Corp", "entity_type": "Company"}]}`,
			},
		},
	}}
	extractor := New(fake, nil)

	entityMap, err := extractor.ExtractEntities(context.Background(), "Alice works at Acme Corp", "alice")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"alice":     "person",
		"acme_corp": "company",
	}, entityMap)
}

func TestExtractEntitiesCollectsAllToolCalls(t *testing.T) {
	fake := &fakeLLM{resp: &llm.Response{
		ToolCalls: []llm.ToolCall{
			{Name: "extract_entities", Arguments: `{"entities": [{"entity": "alice", "entity_type": "person"}]}`},
			{Name: "extract_entities", Arguments: `{"entities": [{"entity": "bob", "entity_type": "person"}]}`},
		},
	}}
	extractor := New(fake, nil)

	entityMap, err := extractor.ExtractEntities(context.Background(), "Alice knows Bob", "u1")
	require.NoError(t, err)
	assert.Len(t, entityMap, 2)
}

func TestExtractEntitiesTenantInPrompt(t *testing.T) {
	fake := &fakeLLM{resp: &llm.Response{}}
	extractor := New(fake, nil)

	_, err := extractor.ExtractEntities(context.Background(), "I love hiking", "tenant-42")
	require.NoError(t, err)

	require.NotEmpty(t, fake.lastMessages)
	assert.Equal(t, llm.RoleSystem, fake.lastMessages[0].Role)
	assert.Contains(t, fake.lastMessages[0].Content, "tenant-42")
}

func TestExtractEntitiesMalformedOutput(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"not json at all", "definitely not json"},
		{"wrong shape", `{"items": [1, 2, 3]}`},
		{"empty arguments", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLM{resp: &llm.Response{
				ToolCalls: []llm.ToolCall{{Name: "extract_entities", Arguments: tt.args}},
			}}
			extractor := New(fake, nil)

			entityMap, err := extractor.ExtractEntities(context.Background(), "text", "u1")
			require.NoError(t, err)
			assert.Empty(t, entityMap)
		})
	}
}

func TestExtractEntitiesRepairsSloppyJSON(t *testing.T) {
	// Trailing comma plus unquoted key, the typical shape of sloppy model
	// output that jsonrepair can recover.
	fake := &fakeLLM{resp: &llm.Response{
		ToolCalls: []llm.ToolCall{
			{Name: "extract_entities", Arguments: `{"entities": [{"entity": "Alice", "entity_type": "Person"},]}`},
		},
	}}
	extractor := New(fake, nil)

	entityMap, err := extractor.ExtractEntities(context.Background(), "text", "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "person"}, entityMap)
}

func TestExtractEntitiesTransportErrorPropagates(t *testing.T) {
	fake := &fakeLLM{err: errors.New("connection refused")}
	extractor := New(fake, nil)

	_, err := extractor.ExtractEntities(context.Background(), "text", "u1")
	require.Error(t, err)
}

func TestExtractRelations(t *testing.T) {
	fake := &fakeLLM{resp: &llm.Response{
		ToolCalls: []llm.ToolCall{
			{
				Name:      "establish_relationships",
				Arguments: `{"entities": [{"source": "Alice", "relationship": "Works At", "destination": "Acme"}]}`,
			},
		},
	}}
	extractor := New(fake, nil)

	triples, err := extractor.ExtractRelations(context.Background(), "Alice works at Acme", "alice", map[string]string{"alice": "person", "acme": "company"}, "")
	require.NoError(t, err)

	require.Len(t, triples, 1)
	assert.Equal(t, types.Triple{Source: "alice", Relationship: "works_at", Destination: "acme"}, triples[0])
}

func TestExtractRelationsOnlyFirstToolCall(t *testing.T) {
	fake := &fakeLLM{resp: &llm.Response{
		ToolCalls: []llm.ToolCall{
			{Name: "establish_relationships", Arguments: `{"entities": [{"source": "a", "relationship": "r", "destination": "b"}]}`},
			{Name: "establish_relationships", Arguments: `{"entities": [{"source": "c", "relationship": "r", "destination": "d"}]}`},
		},
	}}
	extractor := New(fake, nil)

	triples, err := extractor.ExtractRelations(context.Background(), "text", "u1", nil, "")
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "a", triples[0].Source)
}

func TestExtractRelationsNoToolCall(t *testing.T) {
	fake := &fakeLLM{resp: &llm.Response{Content: "I cannot find any relationships."}}
	extractor := New(fake, nil)

	triples, err := extractor.ExtractRelations(context.Background(), "text", "u1", nil, "")
	require.NoError(t, err)
	assert.Empty(t, triples)
}

func TestExtractRelationsCustomPrompt(t *testing.T) {
	fake := &fakeLLM{resp: &llm.Response{}}
	extractor := New(fake, nil)

	_, err := extractor.ExtractRelations(context.Background(), "text", "u1", nil, "Only extract facts about food.")
	require.NoError(t, err)

	require.NotEmpty(t, fake.lastMessages)
	assert.Contains(t, fake.lastMessages[0].Content, "Only extract facts about food.")
}

func TestDeleteDecisions(t *testing.T) {
	fake := &fakeLLM{resp: &llm.Response{
		ToolCalls: []llm.ToolCall{
			{Name: "delete_graph_memory", Arguments: `{"source": "alice", "relationship": "lives_in", "destination": "paris"}`},
		},
	}}
	extractor := New(fake, nil)

	existing := []types.SearchHit{
		{Source: "alice", Relationship: "lives_in", Destination: "paris"},
	}
	triples, err := extractor.DeleteDecisions(context.Background(), "Alice moved to London", "alice", existing)
	require.NoError(t, err)

	require.Len(t, triples, 1)
	assert.Equal(t, types.Triple{Source: "alice", Relationship: "lives_in", Destination: "paris"}, triples[0])
}

func TestDeleteDecisionsEmptyNeighborhood(t *testing.T) {
	fake := &fakeLLM{}
	extractor := New(fake, nil)

	triples, err := extractor.DeleteDecisions(context.Background(), "text", "u1", nil)
	require.NoError(t, err)
	assert.Empty(t, triples)
	// No neighborhood, no model round trip.
	assert.Nil(t, fake.lastMessages)
}
