package extraction

import "github.com/soundprediction/mnemo/pkg/llm"

// extractEntitiesTool is the structured-output schema for entity
// extraction: zero or more {entity, entity_type} pairs.
var extractEntitiesTool = llm.Tool{
	Name:        "extract_entities",
	Description: "Extract entities and their types from the text.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"entities": map[string]any{
				"type":        "array",
				"description": "An array of entities with their types.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"entity": map[string]any{
							"type":        "string",
							"description": "The name or identifier of the entity.",
						},
						"entity_type": map[string]any{
							"type":        "string",
							"description": "The type or category of the entity.",
						},
					},
					"required": []string{"entity", "entity_type"},
				},
			},
		},
		"required": []string{"entities"},
	},
}

// establishRelationsTool is the structured-output schema for relationship
// extraction: zero or more (source, relationship, destination) triples.
var establishRelationsTool = llm.Tool{
	Name:        "establish_relationships",
	Description: "Establish relationships among the entities based on the provided text.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"entities": map[string]any{
				"type":        "array",
				"description": "An array of relationship triples.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"source": map[string]any{
							"type":        "string",
							"description": "The source entity of the relationship.",
						},
						"relationship": map[string]any{
							"type":        "string",
							"description": "The relationship between the source and destination entities.",
						},
						"destination": map[string]any{
							"type":        "string",
							"description": "The destination entity of the relationship.",
						},
					},
					"required": []string{"source", "relationship", "destination"},
				},
			},
		},
		"required": []string{"entities"},
	},
}

// deleteMemoryTool is the structured-output schema for deletion decisions.
var deleteMemoryTool = llm.Tool{
	Name:        "delete_graph_memory",
	Description: "Delete the relationship between two nodes. This function deletes the relationship between the source and destination nodes.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"source": map[string]any{
				"type":        "string",
				"description": "The identifier of the source node in the relationship.",
			},
			"relationship": map[string]any{
				"type":        "string",
				"description": "The existing relationship between the source and destination nodes that needs to be deleted.",
			},
			"destination": map[string]any{
				"type":        "string",
				"description": "The identifier of the destination node in the relationship.",
			},
		},
		"required": []string{"source", "relationship", "destination"},
	},
}
