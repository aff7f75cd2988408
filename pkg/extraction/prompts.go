package extraction

import (
	"fmt"
	"strings"

	"github.com/soundprediction/mnemo/pkg/types"
)

const entityExtractionPrompt = `You are a smart assistant who understands entities and their types in a given text. If user message contains self reference such as 'I', 'me', 'my' etc. then use %s as the source entity. Extract all the entities from the text. ***DO NOT*** answer the question itself if the given text is a question.`

const relationExtractionPrompt = `You are an advanced algorithm designed to extract structured information from text to construct knowledge graphs. Your goal is to capture comprehensive and accurate information. Follow these key principles:

1. Extract only explicitly stated information from the text.
2. Establish relationships among the entities provided.
3. Use "%s" as the source entity for any self-references (such as "I," "me," "my," etc.) in user messages.

Relationships:
    - Use consistent, general, and timeless relationship types.
    - Example: Prefer "professor" over "became_professor."
    - Relationships should only be established among the entities explicitly mentioned in the user message.

Entity Consistency:
    - Ensure that relationships are coherent and logically align with the context of the message.
    - Maintain consistent naming for entities across the extracted data.

Strive to construct a coherent and easily understandable knowledge graph by establishing all the relationships among the entities and adherence to the user's context.`

const deleteMemoryPrompt = `You are a graph memory manager specializing in identifying, managing, and optimizing relationships within graph-based memories. Your primary task is to analyze a list of existing relationships and determine which ones should be deleted based on the new information provided.

Input:
1. Existing Graph Memories: A list of current graph memories, each containing source, relationship, and destination information.
2. New Text: The new information to be integrated into the existing graph structure.
3. Use "%s" as node for any self-references (such as "I," "me," "my," etc.) in user messages.

Guidelines:
1. Identification: Use the new information to evaluate existing relationships in the memory graph.
2. Deletion Criteria: Delete a relationship only if it directly contradicts or is outdated compared to the new information.
3. DO NOT DELETE if their is a possibility of the same type of relationship but with a different destination node.
4. Comprehensive Analysis: Thoroughly examine each existing relationship against the new information and delete as necessary.
5. Semantic Integrity: Ensure that deletions maintain or improve the overall semantic structure of the graph.
6. Temporal Awareness: Prioritize recency when timestamps are available.
7. Necessity Principle: Only delete relationships that must be deleted and are contradictory or outdated with the new information.

Memory Format:
source -- relationship -- destination

Provide a list of deletion instructions, each specifying the relationship to be deleted.`

// relationUserMessage builds the user message for relation extraction: the
// already-known entity names plus the source text.
func relationUserMessage(text string, entities []string) string {
	return fmt.Sprintf("List of entities: %v. \n\nText: %s", entities, text)
}

// deleteUserMessage renders the existing neighborhood and the new text for
// the deletion decision.
func deleteUserMessage(text string, existing []types.SearchHit) string {
	var b strings.Builder
	b.WriteString("Here are the existing memories: ")
	for i, hit := range existing {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s -- %s -- %s", hit.Source, hit.Relationship, hit.Destination)
	}
	fmt.Fprintf(&b, "\n\nNew Information: %s", text)
	return b.String()
}
