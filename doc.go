// Package mnemo provides a per-tenant graph memory engine for Go.
//
// Mnemo builds a knowledge graph incrementally from unstructured text: it
// extracts entities and relationships with an LLM, deduplicates them
// against the existing graph by embedding similarity, merges or deletes
// edges according to semantic-conflict decisions, and answers
// natural-language queries by combining vector similarity recall with a
// BM25 lexical re-ranking pass.
//
// # Basic Usage
//
// Create a client with its three collaborators:
//
//	graphStore, err := store.NewBoltStore(&store.Config{
//		Provider: store.ProviderNeo4j,
//		URI:      "bolt://localhost:7687",
//		Username: "neo4j",
//		Password: "password",
//	}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	llmClient, err := llm.NewOpenAIClient(llm.Config{APIKey: apiKey}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	embedderClient, err := embedder.NewOpenAIEmbedder(embedder.Config{APIKey: apiKey})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := mnemo.NewClient(graphStore, llmClient, embedderClient, nil, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
// # Ingestion
//
// Add processes a statement for a tenant and returns what changed:
//
//	result, err := client.Add(ctx, "Alice works at Acme and loves hiking", "alice")
//
// # Search
//
// Search returns the top re-ranked triples for a natural-language query:
//
//	triples, err := client.Search(ctx, "Where does Alice work?", "alice", 0)
//
// # Backends
//
// The engine runs unmodified against Neo4j and FalkorDB: query templates
// are written once in Neo4j-dialect Cypher and the FalkorDB provider
// rewrites them through pkg/translate before execution.
//
// # Multi-tenancy
//
// Every node and edge carries the tenant identifier and all operations
// filter by it; tenants cannot observe each other's graphs.
package mnemo
