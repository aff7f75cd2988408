package store

// Query templates shared by both providers, written in Neo4j-dialect
// Cypher. The FalkorDB provider pipes them through translate.Translate
// before execution: elementId() becomes id(), the round() precision
// argument is dropped, and the apoc.merge.relationship call becomes a
// direct MERGE.

// similarityClause computes rounded cosine similarity between each stored
// embedding and $embedding.
const similarityClause = `
	MATCH (n {tenant_id: $tenant_id})
	WHERE n.embedding IS NOT NULL
	WITH n,
		round(
			reduce(dot = 0.0, i IN range(0, size(n.embedding)-1) | dot + n.embedding[i] * $embedding[i]) /
			(sqrt(reduce(l2 = 0.0, i IN range(0, size(n.embedding)-1) | l2 + n.embedding[i] * n.embedding[i])) *
			sqrt(reduce(l2 = 0.0, i IN range(0, size($embedding)-1) | l2 + $embedding[i] * $embedding[i]))), 4) AS similarity
	WHERE similarity >= $threshold`

const searchSimilarNodesQuery = similarityClause + `
	RETURN elementId(n) AS id, n.name AS name, similarity
	ORDER BY similarity DESC
	LIMIT $limit`

const searchSimilarTriplesQuery = similarityClause + `
	CALL {
		WITH n
		MATCH (n)-[r]->(m {tenant_id: $tenant_id})
		RETURN n.name AS source, elementId(n) AS source_id,
			type(r) AS relationship, elementId(r) AS relation_id,
			m.name AS destination, elementId(m) AS destination_id
		UNION
		WITH n
		MATCH (m {tenant_id: $tenant_id})-[r]->(n)
		RETURN m.name AS source, elementId(m) AS source_id,
			type(r) AS relationship, elementId(r) AS relation_id,
			n.name AS destination, elementId(n) AS destination_id
	}
	RETURN DISTINCT source, source_id, relationship, relation_id, destination, destination_id, similarity
	ORDER BY similarity DESC
	LIMIT $limit`

// mergeNodeQuery receives its node label via fmt.Sprintf: Cypher has no
// parameterized labels. Labels come from the normalizer, so they are safe
// inside backticks.
// Nodes also get a stable uuid on creation; elementId() values are not
// portable across backends or restarts.
const mergeNodeQuery = "MERGE (n:`%s` {name: $name, tenant_id: $tenant_id})" + `
	ON CREATE SET n.created_at = timestamp(), n.uuid = $uuid
	SET n.embedding = $embedding
	RETURN elementId(n) AS id`

const mergeEdgeQuery = `
	MATCH (source) WHERE elementId(source) = $source_id
	MATCH (destination) WHERE elementId(destination) = $destination_id
	CALL apoc.merge.relationship(source, $rel_type, {}, {created_at: timestamp(), updated_at: timestamp(), tenant_id: $tenant_id}, destination, {})
	YIELD rel
	RETURN rel`

const deleteTripleQuery = `
	MATCH (s {name: $source, tenant_id: $tenant_id})-[r]->(d {name: $destination, tenant_id: $tenant_id})
	WHERE type(r) = $relationship
	DELETE r`

const allTriplesQuery = `
	MATCH (n {tenant_id: $tenant_id})-[r]->(m {tenant_id: $tenant_id})
	RETURN n.name AS source, type(r) AS relationship, m.name AS target
	LIMIT $limit`

const deleteTenantQuery = `
	MATCH (n {tenant_id: $tenant_id})
	DETACH DELETE n`
