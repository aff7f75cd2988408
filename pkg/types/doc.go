// Package types defines the core data types for the mnemo graph memory engine.
//
// This package contains the fundamental types used throughout mnemo:
//   - Entity: An extracted entity name/type pair
//   - Triple: A directed (source, relationship, destination) fact
//   - SearchHit: A similarity-search result carrying node/edge identifiers
//   - NodeMatch: A candidate node returned by embedding similarity search
//   - AddResult: The observability payload returned by an ingestion call
//
// # Normalization
//
// Entity names, entity types, and relationship labels are normalized with
// Normalize (lower-cased, spaces replaced with underscores) before they are
// compared or persisted. Normalized form is the basis for every string
// equality comparison in the engine; node identity itself is resolved by
// embedding similarity, never by string equality.
//
// # Multi-tenancy
//
// Every persisted node and edge carries a tenant identifier. The types in
// this package are tenant-agnostic; the tenant is threaded through the
// store and engine APIs.
package types
