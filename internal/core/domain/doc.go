// Package domain defines the core business entities for Walnut.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TextChunk: An addressable span of a document's cleaned text
//   - DocumentMetadata: The durable per-document ledger record
//   - ChunkInfo: A stored chunk as read back from the vector store
//   - SearchResult: A ranked nearest-neighbour match
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
