// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - Extractor: Pulls text (and page spans) out of raw file bytes
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Keyed vector storage with nearest-neighbour query
//   - MetadataLedger: Durable per-document metadata persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
