// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Document and chunk persistence
//   - EmbeddingProvider: Maps text to vectors. The deterministic fallback
//     adapter means one is always constructible, even offline.
//   - VectorIndex: In-process ANN over chunk embeddings
//   - LexicalIndex: In-process BM25 over chunk text
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - Normaliser: Turns raw file bytes into a ParsedDocument. Only the
//     ingestion path needs one; the query path never touches it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
