// Package sqlite provides the SQLite-backed chunk store.
//
// The store is the durable source of truth the retrieval engine rebuilds
// its in-memory snapshot from. Embeddings are persisted as little-endian
// float32 blobs; chunk metadata as JSON. Document replacement is
// transactional so readers never observe a half-replaced document.
package sqlite
