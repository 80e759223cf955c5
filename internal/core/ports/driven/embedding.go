package driven

import "context"

// EmbeddingProvider maps text to fixed-dimension float vectors.
//
// Two adapters exist behind this interface: a batched remote API client and
// a deterministic offline fallback (hash-based bag-of-tokens projection).
// The failover adapter composes the two so that a remote failure substitutes
// the fallback for that batch instead of surfacing an error.
type EmbeddingProvider interface {
	// EmbedBatch generates embeddings for multiple texts. The result is
	// index-aligned with the input. Empty input returns an empty result,
	// not an error.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size. Must match the
	// persisted vectors or the engine refuses to load.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Fallback reports whether vectors come from the deterministic
	// fallback geometry. The fusion alpha trusts lexical signal more
	// when this is true.
	Fallback() bool

	// Close releases resources.
	Close() error
}
