package driven

import "context"

// VectorIndex provides similarity search over chunk embeddings.
//
// Implementations are immutable after construction: the engine builds a new
// index per snapshot and swaps it in atomically, so Search may be called
// concurrently without locking.
type VectorIndex interface {
	// Search finds the k nearest neighbours to the query vector by cosine
	// similarity. probes controls how many partitions an IVF-style backend
	// scans; exact backends ignore it. Results are ordered by descending
	// similarity with deterministic tie-breaks.
	Search(ctx context.Context, query []float32, k, probes int) ([]VectorHit, error)

	// Size returns the number of indexed vectors.
	Size() int

	// Partitions returns the number of index partitions (1 for exact
	// backends). The probe planner scales against this.
	Partitions() int
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Ordinal is the index of the chunk in the snapshot's chunk slice.
	Ordinal int

	// Similarity is the cosine similarity in [-1, 1].
	Similarity float64
}
