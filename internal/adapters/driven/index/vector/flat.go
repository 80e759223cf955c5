package vector

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Flat implements the interface.
var _ driven.VectorIndex = (*Flat)(nil)

// Flat is an exact cosine-similarity index: every query scans every vector.
// Correct by construction and fast enough for corpora of tens of thousands
// of chunks.
type Flat struct {
	dim     int
	entries []entry
}

// NewFlat builds an exact index. ordinals maps each vector to the chunk
// ordinal it represents in the engine's snapshot.
func NewFlat(vectors [][]float32, ordinals []int, dim int) (*Flat, error) {
	entries, err := buildEntries(vectors, ordinals, dim)
	if err != nil {
		return nil, err
	}
	return &Flat{dim: dim, entries: entries}, nil
}

// Search scans all vectors. probes is ignored; the scan is exact.
func (f *Flat) Search(ctx context.Context, query []float32, k, _ int) ([]driven.VectorHit, error) {
	if k <= 0 || len(f.entries) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := normalise(query)
	hits := make([]driven.VectorHit, len(f.entries))
	for i, e := range f.entries {
		hits[i] = driven.VectorHit{Ordinal: e.ordinal, Similarity: dot(q, e.vec)}
	}
	return topK(hits, k), nil
}

// Size returns the number of indexed vectors.
func (f *Flat) Size() int {
	return len(f.entries)
}

// Partitions returns 1; the flat index has a single partition.
func (f *Flat) Partitions() int {
	return 1
}
