// Package vector provides in-process similarity indexes over chunk
// embeddings: an exact flat scan and an IVF backend that partitions vectors
// and probes a subset of partitions per query.
//
// Both are immutable snapshots built per corpus load; cosine similarity is
// computed as a dot product over L2-normalised copies of the input vectors.
package vector

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// entry pairs a normalised vector with the chunk ordinal it represents.
type entry struct {
	ordinal int
	vec     []float32
}

// normalise returns an L2-normalised copy of the vector.
func normalise(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	out := make([]float32, len(vec))
	if norm == 0 {
		return out
	}
	inv := 1.0 / math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(float64(v) * inv)
	}
	return out
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// buildEntries validates dimensions and normalises the inputs.
// A vector whose length differs from dim is an invariant violation, not
// something to skip silently.
func buildEntries(vectors [][]float32, ordinals []int, dim int) ([]entry, error) {
	if len(vectors) != len(ordinals) {
		return nil, fmt.Errorf("vector: %w: %d vectors for %d ordinals",
			domain.ErrInvalidInput, len(vectors), len(ordinals))
	}
	entries := make([]entry, len(vectors))
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("vector: %w: vector %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, ordinals[i], len(vec), dim)
		}
		entries[i] = entry{ordinal: ordinals[i], vec: normalise(vec)}
	}
	return entries, nil
}

// topK sorts hits by descending similarity with the ordinal as a
// deterministic tie-break, then truncates.
func topK(hits []driven.VectorHit, k int) []driven.VectorHit {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Ordinal < hits[j].Ordinal
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
