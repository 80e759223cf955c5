package vector

import (
	"context"
	"math"
	"sort"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure IVF implements the interface.
var _ driven.VectorIndex = (*IVF)(nil)

// kmeansIterations bounds centroid refinement. The partitioning only needs
// to be roughly balanced, not optimal.
const kmeansIterations = 8

// IVF is an inverted-file index: vectors are partitioned around k-means
// centroids and a query scans only the `probes` partitions whose centroids
// are closest to it. Recall degrades gracefully as probes shrinks.
type IVF struct {
	dim       int
	centroids [][]float32
	lists     [][]entry
	size      int
}

// DefaultPartitions returns the partition count for a corpus size,
// roughly the square root of n.
func DefaultPartitions(n int) int {
	if n <= 1 {
		return 1
	}
	nlist := int(math.Sqrt(float64(n)))
	if nlist < 1 {
		nlist = 1
	}
	return nlist
}

// NewIVF builds an IVF index with nlist partitions. Seeding is
// deterministic (evenly spaced input vectors), so the same corpus always
// produces the same partitioning.
func NewIVF(vectors [][]float32, ordinals []int, dim, nlist int) (*IVF, error) {
	entries, err := buildEntries(vectors, ordinals, dim)
	if err != nil {
		return nil, err
	}
	if nlist < 1 {
		nlist = DefaultPartitions(len(entries))
	}
	if nlist > len(entries) {
		nlist = len(entries)
	}

	idx := &IVF{dim: dim, size: len(entries)}
	if len(entries) == 0 {
		return idx, nil
	}

	// Deterministic seeding: evenly spaced entries.
	centroids := make([][]float32, nlist)
	for i := range centroids {
		seed := entries[i*len(entries)/nlist].vec
		centroids[i] = append([]float32(nil), seed...)
	}

	assignments := make([]int, len(entries))
	for iter := 0; iter < kmeansIterations; iter++ {
		changed := false
		for i, e := range entries {
			best := nearestCentroid(centroids, e.vec)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centroids; empty partitions keep their previous one.
		sums := make([][]float64, nlist)
		counts := make([]int, nlist)
		for i := range sums {
			sums[i] = make([]float64, dim)
		}
		for i, e := range entries {
			c := assignments[i]
			counts[c]++
			for d, v := range e.vec {
				sums[c][d] += float64(v)
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			mean := make([]float32, dim)
			for d := range mean {
				mean[d] = float32(sums[c][d] / float64(counts[c]))
			}
			centroids[c] = normalise(mean)
		}
	}

	lists := make([][]entry, nlist)
	for i, e := range entries {
		c := assignments[i]
		lists[c] = append(lists[c], e)
	}

	idx.centroids = centroids
	idx.lists = lists
	return idx, nil
}

// nearestCentroid returns the index of the centroid most similar to vec,
// with the lower index winning ties.
func nearestCentroid(centroids [][]float32, vec []float32) int {
	best, bestSim := 0, math.Inf(-1)
	for i, c := range centroids {
		if sim := dot(c, vec); sim > bestSim {
			best, bestSim = i, sim
		}
	}
	return best
}

// Search scans the probes partitions closest to the query.
func (idx *IVF) Search(ctx context.Context, query []float32, k, probes int) ([]driven.VectorHit, error) {
	if k <= 0 || idx.size == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if probes < 1 {
		probes = 1
	}
	if probes > len(idx.lists) {
		probes = len(idx.lists)
	}

	q := normalise(query)

	// Rank partitions by centroid similarity.
	order := make([]int, len(idx.centroids))
	for i := range order {
		order[i] = i
	}
	sims := make([]float64, len(idx.centroids))
	for i, c := range idx.centroids {
		sims[i] = dot(q, c)
	}
	sort.Slice(order, func(i, j int) bool {
		if sims[order[i]] != sims[order[j]] {
			return sims[order[i]] > sims[order[j]]
		}
		return order[i] < order[j]
	})

	var hits []driven.VectorHit
	for _, c := range order[:probes] {
		for _, e := range idx.lists[c] {
			hits = append(hits, driven.VectorHit{Ordinal: e.ordinal, Similarity: dot(q, e.vec)})
		}
	}
	return topK(hits, k), nil
}

// Size returns the number of indexed vectors.
func (idx *IVF) Size() int {
	return idx.size
}

// Partitions returns the number of IVF partitions.
func (idx *IVF) Partitions() int {
	return len(idx.lists)
}
