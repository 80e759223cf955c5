package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// RetrievalService answers queries against the current index snapshot.
type RetrievalService interface {
	// Search returns the best-matching, filtered, deduplicated chunks
	// ranked by fused score. An empty corpus or a filter that excludes
	// everything yields an empty list and a nil error. Before the first
	// snapshot is built it returns domain.ErrIndexNotReady.
	Search(ctx context.Context, query domain.RetrievalQuery) ([]domain.SearchResult, error)

	// RebuildIndex constructs a fresh snapshot over the given chunks and
	// swaps it in atomically. In-flight queries keep the previous snapshot.
	RebuildIndex(ctx context.Context, chunks []domain.Chunk) error

	// Ready reports whether a snapshot is available to serve queries.
	Ready() bool
}

// ConfidenceEstimator reduces a ranked result list (plus an optional
// generation-quality heuristic) to one scalar in [0,1] that gates escalation.
// Pure: no I/O.
type ConfidenceEstimator interface {
	// Estimate returns the confidence for the results. heuristic may be
	// nil when no generation-quality signal is available.
	Estimate(results []domain.SearchResult, heuristic *float64) float64

	// ShouldEscalate reports whether the confidence falls below the
	// configured escalation threshold.
	ShouldEscalate(confidence float64) bool
}
