package services

import (
	"math"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure ConfidenceService implements the interface.
var _ driving.ConfidenceEstimator = (*ConfidenceService)(nil)

// confidenceTopK caps how many top results feed the estimate, independent
// of the configured context size.
const confidenceTopK = 5

// Heuristic blend weights. A strong generation signal is trusted more than
// retrieval alone, so the weights flip above the strong threshold.
const (
	strongHeuristic     = 0.80
	retrievalWeight     = 0.6
	heuristicWeight     = 0.4
	retrievalWeightWeak = 0.2
	heuristicWeightHigh = 0.8
)

// ConfidenceService reduces a ranked result list to one scalar in [0,1]
// that gates escalation. Pure: no I/O, fully determined by its inputs.
type ConfidenceService struct {
	settings domain.ConfidenceSettings
}

// NewConfidenceService creates a confidence estimator.
func NewConfidenceService(settings domain.ConfidenceSettings) *ConfidenceService {
	if settings.MaxContextChunks <= 0 {
		settings.MaxContextChunks = confidenceTopK
	}
	return &ConfidenceService{settings: settings}
}

// Estimate returns the confidence for the results, optionally blended with
// a generation-quality heuristic. The result is clamped to [0,1] and
// rounded to two decimals.
func (s *ConfidenceService) Estimate(results []domain.SearchResult, heuristic *float64) float64 {
	k := confidenceTopK
	if s.settings.MaxContextChunks < k {
		k = s.settings.MaxContextChunks
	}
	if k > len(results) {
		k = len(results)
	}

	var retrieval float64
	if k > 0 {
		var sum float64
		for _, r := range results[:k] {
			sum += clamp01(r.Score)
		}
		retrieval = sum / float64(k)
	}

	if heuristic == nil {
		return round2(clamp01(retrieval))
	}

	h := clamp01(*heuristic)
	wr, wh := retrievalWeight, heuristicWeight
	if h >= strongHeuristic {
		wr, wh = retrievalWeightWeak, heuristicWeightHigh
	}
	return round2(clamp01(wr*retrieval + wh*h))
}

// ShouldEscalate reports whether the confidence falls below the configured
// escalation threshold.
func (s *ConfidenceService) ShouldEscalate(confidence float64) bool {
	return confidence < s.settings.EscalationThreshold
}

// clamp01 clamps v into [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
