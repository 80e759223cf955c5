package services

// ProbePlanner decides how many IVF partitions a query scans. Short queries
// carry little lexical signal, so they probe more partitions to protect
// recall; larger result requests probe more for the same reason. Exact
// backends report a single partition and always get one probe.
//
// The planner is a pure function of its inputs so the trade-off can be
// tuned and tested independent of any ANN backend.
type ProbePlanner struct {
	// BaseFraction is the denominator of the baseline probe share:
	// at least partitions/BaseFraction partitions are always scanned.
	BaseFraction int

	// ShortQueryTokens is the token count at or below which a query is
	// considered short and its probe count doubles.
	ShortQueryTokens int

	// TopKPerProbe adds one probe for every TopKPerProbe requested results.
	TopKPerProbe int
}

// DefaultProbePlanner returns the planner with default tuning.
func DefaultProbePlanner() ProbePlanner {
	return ProbePlanner{
		BaseFraction:     8,
		ShortQueryTokens: 3,
		TopKPerProbe:     5,
	}
}

// Plan returns the probe count for a query of queryTokens tokens requesting
// topK results against an index with the given partition count. The result
// is always within [1, partitions].
func (p ProbePlanner) Plan(queryTokens, topK, partitions int) int {
	if partitions <= 1 {
		return 1
	}

	probes := partitions / p.BaseFraction
	if probes < 1 {
		probes = 1
	}
	if p.TopKPerProbe > 0 && topK > 0 {
		probes += topK / p.TopKPerProbe
	}
	if queryTokens > 0 && queryTokens <= p.ShortQueryTokens {
		probes *= 2
	}

	if probes > partitions {
		probes = partitions
	}
	if probes < 1 {
		probes = 1
	}
	return probes
}
