package driven

// LexicalIndex provides BM25 keyword scoring over chunk text.
//
// Like VectorIndex, implementations are immutable snapshots: built once per
// corpus load and shared freely across concurrent readers.
type LexicalIndex interface {
	// Scores computes the BM25 score of the query against every indexed
	// chunk. The result is dense and index-aligned with the snapshot's
	// chunk slice; chunks without any query term score zero.
	Scores(query string) []float64

	// TopN returns the n best-scoring chunks for the query, ordered by
	// descending score with deterministic tie-breaks.
	TopN(query string, n int) []LexicalHit

	// Size returns the number of indexed chunks.
	Size() int
}

// LexicalHit represents a keyword search result.
type LexicalHit struct {
	// Ordinal is the index of the chunk in the snapshot's chunk slice.
	Ordinal int

	// Score is the raw BM25 score.
	Score float64
}
