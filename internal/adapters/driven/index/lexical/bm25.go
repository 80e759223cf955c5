// Package lexical provides an in-process BM25 keyword index.
//
// The index is an immutable snapshot: built once per corpus load, then
// shared freely across concurrent readers. Rebuilds construct a fresh index
// and the engine swaps it in atomically.
package lexical

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.LexicalIndex = (*Index)(nil)

// BM25 parameters.
const (
	k1 = 1.5
	b  = 0.75
)

// posting records one term occurrence count in one chunk.
type posting struct {
	ordinal int
	tf      int
}

// Index is an immutable BM25 index over chunk texts.
type Index struct {
	postings map[string][]posting
	docLen   []int
	avgLen   float64
	size     int
}

// Tokenize lowercases, splits into alphanumeric runs, and drops
// single-character tokens unless they are digits.
func Tokenize(text string) []string {
	var tokens []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() == 0 {
			return
		}
		tok := sb.String()
		sb.Reset()
		if len(tok) == 1 && !unicode.IsDigit(rune(tok[0])) {
			return
		}
		tokens = append(tokens, tok)
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// Build constructs the index over the given chunk texts. The ordinal of a
// text in the slice is the ordinal reported in hits.
func Build(texts []string) *Index {
	idx := &Index{
		postings: make(map[string][]posting),
		docLen:   make([]int, len(texts)),
		size:     len(texts),
	}

	var totalLen int
	for ordinal, text := range texts {
		tokens := Tokenize(text)
		idx.docLen[ordinal] = len(tokens)
		totalLen += len(tokens)

		counts := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			counts[tok]++
		}
		for tok, tf := range counts {
			idx.postings[tok] = append(idx.postings[tok], posting{ordinal: ordinal, tf: tf})
		}
	}
	if idx.size > 0 {
		idx.avgLen = float64(totalLen) / float64(idx.size)
	}
	return idx
}

// Scores computes BM25 scores for the query against every indexed chunk.
// The result is dense and ordinal-aligned; chunks without any query term
// score zero.
func (idx *Index) Scores(query string) []float64 {
	scores := make([]float64, idx.size)
	if idx.size == 0 {
		return scores
	}

	for _, term := range Tokenize(query) {
		plist, ok := idx.postings[term]
		if !ok {
			continue
		}
		df := float64(len(plist))
		idf := math.Log(1.0 + (float64(idx.size)-df+0.5)/(df+0.5))
		for _, p := range plist {
			tf := float64(p.tf)
			norm := 1.0 - b + b*float64(idx.docLen[p.ordinal])/idx.avgLen
			scores[p.ordinal] += idf * tf * (k1 + 1.0) / (tf + k1*norm)
		}
	}
	return scores
}

// TopN returns the n best-scoring chunks, ordered by descending score with
// the chunk ordinal as a deterministic tie-break. Chunks scoring zero are
// never returned.
func (idx *Index) TopN(query string, n int) []driven.LexicalHit {
	if n <= 0 {
		return nil
	}

	scores := idx.Scores(query)
	hits := make([]driven.LexicalHit, 0, len(scores))
	for ordinal, score := range scores {
		if score > 0 {
			hits = append(hits, driven.LexicalHit{Ordinal: ordinal, Score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Ordinal < hits[j].Ordinal
	})

	if len(hits) > n {
		hits = hits[:n]
	}
	return hits
}

// Size returns the number of indexed chunks.
func (idx *Index) Size() int {
	return idx.size
}
