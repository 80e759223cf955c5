package domain

import (
	"sort"
	"strconv"
	"strings"
)

const unknownDescription = "Unknown"

// SearchMode defines which retrieval signals a query uses.
type SearchMode string

// Available search modes.
const (
	// SearchModeVector uses only vector (ANN) similarity.
	SearchModeVector SearchMode = "vector"

	// SearchModeLexical uses only BM25 keyword scoring.
	SearchModeLexical SearchMode = "lexical"

	// SearchModeHybrid fuses vector, lexical and fuzzy scores.
	SearchModeHybrid SearchMode = "hybrid"
)

// IsValid returns true if the search mode is recognised.
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeVector, SearchModeLexical, SearchModeHybrid:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeVector:
		return "Vector (semantic similarity only)"
	case SearchModeLexical:
		return "Lexical (BM25 keyword only)"
	case SearchModeHybrid:
		return "Hybrid (vector + lexical + fuzzy)"
	default:
		return unknownDescription
	}
}

// Filter restricts a query to chunks matching every predicate (logical AND).
// A zero filter matches everything.
type Filter struct {
	// SourceType must equal the chunk's document source type exactly.
	SourceType string

	// PathPrefix must be a string prefix of the chunk's source path.
	PathPrefix string

	// Metadata entries must each match the chunk's metadata map exactly.
	Metadata map[string]string
}

// IsZero returns true if no predicate is set.
func (f Filter) IsZero() bool {
	return f.SourceType == "" && f.PathPrefix == "" && len(f.Metadata) == 0
}

// Matches reports whether the chunk satisfies every predicate. Malformed or
// missing values never match; they never cause an error.
func (f Filter) Matches(c *Chunk) bool {
	if f.SourceType != "" && c.Metadata[MetaSourceType] != f.SourceType {
		return false
	}
	if f.PathPrefix != "" && !strings.HasPrefix(c.SourcePath, f.PathPrefix) {
		return false
	}
	for k, v := range f.Metadata {
		if c.Metadata[k] != v {
			return false
		}
	}
	return true
}

// CacheKey returns a canonical string for cache keying: predicates in a
// deterministic order regardless of map iteration. Every variable is
// strconv.Quote'd so values containing the separator characters cannot
// collide with the key structure.
func (f Filter) CacheKey() string {
	var sb strings.Builder
	sb.WriteString("st=")
	sb.WriteString(strconv.Quote(f.SourceType))
	sb.WriteString(";pp=")
	sb.WriteString(strconv.Quote(f.PathPrefix))
	keys := make([]string, 0, len(f.Metadata))
	for k := range f.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(";")
		sb.WriteString(strconv.Quote(k))
		sb.WriteString("=")
		sb.WriteString(strconv.Quote(f.Metadata[k]))
	}
	return sb.String()
}

// RetrievalQuery describes one search request. It is never persisted.
type RetrievalQuery struct {
	// Query is the natural-language question text.
	Query string

	// TopK is the requested result count.
	TopK int

	// Mode selects the retrieval signals.
	Mode SearchMode

	// Filter restricts candidate chunks.
	Filter Filter

	// Rerank switches fusion to the fixed reranker weights.
	Rerank bool
}

// SearchResult is one ranked hit: a chunk plus the independently computed
// scores that produced its fused rank. Ephemeral, never persisted.
type SearchResult struct {
	// Chunk is the matched retrieval unit.
	Chunk Chunk `json:"chunk"`

	// VectorScore is cosine similarity remapped from [-1,1] to [0,1].
	VectorScore float64 `json:"vector_score"`

	// LexicalScore is the BM25 score min-max scaled across the candidate set.
	LexicalScore float64 `json:"lexical_score"`

	// FuzzScore is the normalised fuzzy partial-ratio similarity (0-1).
	FuzzScore float64 `json:"fuzz_score"`

	// Score is the fused ranking score.
	Score float64 `json:"score"`
}

// Clone returns a deep copy of the result.
func (r SearchResult) Clone() SearchResult {
	out := r
	out.Chunk = r.Chunk.Clone()
	return out
}

// CloneResults deep-copies a result list. Used by the query cache so callers
// can never mutate a cached entry through returned references.
func CloneResults(results []SearchResult) []SearchResult {
	if results == nil {
		return nil
	}
	out := make([]SearchResult, len(results))
	for i := range results {
		out[i] = results[i].Clone()
	}
	return out
}
