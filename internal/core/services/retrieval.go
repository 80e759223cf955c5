package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/custodia-labs/docqa/internal/adapters/driven/index/lexical"
	"github.com/custodia-labs/docqa/internal/adapters/driven/index/vector"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure RetrievalEngine implements the interface.
var _ driving.RetrievalService = (*RetrievalEngine)(nil)

// DefaultTopK is used when a query does not request a result count.
const DefaultTopK = 5

// minLexicalCandidates floors the lexical candidate pull so small top_k
// requests still see enough keyword signal.
const minLexicalCandidates = 30

// snapshot is one immutable view of the corpus: the chunk slice plus the
// two indexes built over it. Readers share it freely; a rebuild constructs
// a fresh snapshot and swaps the pointer.
type snapshot struct {
	version        uint64
	chunks         []domain.Chunk
	vectors        driven.VectorIndex
	lexicon        driven.LexicalIndex
	fallbackActive bool
}

// RetrievalEngine is the hybrid retrieval core: it fuses ANN vector
// similarity, BM25 lexical scores and fuzzy string similarity into one
// ranked, filtered, deduplicated result list.
type RetrievalEngine struct {
	embedder driven.EmbeddingProvider
	fusion   domain.FusionSettings
	backend  domain.VectorBackend
	planner  ProbePlanner

	snap     atomic.Pointer[snapshot]
	rebuilds atomic.Uint64
	cache    *lru.Cache[string, []domain.SearchResult]
}

// NewRetrievalEngine creates the engine. No snapshot exists until the first
// RebuildIndex call; queries before that return domain.ErrIndexNotReady.
func NewRetrievalEngine(embedder driven.EmbeddingProvider, settings domain.Settings) (*RetrievalEngine, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	cacheSize := settings.Retrieval.CacheSize
	if cacheSize <= 0 {
		cacheSize = domain.DefaultSettings().Retrieval.CacheSize
	}
	cache, err := lru.New[string, []domain.SearchResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating query cache: %w", err)
	}

	backend := settings.Retrieval.Backend
	if !backend.IsValid() {
		backend = domain.VectorBackendFlat
	}

	return &RetrievalEngine{
		embedder: embedder,
		fusion:   settings.Fusion,
		backend:  backend,
		planner:  DefaultProbePlanner(),
		cache:    cache,
	}, nil
}

// Ready reports whether a snapshot is available to serve queries.
func (e *RetrievalEngine) Ready() bool {
	return e.snap.Load() != nil
}

// RebuildIndex constructs a fresh snapshot over the given chunks and swaps
// it in atomically. In-flight queries keep reading the previous snapshot;
// no reader ever observes a half-built index. The query cache is purged
// because cached results reference the superseded snapshot.
func (e *RetrievalEngine) RebuildIndex(ctx context.Context, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Section("Index Rebuild")
	logger.Debug("Chunks: %d", len(chunks))

	dims := e.embedder.Dimensions()
	texts := make([]string, len(chunks))
	var embedded [][]float32
	var ordinals []int

	for i := range chunks {
		texts[i] = chunks[i].Text
		if len(chunks[i].Embedding) == 0 {
			// No embedding yet: lexical retrieval still covers it.
			continue
		}
		if len(chunks[i].Embedding) != dims {
			return fmt.Errorf("chunk %s: %w: persisted %d, configured %d",
				chunks[i].ChunkID, domain.ErrDimensionMismatch, len(chunks[i].Embedding), dims)
		}
		embedded = append(embedded, chunks[i].Embedding)
		ordinals = append(ordinals, i)
	}

	var vectors driven.VectorIndex
	var err error
	switch e.backend {
	case domain.VectorBackendIVF:
		vectors, err = vector.NewIVF(embedded, ordinals, dims, vector.DefaultPartitions(len(embedded)))
	default:
		vectors, err = vector.NewFlat(embedded, ordinals, dims)
	}
	if err != nil {
		return fmt.Errorf("building vector index: %w", err)
	}

	next := &snapshot{
		version:        e.rebuilds.Add(1),
		chunks:         chunks,
		vectors:        vectors,
		lexicon:        lexical.Build(texts),
		fallbackActive: e.embedder.Fallback(),
	}

	// Keys carry the snapshot version, so an in-flight query racing this
	// swap can only repopulate entries under the superseded version; the
	// purge just reclaims their memory early.
	e.snap.Store(next)
	e.cache.Purge()
	logger.Info("Snapshot ready: %d chunks, %d embedded, backend=%s",
		len(chunks), len(embedded), e.backend)
	return nil
}

// candidate accumulates per-chunk scores before fusion.
type candidate struct {
	ordinal    int
	vectorSim  float64 // raw cosine in [-1,1]; 0 when seeded by lexical
	hasVector  bool
	lexicalRaw float64
}

// Search returns the best-matching, filtered, deduplicated chunks ranked by
// fused score. Determinism: given the same snapshot, query and filter, the
// ordering is identical across calls.
func (e *RetrievalEngine) Search(ctx context.Context, query domain.RetrievalQuery) ([]domain.SearchResult, error) {
	snap := e.snap.Load()
	if snap == nil {
		return nil, domain.ErrIndexNotReady
	}

	query.Query = strings.TrimSpace(query.Query)
	if query.TopK <= 0 {
		query.TopK = DefaultTopK
	}
	if query.Mode == "" {
		query.Mode = domain.SearchModeHybrid
	}
	if !query.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown search mode %q", domain.ErrInvalidInput, query.Mode)
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q mode=%s top_k=%d rerank=%t", query.Query, query.Mode, query.TopK, query.Rerank)

	if query.Query == "" || len(snap.chunks) == 0 {
		return []domain.SearchResult{}, nil
	}

	key := cacheKey(snap.version, query)
	if cached, ok := e.cache.Get(key); ok {
		logger.Debug("Cache hit")
		return domain.CloneResults(cached), nil
	}

	results, err := e.search(ctx, snap, query)
	if err != nil {
		return nil, err
	}

	e.cache.Add(key, domain.CloneResults(results))
	logger.Info("Results: %d", len(results))
	return results, nil
}

func (e *RetrievalEngine) search(ctx context.Context, snap *snapshot, query domain.RetrievalQuery) ([]domain.SearchResult, error) {
	candidates := make(map[int]*candidate)

	// Vector candidates: over-fetched so fusion has room to reorder.
	var queryVec []float32
	if query.Mode != domain.SearchModeLexical && snap.vectors.Size() > 0 {
		var err error
		queryVec, err = e.embedder.EmbedQuery(ctx, query.Query)
		if err != nil {
			// Only cancellation escapes the failover provider.
			return nil, err
		}

		fetch := query.TopK * 4
		if fetch < query.TopK {
			fetch = query.TopK
		}
		queryTokens := len(lexical.Tokenize(query.Query))
		probes := e.planner.Plan(queryTokens, query.TopK, snap.vectors.Partitions())
		logger.Debug("Vector candidates: fetch=%d probes=%d", fetch, probes)

		hits, err := snap.vectors.Search(ctx, queryVec, fetch, probes)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			candidates[hit.Ordinal] = &candidate{
				ordinal:   hit.Ordinal,
				vectorSim: hit.Similarity,
				hasVector: true,
			}
		}
	}

	// Lexical candidates: seeded with vector score 0.0 pending fusion.
	lexScores := snap.lexicon.Scores(query.Query)
	if query.Mode != domain.SearchModeVector {
		pull := query.TopK * 3
		if pull < minLexicalCandidates {
			pull = minLexicalCandidates
		}
		logger.Debug("Lexical candidates: pull=%d", pull)
		for _, hit := range snap.lexicon.TopN(query.Query, pull) {
			if _, ok := candidates[hit.Ordinal]; !ok {
				candidates[hit.Ordinal] = &candidate{ordinal: hit.Ordinal}
			}
		}
	}

	// Filter before scoring any further.
	survivors := make([]*candidate, 0, len(candidates))
	for _, cand := range candidates {
		if query.Filter.Matches(&snap.chunks[cand.ordinal]) {
			cand.lexicalRaw = lexScores[cand.ordinal]
			survivors = append(survivors, cand)
		}
	}
	if len(survivors) == 0 {
		return []domain.SearchResult{}, nil
	}

	// Min-max bounds for lexical normalisation across the candidate set.
	minLex, maxLex := math.Inf(1), math.Inf(-1)
	for _, cand := range survivors {
		minLex = math.Min(minLex, cand.lexicalRaw)
		maxLex = math.Max(maxLex, cand.lexicalRaw)
	}

	alpha := e.alpha(query.Mode, snap.fallbackActive)
	results := make([]domain.SearchResult, 0, len(survivors))
	for _, cand := range survivors {
		// Scoring is the hot loop; honour cancellation promptly and
		// never return partial results as if final.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunk := &snap.chunks[cand.ordinal]

		vectorScore := 0.0
		if queryVec != nil {
			if cand.hasVector {
				vectorScore = (cand.vectorSim + 1.0) / 2.0
			} else if len(chunk.Embedding) > 0 {
				vectorScore = (cosine(queryVec, chunk.Embedding) + 1.0) / 2.0
			}
		}

		lexicalScore := 0.0
		if maxLex > minLex {
			lexicalScore = (cand.lexicalRaw - minLex) / (maxLex - minLex)
		}

		fuzzScore := float64(fuzzy.PartialRatio(query.Query, chunk.Text)) / 100.0

		results = append(results, domain.SearchResult{
			Chunk:        chunk.Clone(),
			VectorScore:  vectorScore,
			LexicalScore: lexicalScore,
			FuzzScore:    fuzzScore,
			Score:        e.fuse(vectorScore, lexicalScore, fuzzScore, alpha, query.Rerank),
		})
	}

	// Deterministic ordering: fused score descending, chunk ID ascending.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.ChunkID < results[j].Chunk.ChunkID
	})

	if len(results) > query.TopK {
		results = results[:query.TopK]
	}

	return dedupeByLocation(results), nil
}

// fuse combines the three component scores into the ranking score. All
// weights are non-negative, so the fused score never decreases when any
// single component increases.
func (e *RetrievalEngine) fuse(vectorScore, lexicalScore, fuzzScore, alpha float64, rerank bool) float64 {
	if rerank {
		return e.fusion.RerankVector*vectorScore +
			e.fusion.RerankLexical*lexicalScore +
			e.fusion.RerankFuzz*fuzzScore
	}
	base := alpha*vectorScore + (1.0-alpha)*lexicalScore
	return (1.0-e.fusion.FuzzBlend)*base + e.fusion.FuzzBlend*fuzzScore
}

// alpha picks the vector/lexical fusion weight. Pure vector and pure
// lexical modes pin it; hybrid trusts lexical more on the fallback
// embedding geometry.
func (e *RetrievalEngine) alpha(mode domain.SearchMode, fallbackActive bool) float64 {
	switch mode {
	case domain.SearchModeVector:
		return 1.0
	case domain.SearchModeLexical:
		return 0.0
	default:
		if fallbackActive {
			return e.fusion.AlphaFallback
		}
		return e.fusion.AlphaReal
	}
}

// dedupeByLocation drops results citing an already-seen
// (source_path, page_number); the first - highest ranked - occurrence wins.
func dedupeByLocation(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]bool, len(results))
	out := results[:0]
	for _, r := range results {
		page := -1
		if r.Chunk.PageNumber != nil {
			page = *r.Chunk.PageNumber
		}
		key := fmt.Sprintf("%s:%d", r.Chunk.SourcePath, page)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// cosine computes cosine similarity between two vectors of equal dimension.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// cacheKey canonicalises the (snapshot, query) tuple. The query text is
// quoted so it cannot impersonate the structural separators, and the
// snapshot version keeps entries from one index generation out of the next.
func cacheKey(version uint64, q domain.RetrievalQuery) string {
	return fmt.Sprintf("%d|%s|%s|%d|%s|%t",
		version, strconv.Quote(q.Query), q.Filter.CacheKey(), q.TopK, q.Mode, q.Rerank)
}
