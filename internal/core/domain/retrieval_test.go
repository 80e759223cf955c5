package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterChunk() *Chunk {
	return &Chunk{
		ChunkID:    "doc-1#0",
		SourcePath: "manuals/c7070/service.md",
		Metadata: map[string]string{
			MetaSourceType:    "manual",
			MetaProductFamily: "C7070",
		},
	}
}

func TestFilterZeroMatchesEverything(t *testing.T) {
	var f Filter
	assert.True(t, f.IsZero())
	assert.True(t, f.Matches(filterChunk()))
	assert.True(t, f.Matches(&Chunk{}))
}

func TestFilterSourceType(t *testing.T) {
	f := Filter{SourceType: "manual"}
	assert.True(t, f.Matches(filterChunk()))

	f.SourceType = "datasheet"
	assert.False(t, f.Matches(filterChunk()))
}

func TestFilterPathPrefix(t *testing.T) {
	f := Filter{PathPrefix: "manuals/c7070/"}
	assert.True(t, f.Matches(filterChunk()))

	f.PathPrefix = "manuals/c8180/"
	assert.False(t, f.Matches(filterChunk()))
}

func TestFilterMetadataMissingKeyNeverMatches(t *testing.T) {
	f := Filter{Metadata: map[string]string{"region": "emea"}}
	assert.False(t, f.Matches(filterChunk()))

	chunk := &Chunk{}
	assert.False(t, f.Matches(chunk))
}

func TestFilterAllPredicatesAnd(t *testing.T) {
	f := Filter{
		SourceType: "manual",
		PathPrefix: "manuals/",
		Metadata:   map[string]string{MetaProductFamily: "C7070"},
	}
	assert.True(t, f.Matches(filterChunk()))

	f.Metadata[MetaProductFamily] = "C8180"
	assert.False(t, f.Matches(filterChunk()))
}

func TestFilterCacheKeyDeterministic(t *testing.T) {
	a := Filter{Metadata: map[string]string{"b": "2", "a": "1", "c": "3"}}
	b := Filter{Metadata: map[string]string{"c": "3", "a": "1", "b": "2"}}

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.CacheKey(), b.CacheKey())
	}
}

func TestFilterCacheKeyDistinguishesPredicates(t *testing.T) {
	assert.NotEqual(t,
		Filter{SourceType: "manual"}.CacheKey(),
		Filter{PathPrefix: "manual"}.CacheKey())
}

func TestFilterCacheKeyEscapesSeparators(t *testing.T) {
	// One predicate whose value contains "; " and "=" must not collide with
	// the two-predicate filter it would flatten to unescaped.
	a := Filter{Metadata: map[string]string{"a": "1;b=2"}}
	b := Filter{Metadata: map[string]string{"a": "1", "b": "2"}}
	assert.NotEqual(t, a.CacheKey(), b.CacheKey())

	assert.NotEqual(t,
		Filter{SourceType: `manual";pp="x`}.CacheKey(),
		Filter{SourceType: "manual", PathPrefix: "x"}.CacheKey())
}

func TestSearchResultCloneIsDeep(t *testing.T) {
	original := SearchResult{
		Chunk: Chunk{Metadata: map[string]string{"k": "v"}},
		Score: 0.5,
	}

	copied := original.Clone()
	copied.Chunk.Metadata["k"] = "changed"

	assert.Equal(t, "v", original.Chunk.Metadata["k"])
}

func TestCloneResultsNilStaysNil(t *testing.T) {
	assert.Nil(t, CloneResults(nil))
}
