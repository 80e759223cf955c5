package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildChunkID(t *testing.T) {
	assert.Equal(t, "doc-1#0", BuildChunkID("doc-1", 0))
	assert.Equal(t, "doc-1#42", BuildChunkID("doc-1", 42))
}

func TestHashContentIgnoresWhitespaceDifferences(t *testing.T) {
	a := HashContent("replace the  toner\tcartridge")
	b := HashContent("replace the toner cartridge")
	c := HashContent("replace the toner drum")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestChunkCloneIsDeep(t *testing.T) {
	page := 7
	original := Chunk{
		ChunkID:    "doc-1#0",
		Text:       "original",
		PageNumber: &page,
		Embedding:  []float32{0.1, 0.2},
		Metadata:   map[string]string{"k": "v"},
	}

	copied := original.Clone()
	copied.Embedding[0] = 9
	copied.Metadata["k"] = "changed"
	*copied.PageNumber = 99

	assert.Equal(t, float32(0.1), original.Embedding[0])
	assert.Equal(t, "v", original.Metadata["k"])
	assert.Equal(t, 7, *original.PageNumber)
}

func TestElementTypeIsValid(t *testing.T) {
	assert.True(t, ElementProse.IsValid())
	assert.True(t, ElementTableRow.IsValid())
	assert.True(t, ElementFootnote.IsValid())
	assert.False(t, ElementType("paragraph").IsValid())
}
