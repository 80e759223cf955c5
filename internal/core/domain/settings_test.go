package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 256, s.Chunking.Window)
	assert.Equal(t, 32, s.Chunking.Overlap)
	assert.Equal(t, 0.7, s.Fusion.AlphaReal)
	assert.Equal(t, 0.35, s.Fusion.AlphaFallback)
	assert.Equal(t, 0.2, s.Fusion.FuzzBlend)
	assert.Equal(t, 128, s.Retrieval.CacheSize)
	assert.Equal(t, VectorBackendFlat, s.Retrieval.Backend)
	assert.Equal(t, 0.55, s.Confidence.EscalationThreshold)
}

func TestKindValidation(t *testing.T) {
	assert.True(t, EmbeddingProviderOpenAI.IsValid())
	assert.True(t, EmbeddingProviderFallback.IsValid())
	assert.False(t, EmbeddingProviderKind("cohere").IsValid())

	assert.True(t, VectorBackendFlat.IsValid())
	assert.True(t, VectorBackendIVF.IsValid())
	assert.False(t, VectorBackend("hnsw").IsValid())
}
