package fallback

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/tokenizer"
)

func TestEmbedDeterminism(t *testing.T) {
	p := New(tokenizer.New())
	ctx := context.Background()

	a, err := p.EmbedQuery(ctx, "hello")
	require.NoError(t, err)
	b, err := p.EmbedQuery(ctx, "hello")
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		// Byte-identical, not merely approximately equal.
		assert.Equal(t, a[i], b[i], "bucket %d differs between calls", i)
	}

	// A fresh provider instance must produce the same vector too.
	c, err := New(tokenizer.New()).EmbedQuery(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestEmbedNormalised(t *testing.T) {
	p := New(tokenizer.New())

	vec, err := p.EmbedQuery(context.Background(), "paper jam in tray two")
	require.NoError(t, err)
	require.Len(t, vec, DefaultDimensions)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestEmbedBatch(t *testing.T) {
	p := New(tokenizer.New(), WithDimensions(64))
	ctx := context.Background()

	t.Run("empty input returns empty result", func(t *testing.T) {
		out, err := p.EmbedBatch(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("batch matches individual calls", func(t *testing.T) {
		texts := []string{"toner replacement", "fuser unit error"}
		batch, err := p.EmbedBatch(ctx, texts)
		require.NoError(t, err)
		require.Len(t, batch, 2)

		for i, text := range texts {
			single, err := p.EmbedQuery(ctx, text)
			require.NoError(t, err)
			assert.Equal(t, single, batch[i])
		}
	})

	t.Run("empty text yields a zero vector", func(t *testing.T) {
		out, err := p.EmbedBatch(ctx, []string{""})
		require.NoError(t, err)
		require.Len(t, out, 1)
		for _, v := range out[0] {
			assert.Zero(t, v)
		}
	})
}

func TestProviderMetadata(t *testing.T) {
	p := New(tokenizer.New(), WithDimensions(128))
	assert.Equal(t, 128, p.Dimensions())
	assert.Equal(t, ModelName, p.ModelName())
	assert.True(t, p.Fallback())
	assert.NoError(t, p.Close())
}
