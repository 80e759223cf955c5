package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Provider) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := New(Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "text-embedding-3-small",
		Dimensions: 4,
	})
	require.NoError(t, err)
	return server, provider
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNewDefaultDimensionsFromModel(t *testing.T) {
	provider, err := New(Config{APIKey: "k", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, provider.Dimensions())
}

func TestEmbedBatchOrdersByIndex(t *testing.T) {
	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"first", "second"}, req.Input)
		assert.Equal(t, 4, req.Dimensions)

		// Respond out of order; the provider must reassemble by index.
		resp := map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{1, 1, 1, 1}},
				{"index": 0, "embedding": []float64{0, 0, 0, 1}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	embeddings, err := provider.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, []float32{0, 0, 0, 1}, embeddings[0])
	assert.Equal(t, []float32{1, 1, 1, 1}, embeddings[1])
}

func TestEmbedBatchEmptyInputSkipsRequest(t *testing.T) {
	called := false
	_, provider := newTestServer(t, func(http.ResponseWriter, *http.Request) {
		called = true
	})

	embeddings, err := provider.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
	assert.False(t, called)
}

func TestEmbedBatchAPIError(t *testing.T) {
	_, provider := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		resp := map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	_, err := provider.EmbedBatch(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbedBatchMissingEmbedding(t *testing.T) {
	_, provider := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float64{1, 0, 0, 0}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	_, err := provider.EmbedBatch(context.Background(), []string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing embedding")
}

func TestEmbedQuery(t *testing.T) {
	_, provider := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float64{0.5, 0.5, 0, 0}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	vec, err := provider.EmbedQuery(context.Background(), "query text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5, 0, 0}, vec)
}

func TestFallbackReportsFalse(t *testing.T) {
	provider, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.False(t, provider.Fallback())
}
