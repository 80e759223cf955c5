package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	settings := domain.DefaultSettings()
	settings.Chunking.Window = 512
	settings.Embedding.Model = "text-embedding-3-large"
	settings.Fusion.AlphaReal = 0.8
	settings.Retrieval.Backend = domain.VectorBackendIVF
	settings.Retrieval.Rerank = true
	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	partial := "[chunking]\nwindow = 128\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(partial), 0600))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 128, loaded.Chunking.Window)
	assert.Equal(t, domain.DefaultSettings().Chunking.Overlap, loaded.Chunking.Overlap)
	assert.Equal(t, domain.DefaultSettings().Fusion, loaded.Fusion)
}

func TestLoadMalformedFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err = store.Load()
	assert.Error(t, err)
}

func TestPathPointsIntoConfigDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
