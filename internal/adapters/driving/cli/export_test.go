package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestExportCmd_Use(t *testing.T) {
	assert.Equal(t, "export", exportCmd.Use)
}

func TestExportCmd_EmitsJSONLines(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	ingestTestDocument(t, "manuals/a.md", "# One\n\nFirst chunkable paragraph.\n\n## Two\n\nSecond chunkable paragraph.\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"export"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.NoError(t, err)

	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	var count int
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk domain.Chunk
		require.NoError(t, json.Unmarshal(line, &chunk))
		assert.NotEmpty(t, chunk.ChunkID)
		assert.Nil(t, chunk.Embedding, "embeddings omitted by default")
		count++
	}
	assert.Equal(t, 2, count)
}

func TestExportCmd_IncludesEmbeddingsWhenAsked(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	ingestTestDocument(t, "manuals/a.md", "# One\n\nEmbedded paragraph.\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"export", "--embeddings"})
	defer func() {
		rootCmd.SetArgs(nil)
		exportEmbeddings = false
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)

	var chunk domain.Chunk
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &chunk))
	assert.NotEmpty(t, chunk.Embedding)
}
