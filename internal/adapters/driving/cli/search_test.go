package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_HasTopKFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag)
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_EmptyIndexPrintsNoResults(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "toner cartridge"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_PrintsResultsAndConfidence(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	ingestTestDocument(t, "manuals/c7070.md", "# Toner\n\nReplace the toner cartridge when print quality degrades.\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "toner cartridge replacement"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "Confidence:")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()
	ingestTestDocument(t, "manuals/c7070.md", "# Fuser\n\nThe fuser unit reaches temperature in forty seconds.\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "fuser temperature"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)

	var out searchOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.NotEmpty(t, out.Results)
	assert.GreaterOrEqual(t, out.Confidence, 0.0)
	assert.LessOrEqual(t, out.Confidence, 1.0)
}

func TestSearchCmd_RejectsBadFilterSyntax(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "--filter", "nokeyvalue", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchFilters = nil
	}()

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseFilter(t *testing.T) {
	filter, err := parseFilter([]string{"product_family=C7070", "region=emea"}, "manual", "manuals/")
	require.NoError(t, err)
	assert.Equal(t, "manual", filter.SourceType)
	assert.Equal(t, "manuals/", filter.PathPrefix)
	assert.Equal(t, "C7070", filter.Metadata["product_family"])
	assert.Equal(t, "emea", filter.Metadata["region"])
}

func TestSnippetTruncatesOnWordBoundary(t *testing.T) {
	assert.Equal(t, "short text", snippet("short   text", 160))

	long := "alpha beta gamma delta epsilon"
	got := snippet(long, 16)
	assert.Equal(t, "alpha beta...", got)
}

// ingestTestDocument pushes one markdown document through the wired ingest
// service and rebuilds the snapshot.
func ingestTestDocument(t *testing.T, path, content string) {
	t.Helper()
	ctx := context.Background()

	normaliser := normalisers[".md"]
	require.NotNil(t, normaliser)

	doc, err := normaliser.Normalise(ctx, path, []byte(content))
	require.NoError(t, err)

	_, err = ingestService.IngestDocument(ctx, doc)
	require.NoError(t, err)
	require.NoError(t, ingestService.Reload(ctx))
}
