package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

var ingestProductFamily string

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest documentation files or directories",
	Long: `Parses, chunks, embeds and indexes the given files. Directories are
walked recursively; files with unsupported extensions are skipped.
Unchanged files (same content hash) are skipped without re-embedding.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestProductFamily, "product-family", "", "product family tag applied to every ingested chunk")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	ctx := context.Background()
	var ingested, unchanged, skipped int

	for _, root := range args {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			result, ingestErr := ingestFile(ctx, path)
			switch {
			case ingestErr != nil:
				return fmt.Errorf("ingesting %s: %w", path, ingestErr)
			case result == nil:
				skipped++
			case result.Unchanged:
				unchanged++
			default:
				ingested++
				cmd.Printf("  %s: %d chunks", path, result.ChunkCount)
				if result.Deduped > 0 {
					cmd.Printf(" (%d deduplicated)", result.Deduped)
				}
				cmd.Println()
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if ingested > 0 {
		logger.Debug("Rebuilding index after %d ingested documents", ingested)
		if err := ingestService.Reload(ctx); err != nil {
			return fmt.Errorf("rebuilding index: %w", err)
		}
	}

	cmd.Printf("Ingested %d, unchanged %d, skipped %d\n", ingested, unchanged, skipped)
	return nil
}

// ingestFile normalises and ingests a single file. A nil result means the
// extension has no registered normaliser.
func ingestFile(ctx context.Context, path string) (*driving.IngestResult, error) {
	normaliser, ok := normalisers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		logger.Debug("No normaliser for %s, skipping", path)
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := normaliser.Normalise(ctx, filepath.ToSlash(path), raw)
	if err != nil {
		return nil, err
	}
	if ingestProductFamily != "" {
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]string)
		}
		doc.Metadata[domain.MetaProductFamily] = ingestProductFamily
	}

	return ingestService.IngestDocument(ctx, doc)
}
