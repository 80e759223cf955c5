package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportOutput     string
	exportEmbeddings bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all indexed chunks as JSON Lines",
	Long: `Writes every indexed chunk as one JSON object per line, suitable for
offline evaluation harnesses. Embeddings are omitted unless requested.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportEmbeddings, "embeddings", false, "include embedding vectors")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	chunks, err := chunkStore.LoadChunks(context.Background())
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	for i := range chunks {
		if !exportEmbeddings {
			chunks[i].Embedding = nil
		}
		if err := enc.Encode(chunks[i]); err != nil {
			return fmt.Errorf("encoding chunk %s: %w", chunks[i].ChunkID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	if exportOutput != "" {
		cmd.Printf("Exported %d chunks to %s\n", len(chunks), exportOutput)
	}
	return nil
}
