// Package cli implements the docqa command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/failover"
	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/fallback"
	"github.com/custodia-labs/docqa/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/chunker"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/normalisers/markdown"
	"github.com/custodia-labs/docqa/internal/normalisers/plaintext"
	"github.com/custodia-labs/docqa/internal/tokenizer"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagDataDir string
	flagConfig  string
)

// Services wired by ensureServices (or injected by tests).
var (
	retrievalService  driving.RetrievalService
	ingestService     driving.IngestService
	confidenceService driving.ConfidenceEstimator
	chunkStore        driven.ChunkStore
	normalisers       map[string]driven.Normaliser
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Hybrid retrieval over technical documentation",
	Long: `docqa indexes technical documentation and answers retrieval queries by
fusing semantic (vector) similarity, keyword (BM25) relevance and fuzzy
string matching into one ranked result list.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.docqa/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config directory (default ~/.docqa)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// ensureServices wires the full service graph on first use. Tests inject
// their own services, which short-circuits the wiring.
func ensureServices() error {
	if retrievalService != nil && ingestService != nil {
		return nil
	}

	configStore, err := configfile.NewConfigStore(flagConfig)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settings, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	chunkStore = store

	tok := tokenizer.New()
	ch, err := chunker.New(tok,
		chunker.WithWindow(settings.Chunking.Window),
		chunker.WithOverlap(settings.Chunking.Overlap))
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	embedder := buildEmbedder(settings, tok)
	engine, err := services.NewRetrievalEngine(embedder, settings)
	if err != nil {
		return fmt.Errorf("creating retrieval engine: %w", err)
	}

	retrievalService = engine
	ingestService = services.NewIngestor(store, ch, embedder, engine)
	confidenceService = services.NewConfidenceService(settings.Confidence)
	normalisers = buildNormalisers()
	return nil
}

// buildEmbedder assembles the embedding provider chain. With an API key the
// remote provider runs behind the failover wrapper; without one the
// deterministic fallback serves alone.
func buildEmbedder(settings domain.Settings, tok *tokenizer.Tokenizer) driven.EmbeddingProvider {
	offline := fallback.New(tok, fallback.WithDimensions(settings.Embedding.Dimensions))

	if settings.Embedding.Provider != domain.EmbeddingProviderOpenAI || settings.Embedding.APIKey == "" {
		logger.Debug("Embedding: deterministic fallback only")
		return offline
	}

	remote, err := openai.New(openai.Config{
		APIKey:     settings.Embedding.APIKey,
		BaseURL:    settings.Embedding.BaseURL,
		Model:      settings.Embedding.Model,
		Dimensions: settings.Embedding.Dimensions,
		Timeout:    time.Duration(settings.Embedding.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Warn("Embedding provider misconfigured (%v), using fallback", err)
		return offline
	}
	return failover.New(remote, offline)
}

// buildNormalisers indexes the available normalisers by file extension.
func buildNormalisers() map[string]driven.Normaliser {
	byExt := make(map[string]driven.Normaliser)
	for _, n := range []driven.Normaliser{markdown.New(), plaintext.New()} {
		for _, ext := range n.Extensions() {
			byExt[strings.ToLower(ext)] = n
		}
	}
	return byExt
}
