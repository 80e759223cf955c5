package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	searchTopK       int
	searchMode       string
	searchFilters    []string
	searchSourceType string
	searchPathPrefix string
	searchRerank     bool
	searchJSON       bool
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true)
	scoreStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	escalateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documentation",
	Long: `Performs hybrid search across all indexed documentation.
Combines keyword (BM25), semantic (vector) and fuzzy matching, and reports
a confidence estimate for the result set.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 5, "maximum number of results")
	searchCmd.Flags().StringVar(&searchMode, "mode", "hybrid", "search mode: hybrid, vector or lexical")
	searchCmd.Flags().StringArrayVar(&searchFilters, "filter", nil, "metadata filter as key=value (repeatable)")
	searchCmd.Flags().StringVar(&searchSourceType, "source-type", "", "restrict to documents of this source type")
	searchCmd.Flags().StringVar(&searchPathPrefix, "path-prefix", "", "restrict to source paths with this prefix")
	searchCmd.Flags().BoolVar(&searchRerank, "rerank", false, "use the reranking score blend")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchOutput is the JSON shape of one search invocation.
type searchOutput struct {
	Results    []domain.SearchResult `json:"results"`
	Confidence float64               `json:"confidence"`
	Escalate   bool                  `json:"escalate"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	filter, err := parseFilter(searchFilters, searchSourceType, searchPathPrefix)
	if err != nil {
		return err
	}

	query := domain.RetrievalQuery{
		Query:  args[0],
		TopK:   searchTopK,
		Mode:   domain.SearchMode(searchMode),
		Filter: filter,
		Rerank: searchRerank,
	}

	results, err := retrievalService.Search(context.Background(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	confidence := confidenceService.Estimate(results, nil)
	escalate := confidenceService.ShouldEscalate(confidence)

	if searchJSON {
		return outputSearchJSON(cmd, searchOutput{
			Results:    results,
			Confidence: confidence,
			Escalate:   escalate,
		})
	}
	return outputSearchText(cmd, results, confidence, escalate)
}

// parseFilter builds the filter from the flag forms.
func parseFilter(pairs []string, sourceType, pathPrefix string) (domain.Filter, error) {
	filter := domain.Filter{
		SourceType: sourceType,
		PathPrefix: pathPrefix,
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return domain.Filter{}, fmt.Errorf("%w: filter %q is not key=value", domain.ErrInvalidInput, pair)
		}
		if filter.Metadata == nil {
			filter.Metadata = make(map[string]string)
		}
		filter.Metadata[key] = value
	}
	return filter, nil
}

func outputSearchJSON(cmd *cobra.Command, out searchOutput) error {
	if out.Results == nil {
		out.Results = []domain.SearchResult{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, results []domain.SearchResult, confidence float64, escalate bool) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		title := r.Chunk.Heading
		if title == "" {
			title = r.Chunk.ChunkID
		}
		location := r.Chunk.SourcePath
		if r.Chunk.PageNumber != nil {
			location = fmt.Sprintf("%s p.%d", location, *r.Chunk.PageNumber)
		}

		cmd.Printf("  [%d] %s %s\n", i+1, headingStyle.Render(title), scoreStyle.Render(fmt.Sprintf("(%.2f)", r.Score)))
		cmd.Printf("      %s\n", pathStyle.Render(location))
		cmd.Printf("      %s\n", snippet(r.Chunk.Text, 160))
		cmd.Println()
	}

	cmd.Printf("Confidence: %.2f\n", confidence)
	if escalate {
		cmd.Println(escalateStyle.Render("Low confidence: consider escalating to a human expert."))
	}
	return nil
}

// snippet truncates text to at most limit runes on a word boundary.
func snippet(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len([]rune(text)) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
