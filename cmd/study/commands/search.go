// ABOUTME: CLI command for semantic search across indexed documents
// ABOUTME: Uses a zero similarity threshold so all ranked results are shown
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchDocID string
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed documents",
		Long: `Semantic search across your indexed documents.

Results are ranked by cosine similarity. Use --doc to restrict the
search to one document.

Examples:
  study search "photosynthesis"
  study search --limit 10 --doc bio101 "light reactions"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")
	cmd.Flags().StringVar(&searchDocID, "doc", "", "Restrict search to one document ID")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	filters := map[string]any{}
	if searchDocID != "" {
		filters["document_id"] = searchDocID
	}

	results, err := p.retriever.Search(cmd.Context(), args[0], flagUser, searchLimit, filters, 0.0)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tCHUNK\tTEXT")
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%s\t%s\n", r.SimilarityScore, r.ChunkID, truncate(r.Text, 80))
	}
	return w.Flush()
}
