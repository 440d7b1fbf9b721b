// ABOUTME: CLI command to ingest a document into the vector index
// ABOUTME: Extracts plain text, chunks it, and replaces any prior index state
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartlearn/companion/internal/extract"
	"github.com/smartlearn/companion/internal/ingest"
)

var (
	ingestDocID string
	ingestTitle string
)

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Index a document for retrieval",
		Long: `Extract text from a file, chunk it, and index it for semantic search.

Re-ingesting with the same --doc-id replaces all previously indexed
chunks for that document.

Examples:
  study ingest notes.txt
  study ingest --title "Biology 101" --doc-id bio101 lecture.md`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestDocID, "doc-id", "", "Document ID (generated when omitted)")
	cmd.Flags().StringVar(&ingestTitle, "title", "", "Document title used in citations (defaults to the file name)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	extractor, err := extract.ForFile(path)
	if err != nil {
		return err
	}
	text, err := extractor.Extract(path)
	if err != nil {
		return err
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	docID := ingestDocID
	if docID == "" {
		docID = ingest.NewDocumentID()
	}
	title := ingestTitle
	if title == "" {
		title = path
	}

	count, err := p.ingest.Reprocess(cmd.Context(), docID, text, map[string]any{
		"user_id": flagUser,
		"title":   title,
	})
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s as %s (%d chunks)\n", path, docID, count)
	return nil
}
