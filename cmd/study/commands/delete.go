// ABOUTME: CLI command to remove a document's chunks from the index
// ABOUTME: Deleting an absent document reports "not found", not an error
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCmd creates the delete command.
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <doc-id>",
		Short: "Remove a document from the index",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	deleted, err := p.ingest.DeleteIndex(args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted indexed chunks for %s\n", args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No indexed chunks found for %s\n", args[0])
	}
	return nil
}
