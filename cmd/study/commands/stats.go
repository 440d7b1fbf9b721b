// ABOUTME: CLI command to show vector index statistics
// ABOUTME: Reports record count and embedding dimension for the collection
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	stats, err := p.index.Stats()
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Collection:  %s\n", stats.Collection)
	fmt.Fprintf(cmd.OutOrStdout(), "Records:     %d\n", stats.TotalRecords)
	fmt.Fprintf(cmd.OutOrStdout(), "Dimension:   %d\n", stats.Dimension)
	return nil
}
