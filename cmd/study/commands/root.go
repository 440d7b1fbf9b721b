// ABOUTME: Root CLI command wiring all study subcommands
// ABOUTME: Defines global flags shared across subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	flagUser string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Personal study assistant over your own documents",
		Long: `study - index your study materials and ask questions grounded in them.

Documents are chunked, embedded, and stored in a personal vector index.
Chat, search, and flashcard suggestions all stay scoped to your own
documents.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagUser, "user", "local", "User ID that owns the documents")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
