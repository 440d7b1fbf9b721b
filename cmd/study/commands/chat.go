// ABOUTME: CLI command for grounded chat, streaming tokens to the terminal
// ABOUTME: Prints source citations after the streamed answer completes
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartlearn/companion/internal/models"
)

var (
	chatDocID string
)

// NewChatCmd creates the chat command.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the learning assistant a question",
		Long: `Ask a question grounded in your indexed documents.

The answer streams to the terminal as it is generated. Sources that
grounded the answer are listed afterwards.

Examples:
  study chat "What is the Krebs cycle?"
  study chat --doc bio101 "Summarize chapter 2"`,
		Args: cobra.ExactArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatDocID, "doc", "", "Ground the answer in one document only")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	filters := map[string]any{}
	if chatDocID != "" {
		filters["document_id"] = chatDocID
	}

	events, err := p.engine.ChatStream(cmd.Context(), flagUser, args[0], nil, filters)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	var sources []models.SourceCitation
	for ev := range events {
		switch ev.Type {
		case models.EventToken:
			fmt.Fprint(cmd.OutOrStdout(), ev.Token)
		case models.EventSources:
			sources = ev.Sources
		case models.EventError:
			fmt.Fprintln(cmd.OutOrStdout())
			return fmt.Errorf("generation failed: %s", ev.Err)
		}
	}
	fmt.Fprintln(cmd.OutOrStdout())

	if len(sources) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "\nSources:")
		for _, s := range sources {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s (chunk %d, score %.2f)\n", s.Title, s.ChunkIndex, s.SimilarityScore)
		}
	}
	return nil
}
