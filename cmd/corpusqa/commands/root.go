// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for index, ask, serve, and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpusqa",
		Short: "Question answering grounded in a private text corpus",
		Long: `corpusqa answers natural-language questions using only content
retrieved from a private text corpus.

The offline path ("corpusqa index") chunks documents, embeds the
chunks, and writes a read-only vector index artifact. The online path
("corpusqa ask" or "corpusqa serve") embeds a query, retrieves the
most similar chunks, and synthesizes an answer constrained to that
retrieved context.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
