// ABOUTME: CLI command to answer a single question against the indexed corpus
// ABOUTME: Prints the grounded answer and optionally the evidence chunks
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joho/godotenv"
)

var (
	askTopK     int
	askEvidence bool
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question using the indexed corpus",
		Long: `Answer a question using the indexed corpus.

Embeds the question, retrieves the most similar chunks from the
loaded index, and synthesizes an answer constrained to that context.
When no chunk clears the relevance floor a fixed fallback answer is
returned without calling the generation model.

Examples:
  corpusqa ask "What does iNextLabs specialize in?"
  corpusqa ask --top-k 3 --evidence "What products are offered?"
  corpusqa ask --format json "Who are the customers?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().IntVar(&askTopK, "top-k", 0, "Number of chunks to retrieve (default from config)")
	cmd.Flags().BoolVar(&askEvidence, "evidence", false, "Show the evidence chunks behind the answer")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if askTopK != 0 {
		if err := validatePositiveInt(askTopK, "top-k"); err != nil {
			return err
		}
	}

	p, err := buildPipeline(askTopK)
	if err != nil {
		return err
	}

	result, err := p.service.Answer(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
	if result.Fallback && !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "(no sufficiently relevant context was found)")
	}

	if askEvidence && len(result.Evidence) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SCORE\tSOURCE\tPREVIEW\n")
		fmt.Fprintf(w, "-----\t------\t-------\n")
		for _, rc := range result.Evidence {
			fmt.Fprintf(w, "%.4f\t%s\t%s\n", rc.Score, rc.Chunk.DocumentID, truncate(rc.Chunk.Text, 60))
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flushing output: %w", err)
		}
	}
	return nil
}
