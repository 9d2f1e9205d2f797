// ABOUTME: CLI command to build the vector index from source documents
// ABOUTME: Offline path: chunk, embed, build, and atomically persist the artifact
package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/inextlabs/corpusqa/internal/config"
	"github.com/inextlabs/corpusqa/internal/core"
	"github.com/inextlabs/corpusqa/internal/llm"
	"github.com/joho/godotenv"
)

var (
	indexChunkSize int
	indexOverlap   int
	indexOutPath   string
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <files...>",
		Short: "Build the vector index from text documents",
		Long: `Build the vector index from text documents.

Chunks each .txt file into overlapping word windows, embeds the
chunks, and writes the index artifact. The artifact is replaced
atomically: a failed run leaves any existing index untouched.

Examples:
  corpusqa index data/*.txt
  corpusqa index --chunk-size 150 --overlap 30 docs/inextlabs.txt
  corpusqa index --out /var/lib/corpusqa/corpus.idx data/*.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIndex,
	}

	cmd.Flags().IntVar(&indexChunkSize, "chunk-size", 0, "Chunk size in words (default from config)")
	cmd.Flags().IntVar(&indexOverlap, "overlap", -1, "Chunk overlap in words (default from config)")
	cmd.Flags().StringVar(&indexOutPath, "out", "", "Artifact path (default from config)")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	chunkSize := cfg.ChunkSize
	if indexChunkSize > 0 {
		chunkSize = indexChunkSize
	}
	overlap := cfg.ChunkOverlap
	if indexOverlap >= 0 {
		overlap = indexOverlap
	}
	outPath := cfg.IndexPath
	if indexOutPath != "" {
		outPath = indexOutPath
	}

	chunker, err := core.NewChunker(chunkSize, overlap)
	if err != nil {
		return err
	}

	client, err := llm.NewOpenAIClient(llm.ClientConfig{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return fmt.Errorf("creating model client: %w", err)
	}

	indexer, err := core.NewIndexer(chunker, client, cfg.EmbedBatchSize)
	if err != nil {
		return err
	}

	docs, err := core.LoadDocuments(args)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d documents\n", len(docs))
	}

	start := time.Now()
	idx, err := indexer.BuildAndPersist(cmd.Context(), docs, outPath)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Index built: %d chunks, dimension %d, model %s\n",
			idx.Len(), idx.Dimension(), cfg.EmbeddingModel)
		fmt.Fprintf(cmd.OutOrStdout(), "Artifact: %s (%s)\n", outPath, time.Since(start).Round(time.Millisecond))
	}
	return nil
}
