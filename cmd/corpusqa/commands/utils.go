// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Pipeline wiring helpers and small formatting/validation helpers
package commands

import (
	"fmt"

	"github.com/inextlabs/corpusqa/internal/config"
	"github.com/inextlabs/corpusqa/internal/core"
	"github.com/inextlabs/corpusqa/internal/index"
	"github.com/inextlabs/corpusqa/internal/llm"
)

// pipeline bundles the wired online-path components.
type pipeline struct {
	cfg       *config.Config
	idx       *index.Flat
	retriever *core.Retriever
	service   *core.QueryService
}

// buildPipeline loads config, loads the index read-only (validating
// the embedding model identifier), and wires the query service.
func buildPipeline(topKOverride int) (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	idx, err := index.Load(cfg.IndexPath, cfg.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("loading index from %s: %w", cfg.IndexPath, err)
	}

	client, err := llm.NewOpenAIClient(llm.ClientConfig{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		EmbeddingModel:  cfg.EmbeddingModel,
		ChatModel:       cfg.ChatModel,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryDelay,
		MaxAnswerTokens: cfg.MaxAnswerTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}

	topK := cfg.TopK
	if topKOverride > 0 {
		topK = topKOverride
	}

	retriever := core.NewRetriever(client, idx)
	synthesizer := core.NewSynthesizer(client, cfg.RelevanceFloor)
	service, err := core.NewQueryService(retriever, synthesizer, topK)
	if err != nil {
		return nil, err
	}

	return &pipeline{cfg: cfg, idx: idx, retriever: retriever, service: service}, nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
