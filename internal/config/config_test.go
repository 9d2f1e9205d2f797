// ABOUTME: Tests for environment-driven configuration loading and validation
// ABOUTME: Verifies defaults, overrides, and rejection of invalid parameters
package config

import (
	"errors"
	"testing"
	"time"

	"github.com/inextlabs/corpusqa/internal/core"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"OPENAI_API_KEY", "CORPUSQA_BASE_URL", "CORPUSQA_EMBEDDING_MODEL",
		"CORPUSQA_CHAT_MODEL", "CORPUSQA_TIMEOUT", "CORPUSQA_MAX_RETRIES",
		"CORPUSQA_RETRY_DELAY", "CORPUSQA_CHUNK_SIZE", "CORPUSQA_CHUNK_OVERLAP",
		"CORPUSQA_TOP_K", "CORPUSQA_RELEVANCE_FLOOR", "CORPUSQA_INDEX_PATH",
		"CORPUSQA_EMBED_BATCH", "CORPUSQA_MAX_ANSWER_TOKENS",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %q", cfg.ChatModel)
	}
	if cfg.ChunkSize != 200 || cfg.ChunkOverlap != 40 {
		t.Errorf("chunking defaults = %d/%d, want 200/40", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.RelevanceFloor != 0.25 {
		t.Errorf("RelevanceFloor = %f, want 0.25", cfg.RelevanceFloor)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.IndexPath != "corpus.idx" {
		t.Errorf("IndexPath = %q", cfg.IndexPath)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORPUSQA_CHUNK_SIZE", "150")
	t.Setenv("CORPUSQA_CHUNK_OVERLAP", "25")
	t.Setenv("CORPUSQA_TOP_K", "3")
	t.Setenv("CORPUSQA_RELEVANCE_FLOOR", "0.4")
	t.Setenv("CORPUSQA_TIMEOUT", "10s")
	t.Setenv("CORPUSQA_EMBEDDING_MODEL", "text-embedding-3-large")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ChunkSize != 150 || cfg.ChunkOverlap != 25 {
		t.Errorf("chunking = %d/%d, want 150/25", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
	if cfg.RelevanceFloor != 0.4 {
		t.Errorf("RelevanceFloor = %f, want 0.4", cfg.RelevanceFloor)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"overlap >= chunk size", "CORPUSQA_CHUNK_OVERLAP", "200"},
		{"negative overlap", "CORPUSQA_CHUNK_OVERLAP", "-1"},
		{"zero chunk size", "CORPUSQA_CHUNK_SIZE", "0"},
		{"zero top-k", "CORPUSQA_TOP_K", "0"},
		{"relevance floor above 1", "CORPUSQA_RELEVANCE_FLOOR", "1.5"},
		{"too many retries", "CORPUSQA_MAX_RETRIES", "99"},
		{"zero embed batch", "CORPUSQA_EMBED_BATCH", "0"},
		{"zero answer tokens", "CORPUSQA_MAX_ANSWER_TOKENS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, core.ErrConfig) {
				t.Errorf("error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestLoad_MalformedNumbersFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORPUSQA_CHUNK_SIZE", "not-a-number")
	t.Setenv("CORPUSQA_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 200 {
		t.Errorf("ChunkSize = %d, want default 200", cfg.ChunkSize)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", cfg.Timeout)
	}
}
