// ABOUTME: Centralized configuration for the corpus QA service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/inextlabs/corpusqa/internal/core"
)

// Config holds all configuration for the retrieval-augmented answering
// pipeline. Loaded once at startup and treated as read-only.
type Config struct {
	// OpenAI-compatible endpoint settings
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Chunking settings (units are words)
	ChunkSize    int
	ChunkOverlap int

	// Retrieval settings
	TopK           int
	RelevanceFloor float64
	IndexPath      string

	// Embedding/generation request shaping
	EmbedBatchSize  int
	MaxAnswerTokens int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		APIKey:          os.Getenv("OPENAI_API_KEY"),
		BaseURL:         os.Getenv("CORPUSQA_BASE_URL"),
		EmbeddingModel:  getEnv("CORPUSQA_EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:       getEnv("CORPUSQA_CHAT_MODEL", "gpt-4o-mini"),
		Timeout:         getEnvDuration("CORPUSQA_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("CORPUSQA_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("CORPUSQA_RETRY_DELAY", 2*time.Second),
		ChunkSize:       getEnvInt("CORPUSQA_CHUNK_SIZE", 200),
		ChunkOverlap:    getEnvInt("CORPUSQA_CHUNK_OVERLAP", 40),
		TopK:            getEnvInt("CORPUSQA_TOP_K", 5),
		RelevanceFloor:  getEnvFloat("CORPUSQA_RELEVANCE_FLOOR", 0.25),
		IndexPath:       getEnv("CORPUSQA_INDEX_PATH", "corpus.idx"),
		EmbedBatchSize:  getEnvInt("CORPUSQA_EMBED_BATCH", 64),
		MaxAnswerTokens: getEnvInt("CORPUSQA_MAX_ANSWER_TOKENS", 300),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: CORPUSQA_CHUNK_SIZE must be positive, got %d", core.ErrConfig, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: CORPUSQA_CHUNK_OVERLAP must be in [0, chunk size), got %d", core.ErrConfig, c.ChunkOverlap)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: CORPUSQA_TOP_K must be >= 1, got %d", core.ErrConfig, c.TopK)
	}
	if c.RelevanceFloor < -1 || c.RelevanceFloor > 1 {
		return fmt.Errorf("%w: CORPUSQA_RELEVANCE_FLOOR must be in [-1, 1], got %f", core.ErrConfig, c.RelevanceFloor)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("%w: CORPUSQA_MAX_RETRIES must be 0-10, got %d", core.ErrConfig, c.MaxRetries)
	}
	if c.EmbedBatchSize < 1 {
		return fmt.Errorf("%w: CORPUSQA_EMBED_BATCH must be >= 1, got %d", core.ErrConfig, c.EmbedBatchSize)
	}
	if c.MaxAnswerTokens < 1 {
		return fmt.Errorf("%w: CORPUSQA_MAX_ANSWER_TOKENS must be >= 1, got %d", core.ErrConfig, c.MaxAnswerTokens)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
