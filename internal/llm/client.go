// ABOUTME: Capability interfaces and error kinds for remote model access
// ABOUTME: Embedder and Generator abstract the OpenAI-backed clients for testing
package llm

import (
	"context"
	"errors"
)

var (
	// ErrEmbeddingService indicates the remote embedding service failed
	// after exhausting retries. Transient by default.
	ErrEmbeddingService = errors.New("embedding service unavailable")

	// ErrGenerationService indicates the remote generation service
	// failed after exhausting retries. Transient by default.
	ErrGenerationService = errors.New("generation service unavailable")
)

// Embedder converts texts into fixed-dimension dense vectors. One
// vector is returned per input text, order-preserving. Implementations
// must L2-normalize vectors so inner product equals cosine similarity.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

// Generator produces answer text from a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelID() string
}
