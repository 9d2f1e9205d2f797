// ABOUTME: Retriever embeds a query and searches the loaded vector index
// ABOUTME: Pure composition over the embedder and index, no caching
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/inextlabs/corpusqa/internal/index"
	"github.com/inextlabs/corpusqa/internal/llm"
	"github.com/inextlabs/corpusqa/internal/models"
)

// Retriever turns a query string into ranked retrieved chunks. It
// holds only read-only references and is safe for concurrent use.
type Retriever struct {
	embedder llm.Embedder
	idx      index.Index
}

// NewRetriever creates a Retriever over the given embedder and index.
func NewRetriever(embedder llm.Embedder, idx index.Index) *Retriever {
	return &Retriever{embedder: embedder, idx: idx}
}

// Retrieve embeds query and returns the topK most similar chunks,
// descending by score. Empty or whitespace-only queries are rejected
// before any remote call is made.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievedChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must be non-empty", ErrValidation)
	}

	vectors, err := r.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding query: expected 1 vector, got %d", len(vectors))
	}

	return r.idx.Search(vectors[0], topK)
}
