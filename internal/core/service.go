// ABOUTME: QueryService composes retrieval and synthesis behind a single Answer call
// ABOUTME: The only operation the external request boundary invokes
package core

import (
	"context"
	"fmt"

	"github.com/inextlabs/corpusqa/internal/models"
)

// QueryService answers natural-language questions grounded in the
// loaded corpus index. It owns no mutable state: the retriever,
// synthesizer, and default top-k are fixed at construction and the
// underlying index is immutable, so concurrent Answer calls need no
// locking.
type QueryService struct {
	retriever   *Retriever
	synthesizer *Synthesizer
	topK        int
}

// NewQueryService creates a QueryService with a fixed default top-k.
func NewQueryService(retriever *Retriever, synthesizer *Synthesizer, topK int) (*QueryService, error) {
	if retriever == nil || synthesizer == nil {
		return nil, fmt.Errorf("%w: retriever and synthesizer are required", ErrConfig)
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: top-k must be >= 1, got %d", ErrConfig, topK)
	}
	return &QueryService{retriever: retriever, synthesizer: synthesizer, topK: topK}, nil
}

// Answer retrieves the top-k chunks for query and synthesizes a
// grounded answer from them.
func (s *QueryService) Answer(ctx context.Context, query string) (*models.AnswerResult, error) {
	retrieved, err := s.retriever.Retrieve(ctx, query, s.topK)
	if err != nil {
		return nil, err
	}
	return s.synthesizer.Synthesize(ctx, query, retrieved)
}

// TopK returns the configured default top-k.
func (s *QueryService) TopK() int { return s.topK }
