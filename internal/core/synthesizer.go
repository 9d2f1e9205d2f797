// ABOUTME: Synthesizer assembles retrieved chunks into a grounded generation prompt
// ABOUTME: Falls back to a fixed answer when no chunk clears the relevance floor
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/inextlabs/corpusqa/internal/llm"
	"github.com/inextlabs/corpusqa/internal/models"
)

// FallbackAnswer is returned when retrieval produced no usable
// evidence. Returning it instead of calling the generation model
// avoids both cost and ungrounded answers.
const FallbackAnswer = "I don't have enough context to answer that question."

// Synthesizer produces a final answer from a query and its retrieved
// chunks by calling the generation model with a context-constrained
// prompt.
type Synthesizer struct {
	generator      llm.Generator
	relevanceFloor float64
}

// NewSynthesizer creates a Synthesizer. Chunks scoring below
// relevanceFloor are discarded before prompt assembly.
func NewSynthesizer(generator llm.Generator, relevanceFloor float64) *Synthesizer {
	return &Synthesizer{generator: generator, relevanceFloor: relevanceFloor}
}

// Synthesize builds the grounded prompt and calls the generation
// model. When nothing clears the relevance floor it returns the fixed
// fallback result with zero generation calls; that is a normal
// outcome, not an error.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, retrieved []models.RetrievedChunk) (*models.AnswerResult, error) {
	kept := make([]models.RetrievedChunk, 0, len(retrieved))
	for _, rc := range retrieved {
		if rc.Score >= s.relevanceFloor {
			kept = append(kept, rc)
		}
	}

	if len(kept) == 0 {
		return &models.AnswerResult{
			Answer:   FallbackAnswer,
			Fallback: true,
		}, nil
	}

	prompt := buildPrompt(query, kept)

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &models.AnswerResult{
		Answer:   strings.TrimSpace(answer),
		Evidence: kept,
	}, nil
}

// buildPrompt assembles the context block in descending-score order,
// each chunk tagged with its source identity, and constrains the model
// to the supplied context.
func buildPrompt(query string, chunks []models.RetrievedChunk) string {
	var b strings.Builder
	for i, rc := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[source: %s/%s]\n%s", rc.Chunk.DocumentID, rc.Chunk.ChunkID, rc.Chunk.Text)
	}

	return fmt.Sprintf(`You are a helpful assistant.
Use ONLY the context below to answer the question.
Context:
%s

Question:
%s

Answer:`, b.String(), query)
}
