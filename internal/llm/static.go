// ABOUTME: Deterministic Embedder and Generator implementations for offline use
// ABOUTME: Return fixed vectors and canned text so tests never touch the network
package llm

import (
	"context"
	"fmt"
	"sync/atomic"
)

// StaticEmbedder is a deterministic Embedder for tests and offline
// runs. If a text appears in Vectors that vector is returned
// (normalized); otherwise a repeatable hash-derived vector of Dim
// components is produced.
type StaticEmbedder struct {
	Dim     int
	Model   string
	Vectors map[string][]float32
}

// NewStaticEmbedder creates a StaticEmbedder with the given dimension.
func NewStaticEmbedder(dim int) *StaticEmbedder {
	return &StaticEmbedder{
		Dim:     dim,
		Model:   "static-embedder",
		Vectors: make(map[string][]float32),
	}
}

// ModelID returns the configured model identifier.
func (e *StaticEmbedder) ModelID() string { return e.Model }

// EmbedBatch returns one normalized vector per input text.
func (e *StaticEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := e.Vectors[text]; ok {
			u := make([]float32, len(v))
			copy(u, v)
			l2Normalize(u)
			out[i] = u
			continue
		}
		out[i] = e.derive(text)
	}
	return out, nil
}

// derive builds a repeatable pseudo-embedding from character content.
func (e *StaticEmbedder) derive(text string) []float32 {
	v := make([]float32, e.Dim)
	for i, r := range text {
		v[i%e.Dim] += float32(r) / 1000.0
	}
	// Avoid the zero vector for empty input
	if len(text) == 0 {
		v[0] = 1
	}
	l2Normalize(v)
	return v
}

// StaticGenerator is a deterministic Generator that records its calls.
type StaticGenerator struct {
	Model    string
	Response string
	Err      error
	calls    atomic.Int64
}

// NewStaticGenerator creates a StaticGenerator returning response.
func NewStaticGenerator(response string) *StaticGenerator {
	return &StaticGenerator{Model: "static-generator", Response: response}
}

// ModelID returns the configured model identifier.
func (g *StaticGenerator) ModelID() string { return g.Model }

// Generate returns the canned response (or configured error) and
// counts the call.
func (g *StaticGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	if g.Err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationService, g.Err)
	}
	if g.Response != "" {
		return g.Response, nil
	}
	return fmt.Sprintf("static answer for prompt of %d chars", len(prompt)), nil
}

// Calls returns how many times Generate was invoked.
func (g *StaticGenerator) Calls() int { return int(g.calls.Load()) }
