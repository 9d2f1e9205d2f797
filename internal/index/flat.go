// ABOUTME: Flat (brute-force) vector index with exact cosine similarity search
// ABOUTME: Immutable after Build/Load; safe for concurrent readers without locking
package index

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/inextlabs/corpusqa/internal/models"
)

var (
	// ErrEmptyIndex indicates Build was called with no entries.
	ErrEmptyIndex = errors.New("index has no entries")

	// ErrInvalidQuery indicates a query that cannot be searched: wrong
	// embedding dimension or non-positive top-k. A dimension mismatch
	// means the index and the live embedder disagree, which is an
	// internal consistency fault.
	ErrInvalidQuery = errors.New("invalid query")
)

// MetricCosine is the similarity metric recorded in persisted indexes.
// Stored vectors are L2-normalized, so inner product equals cosine.
const MetricCosine = "cosine"

// ChunkUnitWords records that chunk size/overlap were measured in words.
const ChunkUnitWords = "words"

// Meta describes a persisted index well enough for an unrelated
// process to load and validate it.
type Meta struct {
	Dimension      int    `json:"dimension"`
	Metric         string `json:"metric"`
	ChunkUnit      string `json:"chunk_unit"`
	EmbeddingModel string `json:"embedding_model"`
	Count          int    `json:"count"`
}

// Index is the similarity-search capability the retriever depends on.
// Implementations may be exact or approximate; callers never depend on
// which variant is active.
type Index interface {
	Search(query []float32, topK int) ([]models.RetrievedChunk, error)
	Dimension() int
	Len() int
}

// Flat is the exact brute-force implementation of Index: a parallel
// pair of vector and chunk slices scanned in full on every search.
// Immutable after construction.
type Flat struct {
	meta    Meta
	vectors [][]float32
	chunks  []models.Chunk
}

// Build constructs a Flat index over parallel vector and chunk slices.
// Requires len(vectors) == len(chunks) > 0 and a consistent dimension.
func Build(vectors [][]float32, chunks []models.Chunk, meta Meta) (*Flat, error) {
	if len(vectors) == 0 || len(chunks) == 0 {
		return nil, ErrEmptyIndex
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("vectors (%d) and chunks (%d) length mismatch", len(vectors), len(chunks))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("zero-dimension embedding at position 0")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("embedding dimension mismatch at position %d: expected %d, got %d", i, dim, len(v))
		}
	}

	meta.Dimension = dim
	meta.Count = len(vectors)
	if meta.Metric == "" {
		meta.Metric = MetricCosine
	}
	if meta.ChunkUnit == "" {
		meta.ChunkUnit = ChunkUnitWords
	}

	return &Flat{meta: meta, vectors: vectors, chunks: chunks}, nil
}

// Search returns the topK stored chunks most similar to query by
// cosine similarity, descending by score. Ties keep insertion order.
// topK is clamped to the index size.
func (f *Flat) Search(query []float32, topK int) ([]models.RetrievedChunk, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: top-k must be >= 1, got %d", ErrInvalidQuery, topK)
	}
	if len(query) != f.meta.Dimension {
		return nil, fmt.Errorf("%w: embedding dimension %d does not match index dimension %d", ErrInvalidQuery, len(query), f.meta.Dimension)
	}
	if topK > len(f.vectors) {
		topK = len(f.vectors)
	}

	scores := make([]float64, len(f.vectors))
	for i, v := range f.vectors {
		scores[i] = cosineSimilarity(query, v)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps insertion order for equal scores, so repeated
	// searches are deterministic.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	results := make([]models.RetrievedChunk, topK)
	for i := 0; i < topK; i++ {
		j := order[i]
		results[i] = models.RetrievedChunk{Chunk: f.chunks[j], Score: scores[j]}
	}
	return results, nil
}

// Dimension returns the embedding dimension of the stored vectors.
func (f *Flat) Dimension() int { return f.meta.Dimension }

// Len returns the number of stored entries.
func (f *Flat) Len() int { return len(f.vectors) }

// Meta returns a copy of the index metadata.
func (f *Flat) Meta() Meta { return f.meta }

// cosineSimilarity calculates cosine similarity between two vectors.
// Accumulates in float64 for score stability across persist/load.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
