// ABOUTME: Indexer runs the offline pipeline: documents -> chunks -> embeddings -> artifact
// ABOUTME: Any step failing aborts the run; the artifact is only ever replaced atomically
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/inextlabs/corpusqa/internal/index"
	"github.com/inextlabs/corpusqa/internal/llm"
	"github.com/inextlabs/corpusqa/internal/models"
)

// Indexer builds the persisted vector index from source documents.
// It is a single-run offline tool: it never touches an index already
// loaded by a serving process, only the artifact file.
type Indexer struct {
	chunker   *Chunker
	embedder  llm.Embedder
	batchSize int
}

// NewIndexer creates an Indexer. batchSize bounds how many chunk texts
// are sent to the embedding service per request.
func NewIndexer(chunker *Chunker, embedder llm.Embedder, batchSize int) (*Indexer, error) {
	if chunker == nil {
		return nil, fmt.Errorf("%w: chunker is required", ErrConfig)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrConfig)
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("%w: embed batch size must be >= 1, got %d", ErrConfig, batchSize)
	}
	return &Indexer{chunker: chunker, embedder: embedder, batchSize: batchSize}, nil
}

// BuildIndex chunks and embeds the documents and builds an in-memory
// flat index. Fails without side effects if any step fails.
func (ix *Indexer) BuildIndex(ctx context.Context, docs []models.Document) (*index.Flat, error) {
	var chunks []models.Chunk
	for _, doc := range docs {
		dc, err := ix.chunker.Chunk(doc.ID, doc.Text)
		if err != nil {
			return nil, fmt.Errorf("chunking document %s: %w", doc.ID, err)
		}
		chunks = append(chunks, dc...)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: documents produced no chunks", index.ErrEmptyIndex)
	}

	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += ix.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + ix.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}

		batch, err := ix.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
		}
		vectors = append(vectors, batch...)
	}

	return index.Build(vectors, chunks, index.Meta{
		Metric:         index.MetricCosine,
		ChunkUnit:      index.ChunkUnitWords,
		EmbeddingModel: ix.embedder.ModelID(),
	})
}

// BuildAndPersist runs BuildIndex and atomically replaces the artifact
// at path. A failed run leaves any existing artifact untouched.
func (ix *Indexer) BuildAndPersist(ctx context.Context, docs []models.Document, path string) (*index.Flat, error) {
	idx, err := ix.BuildIndex(ctx, docs)
	if err != nil {
		return nil, err
	}
	if err := idx.Persist(path); err != nil {
		return nil, fmt.Errorf("persisting index: %w", err)
	}
	return idx, nil
}

// LoadDocuments reads .txt files (paths may be globs) into documents.
// Document IDs are the file base names without extension.
func LoadDocuments(paths []string) ([]models.Document, error) {
	var docs []models.Document
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", m, err)
			}
			id := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
			docs = append(docs, models.Document{ID: id, Text: string(data)})
		}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no .txt documents found in %v", paths)
	}
	return docs, nil
}
