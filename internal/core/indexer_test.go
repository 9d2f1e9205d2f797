// ABOUTME: Tests for the offline indexing pipeline and document loading
// ABOUTME: Verifies batching, metadata, atomicity on failure, and .txt loading
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/inextlabs/corpusqa/internal/index"
	"github.com/inextlabs/corpusqa/internal/llm"
	"github.com/inextlabs/corpusqa/internal/models"
)

func TestNewIndexer_Validation(t *testing.T) {
	chunker, _ := NewChunker(10, 2)
	embedder := llm.NewStaticEmbedder(4)

	if _, err := NewIndexer(nil, embedder, 8); !errors.Is(err, ErrConfig) {
		t.Errorf("nil chunker: error = %v, want ErrConfig", err)
	}
	if _, err := NewIndexer(chunker, nil, 8); !errors.Is(err, ErrConfig) {
		t.Errorf("nil embedder: error = %v, want ErrConfig", err)
	}
	if _, err := NewIndexer(chunker, embedder, 0); !errors.Is(err, ErrConfig) {
		t.Errorf("zero batch size: error = %v, want ErrConfig", err)
	}
}

func TestBuildIndex_NoChunks(t *testing.T) {
	chunker, _ := NewChunker(10, 2)
	indexer, _ := NewIndexer(chunker, llm.NewStaticEmbedder(4), 8)

	_, err := indexer.BuildIndex(context.Background(), []models.Document{
		{ID: "empty", Text: "   "},
	})
	if !errors.Is(err, index.ErrEmptyIndex) {
		t.Errorf("error = %v, want ErrEmptyIndex", err)
	}
}

func TestBuildIndex_MetadataAndOrder(t *testing.T) {
	chunker, _ := NewChunker(5, 1)
	embedder := llm.NewStaticEmbedder(4)
	// Batch size smaller than chunk count to exercise batching
	indexer, _ := NewIndexer(chunker, embedder, 2)

	idx, err := indexer.BuildIndex(context.Background(), []models.Document{
		{ID: "doc1", Text: makeWords(12)},
		{ID: "doc2", Text: makeWords(7)},
	})
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	m := idx.Meta()
	if m.EmbeddingModel != embedder.ModelID() {
		t.Errorf("meta model = %q, want %q", m.EmbeddingModel, embedder.ModelID())
	}
	if m.Metric != index.MetricCosine || m.ChunkUnit != index.ChunkUnitWords {
		t.Errorf("meta = %+v", m)
	}
	if m.Dimension != 4 {
		t.Errorf("dimension = %d, want 4", m.Dimension)
	}

	// doc1 with 12 words at size 5 stride 4: 3 chunks; doc2 with 7: 2
	if idx.Len() != 5 {
		t.Errorf("index has %d entries, want 5", idx.Len())
	}
}

func TestBuildAndPersist_FailureLeavesNoArtifact(t *testing.T) {
	chunker, _ := NewChunker(5, 1)
	indexer, _ := NewIndexer(chunker, &failingEmbedder{}, 8)

	path := filepath.Join(t.TempDir(), "corpus.idx")
	_, err := indexer.BuildAndPersist(context.Background(), []models.Document{
		{ID: "doc", Text: makeWords(10)},
	}, path)
	if !errors.Is(err, llm.ErrEmbeddingService) {
		t.Fatalf("error = %v, want ErrEmbeddingService", err)
	}

	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("failed build left an artifact behind")
	}
	if _, statErr := os.Stat(path + ".tmp"); !os.IsNotExist(statErr) {
		t.Error("failed build left a temp artifact behind")
	}
}

func TestBuildAndPersist_RoundTrip(t *testing.T) {
	chunker, _ := NewChunker(5, 1)
	embedder := llm.NewStaticEmbedder(4)
	indexer, _ := NewIndexer(chunker, embedder, 3)

	path := filepath.Join(t.TempDir(), "corpus.idx")
	built, err := indexer.BuildAndPersist(context.Background(), []models.Document{
		{ID: "doc", Text: makeWords(20)},
	}, path)
	if err != nil {
		t.Fatalf("BuildAndPersist() error = %v", err)
	}

	loaded, err := index.Load(path, embedder.ModelID())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != built.Len() {
		t.Errorf("loaded %d entries, want %d", loaded.Len(), built.Len())
	}
}

func TestBuildIndex_Cancelled(t *testing.T) {
	chunker, _ := NewChunker(5, 1)
	indexer, _ := NewIndexer(chunker, llm.NewStaticEmbedder(4), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := indexer.BuildIndex(ctx, []models.Document{{ID: "doc", Text: makeWords(10)}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()
	for i, content := range []string{"first document text", "second document text"} {
		name := filepath.Join(dir, fmt.Sprintf("doc%d.txt", i))
		if err := os.WriteFile(name, []byte(content), 0600); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}
	}
	// Non-txt files are skipped
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("skip me"), 0600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	docs, err := LoadDocuments([]string{filepath.Join(dir, "*")})
	if err != nil {
		t.Fatalf("LoadDocuments() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].ID != "doc0" || docs[1].ID != "doc1" {
		t.Errorf("document IDs = %q, %q", docs[0].ID, docs[1].ID)
	}
}

func TestLoadDocuments_NoneFound(t *testing.T) {
	if _, err := LoadDocuments([]string{filepath.Join(t.TempDir(), "*.txt")}); err == nil {
		t.Error("expected error when no documents match")
	}
}
