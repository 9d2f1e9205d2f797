// ABOUTME: Tests for index artifact persistence: round-trip, atomicity, validation
// ABOUTME: Verifies not-found, corrupt, and incompatible-model load failures
package index

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/inextlabs/corpusqa/internal/models"
)

func buildTestIndex(t *testing.T, dim int) *Flat {
	t.Helper()
	vectors := [][]float32{
		append([]float32{1}, make([]float32, dim-1)...),
		append([]float32{0, 1}, make([]float32, dim-2)...),
		append([]float32{0.6, 0.8}, make([]float32, dim-2)...),
	}
	chunks := []models.Chunk{
		{ChunkID: "c0", DocumentID: "d", Text: "alpha", StartWord: 0, EndWord: 5},
		{ChunkID: "c1", DocumentID: "d", Text: "beta", StartWord: 3, EndWord: 8},
		{ChunkID: "c2", DocumentID: "d", Text: "gamma", StartWord: 6, EndWord: 11},
	}
	idx, err := Build(vectors, chunks, Meta{EmbeddingModel: "test-model-384"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return idx
}

func TestPersistLoad_RoundTrip(t *testing.T) {
	idx := buildTestIndex(t, 4)
	path := filepath.Join(t.TempDir(), "corpus.idx")

	if err := idx.Persist(path); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	loaded, err := Load(path, "test-model-384")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Len() != idx.Len() {
		t.Fatalf("loaded %d entries, want %d", loaded.Len(), idx.Len())
	}
	if loaded.Dimension() != idx.Dimension() {
		t.Fatalf("loaded dimension %d, want %d", loaded.Dimension(), idx.Dimension())
	}
	if loaded.Meta() != idx.Meta() {
		t.Errorf("loaded meta %+v, want %+v", loaded.Meta(), idx.Meta())
	}

	// Search results must match the pre-persist index exactly: same
	// ordering, same scores within floating-point tolerance.
	queries := [][]float32{
		{1, 0, 0, 0},
		{0.5, 0.5, 0, 0},
		{0, 0, 1, 0},
	}
	for _, q := range queries {
		before, err := idx.Search(q, 3)
		if err != nil {
			t.Fatalf("Search(before) error = %v", err)
		}
		after, err := loaded.Search(q, 3)
		if err != nil {
			t.Fatalf("Search(after) error = %v", err)
		}
		for i := range before {
			if after[i].Chunk != before[i].Chunk {
				t.Errorf("result %d chunk differs after round-trip", i)
			}
			if math.Abs(after[i].Score-before[i].Score) > 1e-12 {
				t.Errorf("result %d score %v != %v", i, after[i].Score, before[i].Score)
			}
		}
	}
}

func TestPersist_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.idx")

	first := buildTestIndex(t, 4)
	if err := first.Persist(path); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	second := buildTestIndex(t, 4)
	if err := second.Persist(path); err != nil {
		t.Fatalf("re-Persist() error = %v", err)
	}

	// No temp file remains after a successful replace
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp artifact left behind: %v", err)
	}

	if _, err := Load(path, "test-model-384"); err != nil {
		t.Errorf("Load() after replace error = %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.idx")
	_, err := Load(path, "")
	if !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrIndexNotFound", err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.idx")
	if err := os.WriteFile(path, []byte("not a bbolt file at all"), 0600); err != nil {
		t.Fatalf("writing garbage: %v", err)
	}

	_, err := Load(path, "")
	if !errors.Is(err, ErrIndexCorrupt) {
		t.Errorf("Load(garbage) error = %v, want ErrIndexCorrupt", err)
	}
}

func TestLoad_ModelMismatch(t *testing.T) {
	// An index built with a 384-dim embedder must be rejected at load
	// time when the service is configured for a different embedder.
	idx := buildTestIndex(t, 4)
	path := filepath.Join(t.TempDir(), "corpus.idx")
	if err := idx.Persist(path); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	_, err := Load(path, "test-model-768")
	if !errors.Is(err, ErrIndexIncompatible) {
		t.Errorf("Load(mismatched model) error = %v, want ErrIndexIncompatible", err)
	}
}

func TestLoad_NoModelCheckWhenEmpty(t *testing.T) {
	idx := buildTestIndex(t, 4)
	path := filepath.Join(t.TempDir(), "corpus.idx")
	if err := idx.Persist(path); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	if _, err := Load(path, ""); err != nil {
		t.Errorf("Load with empty wantModel error = %v", err)
	}
}
