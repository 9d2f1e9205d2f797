// ABOUTME: Persistence of the vector index as a single self-describing bbolt file
// ABOUTME: Atomic replace via temp-file rename; load validates model and metric
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/inextlabs/corpusqa/internal/models"
	"go.etcd.io/bbolt"
)

var (
	// ErrIndexNotFound indicates no artifact exists at the given path.
	ErrIndexNotFound = errors.New("index artifact not found")

	// ErrIndexCorrupt indicates the artifact exists but is malformed.
	ErrIndexCorrupt = errors.New("index artifact corrupt")

	// ErrIndexIncompatible indicates the artifact was built with a
	// different embedding model or similarity metric than the service
	// is configured for. Serving queries against it would silently
	// degrade the vector space, so startup must refuse.
	ErrIndexIncompatible = errors.New("index artifact incompatible")
)

var (
	bucketMeta    = []byte("meta")
	bucketEntries = []byte("entries")

	metaKey = []byte("meta")
)

// entry is the persisted form of one (vector, chunk) pair.
type entry struct {
	Vector []float32    `json:"vector"`
	Chunk  models.Chunk `json:"chunk"`
}

func entryKey(i int) []byte {
	return []byte(fmt.Sprintf("%012d", i))
}

// Persist writes the index to path as a bbolt file. The artifact is
// written to a temporary sibling first and renamed into place, so a
// half-written index is never observable at path.
func (f *Flat) Persist(path string) error {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	db, err := bbolt.Open(tmp, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("opening temp artifact: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		mb, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		eb, err := tx.CreateBucketIfNotExists(bucketEntries)
		if err != nil {
			return err
		}

		metaJSON, err := json.Marshal(f.meta)
		if err != nil {
			return err
		}
		if err := mb.Put(metaKey, metaJSON); err != nil {
			return err
		}

		for i := range f.vectors {
			data, err := json.Marshal(entry{Vector: f.vectors[i], Chunk: f.chunks[i]})
			if err != nil {
				return err
			}
			if err := eb.Put(entryKey(i), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("writing artifact: %w", err)
	}

	if err := db.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("closing artifact: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing artifact: %w", err)
	}
	return nil
}

// Load reads a persisted index from path. wantModel, when non-empty,
// must match the embedding model recorded in the artifact; a mismatch
// fails here at startup rather than at first query.
func Load(path, wantModel string) (*Flat, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	db, err := bbolt.Open(path, 0400, &bbolt.Options{Timeout: 5 * time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexCorrupt, err)
	}
	defer db.Close()

	var meta Meta
	var vectors [][]float32
	var chunks []models.Chunk

	err = db.View(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(bucketMeta)
		if mb == nil {
			return fmt.Errorf("%w: missing meta bucket", ErrIndexCorrupt)
		}
		raw := mb.Get(metaKey)
		if raw == nil {
			return fmt.Errorf("%w: missing meta record", ErrIndexCorrupt)
		}
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("%w: decoding meta: %v", ErrIndexCorrupt, err)
		}

		if meta.Metric != MetricCosine {
			return fmt.Errorf("%w: unsupported similarity metric %q", ErrIndexIncompatible, meta.Metric)
		}
		if wantModel != "" && meta.EmbeddingModel != wantModel {
			return fmt.Errorf("%w: built with embedding model %q, service configured for %q", ErrIndexIncompatible, meta.EmbeddingModel, wantModel)
		}
		if meta.Dimension <= 0 || meta.Count <= 0 {
			return fmt.Errorf("%w: invalid meta (dimension=%d, count=%d)", ErrIndexCorrupt, meta.Dimension, meta.Count)
		}

		eb := tx.Bucket(bucketEntries)
		if eb == nil {
			return fmt.Errorf("%w: missing entries bucket", ErrIndexCorrupt)
		}

		vectors = make([][]float32, 0, meta.Count)
		chunks = make([]models.Chunk, 0, meta.Count)

		// Keys are zero-padded insertion indices, so a cursor walk
		// restores the original ordering.
		c := eb.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var e entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("%w: decoding entry %s: %v", ErrIndexCorrupt, k, err)
			}
			if len(e.Vector) != meta.Dimension {
				return fmt.Errorf("%w: entry %s has dimension %d, meta says %d", ErrIndexCorrupt, k, len(e.Vector), meta.Dimension)
			}
			vectors = append(vectors, e.Vector)
			chunks = append(chunks, e.Chunk)
		}

		if len(vectors) != meta.Count {
			return fmt.Errorf("%w: meta says %d entries, found %d", ErrIndexCorrupt, meta.Count, len(vectors))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Flat{meta: meta, vectors: vectors, chunks: chunks}, nil
}
