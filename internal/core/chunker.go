// ABOUTME: Chunker splits document text into overlapping word windows for embedding
// ABOUTME: Window size and overlap are measured in whitespace-separated words
package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inextlabs/corpusqa/internal/models"
)

// Chunker produces fixed-size overlapping word windows over document
// text. Windows of chunkSize words advance by chunkSize - overlap, so
// every word belongs to at least one chunk and consecutive chunks share
// overlap words. The final chunk may be shorter than chunkSize.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a Chunker. chunkSize must be positive and overlap
// must satisfy 0 <= overlap < chunkSize.
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfig, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, chunk size), got %d", ErrConfig, overlap)
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk splits text into overlapping word windows. Whitespace runs are
// normalized to single spaces before splitting, so offsets are word
// indices into the normalized sequence. Empty or whitespace-only text
// yields no chunks.
func (c *Chunker) Chunk(docID, text string) ([]models.Chunk, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	stride := c.chunkSize - c.overlap
	var chunks []models.Chunk

	for start := 0; start < len(words); start += stride {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, models.Chunk{
			ChunkID:    uuid.New().String(),
			DocumentID: docID,
			Text:       strings.Join(words[start:end], " "),
			StartWord:  start,
			EndWord:    end,
		})

		// The window reached the end of the document; a further stride
		// would only re-emit already-covered words.
		if end == len(words) {
			break
		}
	}

	return chunks, nil
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int { return c.overlap }
