// ABOUTME: Chunk represents an overlapping word-window slice of a document
// ABOUTME: Chunks are the atomic unit of retrieval, stored alongside their vectors
package models

// Chunk is a contiguous word window of a source document. StartWord and
// EndWord are indices into the whitespace-normalized word sequence of
// the document ([StartWord, EndWord) half-open).
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	StartWord  int    `json:"start_word"`
	EndWord    int    `json:"end_word"`
}
