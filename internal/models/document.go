// ABOUTME: Document represents a raw text source loaded at index-build time
// ABOUTME: Documents are chunked and discarded; only chunks are persisted
package models

// Document is a raw text source. It exists only during the offline
// indexing run; after chunking the full text is no longer needed.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
