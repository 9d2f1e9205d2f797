// ABOUTME: Retrieval and answer result types returned by the query pipeline
// ABOUTME: Defines RetrievedChunk (chunk + score) and AnswerResult structures
package models

// RetrievedChunk is a chunk paired with its similarity score against a
// query embedding. Results are ordered descending by score.
type RetrievedChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// AnswerResult is the outcome of answering a query. Fallback is true
// when no retrieved chunk cleared the relevance floor and the fixed
// fallback answer was returned without calling the generation model.
// A fallback is a normal outcome, not a failure.
type AnswerResult struct {
	Answer   string           `json:"answer"`
	Fallback bool             `json:"fallback"`
	Evidence []RetrievedChunk `json:"evidence,omitempty"`
}
