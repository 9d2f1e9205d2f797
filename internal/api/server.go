// ABOUTME: Thin HTTP JSON adapter over the query service
// ABOUTME: POST /chat answers questions; GET /healthz reports index status
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/inextlabs/corpusqa/internal/core"
	"github.com/inextlabs/corpusqa/internal/index"
	"github.com/inextlabs/corpusqa/internal/llm"
)

// Server adapts HTTP requests to QueryService.Answer. It holds only
// read-only references and does no work of its own beyond decoding,
// dispatching, and mapping errors to status codes.
type Server struct {
	service *core.QueryService
	idx     index.Index
}

// NewServer creates a Server over the query service and loaded index.
func NewServer(service *core.QueryService, idx index.Index) *Server {
	return &Server{service: service, idx: idx}
}

// Routes returns the HTTP handler for all endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

type chatRequest struct {
	Query string `json:"query"`
}

type evidenceItem struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

type chatResponse struct {
	Answer   string         `json:"answer"`
	Fallback bool           `json:"fallback"`
	Evidence []evidenceItem `json:"evidence,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	result, err := s.service.Answer(r.Context(), req.Query)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := chatResponse{Answer: result.Answer, Fallback: result.Fallback}
	for _, rc := range result.Evidence {
		resp.Evidence = append(resp.Evidence, evidenceItem{
			ChunkID:    rc.Chunk.ChunkID,
			DocumentID: rc.Chunk.DocumentID,
			Score:      rc.Score,
			Text:       rc.Chunk.Text,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"entries":   s.idx.Len(),
		"dimension": s.idx.Dimension(),
	})
}

// writeError maps pipeline errors onto HTTP status codes. Service
// errors already exhausted their retries inside the clients.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query must be a non-empty string"})
	case errors.Is(err, llm.ErrEmbeddingService), errors.Is(err, llm.ErrGenerationService):
		log.Printf("model service failure: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "temporarily unavailable"})
	case errors.Is(err, index.ErrInvalidQuery):
		// Index/embedder dimension disagreement is an internal fault
		// that should never survive startup validation.
		log.Printf("ALARM: index consistency fault: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		log.Printf("answer failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
