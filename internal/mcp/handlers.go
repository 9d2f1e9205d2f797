// ABOUTME: MCP tool handler implementations for the corpus QA server
// ABOUTME: Maps pipeline errors onto tool error results, never protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/inextlabs/corpusqa/internal/core"
	"github.com/inextlabs/corpusqa/internal/index"
	"github.com/inextlabs/corpusqa/internal/llm"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	service   *core.QueryService
	retriever *core.Retriever
	idx       index.Index
}

// AskCorpus handles the ask_corpus tool
func (h *Handlers) AskCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	result, err := h.service.Answer(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchCorpus handles the search_corpus tool
func (h *Handlers) SearchCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", h.service.TopK())

	results, err := h.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return mcp.NewToolResultError(toolErrorMessage(err)), nil
	}

	response := map[string]interface{}{
		"chunks": results,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// CorpusStatus handles the corpus_status tool
func (h *Handlers) CorpusStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"entries":   h.idx.Len(),
		"dimension": h.idx.Dimension(),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// toolErrorMessage picks a caller-appropriate message for pipeline
// errors, logging internal faults on the way.
func toolErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrValidation):
		return "query must be a non-empty string"
	case errors.Is(err, llm.ErrEmbeddingService), errors.Is(err, llm.ErrGenerationService):
		log.Printf("model service failure: %v", err)
		return "temporarily unavailable, please retry"
	case errors.Is(err, index.ErrInvalidQuery):
		log.Printf("ALARM: index consistency fault: %v", err)
		return "internal error"
	default:
		log.Printf("tool call failed: %v", err)
		return "internal error"
	}
}
