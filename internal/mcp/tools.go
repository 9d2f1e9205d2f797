// ABOUTME: MCP tool definitions and registration for the corpus QA server
// ABOUTME: Exposes grounded question answering as an ask_corpus tool
package mcp

import (
	"github.com/inextlabs/corpusqa/internal/core"
	"github.com/inextlabs/corpusqa/internal/index"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, service *core.QueryService, retriever *core.Retriever, idx index.Index) *Handlers {
	handlers := &Handlers{
		service:   service,
		retriever: retriever,
		idx:       idx,
	}

	// 1. ask_corpus - answer a question grounded in the indexed corpus
	server.AddTool(mcp.Tool{
		Name:        "ask_corpus",
		Description: "Answer a natural-language question using only content retrieved from the indexed corpus. Returns the answer plus the evidence chunks it was grounded in.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.AskCorpus)

	// 2. search_corpus - raw retrieval without answer synthesis
	server.AddTool(mcp.Tool{
		Name:        "search_corpus",
		Description: "Retrieve the most similar corpus chunks for a query without generating an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of chunks to return (default: 5)",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchCorpus)

	// 3. corpus_status - index size and embedding dimension
	server.AddTool(mcp.Tool{
		Name:        "corpus_status",
		Description: "Report the loaded index size and embedding dimension.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.CorpusStatus)

	return handlers
}
