// ABOUTME: Main entry point for the corpus QA MCP server with stdio transport
// ABOUTME: Loads the index read-only, wires the pipeline, and serves tools
package main

import (
	"log"

	"github.com/inextlabs/corpusqa/internal/config"
	"github.com/inextlabs/corpusqa/internal/core"
	"github.com/inextlabs/corpusqa/internal/index"
	"github.com/inextlabs/corpusqa/internal/llm"
	"github.com/inextlabs/corpusqa/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Refuse to serve without a compatible index; the model identifier
	// check happens here, not at first query.
	idx, err := index.Load(cfg.IndexPath, cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("Failed to load index from %s: %v", cfg.IndexPath, err)
	}
	log.Printf("Loaded index: %d entries, dimension %d", idx.Len(), idx.Dimension())

	client, err := llm.NewOpenAIClient(llm.ClientConfig{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		EmbeddingModel:  cfg.EmbeddingModel,
		ChatModel:       cfg.ChatModel,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryDelay,
		MaxAnswerTokens: cfg.MaxAnswerTokens,
	})
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}

	retriever := core.NewRetriever(client, idx)
	synthesizer := core.NewSynthesizer(client, cfg.RelevanceFloor)

	service, err := core.NewQueryService(retriever, synthesizer, cfg.TopK)
	if err != nil {
		log.Fatalf("Failed to create query service: %v", err)
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Corpus QA",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, service, retriever, idx)

	// Start server with stdio transport
	log.Println("Corpus QA MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
