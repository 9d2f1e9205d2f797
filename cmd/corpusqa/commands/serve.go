// ABOUTME: CLI command to serve the question-answering HTTP API
// ABOUTME: Loads the index once at startup, then serves concurrent queries
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/inextlabs/corpusqa/internal/api"
	"github.com/joho/godotenv"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the question-answering HTTP API",
		Long: `Serve the question-answering HTTP API.

Loads the index read-only at startup (refusing to start on a missing
or incompatible artifact) and answers POST /chat requests. The index
is never re-read while serving; rebuilds take effect on restart.

Examples:
  corpusqa serve
  corpusqa serve --addr :9090`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	p, err := buildPipeline(0)
	if err != nil {
		return err
	}
	if !quiet {
		log.Printf("Loaded index: %d entries, dimension %d", p.idx.Len(), p.idx.Dimension())
	}

	server := &http.Server{
		Addr:              serveAddr,
		Handler:           api.NewServer(p.service, p.idx).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Corpus QA HTTP server listening on %s", serveAddr)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down...", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}
	return nil
}
