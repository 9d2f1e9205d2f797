// ABOUTME: Sentinel errors for the answering pipeline core
// ABOUTME: Matched with errors.Is at the request boundary to pick status codes
package core

import "errors"

var (
	// ErrConfig indicates invalid configuration parameters. Fatal at
	// startup or index-build time, never retried.
	ErrConfig = errors.New("invalid configuration")

	// ErrValidation indicates a rejected request input (empty query).
	// Surfaced to the caller as a bad request, not a server fault.
	ErrValidation = errors.New("invalid query")
)
