package domain

import "errors"

var (
	// ErrInvalidQuery signals a malformed search request. Never retried.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmbeddingProvider signals an embedding provider failure. Caller-retryable.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrStore signals a backing store failure on a recall channel. Caller-retryable.
	ErrStore = errors.New("store error")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)
