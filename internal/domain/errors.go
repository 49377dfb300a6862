package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters wrap these with context; callers test with errors.Is.
var (
	// ErrInvalidArgument indicates a malformed query or parameter.
	// Not retryable; the caller must fix the input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorage indicates a corpus read or write failure.
	// Retryable at the caller's discretion, never silently swallowed.
	ErrStorage = errors.New("storage failure")

	// ErrProviderUnavailable indicates an embedding or reranker backend is
	// down. Fatal for embedding (a query vector is mandatory); reranking
	// degrades gracefully instead of surfacing this.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrConfiguration indicates invalid chunking or provider parameters.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
