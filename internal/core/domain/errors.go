package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// chunking overlap that is not smaller than the window.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexNotReady indicates no index snapshot has been built yet, or
	// the last build failed. Queries cannot be served; the caller should
	// ingest (or rebuild) first. Distinct from an empty result.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrDimensionMismatch indicates persisted embedding vectors do not
	// match the configured dimension. The engine refuses to serve rather
	// than silently degrade.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingUnavailable indicates no embedding provider is
	// configured at all, not even the deterministic fallback.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrProviderFailed indicates the remote embedding call failed.
	// The failover provider absorbs this internally; it never reaches
	// a query caller.
	ErrProviderFailed = errors.New("embedding provider failed")
)
