package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Indexing and similarity search are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStoreUnavailable indicates the fragment store is not configured.
	ErrStoreUnavailable = errors.New("fragment store unavailable")

	// ErrTooManyValues indicates a value-in-set query exceeded the backend
	// cardinality limit. Callers partition id lists before querying.
	ErrTooManyValues = errors.New("too many values in set filter")

	// ErrBatchTooLarge indicates a batch write exceeded the backend's
	// maximum operation count.
	ErrBatchTooLarge = errors.New("batch exceeds maximum operation count")
)
