package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The vector dimension is fixed per deployment and never validated at
// runtime against the external service: a mismatch is a configuration
// error, not a retryable fault.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text. Input is
	// truncated to the model's character ceiling before submission.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving
	// input order. The input is partitioned into fixed-size groups with
	// a pause between groups to stay under external rate limits. A
	// single failed item fails the whole call; there are no
	// partial-success semantics.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (768 in the
	// reference deployment).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
