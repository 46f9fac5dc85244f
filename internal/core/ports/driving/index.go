package driving

import (
	"context"

	"github.com/kerygma-labs/kerygma-cli/internal/chunker"
	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
)

// IndexStatus summarises the indexing state of one resource.
type IndexStatus struct {
	// ResourceID identifies the resource.
	ResourceID string

	// Fragments is the total fragment count.
	Fragments int

	// Unindexed counts fragments with no embedding. A non-zero value
	// signals a partially failed run; the remedy is re-indexing.
	Unindexed int
}

// IndexingService turns extracted resource text into stored, embedded
// fragments.
type IndexingService interface {
	// Index chunks the text, embeds every fragment and persists them.
	// Re-running for an already indexed resource deletes the existing
	// fragments first; stale fragments never survive.
	Index(ctx context.Context, resource domain.Resource, text string, opts chunker.Options) ([]domain.Fragment, error)

	// Reindex is Index with an explicit delete-first pass even when the
	// chunking options are unchanged.
	Reindex(ctx context.Context, resource domain.Resource, text string, opts chunker.Options) ([]domain.Fragment, error)

	// Delete removes all fragments of a resource.
	Delete(ctx context.Context, resourceID string) error

	// HasIndex reports whether the resource has any stored fragments.
	HasIndex(ctx context.Context, resourceID string) (bool, error)

	// Status reports per-resource fragment counts for the owner.
	Status(ctx context.Context, ownerID string) ([]IndexStatus, error)
}
