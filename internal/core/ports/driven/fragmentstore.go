package driven

import (
	"context"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
)

// FragmentStore persists fragments and their embeddings.
//
// Bulk writes are split into size-bounded batches because embedding
// payloads are large; each batch commits atomically but there is no
// cross-batch atomicity. A crash mid-run leaves a partially indexed
// resource; re-indexing (delete then recreate) is the recovery path.
type FragmentStore interface {
	// Put upserts a single fragment by id.
	Put(ctx context.Context, fragment domain.Fragment) error

	// PutMany upserts fragments in size-bounded batches, submitted
	// serially with pacing between batches.
	PutMany(ctx context.Context, fragments []domain.Fragment) error

	// FindByResource returns the resource's fragments sorted by
	// sequence index ascending.
	FindByResource(ctx context.Context, resourceID string) ([]domain.Fragment, error)

	// FindByOwner returns all fragments owned by the user.
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Fragment, error)

	// FindByResources returns the union of fragments across the given
	// resources, partitioning the id list under the backend's
	// value-in-set cardinality limit.
	FindByResources(ctx context.Context, resourceIDs []string) ([]domain.Fragment, error)

	// DeleteByResource removes all fragments of a resource, batched the
	// same way as PutMany.
	DeleteByResource(ctx context.Context, resourceID string) error

	// HasAny reports whether the resource has at least one fragment,
	// using a bounded query rather than a full scan.
	HasAny(ctx context.Context, resourceID string) (bool, error)
}
