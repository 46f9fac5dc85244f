package driven

import (
	"context"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
)

// ArtifactStore is the raw persistence surface beneath the artifact
// cache. Unlike the cache service it returns errors; the never-fail
// contract lives in services.ArtifactCacheService, which logs and
// swallows them.
type ArtifactStore interface {
	// Get retrieves an artifact by its exact cache key.
	// Returns domain.ErrNotFound on a miss.
	Get(ctx context.Context, kind domain.ArtifactKind, key string) (domain.Artifact, error)

	// Put stores an artifact under the key, initialising its usage
	// count to 1. If the key already exists the usage count is
	// incremented instead and the payload left untouched.
	Put(ctx context.Context, kind domain.ArtifactKind, artifact domain.Artifact) error

	// Touch bumps the usage count and last-used time of an existing
	// entry. Called on every cache hit.
	Touch(ctx context.Context, kind domain.ArtifactKind, key string) error
}
