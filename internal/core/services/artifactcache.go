package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driven"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driving"
	"github.com/kerygma-labs/kerygma-cli/internal/logger"
	"github.com/kerygma-labs/kerygma-cli/internal/refkey"
)

// Ensure ArtifactCacheService implements the interface.
var _ driving.ArtifactCache = (*ArtifactCacheService)(nil)

// ArtifactCacheService layers the never-fail cache contract over a raw
// ArtifactStore. Every store error is logged and swallowed here: the
// cache is a pure performance optimisation, and by the time Put runs the
// caller's expensive computation has already succeeded.
type ArtifactCacheService struct {
	store driven.ArtifactStore
	now   func() time.Time
}

// NewArtifactCacheService creates a new artifact cache service.
// A nil store yields a pass-through cache: every Get misses, every Put
// is a no-op.
func NewArtifactCacheService(store driven.ArtifactStore) *ArtifactCacheService {
	return &ArtifactCacheService{
		store: store,
		now:   time.Now,
	}
}

// Get looks up an artifact under the normalised key. On a primary miss,
// and only when the requested language is the default, the legacy
// language-less key is tried; entries written before keys were
// language-scoped stay reachable that way. A hit bumps usage statistics
// best-effort.
func (s *ArtifactCacheService) Get(
	ctx context.Context, kind domain.ArtifactKind, reference, language string,
) *domain.Artifact {
	if s.store == nil || !kind.Valid() {
		return nil
	}

	key := refkey.Normalize(reference, language)
	artifact, err := s.store.Get(ctx, kind, key)

	if errors.Is(err, domain.ErrNotFound) && refkey.IsDefaultLanguage(language) {
		legacy := refkey.LegacyKey(reference)
		logger.Debug("Cache miss for %s, trying legacy key %s", key, legacy)
		key = legacy
		artifact, err = s.store.Get(ctx, kind, key)
	}

	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("Cache miss: %s/%s", kind, key)
		return nil
	}
	if err != nil {
		logger.Warn("Cache read failed for %s/%s: %v", kind, key, err)
		return nil
	}

	// Usage statistics are a side effect of the read; losing them must
	// not fail the hit.
	if err := s.store.Touch(ctx, kind, key); err != nil {
		logger.Warn("Cache stats update failed for %s/%s: %v", kind, key, err)
	}

	logger.Debug("Cache hit: %s/%s (used %d times)", kind, key, artifact.UsageCount)
	return &artifact
}

// Put stores a computed payload under the normalised, language-scoped
// key. Legacy keys are never written going forward.
func (s *ArtifactCacheService) Put(
	ctx context.Context, kind domain.ArtifactKind, reference, language string, payload json.RawMessage,
) {
	if s.store == nil || !kind.Valid() {
		return
	}

	key := refkey.Normalize(reference, language)
	artifact := domain.Artifact{
		Key:        key,
		Payload:    payload,
		CreatedAt:  s.now(),
		LastUsedAt: s.now(),
		UsageCount: 1,
	}

	if err := s.store.Put(ctx, kind, artifact); err != nil {
		logger.Warn("Cache write failed for %s/%s: %v", kind, key, err)
		return
	}
	logger.Debug("Cached artifact: %s/%s", kind, key)
}
