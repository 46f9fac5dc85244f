package driving

import (
	"context"
	"encoding/json"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
)

// ArtifactCache reuses expensive AI-derived results keyed by normalised
// reference + language.
//
// The signatures make the best-effort contract explicit: neither method
// returns an error. Cache-layer failures are logged and swallowed because
// the cache must never fail the primary computation it shortcuts.
type ArtifactCache interface {
	// Get returns the cached artifact for the reference/language, or nil
	// on a miss. A hit bumps the usage counter and last-used time as a
	// best-effort side effect. When the requested language is the
	// default, a legacy language-less key is tried as a migration
	// fallback.
	Get(ctx context.Context, kind domain.ArtifactKind, reference, language string) *domain.Artifact

	// Put stores a freshly computed payload under the normalised key.
	// Legacy keys are never written.
	Put(ctx context.Context, kind domain.ArtifactKind, reference, language string, payload json.RawMessage)
}
