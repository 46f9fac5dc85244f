package domain

import (
	"encoding/json"
	"time"
)

// ArtifactKind identifies the type of cached AI-derived result. Each kind
// is stored in its own collection but shares the same cache semantics.
type ArtifactKind string

const (
	// ArtifactPassage is a rendered passage translation/paraphrase.
	ArtifactPassage ArtifactKind = "passages"

	// ArtifactSyntax is a grammatical/syntactic analysis of a passage.
	ArtifactSyntax ArtifactKind = "syntax_analyses"

	// ArtifactQuiz is a generated quiz set over a passage.
	ArtifactQuiz ArtifactKind = "quiz_sets"
)

// Valid reports whether the kind is one of the known artifact kinds.
func (k ArtifactKind) Valid() bool {
	switch k {
	case ArtifactPassage, ArtifactSyntax, ArtifactQuiz:
		return true
	}
	return false
}

// Artifact is an expensive AI-computed result cached by canonical
// reference + language. The payload is opaque to the cache.
type Artifact struct {
	// Key is the normalised cache key the artifact is stored under.
	Key string

	// Payload is the computed result, stored as-is.
	Payload json.RawMessage

	// CreatedAt is when the artifact was first computed.
	CreatedAt time.Time

	// LastUsedAt is bumped on every cache hit.
	LastUsedAt time.Time

	// UsageCount counts cache hits plus repeated puts.
	UsageCount int
}
