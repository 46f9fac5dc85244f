package domain

import "time"

// Fragment is the atomic retrievable unit: a bounded slice of a source
// document together with its embedding and citation metadata.
type Fragment struct {
	// ID is the unique identifier for the fragment.
	ID string

	// ResourceID links to the library resource that produced this fragment.
	ResourceID string

	// ResourceTitle is denormalised from the resource for citation display.
	ResourceTitle string

	// ResourceAuthor is denormalised from the resource for citation display.
	ResourceAuthor string

	// OwnerID is the user that owns the resource. All queries are scoped
	// by owner; it is the only tenant isolation mechanism.
	OwnerID string

	// Index is the zero-based position of the fragment within its resource.
	// Unique and monotonically increasing per resource.
	Index int

	// Text is the fragment content in the cleaned source text.
	Text string

	// Embedding is the vector representation. A fragment without an
	// embedding is unindexed and is excluded from similarity search.
	Embedding []float32

	// Metadata carries the provenance recovered by the chunker.
	Metadata FragmentMetadata

	// CreatedAt is when the fragment was first written.
	CreatedAt time.Time
}

// FragmentMetadata locates a fragment within its source document.
type FragmentMetadata struct {
	// Page is the page number, recovered from inline markers or estimated.
	Page int

	// Section is the heading the fragment starts with, if one was recognised.
	Section string

	// StartChar and EndChar are the [start, end) span in the cleaned text.
	StartChar int
	EndChar   int
}

// Indexed reports whether the fragment carries an embedding.
func (f *Fragment) Indexed() bool {
	return len(f.Embedding) > 0
}

// Resource identifies a library document being indexed. Title and Author
// are denormalised onto every fragment for citation display.
type Resource struct {
	ID      string
	Title   string
	Author  string
	OwnerID string
}

// SimilarityResult pairs a fragment with its cosine similarity score.
// Results are ephemeral and never persisted.
type SimilarityResult struct {
	Fragment Fragment

	// Score is the cosine similarity in [-1, 1] against the query vector.
	Score float64
}

// ScopeKind tags the retrieval scope variant.
type ScopeKind int

const (
	// ScopeAllForOwner searches every fragment the owner has indexed.
	ScopeAllForOwner ScopeKind = iota

	// ScopeSubsetOfResources restricts the search to specific resources.
	ScopeSubsetOfResources
)

// SearchScope bounds a similarity search to an owner and optionally to a
// subset of that owner's resources.
type SearchScope struct {
	Kind        ScopeKind
	OwnerID     string
	ResourceIDs []string
}

// AllForOwner returns a scope covering every fragment of the owner.
func AllForOwner(ownerID string) SearchScope {
	return SearchScope{Kind: ScopeAllForOwner, OwnerID: ownerID}
}

// SubsetOfResources returns a scope limited to the given resources.
func SubsetOfResources(ownerID string, resourceIDs []string) SearchScope {
	return SearchScope{
		Kind:        ScopeSubsetOfResources,
		OwnerID:     ownerID,
		ResourceIDs: resourceIDs,
	}
}
