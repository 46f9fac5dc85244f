package driving

import (
	"context"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
)

// SearchOptions configures a similarity search.
type SearchOptions struct {
	// TopK is the maximum number of results (default 5).
	TopK int

	// MinScore overrides the configured relevance floor when > 0.
	MinScore float64
}

// SearchService ranks stored fragments against a free-text query.
type SearchService interface {
	// Search embeds the query and returns fragments within scope whose
	// cosine similarity clears the relevance floor, best first.
	Search(ctx context.Context, query string, scope domain.SearchScope, opts SearchOptions) ([]domain.SimilarityResult, error)

	// SearchVector ranks against an already computed query vector.
	SearchVector(ctx context.Context, vector []float32, scope domain.SearchScope, opts SearchOptions) ([]domain.SimilarityResult, error)
}
