package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driven"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driving"
	"github.com/kerygma-labs/kerygma-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultRelevanceFloor is the minimum cosine similarity for a fragment
// to count as a match. The original system carried a second floor of
// 0.55 in its document-processing path; both are expressed through this
// single tunable now (callers override per search via SearchOptions).
const DefaultRelevanceFloor = 0.5

// DefaultTopK caps results when the caller does not ask for a count.
const DefaultTopK = 5

// SearchService ranks stored fragments against query vectors by brute
// force. Per-owner fragment counts are bounded (low thousands), so an
// O(n) scan per query is deliberate; this is not an ANN index.
type SearchService struct {
	fragments driven.FragmentStore
	embedding driven.EmbeddingService
	floor     float64
}

// NewSearchService creates a new search service. A non-positive floor
// selects DefaultRelevanceFloor.
func NewSearchService(
	fragments driven.FragmentStore,
	embedding driven.EmbeddingService,
	floor float64,
) *SearchService {
	if floor <= 0 {
		floor = DefaultRelevanceFloor
	}
	return &SearchService{
		fragments: fragments,
		embedding: embedding,
		floor:     floor,
	}
}

// Search embeds the query text and ranks fragments within scope.
func (s *SearchService) Search(
	ctx context.Context, query string, scope domain.SearchScope, opts driving.SearchOptions,
) ([]domain.SimilarityResult, error) {
	logger.Section("Similarity Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SimilarityResult{}, nil
	}

	if s.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vector, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))

	return s.SearchVector(ctx, vector, scope, opts)
}

// SearchVector ranks fragments within scope against a query vector.
func (s *SearchService) SearchVector(
	ctx context.Context, vector []float32, scope domain.SearchScope, opts driving.SearchOptions,
) ([]domain.SimilarityResult, error) {
	if s.fragments == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	floor := s.floor
	if opts.MinScore > 0 {
		floor = opts.MinScore
	}

	candidates, err := s.candidates(ctx, scope)
	if err != nil {
		return nil, err
	}
	logger.Debug("Candidates in scope: %d", len(candidates))

	// Unindexed fragments never match; score the rest and apply the
	// relevance floor. Ties keep input order.
	results := make([]domain.SimilarityResult, 0, len(candidates))
	for i := range candidates {
		if !candidates[i].Indexed() {
			continue
		}
		score := CosineSimilarity(vector, candidates[i].Embedding)
		if score < floor {
			continue
		}
		results = append(results, domain.SimilarityResult{
			Fragment: candidates[i],
			Score:    score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	logger.Info("Results above floor %.2f: %d", floor, len(results))
	return results, nil
}

// candidates fetches the fragments covered by the scope.
func (s *SearchService) candidates(ctx context.Context, scope domain.SearchScope) ([]domain.Fragment, error) {
	switch scope.Kind {
	case domain.ScopeSubsetOfResources:
		if len(scope.ResourceIDs) == 0 {
			return nil, nil
		}
		fragments, err := s.fragments.FindByResources(ctx, scope.ResourceIDs)
		if err != nil {
			return nil, fmt.Errorf("find by resources: %w", err)
		}
		// Owner scoping is the only tenant isolation; a resource id
		// belonging to another owner must not leak results.
		if scope.OwnerID != "" {
			filtered := fragments[:0]
			for _, f := range fragments {
				if f.OwnerID == scope.OwnerID {
					filtered = append(filtered, f)
				}
			}
			fragments = filtered
		}
		return fragments, nil

	case domain.ScopeAllForOwner:
		fragments, err := s.fragments.FindByOwner(ctx, scope.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("find by owner: %w", err)
		}
		return fragments, nil

	default:
		return nil, fmt.Errorf("%w: unknown scope kind %d", domain.ErrInvalidInput, scope.Kind)
	}
}

// CosineSimilarity returns the normalised dot product of two vectors in
// [-1, 1]. Mismatched lengths compare over the shorter prefix; a zero
// norm yields 0.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
