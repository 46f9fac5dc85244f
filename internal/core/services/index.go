package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kerygma-labs/kerygma-cli/internal/chunker"
	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driven"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driving"
	"github.com/kerygma-labs/kerygma-cli/internal/logger"
)

// Ensure IndexingService implements the interface.
var _ driving.IndexingService = (*IndexingService)(nil)

// IndexingService chunks resource text, embeds the fragments and
// persists them through the fragment store.
//
// There is no transaction around a run: a crash mid-run leaves a
// partially indexed resource (some batches committed, some not), and
// re-indexing is the recovery mechanism, not rollback.
type IndexingService struct {
	fragments driven.FragmentStore
	embedding driven.EmbeddingService
	now       func() time.Time
}

// NewIndexingService creates a new indexing service.
func NewIndexingService(
	fragments driven.FragmentStore,
	embedding driven.EmbeddingService,
) *IndexingService {
	return &IndexingService{
		fragments: fragments,
		embedding: embedding,
		now:       time.Now,
	}
}

// Index chunks, embeds and stores the resource text. Any fragments from
// a previous run are deleted first; an index run is always
// delete-then-recreate, never an incremental patch.
func (s *IndexingService) Index(
	ctx context.Context, resource domain.Resource, text string, opts chunker.Options,
) ([]domain.Fragment, error) {
	logger.Section("Indexing")
	logger.Debug("Resource: %s (%q)", resource.ID, resource.Title)

	if s.fragments == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if s.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if resource.ID == "" || resource.OwnerID == "" {
		return nil, fmt.Errorf("%w: resource id and owner id are required", domain.ErrInvalidInput)
	}

	exists, err := s.fragments.HasAny(ctx, resource.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing index: %w", err)
	}
	if exists {
		logger.Info("Resource %s already indexed, deleting stale fragments", resource.ID)
		if err := s.fragments.DeleteByResource(ctx, resource.ID); err != nil {
			return nil, fmt.Errorf("delete stale fragments: %w", err)
		}
	}

	pieces := chunker.Split(text, opts)
	logger.Debug("Chunker produced %d pieces", len(pieces))
	if len(pieces) == 0 {
		return []domain.Fragment{}, nil
	}

	texts := make([]string, len(pieces))
	for i := range pieces {
		texts[i] = pieces[i].Text
	}

	vectors, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed fragments: %w", err)
	}
	if len(vectors) != len(pieces) {
		return nil, fmt.Errorf("embed fragments: got %d vectors for %d pieces", len(vectors), len(pieces))
	}

	createdAt := s.now()
	fragments := make([]domain.Fragment, len(pieces))
	for i, p := range pieces {
		fragments[i] = domain.Fragment{
			ID:             uuid.New().String(),
			ResourceID:     resource.ID,
			ResourceTitle:  resource.Title,
			ResourceAuthor: resource.Author,
			OwnerID:        resource.OwnerID,
			Index:          p.Index,
			Text:           p.Text,
			Embedding:      vectors[i],
			Metadata: domain.FragmentMetadata{
				Page:      p.Page,
				Section:   p.Section,
				StartChar: p.StartChar,
				EndChar:   p.EndChar,
			},
			CreatedAt: createdAt,
		}
	}

	if err := s.fragments.PutMany(ctx, fragments); err != nil {
		return nil, fmt.Errorf("store fragments: %w", err)
	}

	logger.Info("Indexed %d fragments for resource %s", len(fragments), resource.ID)
	return fragments, nil
}

// Reindex deletes the resource's fragments and runs a fresh Index.
func (s *IndexingService) Reindex(
	ctx context.Context, resource domain.Resource, text string, opts chunker.Options,
) ([]domain.Fragment, error) {
	if s.fragments == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if err := s.fragments.DeleteByResource(ctx, resource.ID); err != nil {
		return nil, fmt.Errorf("delete fragments: %w", err)
	}
	return s.Index(ctx, resource, text, opts)
}

// Delete removes all fragments of a resource.
func (s *IndexingService) Delete(ctx context.Context, resourceID string) error {
	if s.fragments == nil {
		return domain.ErrStoreUnavailable
	}
	return s.fragments.DeleteByResource(ctx, resourceID)
}

// HasIndex reports whether the resource has stored fragments.
func (s *IndexingService) HasIndex(ctx context.Context, resourceID string) (bool, error) {
	if s.fragments == nil {
		return false, domain.ErrStoreUnavailable
	}
	return s.fragments.HasAny(ctx, resourceID)
}

// Status reports fragment counts per resource for the owner. A non-zero
// unindexed count means an embedding run failed part way; callers should
// offer re-indexing rather than treat the resource as complete.
func (s *IndexingService) Status(ctx context.Context, ownerID string) ([]driving.IndexStatus, error) {
	if s.fragments == nil {
		return nil, domain.ErrStoreUnavailable
	}

	fragments, err := s.fragments.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("find by owner: %w", err)
	}

	byResource := make(map[string]*driving.IndexStatus)
	for i := range fragments {
		st, ok := byResource[fragments[i].ResourceID]
		if !ok {
			st = &driving.IndexStatus{ResourceID: fragments[i].ResourceID}
			byResource[fragments[i].ResourceID] = st
		}
		st.Fragments++
		if !fragments[i].Indexed() {
			st.Unindexed++
		}
	}

	statuses := make([]driving.IndexStatus, 0, len(byResource))
	for _, st := range byResource {
		statuses = append(statuses, *st)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].ResourceID < statuses[j].ResourceID
	})

	return statuses, nil
}
