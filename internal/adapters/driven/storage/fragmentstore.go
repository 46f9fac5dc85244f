package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driven"
	"github.com/kerygma-labs/kerygma-cli/internal/logger"
)

// Ensure FragmentStore implements the interface.
var _ driven.FragmentStore = (*FragmentStore)(nil)

// FragmentCollection is the collection fragments are stored in.
const FragmentCollection = "fragments"

// DefaultWriteBatchSize bounds fragments per write batch. Well below the
// backend's operation ceiling because embedding payloads are large.
const DefaultWriteBatchSize = 50

// DefaultQueryBatchSize bounds ids per value-in-set sub-query.
const DefaultQueryBatchSize = driven.MaxInValues

// DefaultWritePacing spaces consecutive write batches so a bulk index
// run does not flood the backend's write queue.
const DefaultWritePacing = 200 * time.Millisecond

// FragmentStore persists fragments through a document database.
type FragmentStore struct {
	db             driven.Database
	writeBatchSize int
	queryBatchSize int
	limiter        *rate.Limiter
}

// Option configures the fragment store.
type Option func(*FragmentStore)

// WithWriteBatchSize sets fragments per write batch.
func WithWriteBatchSize(n int) Option {
	return func(s *FragmentStore) {
		if n > 0 && n <= driven.MaxBatchOps {
			s.writeBatchSize = n
		}
	}
}

// WithQueryBatchSize sets ids per value-in-set sub-query.
func WithQueryBatchSize(n int) Option {
	return func(s *FragmentStore) {
		if n > 0 && n <= driven.MaxInValues {
			s.queryBatchSize = n
		}
	}
}

// WithWritePacing sets the interval between consecutive write batches.
func WithWritePacing(interval time.Duration) Option {
	return func(s *FragmentStore) {
		if interval > 0 {
			s.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// NewFragmentStore creates a fragment store over the given database.
func NewFragmentStore(db driven.Database, opts ...Option) *FragmentStore {
	s := &FragmentStore{
		db:             db,
		writeBatchSize: DefaultWriteBatchSize,
		queryBatchSize: DefaultQueryBatchSize,
		limiter:        rate.NewLimiter(rate.Every(DefaultWritePacing), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put upserts a single fragment.
func (s *FragmentStore) Put(ctx context.Context, fragment domain.Fragment) error {
	data, err := encodeFragment(fragment)
	if err != nil {
		return err
	}
	return s.db.Set(ctx, FragmentCollection, fragment.ID, data)
}

// PutMany upserts fragments in size-bounded batches. Batches commit
// atomically and are submitted serially in order; a failure aborts the
// remaining batches without rolling back committed ones.
func (s *FragmentStore) PutMany(ctx context.Context, fragments []domain.Fragment) error {
	if len(fragments) == 0 {
		return nil
	}

	batches := (len(fragments) + s.writeBatchSize - 1) / s.writeBatchSize
	logger.Debug("Writing %d fragments in %d batches", len(fragments), batches)

	for start := 0; start < len(fragments); start += s.writeBatchSize {
		end := start + s.writeBatchSize
		if end > len(fragments) {
			end = len(fragments)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("pacing wait: %w", err)
		}

		ops := make([]driven.WriteOp, 0, end-start)
		for _, f := range fragments[start:end] {
			data, err := encodeFragment(f)
			if err != nil {
				return err
			}
			ops = append(ops, driven.WriteOp{
				Kind:       driven.WriteSet,
				Collection: FragmentCollection,
				ID:         f.ID,
				Data:       data,
			})
		}

		if err := s.db.BatchWrite(ctx, ops); err != nil {
			return fmt.Errorf("write batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// FindByResource returns the resource's fragments by sequence index
// ascending. Ordering is guaranteed only by this explicit sort, never by
// write order.
func (s *FragmentStore) FindByResource(ctx context.Context, resourceID string) ([]domain.Fragment, error) {
	docs, err := s.db.Query(ctx, driven.Query{
		Collection: FragmentCollection,
		Filters:    []driven.Filter{{Field: "resourceId", Op: driven.OpEq, Value: resourceID}},
		OrderBy:    "chunkIndex",
	})
	if err != nil {
		return nil, fmt.Errorf("find by resource: %w", err)
	}
	return decodeFragments(docs)
}

// FindByOwner returns all fragments owned by the user.
func (s *FragmentStore) FindByOwner(ctx context.Context, ownerID string) ([]domain.Fragment, error) {
	docs, err := s.db.Query(ctx, driven.Query{
		Collection: FragmentCollection,
		Filters:    []driven.Filter{{Field: "userId", Op: driven.OpEq, Value: ownerID}},
	})
	if err != nil {
		return nil, fmt.Errorf("find by owner: %w", err)
	}
	return decodeFragments(docs)
}

// FindByResources unions fragments across resources, partitioning the id
// list under the backend's value-in-set cardinality limit.
func (s *FragmentStore) FindByResources(ctx context.Context, resourceIDs []string) ([]domain.Fragment, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}

	var (
		fragments []domain.Fragment
		seen      = make(map[string]struct{})
	)
	for start := 0; start < len(resourceIDs); start += s.queryBatchSize {
		end := start + s.queryBatchSize
		if end > len(resourceIDs) {
			end = len(resourceIDs)
		}

		docs, err := s.db.Query(ctx, driven.Query{
			Collection: FragmentCollection,
			Filters:    []driven.Filter{{Field: "resourceId", Op: driven.OpIn, Value: resourceIDs[start:end]}},
		})
		if err != nil {
			return nil, fmt.Errorf("find by resources %d-%d: %w", start, end, err)
		}

		batch, err := decodeFragments(docs)
		if err != nil {
			return nil, err
		}
		for _, f := range batch {
			if _, ok := seen[f.ID]; ok {
				continue
			}
			seen[f.ID] = struct{}{}
			fragments = append(fragments, f)
		}
	}
	return fragments, nil
}

// DeleteByResource removes all fragments of a resource, batched like
// PutMany.
func (s *FragmentStore) DeleteByResource(ctx context.Context, resourceID string) error {
	docs, err := s.db.Query(ctx, driven.Query{
		Collection: FragmentCollection,
		Filters:    []driven.Filter{{Field: "resourceId", Op: driven.OpEq, Value: resourceID}},
	})
	if err != nil {
		return fmt.Errorf("find fragments to delete: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}
	logger.Debug("Deleting %d fragments of resource %s", len(docs), resourceID)

	for start := 0; start < len(docs); start += s.writeBatchSize {
		end := start + s.writeBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("pacing wait: %w", err)
		}

		ops := make([]driven.WriteOp, 0, end-start)
		for _, doc := range docs[start:end] {
			ops = append(ops, driven.WriteOp{
				Kind:       driven.WriteDelete,
				Collection: FragmentCollection,
				ID:         doc.ID,
			})
		}
		if err := s.db.BatchWrite(ctx, ops); err != nil {
			return fmt.Errorf("delete batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// HasAny reports whether the resource has at least one fragment, using a
// limit-1 query rather than a full scan.
func (s *FragmentStore) HasAny(ctx context.Context, resourceID string) (bool, error) {
	docs, err := s.db.Query(ctx, driven.Query{
		Collection: FragmentCollection,
		Filters:    []driven.Filter{{Field: "resourceId", Op: driven.OpEq, Value: resourceID}},
		Limit:      1,
	})
	if err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return len(docs) > 0, nil
}

// fragmentDoc is the persisted document shape.
type fragmentDoc struct {
	ResourceID     string      `json:"resourceId"`
	ResourceTitle  string      `json:"resourceTitle"`
	ResourceAuthor string      `json:"resourceAuthor"`
	UserID         string      `json:"userId"`
	ChunkIndex     int         `json:"chunkIndex"`
	Text           string      `json:"text"`
	Embedding      []float32   `json:"embedding"`
	Metadata       fragmentMeta `json:"metadata"`
	CreatedAt      time.Time   `json:"createdAt"`
}

type fragmentMeta struct {
	Page      int    `json:"page,omitempty"`
	Section   string `json:"section,omitempty"`
	StartChar int    `json:"startChar"`
	EndChar   int    `json:"endChar"`
}

func encodeFragment(f domain.Fragment) (map[string]any, error) {
	doc := fragmentDoc{
		ResourceID:     f.ResourceID,
		ResourceTitle:  f.ResourceTitle,
		ResourceAuthor: f.ResourceAuthor,
		UserID:         f.OwnerID,
		ChunkIndex:     f.Index,
		Text:           f.Text,
		Embedding:      f.Embedding,
		Metadata: fragmentMeta{
			Page:      f.Metadata.Page,
			Section:   f.Metadata.Section,
			StartChar: f.Metadata.StartChar,
			EndChar:   f.Metadata.EndChar,
		},
		CreatedAt: f.CreatedAt,
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode fragment %s: %w", f.ID, err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("encode fragment %s: %w", f.ID, err)
	}
	return data, nil
}

func decodeFragment(doc driven.Document) (domain.Fragment, error) {
	raw, err := json.Marshal(doc.Data)
	if err != nil {
		return domain.Fragment{}, fmt.Errorf("decode fragment %s: %w", doc.ID, err)
	}
	var fd fragmentDoc
	if err := json.Unmarshal(raw, &fd); err != nil {
		return domain.Fragment{}, fmt.Errorf("decode fragment %s: %w", doc.ID, err)
	}

	return domain.Fragment{
		ID:             doc.ID,
		ResourceID:     fd.ResourceID,
		ResourceTitle:  fd.ResourceTitle,
		ResourceAuthor: fd.ResourceAuthor,
		OwnerID:        fd.UserID,
		Index:          fd.ChunkIndex,
		Text:           fd.Text,
		Embedding:      fd.Embedding,
		Metadata: domain.FragmentMetadata{
			Page:      fd.Metadata.Page,
			Section:   fd.Metadata.Section,
			StartChar: fd.Metadata.StartChar,
			EndChar:   fd.Metadata.EndChar,
		},
		CreatedAt: fd.CreatedAt,
	}, nil
}

func decodeFragments(docs []driven.Document) ([]domain.Fragment, error) {
	fragments := make([]domain.Fragment, 0, len(docs))
	for _, doc := range docs {
		f, err := decodeFragment(doc)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}
