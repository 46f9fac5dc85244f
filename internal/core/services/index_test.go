package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerygma-labs/kerygma-cli/internal/adapters/driven/storage"
	"github.com/kerygma-labs/kerygma-cli/internal/adapters/driven/storage/memory"
	"github.com/kerygma-labs/kerygma-cli/internal/chunker"
	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
)

func testResource(id string) domain.Resource {
	return domain.Resource{
		ID:      id,
		Title:   "Institutes of the Christian Religion",
		Author:  "John Calvin",
		OwnerID: "user-1",
	}
}

func newTestStore(t *testing.T) *storage.FragmentStore {
	t.Helper()
	return storage.NewFragmentStore(memory.NewDatabase(), storage.WithWritePacing(time.Microsecond))
}

func TestIndexingService_Index(t *testing.T) {
	ctx := context.Background()

	t.Run("chunks embeds and stores", func(t *testing.T) {
		store := newTestStore(t)
		embed := &mockEmbeddingService{embedding: make([]float32, 768)}
		embed.embedding[0] = 1
		svc := NewIndexingService(store, embed)

		text := strings.Repeat("x", 2000)
		fragments, err := svc.Index(ctx, testResource("res-1"), text,
			chunker.Options{TargetSize: 800, Overlap: 100, MinSize: 200})
		require.NoError(t, err)
		require.Len(t, fragments, 3)

		for i, f := range fragments {
			assert.NotEmpty(t, f.ID)
			assert.Equal(t, i, f.Index)
			assert.Equal(t, "res-1", f.ResourceID)
			assert.Equal(t, "user-1", f.OwnerID)
			assert.Len(t, f.Embedding, 768)
			assert.True(t, f.Indexed())
			assert.False(t, f.CreatedAt.IsZero())
		}

		stored, err := store.FindByResource(ctx, "res-1")
		require.NoError(t, err)
		require.Len(t, stored, 3)
		for i, f := range stored {
			assert.Equal(t, i, f.Index)
		}

		has, err := svc.HasIndex(ctx, "res-1")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("existing fragments are replaced not appended", func(t *testing.T) {
		store := newTestStore(t)
		embed := &mockEmbeddingService{embedding: []float32{1, 0}}
		svc := NewIndexingService(store, embed)

		res := testResource("res-1")
		_, err := svc.Index(ctx, res, strings.Repeat("a", 2000), chunker.DefaultOptions())
		require.NoError(t, err)

		fragments, err := svc.Index(ctx, res, strings.Repeat("b", 900), chunker.DefaultOptions())
		require.NoError(t, err)

		stored, err := store.FindByResource(ctx, "res-1")
		require.NoError(t, err)
		assert.Len(t, stored, len(fragments))
		for _, f := range stored {
			assert.Contains(t, f.Text, "b")
		}
	})

	t.Run("empty text yields no fragments", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewIndexingService(store, &mockEmbeddingService{embedding: []float32{1}})

		fragments, err := svc.Index(ctx, testResource("res-1"), "   ", chunker.DefaultOptions())
		require.NoError(t, err)
		assert.Empty(t, fragments)

		has, err := svc.HasIndex(ctx, "res-1")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("missing resource id", func(t *testing.T) {
		svc := NewIndexingService(newTestStore(t), &mockEmbeddingService{embedding: []float32{1}})

		_, err := svc.Index(ctx, domain.Resource{OwnerID: "user-1"}, "text", chunker.DefaultOptions())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing owner id", func(t *testing.T) {
		svc := NewIndexingService(newTestStore(t), &mockEmbeddingService{embedding: []float32{1}})

		_, err := svc.Index(ctx, domain.Resource{ID: "res-1"}, "text", chunker.DefaultOptions())
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing embedding service", func(t *testing.T) {
		svc := NewIndexingService(newTestStore(t), nil)

		_, err := svc.Index(ctx, testResource("res-1"), "text", chunker.DefaultOptions())
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("embedding failure leaves nothing stored", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewIndexingService(store, &mockEmbeddingService{embedErr: errors.New("quota exceeded")})

		_, err := svc.Index(ctx, testResource("res-1"), strings.Repeat("a", 2000), chunker.DefaultOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embed fragments")

		has, err := store.HasAny(ctx, "res-1")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		store := &mockFragmentStore{putErr: errors.New("disk full")}
		svc := NewIndexingService(store, &mockEmbeddingService{embedding: []float32{1}})

		_, err := svc.Index(ctx, testResource("res-1"), strings.Repeat("a", 2000), chunker.DefaultOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store fragments")
	})
}

func TestIndexingService_Reindex(t *testing.T) {
	ctx := context.Background()

	t.Run("reindexing is idempotent", func(t *testing.T) {
		store := newTestStore(t)
		embed := &mockEmbeddingService{embedding: []float32{1, 0}}
		svc := NewIndexingService(store, embed)

		res := testResource("res-1")
		text := strings.Repeat("The same text every time. ", 80)

		first, err := svc.Reindex(ctx, res, text, chunker.DefaultOptions())
		require.NoError(t, err)
		second, err := svc.Reindex(ctx, res, text, chunker.DefaultOptions())
		require.NoError(t, err)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Text, second[i].Text)
			assert.Equal(t, first[i].Index, second[i].Index)
		}

		stored, err := store.FindByResource(ctx, "res-1")
		require.NoError(t, err)
		assert.Len(t, stored, len(second))
	})

	t.Run("reindex of unknown resource indexes fresh", func(t *testing.T) {
		store := newTestStore(t)
		svc := NewIndexingService(store, &mockEmbeddingService{embedding: []float32{1}})

		fragments, err := svc.Reindex(ctx, testResource("res-new"), strings.Repeat("a", 500), chunker.DefaultOptions())
		require.NoError(t, err)
		assert.NotEmpty(t, fragments)
	})
}

func TestIndexingService_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewIndexingService(store, &mockEmbeddingService{embedding: []float32{1}})

	_, err := svc.Index(ctx, testResource("res-1"), strings.Repeat("a", 500), chunker.DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "res-1"))

	has, err := svc.HasIndex(ctx, "res-1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestIndexingService_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("groups counts by resource", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.PutMany(ctx, []domain.Fragment{
			fragment("a1", "res-a", "user-1", []float32{1}),
			fragment("a2", "res-a", "user-1", []float32{1}),
			fragment("a3", "res-a", "user-1", nil),
			fragment("b1", "res-b", "user-1", []float32{1}),
			fragment("c1", "res-c", "user-2", []float32{1}),
		}))
		svc := NewIndexingService(store, nil)

		statuses, err := svc.Status(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, statuses, 2)

		assert.Equal(t, "res-a", statuses[0].ResourceID)
		assert.Equal(t, 3, statuses[0].Fragments)
		assert.Equal(t, 1, statuses[0].Unindexed)

		assert.Equal(t, "res-b", statuses[1].ResourceID)
		assert.Equal(t, 1, statuses[1].Fragments)
		assert.Equal(t, 0, statuses[1].Unindexed)
	})

	t.Run("no fragments means empty status", func(t *testing.T) {
		svc := NewIndexingService(newTestStore(t), nil)

		statuses, err := svc.Status(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, statuses)
	})
}
