package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
)

func newTestStore(t *testing.T) (*ArtifactStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := NewArtifactStore(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func testArtifact(key string) domain.Artifact {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Artifact{
		Key:        key,
		Payload:    json.RawMessage(`{"text":"Dios es amor","verses":[16]}`),
		CreatedAt:  now,
		LastUsedAt: now,
		UsageCount: 1,
	}
}

func TestNewArtifactStore_ConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewArtifactStore(context.Background(), Config{Addr: addr})
	assert.Error(t, err)
}

func TestArtifactStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	want := testArtifact("jhn_3_16_es")
	require.NoError(t, store.Put(ctx, domain.ArtifactPassage, want))

	got, err := store.Get(ctx, domain.ArtifactPassage, "jhn_3_16_es")
	require.NoError(t, err)
	assert.Equal(t, want.Key, got.Key)
	assert.JSONEq(t, string(want.Payload), string(got.Payload))
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, 1, got.UsageCount)

	// Namespaced under the shared-instance prefix.
	assert.True(t, mr.Exists("kerygma:artifact:passages:jhn_3_16_es"))
}

func TestArtifactStore_Get_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Get(context.Background(), domain.ArtifactPassage, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactStore_Get_CorruptValue(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("kerygma:artifact:passages:bad", "not json"))

	_, err := store.Get(context.Background(), domain.ArtifactPassage, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactStore_Put_ExistingIncrementsCount(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	first := testArtifact("rom_12_1_2_es")
	require.NoError(t, store.Put(ctx, domain.ArtifactPassage, first))

	replacement := testArtifact("rom_12_1_2_es")
	replacement.Payload = json.RawMessage(`{"text":"recomputed"}`)
	require.NoError(t, store.Put(ctx, domain.ArtifactPassage, replacement))

	got, err := store.Get(ctx, domain.ArtifactPassage, "rom_12_1_2_es")
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsageCount)
	assert.JSONEq(t, string(first.Payload), string(got.Payload))
}

func TestArtifactStore_Touch(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	artifact := testArtifact("jhn_3_16_es")
	require.NoError(t, store.Put(ctx, domain.ArtifactQuiz, artifact))

	later := artifact.LastUsedAt.Add(time.Hour)
	store.now = func() time.Time { return later }

	require.NoError(t, store.Touch(ctx, domain.ArtifactQuiz, "jhn_3_16_es"))

	got, err := store.Get(ctx, domain.ArtifactQuiz, "jhn_3_16_es")
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsageCount)
	assert.True(t, later.Equal(got.LastUsedAt))
}

func TestArtifactStore_Touch_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Touch(context.Background(), domain.ArtifactPassage, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactStore_KindsAreNamespaced(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Put(ctx, domain.ArtifactPassage, testArtifact("jhn_3_16_es")))

	_, err := store.Get(ctx, domain.ArtifactSyntax, "jhn_3_16_es")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
