package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// Bookkeeping field names on artifact documents. The artifact-specific
// payload fields sit alongside them at the top level.
const (
	fieldCreatedAt  = "createdAt"
	fieldLastUsedAt = "lastUsedAt"
	fieldUsageCount = "usageCount"
)

// ArtifactStore persists derived artifacts in the document database, one
// collection per artifact kind.
type ArtifactStore struct {
	db  driven.Database
	now func() time.Time
}

// NewArtifactStore creates an artifact store over the given database.
func NewArtifactStore(db driven.Database) *ArtifactStore {
	return &ArtifactStore{db: db, now: time.Now}
}

// Get retrieves an artifact by its exact cache key.
func (s *ArtifactStore) Get(ctx context.Context, kind domain.ArtifactKind, key string) (domain.Artifact, error) {
	doc, err := s.db.Get(ctx, string(kind), key)
	if err != nil {
		return domain.Artifact{}, err
	}
	return decodeArtifact(key, doc.Data)
}

// Put stores the artifact, initialising its usage count to 1. If the key
// already exists only the usage counter is incremented; the stored
// payload stays as first computed.
func (s *ArtifactStore) Put(ctx context.Context, kind domain.ArtifactKind, artifact domain.Artifact) error {
	existing, err := s.db.Get(ctx, string(kind), artifact.Key)
	if err == nil {
		count := intField(existing.Data, fieldUsageCount)
		return s.db.Update(ctx, string(kind), artifact.Key, map[string]any{
			fieldUsageCount: count + 1,
		})
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	data, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	return s.db.Set(ctx, string(kind), artifact.Key, data)
}

// Touch bumps the usage count and last-used time of an existing entry.
func (s *ArtifactStore) Touch(ctx context.Context, kind domain.ArtifactKind, key string) error {
	doc, err := s.db.Get(ctx, string(kind), key)
	if err != nil {
		return err
	}
	return s.db.Update(ctx, string(kind), key, map[string]any{
		fieldUsageCount: intField(doc.Data, fieldUsageCount) + 1,
		fieldLastUsedAt: s.now().Format(time.RFC3339Nano),
	})
}

// encodeArtifact flattens the opaque payload fields alongside the
// bookkeeping fields, per the persisted artifact document shape.
func encodeArtifact(artifact domain.Artifact) (map[string]any, error) {
	data := make(map[string]any)
	if len(artifact.Payload) > 0 {
		if err := json.Unmarshal(artifact.Payload, &data); err != nil {
			// Non-object payloads are rare; keep them under a single field.
			data = map[string]any{"data": json.RawMessage(artifact.Payload)}
		}
	}
	data[fieldCreatedAt] = artifact.CreatedAt.Format(time.RFC3339Nano)
	data[fieldLastUsedAt] = artifact.LastUsedAt.Format(time.RFC3339Nano)
	data[fieldUsageCount] = artifact.UsageCount
	return data, nil
}

func decodeArtifact(key string, data map[string]any) (domain.Artifact, error) {
	artifact := domain.Artifact{
		Key:        key,
		CreatedAt:  timeField(data, fieldCreatedAt),
		LastUsedAt: timeField(data, fieldLastUsedAt),
		UsageCount: intField(data, fieldUsageCount),
	}

	payload := make(map[string]any, len(data))
	for k, v := range data {
		switch k {
		case fieldCreatedAt, fieldLastUsedAt, fieldUsageCount:
			continue
		}
		payload[k] = v
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("decode artifact %s: %w", key, err)
	}
	artifact.Payload = raw
	return artifact, nil
}

func intField(data map[string]any, field string) int {
	switch n := data[field].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func timeField(data map[string]any, field string) time.Time {
	switch v := data[field].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
