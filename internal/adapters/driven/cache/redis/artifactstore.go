// Package redis provides an artifact store adapter backed by Redis.
// Suitable when the derived-artifact cache should live in a shared
// key-value store instead of the document database.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// DefaultKeyPrefix namespaces artifact keys in a shared Redis.
const DefaultKeyPrefix = "kerygma:artifact:"

// Config holds Redis connection configuration.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// ArtifactStore persists derived artifacts as JSON values in Redis.
// Entries never expire; the cache is best-effort, not TTL-based.
type ArtifactStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// record is the stored JSON value.
type record struct {
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"createdAt"`
	LastUsedAt time.Time       `json:"lastUsedAt"`
	UsageCount int             `json:"usageCount"`
}

// NewArtifactStore connects to Redis and returns an artifact store.
func NewArtifactStore(ctx context.Context, cfg Config) (*ArtifactStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: connect: %w", err)
	}

	return &ArtifactStore{
		client: client,
		prefix: cfg.KeyPrefix,
		now:    time.Now,
	}, nil
}

// Get retrieves an artifact by its exact cache key.
func (s *ArtifactStore) Get(ctx context.Context, kind domain.ArtifactKind, key string) (domain.Artifact, error) {
	raw, err := s.client.Get(ctx, s.key(kind, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Artifact{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("redis: get: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Artifact{}, fmt.Errorf("redis: decode %s: %w", key, err)
	}

	return domain.Artifact{
		Key:        key,
		Payload:    rec.Payload,
		CreatedAt:  rec.CreatedAt,
		LastUsedAt: rec.LastUsedAt,
		UsageCount: rec.UsageCount,
	}, nil
}

// Put stores the artifact, or increments the usage counter of an
// existing entry while keeping its payload.
func (s *ArtifactStore) Put(ctx context.Context, kind domain.ArtifactKind, artifact domain.Artifact) error {
	existing, err := s.Get(ctx, kind, artifact.Key)
	if err == nil {
		existing.UsageCount++
		return s.write(ctx, kind, existing)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return s.write(ctx, kind, artifact)
}

// Touch bumps the usage count and last-used time of an existing entry.
func (s *ArtifactStore) Touch(ctx context.Context, kind domain.ArtifactKind, key string) error {
	artifact, err := s.Get(ctx, kind, key)
	if err != nil {
		return err
	}
	artifact.UsageCount++
	artifact.LastUsedAt = s.now()
	return s.write(ctx, kind, artifact)
}

// Close releases the client connection.
func (s *ArtifactStore) Close() error {
	return s.client.Close()
}

func (s *ArtifactStore) write(ctx context.Context, kind domain.ArtifactKind, artifact domain.Artifact) error {
	raw, err := json.Marshal(record{
		Payload:    artifact.Payload,
		CreatedAt:  artifact.CreatedAt,
		LastUsedAt: artifact.LastUsedAt,
		UsageCount: artifact.UsageCount,
	})
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", artifact.Key, err)
	}
	if err := s.client.Set(ctx, s.key(kind, artifact.Key), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis: set: %w", err)
	}
	return nil
}

func (s *ArtifactStore) key(kind domain.ArtifactKind, key string) string {
	return s.prefix + string(kind) + ":" + key
}
