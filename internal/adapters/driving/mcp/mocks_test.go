package mcp

import (
	"context"
	"encoding/json"

	"github.com/kerygma-labs/kerygma-cli/internal/chunker"
	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results   []domain.SimilarityResult
	err       error
	lastScope domain.SearchScope
	lastOpts  driving.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context, _ string, scope domain.SearchScope, opts driving.SearchOptions,
) ([]domain.SimilarityResult, error) {
	m.lastScope = scope
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockSearchService) SearchVector(
	_ context.Context, _ []float32, scope domain.SearchScope, opts driving.SearchOptions,
) ([]domain.SimilarityResult, error) {
	m.lastScope = scope
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockIndexingService implements driving.IndexingService for testing.
type mockIndexingService struct {
	statuses []driving.IndexStatus
	err      error
}

func (m *mockIndexingService) Index(
	_ context.Context, _ domain.Resource, _ string, _ chunker.Options,
) ([]domain.Fragment, error) {
	return nil, m.err
}

func (m *mockIndexingService) Reindex(
	_ context.Context, _ domain.Resource, _ string, _ chunker.Options,
) ([]domain.Fragment, error) {
	return nil, m.err
}

func (m *mockIndexingService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockIndexingService) HasIndex(_ context.Context, _ string) (bool, error) {
	return false, m.err
}

func (m *mockIndexingService) Status(_ context.Context, _ string) ([]driving.IndexStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.statuses, nil
}

// mockArtifactCache implements driving.ArtifactCache for testing.
type mockArtifactCache struct {
	artifact *domain.Artifact
	lastKind domain.ArtifactKind
	lastRef  string
	lastLang string
}

func (m *mockArtifactCache) Get(
	_ context.Context, kind domain.ArtifactKind, reference, language string,
) *domain.Artifact {
	m.lastKind = kind
	m.lastRef = reference
	m.lastLang = language
	return m.artifact
}

func (m *mockArtifactCache) Put(
	_ context.Context, kind domain.ArtifactKind, reference, language string, _ json.RawMessage,
) {
	m.lastKind = kind
	m.lastRef = reference
	m.lastLang = language
}
