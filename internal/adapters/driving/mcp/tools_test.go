package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SimilarityResult{
				{
					Fragment: domain.Fragment{
						ResourceID:     "res-1",
						ResourceTitle:  "Institutes",
						ResourceAuthor: "Calvin",
						Text:           "Of the knowledge of God",
						Metadata:       domain.FragmentMetadata{Page: 12},
					},
					Score: 0.91,
				},
			},
		}

		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		input := SearchInput{Query: "knowing God", Owner: "user-1", Limit: 10}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "res-1", output.Results[0].ResourceID)
		assert.Equal(t, "Institutes", output.Results[0].Title)
		assert.Equal(t, "Calvin", output.Results[0].Author)
		assert.Equal(t, 12, output.Results[0].Page)
		assert.Equal(t, 0.91, output.Results[0].Score)
		assert.Equal(t, "Of the knowledge of God", output.Results[0].Text)
	})

	t.Run("owner is required", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "owner")
	})

	t.Run("resources narrow the scope", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		input := SearchInput{Query: "test", Owner: "user-1", Resources: []string{"res-1", "res-2"}}
		_, _, err = server.handleSearch(ctx, nil, input)
		require.NoError(t, err)

		assert.Equal(t, domain.ScopeSubsetOfResources, mockSearch.lastScope.Kind)
		assert.Equal(t, []string{"res-1", "res-2"}, mockSearch.lastScope.ResourceIDs)
		assert.Equal(t, "user-1", mockSearch.lastScope.OwnerID)
	})

	t.Run("no resources means owner-wide scope", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test", Owner: "user-1"})
		require.NoError(t, err)
		assert.Equal(t, domain.ScopeAllForOwner, mockSearch.lastScope.Kind)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test", Owner: "user-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleGetPassage(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cached payload", func(t *testing.T) {
		cache := &mockArtifactCache{artifact: &domain.Artifact{
			Key:     "rom_12_1_2_es",
			Payload: json.RawMessage(`{"text":"No os conforméis"}`),
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Artifacts: cache})
		require.NoError(t, err)

		input := PassageInput{Reference: "Romanos 12:1-2", Language: "Spanish"}
		_, output, err := server.handleGetPassage(ctx, nil, input)

		require.NoError(t, err)
		assert.True(t, output.Found)
		assert.JSONEq(t, `{"text":"No os conforméis"}`, string(output.Payload))
		assert.Equal(t, domain.ArtifactPassage, cache.lastKind)
		assert.Equal(t, "Romanos 12:1-2", cache.lastRef)
		assert.Equal(t, "Spanish", cache.lastLang)
	})

	t.Run("miss reports not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Artifacts: &mockArtifactCache{}})
		require.NoError(t, err)

		_, output, err := server.handleGetPassage(ctx, nil, PassageInput{Reference: "Judas 1:3", Language: "es"})
		require.NoError(t, err)
		assert.False(t, output.Found)
		assert.Empty(t, output.Payload)
	})

	t.Run("explicit kind is honoured", func(t *testing.T) {
		cache := &mockArtifactCache{}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Artifacts: cache})
		require.NoError(t, err)

		input := PassageInput{Reference: "Romans 8:1", Language: "en", Kind: "quiz_sets"}
		_, _, err = server.handleGetPassage(ctx, nil, input)
		require.NoError(t, err)
		assert.Equal(t, domain.ArtifactQuiz, cache.lastKind)
	})

	t.Run("unknown kind returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Artifacts: &mockArtifactCache{}})
		require.NoError(t, err)

		input := PassageInput{Reference: "Romans 8:1", Language: "en", Kind: "sermon_outlines"}
		_, _, err = server.handleGetPassage(ctx, nil, input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sermon_outlines")
	})
}
