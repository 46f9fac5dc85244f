package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driving"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query     string   `json:"query" jsonschema:"the study question or topic to search for"`
	Owner     string   `json:"owner" jsonschema:"owning user id scoping the search"`
	Resources []string `json:"resources,omitempty" jsonschema:"restrict the search to these resource ids"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ResourceID string  `json:"resource_id"`
	Title      string  `json:"title"`
	Author     string  `json:"author,omitempty"`
	Page       int     `json:"page,omitempty"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// PassageInput is the input schema for the get_passage tool.
type PassageInput struct {
	Reference string `json:"reference" jsonschema:"scripture reference, e.g. 'Romans 12:1-2' or 'Romanos 12:1-2'"`
	Language  string `json:"language" jsonschema:"target language word, e.g. 'Spanish'"`
	Kind      string `json:"kind,omitempty" jsonschema:"artifact kind: passages (default), syntax_analyses or quiz_sets"`
}

// PassageOutput is the output schema for the get_passage tool.
type PassageOutput struct {
	Found   bool            `json:"found"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search indexed library fragments by semantic similarity",
	}, s.handleSearch)

	if s.ports.Artifacts != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "get_passage",
			Description: "Fetch a cached passage rendering, syntax analysis or quiz set",
		}, s.handleGetPassage)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Owner == "" {
		return nil, SearchOutput{}, fmt.Errorf("owner is required")
	}

	scope := domain.AllForOwner(input.Owner)
	if len(input.Resources) > 0 {
		scope = domain.SubsetOfResources(input.Owner, input.Resources)
	}

	results, err := s.ports.Search.Search(ctx, input.Query, scope, driving.SearchOptions{
		TopK: input.Limit,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		f := &results[i].Fragment
		output.Results[i] = SearchResultOutput{
			ResourceID: f.ResourceID,
			Title:      f.ResourceTitle,
			Author:     f.ResourceAuthor,
			Page:       f.Metadata.Page,
			Score:      results[i].Score,
			Text:       f.Text,
		}
	}

	return nil, output, nil
}

// handleGetPassage handles the get_passage tool invocation.
func (s *Server) handleGetPassage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PassageInput,
) (*mcp.CallToolResult, PassageOutput, error) {
	kind := domain.ArtifactKind(input.Kind)
	if input.Kind == "" {
		kind = domain.ArtifactPassage
	}
	if !kind.Valid() {
		return nil, PassageOutput{}, fmt.Errorf("unknown artifact kind %q", input.Kind)
	}

	artifact := s.ports.Artifacts.Get(ctx, kind, input.Reference, input.Language)
	if artifact == nil {
		return nil, PassageOutput{Found: false}, nil
	}

	return nil, PassageOutput{Found: true, Payload: artifact.Payload}, nil
}
