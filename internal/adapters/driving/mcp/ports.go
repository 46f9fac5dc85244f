package mcp

import (
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides similarity search over indexed fragments.
	Search driving.SearchService

	// Indexing exposes index status. Optional.
	Indexing driving.IndexingService

	// Artifacts exposes the derived-artifact cache. Optional.
	Artifacts driving.ArtifactCache
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
