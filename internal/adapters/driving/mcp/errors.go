// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Kerygma. It lets AI assistants query the fragment index and the
// derived-artifact cache during sermon preparation.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
