// Package domain defines the core business entities for Kerygma.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Fragment: A searchable slice of a library resource
//   - Resource: A library document being indexed
//   - SimilarityResult: A scored fragment from a similarity search
//   - SearchScope: The tagged owner/resource scope of a search
//   - Artifact: A cached AI-derived result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
