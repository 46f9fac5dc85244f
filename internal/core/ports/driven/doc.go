// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Database: Schemaless document store (memory or SQLite adapters)
//   - FragmentStore: Fragment persistence over Database
//   - EmbeddingService: Generates vector embeddings
//
// # Optional Interfaces
//
//   - ArtifactStore: Derived-artifact persistence. Without it, the
//     artifact cache degrades to a pass-through (every get is a miss).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
