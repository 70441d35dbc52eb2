// Package domain defines the core business entities for Pilot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - StructuredRecord: The published metadata for one dataset
//   - FileManifestEntry: Identity and description of one physical file
//   - ColumnStatistics: Per-column statistics of a tabular file
//   - CatalogEntry: The wire envelope accepted by the search index
//   - Profile, Project: Explicit upload context
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
