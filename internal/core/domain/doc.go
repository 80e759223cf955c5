// Package domain defines the core business entities for docqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested source file
//   - Chunk: The indexed retrieval unit cut from a document
//   - ParsedDocument: Chunker input (ordered sections)
//   - RetrievalQuery / SearchResult: One query and its ranked hits
//   - Settings: Explicit configuration passed into constructors
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
