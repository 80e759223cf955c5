package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ChunkStore persists documents and their chunks.
//
// The store is the single source of truth the retrieval engine rebuilds its
// index snapshot from. Ingestion is single-writer; reads may be concurrent.
type ChunkStore interface {
	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, documentID string) (*domain.Document, error)

	// GetDocumentByPath retrieves a document by its source path.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocumentByPath(ctx context.Context, sourcePath string) (*domain.Document, error)

	// ListDocuments returns all persisted documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ReplaceDocument saves the document and replaces all of its chunks in
	// one transaction. Old chunks are deleted with their document's other
	// rows; readers never observe a partial replacement.
	ReplaceDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// DeleteDocument removes a document and, by cascade, its chunks.
	DeleteDocument(ctx context.Context, documentID string) error

	// LoadChunks returns every persisted chunk, embeddings included.
	// This feeds index snapshot rebuilds.
	LoadChunks(ctx context.Context) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}
