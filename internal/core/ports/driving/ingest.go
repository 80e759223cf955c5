package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// IngestResult summarises one document ingestion.
type IngestResult struct {
	// DocumentID identifies the (possibly pre-existing) document.
	DocumentID string

	// Unchanged is true when the raw content hash matched the persisted
	// document and ingestion short-circuited to a no-op.
	Unchanged bool

	// ChunkCount is the number of chunks persisted for the document.
	ChunkCount int

	// Deduped is the number of chunks dropped by content-hash dedup.
	Deduped int
}

// IngestService runs the ingestion pipeline: chunk, embed, persist.
// Single-writer by contract. Persistence and snapshot rebuild are split so
// bulk ingestion can rebuild once at the end instead of per document.
type IngestService interface {
	// IngestDocument chunks, embeds and persists one parsed document.
	// Call Reload afterwards to make the new chunks searchable.
	IngestDocument(ctx context.Context, doc *domain.ParsedDocument) (*IngestResult, error)

	// RemoveDocument deletes a document and its chunks.
	RemoveDocument(ctx context.Context, documentID string) error

	// Reload rebuilds the retrieval snapshot from the store without
	// ingesting anything new.
	Reload(ctx context.Context) error
}
