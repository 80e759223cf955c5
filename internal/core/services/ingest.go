package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/chunker"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// embedBatchSize bounds how many chunk texts go to the provider per call.
const embedBatchSize = 64

// Ingestor runs the ingestion pipeline: chunk, embed, persist, and on
// Reload, rebuild the retrieval snapshot from the store.
type Ingestor struct {
	store    driven.ChunkStore
	chunks   *chunker.Chunker
	embedder driven.EmbeddingProvider
	engine   driving.RetrievalService
}

// NewIngestor creates the ingestion service.
func NewIngestor(store driven.ChunkStore, ch *chunker.Chunker, embedder driven.EmbeddingProvider, engine driving.RetrievalService) *Ingestor {
	return &Ingestor{
		store:    store,
		chunks:   ch,
		embedder: embedder,
		engine:   engine,
	}
}

// IngestDocument chunks, embeds and persists one parsed document. An
// unchanged raw hash short-circuits to a no-op so re-ingesting a directory
// is cheap. The snapshot is not rebuilt here; call Reload when the batch is
// done.
func (s *Ingestor) IngestDocument(ctx context.Context, doc *domain.ParsedDocument) (*driving.IngestResult, error) {
	if doc == nil || doc.SourcePath == "" {
		return nil, fmt.Errorf("%w: parsed document missing source path", domain.ErrInvalidInput)
	}

	logger.Section("Document Ingestion")
	logger.Debug("Source: %s (%s)", doc.SourcePath, doc.SourceType)

	documentID := uuid.New().String()
	existing, err := s.store.GetDocumentByPath(ctx, doc.SourcePath)
	switch {
	case err == nil:
		if existing.ContentHash == doc.RawHash && doc.RawHash != "" {
			logger.Debug("Unchanged, skipping")
			return &driving.IngestResult{
				DocumentID: existing.DocumentID,
				Unchanged:  true,
				ChunkCount: existing.ChunkCount,
			}, nil
		}
		// Re-ingest under the same identity so chunk IDs stay stable
		// across content revisions.
		documentID = existing.DocumentID
	case errors.Is(err, domain.ErrNotFound):
		// New document.
	default:
		return nil, fmt.Errorf("looking up document: %w", err)
	}

	chunked, err := s.chunks.Chunk(doc, documentID)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", doc.SourcePath, err)
	}

	if err := s.embedChunks(ctx, chunked.Chunks); err != nil {
		return nil, err
	}

	record := &domain.Document{
		DocumentID:  documentID,
		SourcePath:  doc.SourcePath,
		ContentHash: doc.RawHash,
		SourceType:  doc.SourceType,
		ChunkCount:  len(chunked.Chunks),
	}
	if err := s.store.ReplaceDocument(ctx, record, chunked.Chunks); err != nil {
		return nil, fmt.Errorf("persisting %s: %w", doc.SourcePath, err)
	}

	logger.Info("Ingested %s: %d chunks (%d deduped)", doc.SourcePath, len(chunked.Chunks), chunked.Deduped)
	return &driving.IngestResult{
		DocumentID: documentID,
		ChunkCount: len(chunked.Chunks),
		Deduped:    chunked.Deduped,
	}, nil
}

// embedChunks fills in embeddings batch by batch. A provider that has
// failed over to the deterministic fallback still returns vectors, so the
// only errors escaping here are cancellation and storage-side ones.
func (s *Ingestor) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			texts = append(texts, chunks[i].Text)
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch: %w", err)
		}
		for i, vec := range vectors {
			chunks[start+i].Embedding = vec
		}
	}
	return nil
}

// RemoveDocument deletes a document and its chunks from the store.
func (s *Ingestor) RemoveDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}
	if err := s.store.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting document %s: %w", documentID, err)
	}
	logger.Info("Removed document %s", documentID)
	return nil
}

// Reload rebuilds the retrieval snapshot from everything persisted.
func (s *Ingestor) Reload(ctx context.Context) error {
	chunks, err := s.store.LoadChunks(ctx)
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}
	return s.engine.RebuildIndex(ctx, chunks)
}
