// Package memory provides in-memory store implementations, used in tests
// and for ephemeral indexing runs that never touch disk.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu     sync.RWMutex
	docs   map[string]domain.Document
	byPath map[string]string // source path -> document ID
	chunks map[string][]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		docs:   make(map[string]domain.Document),
		byPath: make(map[string]string),
		chunks: make(map[string][]domain.Chunk),
	}
}

// GetDocument retrieves a document by ID.
func (s *ChunkStore) GetDocument(_ context.Context, documentID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentByPath retrieves a document by its source path.
func (s *ChunkStore) GetDocumentByPath(_ context.Context, sourcePath string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byPath[sourcePath]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := s.docs[id]
	return &doc, nil
}

// ListDocuments returns all persisted documents ordered by source path.
func (s *ChunkStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].SourcePath < docs[j].SourcePath
	})
	return docs, nil
}

// ReplaceDocument saves the document and replaces all its chunks.
func (s *ChunkStore) ReplaceDocument(_ context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A moved file keeps its identity; drop the stale path mapping.
	if old, ok := s.docs[doc.DocumentID]; ok && old.SourcePath != doc.SourcePath {
		delete(s.byPath, old.SourcePath)
	}

	saved := *doc
	saved.ChunkCount = len(chunks)
	s.docs[doc.DocumentID] = saved
	s.byPath[doc.SourcePath] = doc.DocumentID

	copied := make([]domain.Chunk, len(chunks))
	for i := range chunks {
		copied[i] = chunks[i].Clone()
	}
	s.chunks[doc.DocumentID] = copied
	return nil
}

// DeleteDocument removes a document and its chunks.
func (s *ChunkStore) DeleteDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, documentID)
	delete(s.byPath, doc.SourcePath)
	delete(s.chunks, documentID)
	return nil
}

// LoadChunks returns every persisted chunk ordered by document ID then
// chunk sequence.
func (s *ChunkStore) LoadChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.chunks))
	for id := range s.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []domain.Chunk
	for _, id := range ids {
		for _, chunk := range s.chunks[id] {
			out = append(out, chunk.Clone())
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *ChunkStore) Close() error {
	return nil
}
