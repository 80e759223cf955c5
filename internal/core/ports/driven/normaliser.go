package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Normaliser transforms raw file bytes into the chunker's input form:
// an ordered list of sections with element types and heading metadata.
type Normaliser interface {
	// Extensions returns the file extensions this normaliser handles,
	// lowercase and dot-prefixed (e.g. ".md").
	Extensions() []string

	// Normalise parses raw bytes into a ParsedDocument.
	Normalise(ctx context.Context, sourcePath string, raw []byte) (*domain.ParsedDocument, error)
}
