// Package plaintext normalises plain text files into parsed documents.
// Paragraphs separated by blank lines become prose sections.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text", ".log"}
}

// Normalise splits the raw text on blank lines into prose sections.
func (n *Normaliser) Normalise(_ context.Context, sourcePath string, raw []byte) (*domain.ParsedDocument, error) {
	if sourcePath == "" {
		return nil, domain.ErrInvalidInput
	}

	doc := &domain.ParsedDocument{
		SourcePath: sourcePath,
		SourceType: "text",
		RawHash:    domain.HashBytes(raw),
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		doc.Sections = append(doc.Sections, domain.Section{
			Text:        para,
			ElementType: domain.ElementProse,
		})
	}

	return doc, nil
}
