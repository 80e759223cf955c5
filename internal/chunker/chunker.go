// Package chunker cuts parsed documents into bounded, overlapping,
// content-addressed chunks.
package chunker

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/tokenizer"
)

// DefaultWindow is the default target chunk length in tokens.
const DefaultWindow = 256

// DefaultOverlap is the default token overlap between adjacent prose chunks.
const DefaultOverlap = 32

// Chunker splits document sections into chunks whose token length is bounded
// and whose adjacent chunks overlap for context continuity.
type Chunker struct {
	tok     *tokenizer.Tokenizer
	window  int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithWindow sets the target chunk length in tokens.
func WithWindow(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.window = n
		}
	}
}

// WithOverlap sets the token overlap between adjacent prose chunks.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlap = n
		}
	}
}

// New creates a chunker. The overlap must be smaller than the window;
// anything else is a configuration error, not something to silently adjust.
func New(tok *tokenizer.Tokenizer, opts ...Option) (*Chunker, error) {
	c := &Chunker{
		tok:     tok,
		window:  DefaultWindow,
		overlap: DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tok == nil {
		return nil, fmt.Errorf("chunker: %w: tokenizer is required", domain.ErrInvalidInput)
	}
	if c.overlap >= c.window {
		return nil, fmt.Errorf("chunker: %w: overlap %d must be smaller than window %d",
			domain.ErrInvalidInput, c.overlap, c.window)
	}
	return c, nil
}

// Result holds the chunker's output for one document.
type Result struct {
	// Chunks are the produced chunks, in document order.
	Chunks []domain.Chunk

	// Deduped is the number of chunks dropped because an identical chunk
	// (same content hash) was already produced for this document.
	Deduped int
}

// Chunk cuts one parsed document into chunks. Prose sections are windowed
// over their token stream; table sections are chunked row-wise under the
// token budget; footnotes become single chunks regardless of length.
// Chunks whose content hash repeats within the document are dropped, which
// keeps boilerplate repeated across pages from bloating the index.
func (c *Chunker) Chunk(doc *domain.ParsedDocument, documentID string) (*Result, error) {
	if doc == nil || documentID == "" {
		return nil, fmt.Errorf("chunker: %w: document and ID are required", domain.ErrInvalidInput)
	}

	res := &Result{}
	seen := make(map[string]bool)
	seq := 0

	emit := func(section *domain.Section, text string, start, end int) {
		hash := domain.HashContent(text)
		if seen[hash] {
			res.Deduped++
			return
		}
		seen[hash] = true

		chunk := domain.Chunk{
			ChunkID:     domain.BuildChunkID(documentID, seq),
			DocumentID:  documentID,
			SourcePath:  doc.SourcePath,
			Text:        text,
			StartToken:  start,
			EndToken:    end,
			Heading:     section.Heading,
			ElementType: section.ElementType,
			ContentHash: hash,
			Metadata:    c.chunkMetadata(doc, section),
		}
		if section.PageNumber != nil {
			page := *section.PageNumber
			chunk.PageNumber = &page
		}
		res.Chunks = append(res.Chunks, chunk)
		seq++
	}

	for i := range doc.Sections {
		section := &doc.Sections[i]
		switch section.ElementType {
		case domain.ElementTableRow:
			c.chunkTable(section, emit)
		case domain.ElementFootnote:
			c.chunkFootnote(section, emit)
		default:
			if err := c.chunkProse(section, emit); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

// chunkProse windows the section's token stream.
func (c *Chunker) chunkProse(section *domain.Section, emit emitFunc) error {
	tokens := c.tok.Encode(section.Text)
	if len(tokens) == 0 {
		return nil
	}

	windows, err := tokenizer.Windows(len(tokens), c.window, c.overlap)
	if err != nil {
		return fmt.Errorf("chunker: %w", err)
	}
	for _, w := range windows {
		text := c.tok.Decode(tokens[w.Start:w.End])
		emit(section, text, w.Start, w.End)
	}
	return nil
}

// chunkTable groups rows under the token budget; each group becomes one
// chunk annotated with the table header so column semantics survive.
func (c *Chunker) chunkTable(section *domain.Section, emit emitFunc) {
	offset := 0
	var group []string
	groupStart := 0
	groupTokens := 0

	flush := func(end int) {
		if len(group) == 0 {
			return
		}
		emit(section, strings.Join(group, "\n"), groupStart, end)
		group = nil
		groupTokens = 0
	}

	for _, row := range section.Rows {
		n := c.tok.Count(row)
		if n == 0 {
			continue
		}
		if groupTokens > 0 && groupTokens+n > c.window {
			flush(offset)
		}
		if groupTokens == 0 {
			groupStart = offset
		}
		group = append(group, row)
		groupTokens += n
		offset += n
	}
	flush(offset)
}

// chunkFootnote keeps the whole footnote as one chunk regardless of length.
func (c *Chunker) chunkFootnote(section *domain.Section, emit emitFunc) {
	n := c.tok.Count(section.Text)
	if n == 0 {
		return
	}
	emit(section, section.Text, 0, n)
}

type emitFunc func(section *domain.Section, text string, start, end int)

// chunkMetadata copies document metadata and adds the fixed keys.
func (c *Chunker) chunkMetadata(doc *domain.ParsedDocument, section *domain.Section) map[string]string {
	meta := make(map[string]string, len(doc.Metadata)+2)
	for k, v := range doc.Metadata {
		meta[k] = v
	}
	if doc.SourceType != "" {
		meta[domain.MetaSourceType] = doc.SourceType
	}
	if section.ElementType == domain.ElementTableRow && len(section.TableHeader) > 0 {
		meta[domain.MetaTableHeader] = strings.Join(section.TableHeader, " | ")
	}
	return meta
}
