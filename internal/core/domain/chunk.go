package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ElementType classifies the kind of source content a chunk was cut from.
type ElementType string

// Available element types.
const (
	// ElementProse is regular paragraph text.
	ElementProse ElementType = "prose"

	// ElementTableRow is a row (or small group of rows) cut from a table.
	ElementTableRow ElementType = "table_row"

	// ElementFootnote is a footnote kept as a single chunk.
	ElementFootnote ElementType = "footnote"
)

// IsValid returns true if the element type is recognised.
func (e ElementType) IsValid() bool {
	switch e {
	case ElementProse, ElementTableRow, ElementFootnote:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (e ElementType) String() string {
	return string(e)
}

// Well-known metadata keys. Unknown keys pass through opaquely.
const (
	// MetaProductFamily identifies the product family a manual covers.
	MetaProductFamily = "product_family"

	// MetaSourceType mirrors the owning document's source type.
	MetaSourceType = "source_type"

	// MetaTableHeader carries the header row of the table a table_row
	// chunk was cut from, so column semantics survive retrieval.
	MetaTableHeader = "table_header"
)

// Chunk is one indexed retrieval unit cut from a source document.
//
// The JSON tags are a wire contract shared with the ingestion pipeline and
// the evaluation harness; field names must not change.
type Chunk struct {
	// ChunkID is the stable identifier, derived from the document ID and
	// the chunk's sequence number within it.
	ChunkID string `json:"chunk_id"`

	// DocumentID links to the owning Document.
	DocumentID string `json:"document_id"`

	// SourcePath is the original file location.
	SourcePath string `json:"source_path"`

	// Text is the UTF-8 chunk content.
	Text string `json:"text"`

	// StartToken and EndToken are offsets into the source section's token
	// stream. EndToken is exclusive and always greater than StartToken.
	StartToken int `json:"start_token"`
	EndToken   int `json:"end_token"`

	// PageNumber is the source page, when known.
	PageNumber *int `json:"page_number"`

	// Heading is the breadcrumb of headings above this chunk.
	Heading string `json:"heading"`

	// ElementType records what kind of content the chunk holds.
	ElementType ElementType `json:"element_type"`

	// ContentHash is the SHA-256 of the normalised text, used for dedup
	// and cheap change detection on re-ingestion.
	ContentHash string `json:"content_hash"`

	// Embedding is the vector representation. Nil until the embedding
	// provider has processed the chunk.
	Embedding []float32 `json:"embedding"`

	// Metadata holds string key/value pairs used by filter predicates.
	Metadata map[string]string `json:"metadata"`
}

// BuildChunkID builds the stable chunk identifier for a document and sequence number.
func BuildChunkID(documentID string, seq int) string {
	return fmt.Sprintf("%s#%d", documentID, seq)
}

// HashContent returns the SHA-256 hex digest of the normalised text.
// Normalisation collapses whitespace so formatting-only differences do not
// produce distinct hashes.
func HashContent(text string) string {
	normalised := strings.Join(strings.Fields(text), " ")
	sum := sha256.Sum256([]byte(normalised))
	return hex.EncodeToString(sum[:])
}

// Clone returns a deep copy of the chunk. Embedding and metadata are copied
// so the caller can never mutate shared state through the result.
func (c Chunk) Clone() Chunk {
	out := c
	if c.Embedding != nil {
		out.Embedding = make([]float32, len(c.Embedding))
		copy(out.Embedding, c.Embedding)
	}
	if c.Metadata != nil {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	if c.PageNumber != nil {
		page := *c.PageNumber
		out.PageNumber = &page
	}
	return out
}

// Document is one ingested source file. It owns its chunks; deleting a
// document cascades to them.
type Document struct {
	// DocumentID is the unique identifier.
	DocumentID string `json:"document_id"`

	// SourcePath is the original file location.
	SourcePath string `json:"source_path"`

	// ContentHash is the SHA-256 of the raw source bytes. Re-ingestion
	// with an unchanged hash short-circuits to a no-op.
	ContentHash string `json:"content_hash"`

	// SourceType classifies the origin (e.g. "manual", "datasheet").
	SourceType string `json:"source_type"`

	// ChunkCount is the number of chunks currently persisted.
	ChunkCount int `json:"chunk_count"`
}

// HashBytes returns the SHA-256 hex digest of raw document bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Section is one ordered piece of a parsed document.
type Section struct {
	// Text is the section content. For table sections the rows carry the
	// content instead.
	Text string

	// Heading is the breadcrumb of headings above this section.
	Heading string

	// PageNumber is the source page, when known.
	PageNumber *int

	// ElementType classifies the section content.
	ElementType ElementType

	// TableHeader holds the header cells for table sections.
	TableHeader []string

	// Rows holds the rendered rows for table sections.
	Rows []string
}

// ParsedDocument is the chunker's input: an ordered list of sections with
// source identity attached.
type ParsedDocument struct {
	// SourcePath is the original file location.
	SourcePath string

	// SourceType classifies the origin.
	SourceType string

	// RawHash is the SHA-256 of the raw source bytes.
	RawHash string

	// Metadata is copied onto every produced chunk.
	Metadata map[string]string

	// Sections are the ordered content pieces.
	Sections []Section
}
