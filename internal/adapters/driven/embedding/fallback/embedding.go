// Package fallback provides a deterministic offline embedding provider.
//
// Each text is tokenized; every token is hashed and scatter-added into a
// fixed-dimension bucket vector, which is then L2-normalised. The projection
// is bit-reproducible given the same text and dimension and has zero network
// dependency, so retrieval correctness can be tested offline and ingestion
// never blocks on network absence.
package fallback

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/tokenizer"
)

// Ensure Provider implements the interface.
var _ driven.EmbeddingProvider = (*Provider)(nil)

// DefaultDimensions is the default embedding size.
const DefaultDimensions = 384

// DefaultWindow is the default hash bucket divisor. Dividing before the
// modulo decorrelates buckets from the hash's low bits.
const DefaultWindow = 256

// ModelName identifies the fallback geometry in logs and persisted state.
const ModelName = "hash-bow-v1"

// Provider is the deterministic hash-projection embedding provider.
type Provider struct {
	tok        *tokenizer.Tokenizer
	dimensions int
	window     uint64
}

// Option configures the provider.
type Option func(*Provider)

// WithDimensions sets the embedding vector size.
func WithDimensions(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.dimensions = n
		}
	}
}

// WithWindow sets the hash bucket divisor.
func WithWindow(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.window = uint64(n)
		}
	}
}

// New creates a fallback provider.
func New(tok *tokenizer.Tokenizer, opts ...Option) *Provider {
	p := &Provider{
		tok:        tok,
		dimensions: DefaultDimensions,
		window:     DefaultWindow,
	}
	if p.tok == nil {
		p.tok = tokenizer.New()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EmbedBatch generates embeddings for multiple texts.
// Empty input returns an empty result, not an error.
func (p *Provider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = p.embed(text)
	}
	return out, nil
}

// EmbedQuery generates an embedding for a single query string.
func (p *Provider) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return p.embed(text), nil
}

// embed projects one text: per token, hash, scatter-add into
// (hash / window) mod dimensions, then L2-normalise.
func (p *Provider) embed(text string) []float32 {
	vec := make([]float32, p.dimensions)
	for _, token := range p.tok.Encode(text) {
		sum := sha256.Sum256([]byte(token))
		h := binary.BigEndian.Uint64(sum[:8])
		bucket := (h / p.window) % uint64(p.dimensions)
		vec[bucket]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := 1.0 / math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) * inv)
		}
	}
	return vec
}

// Dimensions returns the embedding vector size.
func (p *Provider) Dimensions() int {
	return p.dimensions
}

// ModelName returns the name of the fallback geometry.
func (p *Provider) ModelName() string {
	return ModelName
}

// Fallback reports whether this provider is the deterministic fallback.
func (p *Provider) Fallback() bool {
	return true
}

// Close releases resources.
func (p *Provider) Close() error {
	return nil
}
