// Package tokenizer provides a deterministic sub-word tokenizer.
//
// Text is split into whitespace-delimited words; words longer than the piece
// limit are cut into pieces carrying a continuation marker. The scheme is a
// fixed policy rather than a learned vocabulary, which keeps encode/decode
// bit-reproducible with zero model downloads - a property the offline
// embedding fallback and the test suite both rely on.
package tokenizer

import (
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ContinuationMarker prefixes pieces that continue the previous word.
const ContinuationMarker = "##"

// DefaultMaxPiece is the default maximum piece length in runes.
const DefaultMaxPiece = 8

// Tokenizer encodes text into sub-word tokens and back.
type Tokenizer struct {
	maxPiece int
}

// Option configures the tokenizer.
type Option func(*Tokenizer)

// WithMaxPiece sets the maximum piece length in runes.
func WithMaxPiece(n int) Option {
	return func(t *Tokenizer) {
		if n > 0 {
			t.maxPiece = n
		}
	}
}

// New creates a tokenizer with the given options.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{maxPiece: DefaultMaxPiece}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Encode splits text into sub-word tokens. Whitespace is the only thing the
// round trip does not preserve; Decode rejoins words with single spaces.
func (t *Tokenizer) Encode(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		runes := []rune(word)
		if len(runes) <= t.maxPiece {
			tokens = append(tokens, word)
			continue
		}
		for start := 0; start < len(runes); start += t.maxPiece {
			end := start + t.maxPiece
			if end > len(runes) {
				end = len(runes)
			}
			piece := string(runes[start:end])
			if start > 0 {
				piece = ContinuationMarker + piece
			}
			tokens = append(tokens, piece)
		}
	}
	return tokens
}

// Decode reconstructs text from tokens. Continuation pieces are appended to
// the previous token without a separating space.
func (t *Tokenizer) Decode(tokens []string) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if rest, ok := strings.CutPrefix(tok, ContinuationMarker); ok {
			sb.WriteString(rest)
			continue
		}
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

// Count returns the number of tokens Encode would produce.
func (t *Tokenizer) Count(text string) int {
	return len(t.Encode(text))
}

// Window is a half-open [Start, End) token index range.
type Window struct {
	Start int
	End   int
}

// Windows cuts n tokens into overlapping windows. Adjacent windows share
// overlap tokens; the last window may be shorter and always ends exactly at
// n. overlap must be smaller than window or ErrInvalidInput is returned.
func Windows(n, window, overlap int) ([]Window, error) {
	if window <= 0 || overlap < 0 || overlap >= window {
		return nil, domain.ErrInvalidInput
	}
	if n <= 0 {
		return nil, nil
	}

	stride := window - overlap
	if stride < 1 {
		stride = 1
	}

	var windows []Window
	for start := 0; ; start += stride {
		end := start + window
		if end >= n {
			windows = append(windows, Window{Start: start, End: n})
			break
		}
		windows = append(windows, Window{Start: start, End: end})
	}
	return windows, nil
}
