package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestEncode(t *testing.T) {
	tok := New()

	t.Run("empty text", func(t *testing.T) {
		if got := tok.Encode(""); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("short words pass through", func(t *testing.T) {
		tokens := tok.Encode("print head cleaning")
		want := []string{"print", "head", "cleaning"}
		if len(tokens) != len(want) {
			t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
		}
		for i := range want {
			if tokens[i] != want[i] {
				t.Errorf("token %d: expected %q, got %q", i, want[i], tokens[i])
			}
		}
	})

	t.Run("long words are split with continuation", func(t *testing.T) {
		tokens := tok.Encode("troubleshooting")
		if len(tokens) != 2 {
			t.Fatalf("expected 2 pieces, got %d: %v", len(tokens), tokens)
		}
		if strings.HasPrefix(tokens[0], ContinuationMarker) {
			t.Errorf("first piece should not carry the marker: %q", tokens[0])
		}
		if !strings.HasPrefix(tokens[1], ContinuationMarker) {
			t.Errorf("second piece should carry the marker: %q", tokens[1])
		}
	})

	t.Run("multi-byte text splits on rune boundaries", func(t *testing.T) {
		tokens := New(WithMaxPiece(2)).Encode("dökümantasyon")
		joined := New(WithMaxPiece(2)).Decode(tokens)
		if joined != "dökümantasyon" {
			t.Errorf("round trip mangled multi-byte text: %q", joined)
		}
	})
}

func TestDecode(t *testing.T) {
	tok := New()

	t.Run("round trip normalises whitespace only", func(t *testing.T) {
		in := "Supports  up to\t1200 x 1200 dpi"
		got := tok.Decode(tok.Encode(in))
		if got != "Supports up to 1200 x 1200 dpi" {
			t.Errorf("unexpected round trip: %q", got)
		}
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		a := tok.Encode("paper jam recovery procedure")
		b := tok.Encode("paper jam recovery procedure")
		if len(a) != len(b) {
			t.Fatalf("token counts differ: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("token %d differs: %q vs %q", i, a[i], b[i])
			}
		}
	})
}

func TestWindows(t *testing.T) {
	t.Run("overlap must be smaller than window", func(t *testing.T) {
		_, err := Windows(100, 10, 10)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("zero tokens yields no windows", func(t *testing.T) {
		windows, err := Windows(0, 10, 2)
		if err != nil {
			t.Fatal(err)
		}
		if windows != nil {
			t.Errorf("expected nil, got %v", windows)
		}
	})

	t.Run("single window when content fits", func(t *testing.T) {
		windows, err := Windows(7, 10, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(windows) != 1 || windows[0] != (Window{0, 7}) {
			t.Errorf("expected [0,7), got %v", windows)
		}
	})

	t.Run("adjacent windows share exactly overlap tokens", func(t *testing.T) {
		const n, window, overlap = 100, 32, 8
		windows, err := Windows(n, window, overlap)
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(windows); i++ {
			shared := windows[i-1].End - windows[i].Start
			if shared != overlap {
				t.Errorf("windows %d/%d share %d tokens, expected %d", i-1, i, shared, overlap)
			}
		}
	})

	t.Run("last window ends exactly at n", func(t *testing.T) {
		windows, err := Windows(100, 32, 8)
		if err != nil {
			t.Fatal(err)
		}
		last := windows[len(windows)-1]
		if last.End != 100 {
			t.Errorf("last window ends at %d, expected 100", last.End)
		}
		for _, w := range windows {
			if w.Start >= 100 {
				t.Errorf("window starts beyond section end: %v", w)
			}
			if w.End <= w.Start {
				t.Errorf("empty window: %v", w)
			}
		}
	})

	t.Run("windows cover every token", func(t *testing.T) {
		windows, err := Windows(50, 16, 4)
		if err != nil {
			t.Fatal(err)
		}
		covered := make([]bool, 50)
		for _, w := range windows {
			for i := w.Start; i < w.End; i++ {
				covered[i] = true
			}
		}
		for i, ok := range covered {
			if !ok {
				t.Errorf("token %d not covered", i)
			}
		}
	})
}
