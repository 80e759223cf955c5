package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Run("lowercases and splits on non-alphanumerics", func(t *testing.T) {
		tokens := Tokenize("Paper-Jam: Tray 2!")
		assert.Equal(t, []string{"paper", "jam", "tray", "2"}, tokens)
	})

	t.Run("drops single-character non-digit tokens", func(t *testing.T) {
		tokens := Tokenize("1200 x 1200 dpi")
		assert.Equal(t, []string{"1200", "1200", "dpi"}, tokens)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, Tokenize("---"))
	})
}

func TestScores(t *testing.T) {
	texts := []string{
		"paper jam in tray two",
		"replacing the toner cartridge",
		"clearing a paper jam from the duplex unit",
		"network configuration and ip address setup",
	}
	idx := Build(texts)

	t.Run("matching chunks outscore non-matching", func(t *testing.T) {
		scores := idx.Scores("paper jam")
		require.Len(t, scores, 4)
		assert.Greater(t, scores[0], 0.0)
		assert.Greater(t, scores[2], 0.0)
		assert.Zero(t, scores[1])
		assert.Zero(t, scores[3])
	})

	t.Run("shorter matching doc scores higher", func(t *testing.T) {
		scores := idx.Scores("paper jam")
		// Both contain the full phrase; length normalisation favours the shorter.
		assert.Greater(t, scores[0], scores[2])
	})

	t.Run("unknown terms score zero everywhere", func(t *testing.T) {
		for _, s := range idx.Scores("zebra") {
			assert.Zero(t, s)
		}
	})

	t.Run("empty index", func(t *testing.T) {
		empty := Build(nil)
		assert.Empty(t, empty.Scores("anything"))
		assert.Zero(t, empty.Size())
	})
}

func TestTopN(t *testing.T) {
	idx := Build([]string{
		"paper jam in tray two",
		"toner cartridge",
		"paper jam paper jam paper jam",
	})

	t.Run("orders by score with ordinal tie-break", func(t *testing.T) {
		hits := idx.TopN("paper jam", 10)
		require.Len(t, hits, 2)
		for i := 1; i < len(hits); i++ {
			if hits[i-1].Score == hits[i].Score {
				assert.Less(t, hits[i-1].Ordinal, hits[i].Ordinal)
			} else {
				assert.Greater(t, hits[i-1].Score, hits[i].Score)
			}
		}
	})

	t.Run("truncates to n", func(t *testing.T) {
		hits := idx.TopN("paper", 1)
		assert.Len(t, hits, 1)
	})

	t.Run("zero n", func(t *testing.T) {
		assert.Nil(t, idx.TopN("paper", 0))
	})
}
