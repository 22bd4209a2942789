package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigramDice(t *testing.T) {
	assert.Equal(t, 1.0, BigramDice("acme", "acme"))
	assert.Equal(t, 0.0, BigramDice("acme", ""))
	assert.Equal(t, 0.0, BigramDice("", "acme"))
	assert.Equal(t, 0.0, BigramDice("", ""))
	assert.InDelta(t, 0.25, BigramDice("night", "nacht"), 1e-9)

	// single runes have no bigrams
	assert.Equal(t, 1.0, BigramDice("a", "a"))
	assert.Equal(t, 0.0, BigramDice("a", "b"))

	// bigrams are a multiset: one shared "aa" out of 3+1
	assert.InDelta(t, 0.5, BigramDice("aaaa", "aa"), 1e-9)
}

func TestBigramDiceProperties(t *testing.T) {
	pairs := [][2]string{
		{"acme", "acne"},
		{"globex corporation", "globex"},
		{"müller", "muller"},
		{"15551234567", "5551234567"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		ab, ba := BigramDice(p[0], p[1]), BigramDice(p[1], p[0])
		assert.Equal(t, ab, ba, "symmetry for %q", p)
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.LessOrEqual(t, ab, 1.0)
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 1.0, Levenshtein("acme", "acme"))
	assert.Equal(t, 0.0, Levenshtein("acme", ""))
	assert.InDelta(t, 4.0/7.0, Levenshtein("kitten", "sitting"), 1e-9)
	assert.Equal(t, Levenshtein("flaw", "lawn"), Levenshtein("lawn", "flaw"))
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"", "dice", " DICE ", "levenshtein"} {
		fn, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, 1.0, fn("same", "same"))
	}

	_, err := Lookup("soundex")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}
