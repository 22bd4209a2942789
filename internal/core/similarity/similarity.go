// Package similarity scores how alike two strings are on a [0,1] scale.
// Callers normalize case before scoring.
package similarity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Func scores a pair of strings. Implementations are symmetric and bounded to
// [0,1].
type Func func(a, b string) float64

const (
	AlgorithmDice        = "dice"
	AlgorithmLevenshtein = "levenshtein"
)

var ErrUnknownAlgorithm = errors.New("unknown similarity algorithm")

// Lookup resolves an algorithm name. The empty name selects bigram Dice.
func Lookup(name string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AlgorithmDice:
		return BigramDice, nil
	case AlgorithmLevenshtein:
		return Levenshtein, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// BigramDice is the Dice coefficient over the multisets of adjacent-rune
// bigrams: 2·|A∩B| / (|A|+|B|). Equal non-empty strings score 1, an empty
// side scores 0.
func BigramDice(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ba, bb := bigrams(a), bigrams(b)
	total := len(ba) + len(bb)
	if total == 0 {
		return 0
	}

	counts := make(map[[2]rune]int, len(ba))
	for _, g := range ba {
		counts[g]++
	}
	shared := 0
	for _, g := range bb {
		if counts[g] > 0 {
			counts[g]--
			shared++
		}
	}
	return float64(2*shared) / float64(total)
}

func bigrams(s string) [][2]rune {
	r := []rune(s)
	if len(r) < 2 {
		return nil
	}
	out := make([][2]rune, len(r)-1)
	for i := 0; i < len(r)-1; i++ {
		out[i] = [2]rune{r[i], r[i+1]}
	}
	return out
}

// Levenshtein is 1 - distance/max(len) over runes.
func Levenshtein(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	d := levenshtein.ComputeDistance(a, b)
	return clamp(1 - float64(d)/float64(maxLen))
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
