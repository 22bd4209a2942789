// Package normalize canonicalizes field values before they are compared.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LegalSuffixes are the entity-type tokens stripped from company names.
var LegalSuffixes = []string{
	"inc", "incorporated", "llc", "llp", "lp", "ltd", "limited",
	"corp", "corporation", "co", "company",
	"gmbh", "ag", "kg", "sa", "sas", "sarl", "srl", "spa", "bv", "nv",
	"plc", "pty", "pvt", "pte", "oy", "ab", "as", "kk",
}

var suffixPattern = regexp.MustCompile(`\b(?:` + strings.Join(LegalSuffixes, "|") + `)\b\.?`)

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// CompanyName lowercases s, folds diacritics, strips legal-entity suffixes and
// punctuation and collapses whitespace. CompanyName(CompanyName(s)) equals
// CompanyName(s).
func CompanyName(s string) string {
	s = fold(strings.ToLower(s))
	for {
		next := companyStep(s)
		if next == s {
			return s
		}
		s = next
	}
}

func companyStep(s string) string {
	cleaned := collapse(stripPunct(s))
	stripped := collapse(stripPunct(suffixPattern.ReplaceAllString(s, " ")))
	if stripped == "" {
		// nothing but suffix tokens, e.g. "Inc."
		return cleaned
	}
	return stripped
}

// Email returns the lowercase domain of an address, or the lowercased input
// when it has no '@'.
func Email(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.LastIndexByte(s, '@'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// Phone keeps only ASCII digits, in order.
func Phone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Text is the canonical form for generic fields: lowercase, diacritics folded,
// whitespace collapsed.
func Text(s string) string {
	return collapse(fold(strings.ToLower(s)))
}

func fold(s string) string {
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		return s
	}
	return out
}

func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
