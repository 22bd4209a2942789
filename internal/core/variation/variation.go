// Package variation generates alternate spellings of a normalized name so that
// bigram scoring can still line up abbreviations, dropped articles and simple
// typos.
package variation

import (
	"sort"
	"strings"
)

// Generate returns the distinct variations of name, including name itself,
// sorted. An empty name yields no variations.
func Generate(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	set := map[string]struct{}{name: {}}
	add := func(v string) {
		if v != "" {
			set[v] = struct{}{}
		}
	}

	words := strings.Fields(name)
	if len(words) == 1 {
		r := []rune(name)
		if len(r) > 3 {
			// rotations catch a leading or trailing character typed out of place
			add(string(r[1:]) + string(r[0]))
			add(string(r[len(r)-1]) + string(r[:len(r)-1]))
		}
	} else {
		var acronym strings.Builder
		for _, w := range words {
			acronym.WriteRune([]rune(w)[0])
		}
		if a := acronym.String(); len([]rune(a)) > 1 {
			add(a)
		}
		add(words[0])
		if len([]rune(words[0])) <= 3 {
			add(strings.Join(words[1:], " "))
		}
	}

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
