// Package match compares a candidate record field by field against a
// collection of existing records.
package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agenthands/linkage/internal/core/model"
	"github.com/agenthands/linkage/internal/core/normalize"
	"github.com/agenthands/linkage/internal/core/similarity"
	"github.com/agenthands/linkage/internal/core/variation"
)

// Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	threshold float64
	normalize bool
	fields    []field
}

type field struct {
	spec  model.FieldSpec
	score similarity.Func
}

// NewMatcher resolves the configured fields. A threshold outside [0,1] is
// clamped; an empty kind is inferred from the field name.
func NewMatcher(opts model.MatchOptions) (*Matcher, error) {
	threshold := opts.Threshold
	if math.IsNaN(threshold) {
		threshold = model.DefaultThreshold
	}
	m := &Matcher{
		threshold: clamp(threshold),
		normalize: opts.Normalize,
		fields:    make([]field, 0, len(opts.Fields)),
	}
	for _, spec := range opts.Fields {
		if spec.Name == "" {
			continue
		}
		if spec.Kind == "" {
			spec.Kind = model.InferKind(spec.Name)
		}
		fn, err := similarity.Lookup(spec.Algorithm)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", spec.Name, err)
		}
		m.fields = append(m.fields, field{spec: spec, score: fn})
	}
	return m, nil
}

// Match builds a Matcher for opts and runs it once.
func Match(candidate model.Record, records []model.ExistingRecord, opts model.MatchOptions) ([]model.MatchResult, error) {
	m, err := NewMatcher(opts)
	if err != nil {
		return nil, err
	}
	return m.Match(candidate, records), nil
}

func (m *Matcher) Threshold() float64 { return m.threshold }

// Fields returns the resolved field specs in configured order.
func (m *Matcher) Fields() []model.FieldSpec {
	out := make([]model.FieldSpec, len(m.fields))
	for i, f := range m.fields {
		out[i] = f.spec
	}
	return out
}

// Match returns every (record, field) pair scoring at or above the threshold,
// keeping the best score per pair, ordered by score descending then record id
// then field name.
func (m *Matcher) Match(candidate model.Record, records []model.ExistingRecord) []model.MatchResult {
	if len(records) == 0 || len(m.fields) == 0 {
		return []model.MatchResult{}
	}

	type key struct{ record, field string }
	best := make(map[key]model.MatchResult)

	for _, rec := range records {
		for _, f := range m.fields {
			cv, ok := candidate.Lookup(f.spec.Name)
			if !ok {
				continue
			}
			ev, ok := rec.Fields.Lookup(f.spec.Name)
			if !ok {
				continue
			}
			score, ok := m.compare(f, cv, ev)
			if !ok || score < m.threshold {
				continue
			}
			k := key{rec.ID, f.spec.Name}
			if prev, seen := best[k]; seen && prev.Score >= score {
				continue
			}
			best[k] = model.MatchResult{
				RecordID:       rec.ID,
				Score:          score,
				Field:          f.spec.Name,
				MatchedValue:   ev,
				CandidateValue: cv,
			}
		}
	}

	out := make([]model.MatchResult, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	Sort(out)
	return out
}

// Sort orders results by score descending, then record id, then field.
func Sort(results []model.MatchResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.RecordID != b.RecordID {
			return a.RecordID < b.RecordID
		}
		return a.Field < b.Field
	})
}

// compare scores two resolved values. ok is false when normalization leaves
// nothing to compare.
func (m *Matcher) compare(f field, a, b string) (float64, bool) {
	switch f.spec.Kind {
	case model.KindName:
		return m.compareNames(f.score, a, b)
	case model.KindEmail:
		return exactOr(f.score, normalize.Email(a), normalize.Email(b))
	case model.KindPhone:
		return exactOr(f.score, normalize.Phone(a), normalize.Phone(b))
	default:
		if m.normalize {
			a, b = normalize.Text(a), normalize.Text(b)
		}
		if a == "" || b == "" {
			return 0, false
		}
		return clamp(f.score(a, b)), true
	}
}

// compareNames takes the best score over the cross-product of both sides'
// variations, so "Acme Inc." and "ACME Corporation" meet at "acme".
func (m *Matcher) compareNames(score similarity.Func, a, b string) (float64, bool) {
	if m.normalize {
		a, b = normalize.CompanyName(a), normalize.CompanyName(b)
	} else {
		a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	}
	va, vb := variation.Generate(a), variation.Generate(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0, false
	}

	best := 0.0
	for _, x := range va {
		for _, y := range vb {
			if s := clamp(score(x, y)); s > best {
				best = s
				if best == 1 {
					return 1, true
				}
			}
		}
	}
	return best, true
}

func exactOr(score similarity.Func, a, b string) (float64, bool) {
	if a == "" || b == "" {
		return 0, false
	}
	if a == b {
		return 1, true
	}
	return clamp(score(a, b)), true
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
