// Package confidence turns per-field matches into a duplicate decision.
package confidence

import (
	"sort"

	"github.com/agenthands/linkage/internal/core/match"
	"github.com/agenthands/linkage/internal/core/model"
)

// Weights are tuned heuristics, not invariants, so they are configurable.
type Weights struct {
	Average            float64 `toml:"average_weight"`
	Coverage           float64 `toml:"coverage_weight"`
	CoverageFields     int     `toml:"coverage_fields"`
	AutoMergeThreshold float64 `toml:"auto_merge_threshold"`
}

func DefaultWeights() Weights {
	return Weights{
		Average:            0.6,
		Coverage:           0.4,
		CoverageFields:     4,
		AutoMergeThreshold: 0.8,
	}
}

type Aggregator struct {
	w Weights
}

func NewAggregator(w Weights) *Aggregator {
	if w.CoverageFields <= 0 {
		w.CoverageFields = DefaultWeights().CoverageFields
	}
	return &Aggregator{w: w}
}

func (a *Aggregator) Weights() Weights { return a.w }

// Score is the confidence for one record's matches:
// clamp(avg·Average + (coverage/CoverageFields)·Coverage, 0, 1).
func (a *Aggregator) Score(avg float64, coverage int) float64 {
	c := avg*a.w.Average + float64(coverage)/float64(a.w.CoverageFields)*a.w.Coverage
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// Assess groups matches by record and reports the record with the highest
// confidence. Every input match is kept in the result so weak single-field
// evidence still reaches a reviewer.
func (a *Aggregator) Assess(matches []model.MatchResult) model.Assessment {
	out := model.Assessment{
		Matches: append([]model.MatchResult{}, matches...),
		Action:  model.ActionCreate,
	}
	match.Sort(out.Matches)
	if len(matches) == 0 {
		return out
	}

	type acc struct {
		sum    float64
		n      int
		fields map[string]struct{}
	}
	byRecord := make(map[string]*acc)
	for _, m := range matches {
		r, ok := byRecord[m.RecordID]
		if !ok {
			r = &acc{fields: make(map[string]struct{})}
			byRecord[m.RecordID] = r
		}
		r.sum += m.Score
		r.n++
		r.fields[m.Field] = struct{}{}
	}

	out.Records = make([]model.RecordConfidence, 0, len(byRecord))
	for id, r := range byRecord {
		avg := r.sum / float64(r.n)
		out.Records = append(out.Records, model.RecordConfidence{
			RecordID:      id,
			Confidence:    a.Score(avg, len(r.fields)),
			AverageScore:  avg,
			FieldCoverage: len(r.fields),
		})
	}
	sort.Slice(out.Records, func(i, j int) bool {
		if out.Records[i].Confidence != out.Records[j].Confidence {
			return out.Records[i].Confidence > out.Records[j].Confidence
		}
		return out.Records[i].RecordID < out.Records[j].RecordID
	})

	best := out.Records[0]
	out.RecordID = best.RecordID
	out.Confidence = best.Confidence
	out.IsDuplicate = a.IsDuplicate(best.Confidence)
	if out.IsDuplicate {
		out.Action = model.ActionMerge
	} else {
		out.Action = model.ActionReview
	}
	return out
}

// epsilon absorbs rounding in the weighted sum so that a score landing on the
// threshold counts as reaching it.
const epsilon = 1e-9

// IsDuplicate reports whether confidence reaches the auto-merge threshold.
func (a *Aggregator) IsDuplicate(confidence float64) bool {
	return confidence >= a.w.AutoMergeThreshold-epsilon
}
