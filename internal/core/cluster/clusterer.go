// Package cluster groups a record collection into duplicate clusters.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/linkage/internal/core/confidence"
	"github.com/agenthands/linkage/internal/core/match"
	"github.com/agenthands/linkage/internal/core/model"
)

const (
	StrategyLabelPropagation = "label_propagation"
	StrategyComponents       = "components"
)

// NewDetector resolves a strategy name; empty selects label propagation.
func NewDetector(strategy string) (Detector, error) {
	switch strings.ToLower(strategy) {
	case "", StrategyLabelPropagation:
		return NewLabelPropagation(), nil
	case StrategyComponents:
		return NewComponents(), nil
	}
	return nil, fmt.Errorf("unknown cluster strategy %q", strategy)
}

type Clusterer struct {
	matcher    *match.Matcher
	aggregator *confidence.Aggregator
	detector   Detector
}

func NewClusterer(m *match.Matcher, a *confidence.Aggregator, d Detector) *Clusterer {
	if d == nil {
		d = NewLabelPropagation()
	}
	return &Clusterer{matcher: m, aggregator: a, detector: d}
}

// Cluster assesses every unordered pair of records, links the pairs judged to
// be duplicates and groups the linked records.
func (c *Clusterer) Cluster(records []model.ExistingRecord) []model.Cluster {
	byID := make(map[string]model.ExistingRecord, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, dup := byID[r.ID]; dup {
			continue
		}
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}

	var edges []Edge
	for i := 0; i < len(ids); i++ {
		a := byID[ids[i]]
		for j := i + 1; j < len(ids); j++ {
			b := byID[ids[j]]
			assessment := c.aggregator.Assess(c.matcher.Match(a.Fields, []model.ExistingRecord{b}))
			if assessment.IsDuplicate {
				edges = append(edges, Edge{A: a.ID, B: b.ID, Weight: assessment.Confidence})
			}
		}
	}

	groups := c.detector.Detect(ids, edges)
	out := make([]model.Cluster, 0, len(groups))
	for _, g := range groups {
		out = append(out, model.Cluster{
			RecordIDs:       g,
			SuggestedMaster: master(g, byID),
			Similarity:      weakest(g, edges),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SuggestedMaster < out[j].SuggestedMaster })
	return out
}

// master picks the member with the most filled-in fields; ties go to the
// smaller id.
func master(ids []string, byID map[string]model.ExistingRecord) string {
	best, bestFilled := "", -1
	for _, id := range ids {
		n := filled(byID[id].Fields)
		if n > bestFilled || (n == bestFilled && id < best) {
			best, bestFilled = id, n
		}
	}
	return best
}

func filled(r model.Record) int {
	n := 0
	for _, v := range r {
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				n++
			}
		case nil:
		case []string:
			if len(t) > 0 {
				n++
			}
		case []any:
			if len(t) > 0 {
				n++
			}
		default:
			n++
		}
	}
	return n
}

func weakest(ids []string, edges []Edge) float64 {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	low, found := 0.0, false
	for _, e := range edges {
		if in[e.A] && in[e.B] && (!found || e.Weight < low) {
			low, found = e.Weight, true
		}
	}
	return low
}
