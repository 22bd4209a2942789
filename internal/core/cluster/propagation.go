package cluster

import (
	"sort"
)

// Edge links two records judged to be duplicates. Weight is the assessment
// confidence.
type Edge struct {
	A, B   string
	Weight float64
}

// Detector partitions record ids into groups using duplicate edges.
// Singletons are not returned.
type Detector interface {
	Detect(ids []string, edges []Edge) [][]string
}

// LabelPropagation groups records with weighted label propagation. A weak
// bridge between two tight groups does not pull them together, which plain
// connected components would do.
type LabelPropagation struct {
	MaxIterations int
}

func NewLabelPropagation() *LabelPropagation {
	return &LabelPropagation{
		MaxIterations: 20,
	}
}

func (d *LabelPropagation) Detect(ids []string, edges []Edge) [][]string {
	if len(ids) == 0 {
		return nil
	}

	adj := make(map[string]map[string]float64, len(ids)) // node -> neighbor -> weight
	for _, id := range ids {
		adj[id] = make(map[string]float64)
	}
	for _, e := range edges {
		if e.A == e.B {
			continue
		}
		if _, ok := adj[e.A]; !ok {
			continue
		}
		if _, ok := adj[e.B]; !ok {
			continue
		}
		adj[e.A][e.B] += e.Weight
		adj[e.B][e.A] += e.Weight
	}

	// Each node starts with its own label. Nodes are visited in sorted order
	// so the result does not depend on input order.
	order := append([]string(nil), ids...)
	sort.Strings(order)
	labels := make(map[string]string, len(order))
	for _, id := range order {
		labels[id] = id
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changed := 0
		for _, u := range order {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			weights := make(map[string]float64)
			maxWeight := 0.0
			for v, w := range neighbors {
				l := labels[v]
				weights[l] += w
				if weights[l] > maxWeight {
					maxWeight = weights[l]
				}
			}

			// ties go to the lexicographically largest label
			var candidates []string
			for l, w := range weights {
				if w == maxWeight {
					candidates = append(candidates, l)
				}
			}
			sort.Strings(candidates)
			best := candidates[len(candidates)-1]

			if labels[u] != best {
				labels[u] = best
				changed++
			}
		}
		if changed == 0 {
			break
		}
	}

	groups := make(map[string][]string)
	for _, id := range order {
		groups[labels[id]] = append(groups[labels[id]], id)
	}
	return collect(groups)
}

// collect drops singletons and returns groups sorted by their first id.
func collect(groups map[string][]string) [][]string {
	var out [][]string
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		sort.Strings(g)
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
