package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func triangles() ([]string, []Edge) {
	ids := []string{"1", "2", "3", "4", "5", "6"}
	edges := []Edge{
		{A: "1", B: "2", Weight: 1}, {A: "2", B: "3", Weight: 1}, {A: "3", B: "1", Weight: 1},
		{A: "4", B: "5", Weight: 1}, {A: "5", B: "6", Weight: 1}, {A: "6", B: "4", Weight: 1},
	}
	return ids, edges
}

func TestLabelPropagation_DisconnectedGroups(t *testing.T) {
	ids, edges := triangles()

	groups := NewLabelPropagation().Detect(ids, edges)

	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}}, groups)
}

func TestLabelPropagation_BridgeRecord(t *testing.T) {
	// Two triangles joined by a single 3-4 edge. Each end of the bridge has
	// two strong neighbors on its own side, so the groups stay apart.
	ids, edges := triangles()
	edges = append(edges, Edge{A: "3", B: "4", Weight: 0.8})

	groups := NewLabelPropagation().Detect(ids, edges)

	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}}, groups)
}

func TestLabelPropagation_Clique(t *testing.T) {
	ids := []string{"1", "2", "3", "4", "5"}
	var edges []Edge
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			edges = append(edges, Edge{A: ids[i], B: ids[j], Weight: 1})
		}
	}

	groups := NewLabelPropagation().Detect(ids, edges)

	assert.Len(t, groups, 1)
	assert.Len(t, groups[0], 5)
}

func TestLabelPropagation_IgnoresUnknownAndSelfEdges(t *testing.T) {
	groups := NewLabelPropagation().Detect([]string{"a", "b", "c"}, []Edge{
		{A: "a", B: "a", Weight: 1},
		{A: "b", B: "zzz", Weight: 1},
		{A: "c", B: "b", Weight: 0.9},
	})

	assert.Equal(t, [][]string{{"b", "c"}}, groups)
}

func TestLabelPropagation_Empty(t *testing.T) {
	assert.Empty(t, NewLabelPropagation().Detect(nil, nil))
	assert.Empty(t, NewLabelPropagation().Detect([]string{"a", "b"}, nil))
}
