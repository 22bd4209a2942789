package cluster

// Components groups records by plain connectivity: any chain of duplicate
// edges lands in one group.
type Components struct{}

func NewComponents() *Components {
	return &Components{}
}

func (d *Components) Detect(ids []string, edges []Edge) [][]string {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	adj := make(map[string][]string)
	for _, e := range edges {
		if !known[e.A] || !known[e.B] || e.A == e.B {
			continue
		}
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}

	visited := make(map[string]bool, len(ids))
	groups := make(map[string][]string)
	for _, id := range ids {
		if visited[id] {
			continue
		}
		stack := []string{id}
		visited[id] = true
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			groups[id] = append(groups[id], u)
			for _, v := range adj[u] {
				if !visited[v] {
					visited[v] = true
					stack = append(stack, v)
				}
			}
		}
	}
	return collect(groups)
}
