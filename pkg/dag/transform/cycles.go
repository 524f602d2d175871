package transform

import "github.com/matzehuels/splitgraph/pkg/dag"

// BreakCycles makes g acyclic by reversing every back edge found during a
// depth-first search started from the sources, then from any node left
// unvisited. Reversed edges keep their ID so the relation still influences
// layering. Self loops cannot be reversed and are removed. It returns the
// number of edges reversed or removed.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var back [][2]string

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.Children(id) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				back = append(back, [2]string{id, child})
			}
		}
		color[id] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	ids := edgeIDs(g)
	for _, e := range back {
		from, to := e[0], e[1]
		id := ids[[2]string{from, to}]
		g.RemoveEdge(from, to)
		if from != to {
			_ = g.AddEdge(dag.Edge{ID: id, From: to, To: from})
		}
	}
	return len(back)
}

func edgeIDs(g *dag.DAG) map[[2]string]string {
	m := make(map[[2]string]string, g.EdgeCount())
	for _, e := range g.Edges() {
		k := [2]string{e.From, e.To}
		if _, ok := m[k]; !ok {
			m[k] = e.ID
		}
	}
	return m
}
