package transform

import "github.com/matzehuels/splitgraph/pkg/dag"

// AssignLayers assigns every node to a row using longest-path layering over
// a topological traversal (Kahn's algorithm): sources land in row 0 and each
// child is placed one row below its deepest parent.
//
// AssignLayers assumes g is acyclic. Nodes on a cycle never reach in-degree
// zero and stay in row 0, so run [BreakCycles] first. Existing rows are
// overwritten. O(V + E).
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		rows[n.ID] = 0
		d := g.InDegree(n.ID)
		inDegree[n.ID] = d
		if d == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
