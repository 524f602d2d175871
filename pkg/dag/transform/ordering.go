package transform

import (
	"slices"

	"github.com/matzehuels/splitgraph/pkg/dag"
)

// DefaultSweeps is the number of down/up barycenter sweeps used by
// [OrderRows] when sweeps <= 0.
const DefaultSweeps = 8

// OrderRows reduces edge crossings by reordering nodes within rows. It runs
// alternating downward and upward barycenter sweeps, keeps the best ordering
// seen, then applies adjacent transpositions until no swap helps. Ties keep
// the current order, so the result is deterministic. g must be layered with
// every edge spanning one row (see [AssignLayers] and [Subdivide]). Returns
// the number of crossings of the final ordering.
func OrderRows(g *dag.DAG, sweeps int) int {
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	rows := g.RowIDs()
	if len(rows) < 2 {
		return 0
	}

	best := dag.CurrentOrders(g)
	bestCrossings := dag.CountCrossings(g, best)

	for i := 0; i < sweeps && bestCrossings > 0; i++ {
		for _, r := range rows[1:] {
			sortByBarycenter(g, r, r-1, true)
		}
		for j := len(rows) - 2; j >= 0; j-- {
			sortByBarycenter(g, rows[j], rows[j]+1, false)
		}
		orders := dag.CurrentOrders(g)
		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best, bestCrossings = orders, c
		}
	}

	for r, ids := range best {
		g.SetRowOrder(r, ids)
	}
	transpose(g, rows)
	return dag.CountCrossings(g, dag.CurrentOrders(g))
}

func sortByBarycenter(g *dag.DAG, row, adjRow int, useParents bool) {
	nodes := g.NodesInRow(row)
	adjPos := dag.PosMap(dag.NodeIDs(g.NodesInRow(adjRow)))

	type keyed struct {
		id  string
		key float64
	}
	keys := make([]keyed, len(nodes))
	for i, n := range nodes {
		nbrs := g.Children(n.ID)
		if useParents {
			nbrs = g.Parents(n.ID)
		}
		sum, count := 0, 0
		for _, nb := range nbrs {
			if p, ok := adjPos[nb]; ok {
				sum += p
				count++
			}
		}
		// Nodes without neighbours in the adjacent row stay where they are.
		key := float64(i)
		if count > 0 {
			key = float64(sum) / float64(count)
		}
		keys[i] = keyed{n.ID, key}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = k.id
	}
	g.SetRowOrder(row, ids)
}

func transpose(g *dag.DAG, rows []int) {
	for improved := true; improved; {
		improved = false
		for _, r := range rows {
			ids := dag.NodeIDs(g.NodesInRow(r))
			above := dag.PosMap(dag.NodeIDs(g.NodesInRow(r - 1)))
			below := dag.PosMap(dag.NodeIDs(g.NodesInRow(r + 1)))
			changed := false
			for i := 0; i+1 < len(ids); i++ {
				l, rt := ids[i], ids[i+1]
				before := dag.CountPairCrossings(g, l, rt, above, true) + dag.CountPairCrossings(g, l, rt, below, false)
				after := dag.CountPairCrossings(g, rt, l, above, true) + dag.CountPairCrossings(g, rt, l, below, false)
				if after < before {
					ids[i], ids[i+1] = rt, l
					changed = true
				}
			}
			if changed {
				g.SetRowOrder(r, ids)
				improved = true
			}
		}
	}
}
