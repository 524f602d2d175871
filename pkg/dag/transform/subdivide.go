package transform

import (
	"fmt"

	"github.com/matzehuels/splitgraph/pkg/dag"
)

// Subdivide replaces every edge spanning more than one row with a chain of
// single-row edges through zero-size [dag.NodeKindVirtual] nodes, so crossing
// reduction sees every row an edge passes through:
//
//	Before: main (row 0) → lazy (row 3)
//	After:  main → ~0.1 → ~0.2 → lazy
//
// Virtual nodes record the subdivided edge's ID in EdgeID. Only the final
// edge of a chain keeps the original edge ID. Returns the number of virtual
// nodes inserted.
func Subdivide(g *dag.DAG) int {
	gen := newIDGen(g.Nodes())
	inserted := 0

	for _, e := range g.Edges() {
		src, okS := g.Node(e.From)
		dst, okD := g.Node(e.To)
		if !okS || !okD || dst.Row <= src.Row+1 {
			continue
		}

		g.RemoveEdge(e.From, e.To)
		prev := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := gen.next(e, row)
			mustAdd(g.AddNode(dag.Node{ID: id, Row: row, Kind: dag.NodeKindVirtual, EdgeID: e.ID}))
			mustAdd(g.AddEdge(dag.Edge{From: prev, To: id}))
			prev = id
			inserted++
		}
		mustAdd(g.AddEdge(dag.Edge{ID: e.ID, From: prev, To: dst.ID}))
	}
	return inserted
}

func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(e dag.Edge, row int) string {
	base := e.ID
	if base == "" {
		base = e.From + ">" + e.To
	}
	prefix := fmt.Sprintf("~%s.%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
