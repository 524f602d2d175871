package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/splitgraph/pkg/cache"
	"github.com/matzehuels/splitgraph/pkg/dag"
)

// GraphHash returns a content hash of a layout graph: node IDs with their
// sizes and edges with their IDs, both in insertion order. Engines are
// deterministic, so graphs that hash equal produce equal layouts.
func GraphHash(g *dag.DAG) string {
	type node struct {
		ID            string
		Width, Height float64
	}
	nodes := make([]node, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		nodes = append(nodes, node{ID: n.ID, Width: n.Width, Height: n.Height})
	}
	data, _ := json.Marshal(struct {
		Nodes []node
		Edges []dag.Edge
	}{nodes, g.Edges()})
	return cache.Hash(data)
}
