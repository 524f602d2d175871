// Package layout computes 2-D coordinates for the chunk group graph.
//
// An [Engine] takes a [dag.DAG] whose nodes carry placeholder sizes and
// returns a [Result] with one position per node. Two engines exist:
//
//   - [Layered] ("layered"): pure Go layered layout, top-left anchored and
//     deterministic. The default.
//   - [Graphviz] ("graphviz"): Graphviz dot via go-graphviz, center anchored.
//
// Results state their [Anchor] so the assembler can normalize positions to
// the top-left corner. Callers must index results by node ID.
//
//	engine, err := layout.New("layered")
//	res, err := engine.Layout(ctx, g, layout.Options{})
//
// [dag.DAG]: github.com/matzehuels/splitgraph/pkg/dag.DAG
package layout
