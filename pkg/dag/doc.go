// Package dag provides the abstract layout graph handed to layout engines.
//
// # Overview
//
// The graph extractor copies every surviving chunk group into a [Node] with a
// uniform placeholder size, and every surviving parent to child relation into
// an [Edge] carrying a sequential ID. Nothing in the graph points back into
// the build snapshot, so layout engines can freely clone and rewrite it.
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "main", Width: 170, Height: 55})
//	g.AddNode(dag.Node{ID: "vendor", Width: 170, Height: 55})
//	g.AddEdge(dag.Edge{ID: "0", From: "main", To: "vendor"})
//
// # Rows
//
// Layered layouts organize nodes into rows. [DAG.SetRows] assigns them and
// [DAG.NodesInRow] returns each row in its current left-to-right order, which
// [DAG.SetRowOrder] rearranges during crossing reduction.
// [CountCrossings] and [CountLayerCrossings] evaluate an ordering.
//
// # Determinism
//
// Node iteration follows insertion order. Two graphs built from the same
// extraction produce the same layout with a deterministic engine.
//
// # Related Packages
//
// The [transform] subpackage breaks cycles, assigns layers and subdivides
// long edges.
//
// [transform]: github.com/matzehuels/splitgraph/pkg/dag/transform
package dag
