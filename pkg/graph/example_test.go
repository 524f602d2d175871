package graph_test

import (
	"fmt"

	"github.com/matzehuels/splitgraph/pkg/graph"
)

func ExampleFormatSize() {
	fmt.Println(graph.FormatSize(500))
	fmt.Println(graph.FormatSize(2000))
	fmt.Println(graph.FormatSize(1_500_000))
	// Output:
	// 500 B
	// 2.0 kB
	// 1.5 MB
}

func ExampleNewNodeData() {
	data := graph.NewNodeData("vendor", 2000, false, nil)
	fmt.Println(data.Label)
	// Output:
	// vendor (2.0 kB)
}

func ExampleStyles_EdgeStroke() {
	s := graph.DefaultStyles()
	for _, kind := range []graph.EdgeKind{graph.EdgeKindEager, graph.EdgeKindPrefetch, graph.EdgeKindPreload} {
		color, style := s.EdgeStroke(kind)
		fmt.Println(color, style)
	}
	// Output:
	// #10161A solid
	// #48AFF0 dashed
	// #FFB366 dashed
}
