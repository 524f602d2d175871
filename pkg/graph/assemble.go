package graph

import (
	"slices"

	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/layout"
)

// AssembleInput is everything [Assemble] merges into a [Document].
type AssembleInput struct {
	BuildName string
	BuildHash string

	// Nodes holds the extracted data of every chunk group by ID.
	Nodes map[string]NodeData
	// EdgeKinds holds the kind of every extracted edge by edge ID, eager
	// edges included.
	EdgeKinds map[string]EdgeKind

	Layout layout.Result
}

// Assemble merges extracted node and edge data with layout coordinates.
//
// Every positioned node must have extracted data and every extracted node
// must be positioned; every layout edge must have a recorded kind. A mismatch
// means the extractor and the engine disagree on IDs and fails with
// ASSEMBLY_INVARIANT rather than producing a partial graph. Center-anchored
// coordinates are shifted to the node's top-left corner using the measured
// node size, which is also recorded on the node for the viewer.
func Assemble(in AssembleInput) (*Document, error) {
	doc := &Document{
		BuildName: BuildName(in.BuildName, in.BuildHash),
		Nodes:     make(map[string]Node, len(in.Layout.Positions)),
		Edges:     make([]Edge, 0, len(in.Layout.Edges)),
	}

	for _, id := range sortedKeys(in.Layout.Positions) {
		data, ok := in.Nodes[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeAssemblyInvariant, "layout node %q has no extracted data", id)
		}
		p := in.Layout.Positions[id]
		s := in.Layout.Sizes[id]
		if in.Layout.Anchor == layout.AnchorCenter {
			p.X -= s.Width / 2
			p.Y -= s.Height / 2
		}
		doc.Nodes[id] = Node{
			ID:       id,
			Position: Position{X: p.X, Y: p.Y},
			Width:    s.Width,
			Height:   s.Height,
			Data:     data,
		}
	}
	for _, id := range sortedKeys(in.Nodes) {
		if _, ok := doc.Nodes[id]; !ok {
			return nil, errors.New(errors.ErrCodeAssemblyInvariant, "extracted node %q was not positioned", id)
		}
	}

	for _, e := range in.Layout.Edges {
		kind, ok := in.EdgeKinds[e.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeAssemblyInvariant, "layout edge %q has no extracted data", e.ID)
		}
		doc.Edges = append(doc.Edges, Edge{
			ID:     e.ID,
			Source: e.From,
			Target: e.To,
			Data:   EdgeData{Kind: kind},
		})
	}
	return doc, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
