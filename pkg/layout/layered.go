package layout

import (
	"context"

	"github.com/matzehuels/splitgraph/pkg/dag"
	"github.com/matzehuels/splitgraph/pkg/dag/transform"
)

// Layered is a pure Go layered (Sugiyama style) engine: cycles are broken,
// nodes are ranked by longest path, long edges are subdivided, rows are
// reordered by barycenter to reduce crossings, and every rank is centered
// on the widest one. Coordinates are top-left anchored. Identical input
// always yields identical output.
type Layered struct{}

// Name returns [EngineLayered].
func (Layered) Name() string { return EngineLayered }

// Layout lays out a clone of g.
func (Layered) Layout(ctx context.Context, g *dag.DAG, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	opts = opts.WithDefaults()

	w := g.Clone()
	transform.BreakCycles(w)
	transform.AssignLayers(w)
	transform.Subdivide(w)
	transform.OrderRows(w, 0)

	res := Result{
		Anchor:    AnchorTopLeft,
		Positions: make(map[string]Point, g.NodeCount()),
		Sizes:     make(map[string]Size, g.NodeCount()),
		Edges:     g.Edges(),
	}

	horizontal := opts.Direction == DirectionLR
	// along is the extent of a node within its rank, across the extent
	// between ranks.
	along := func(n *dag.Node) float64 {
		if horizontal {
			return n.Height
		}
		return n.Width
	}
	across := func(n *dag.Node) float64 {
		if horizontal {
			return n.Width
		}
		return n.Height
	}

	rows := w.RowIDs()
	rowLen := make(map[int]float64, len(rows))
	widest := 0.0
	for _, r := range rows {
		total := 0.0
		for i, n := range w.NodesInRow(r) {
			if i > 0 {
				total += opts.NodeSep
			}
			total += along(n)
		}
		rowLen[r] = total
		widest = max(widest, total)
	}

	offset := 0.0
	for _, r := range rows {
		depth := 0.0
		cursor := (widest - rowLen[r]) / 2
		for _, n := range w.NodesInRow(r) {
			if !n.IsVirtual() {
				p := Point{X: cursor, Y: offset}
				if horizontal {
					p = Point{X: offset, Y: cursor}
				}
				res.Positions[n.ID] = p
				res.Sizes[n.ID] = Size{Width: n.Width, Height: n.Height}
			}
			cursor += along(n) + opts.NodeSep
			depth = max(depth, across(n))
		}
		offset += depth + opts.RankSep
	}
	return res, nil
}
