package layout

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/splitgraph/pkg/dag"
	"github.com/matzehuels/splitgraph/pkg/errors"
)

// pointsPerInch converts Graphviz inches to canvas points.
const pointsPerInch = 72.0

// Graphviz lays out graphs with the Graphviz dot algorithm and reads back
// the "plain" output. Coordinates are center anchored with the y axis
// flipped so the origin is the top-left corner of the drawing.
type Graphviz struct{}

// Name returns [EngineGraphviz].
func (Graphviz) Name() string { return EngineGraphviz }

// Layout runs dot over g.
func (Graphviz) Layout(ctx context.Context, g *dag.DAG, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	opts = opts.WithDefaults()

	res := Result{
		Anchor:    AnchorCenter,
		Positions: make(map[string]Point, g.NodeCount()),
		Sizes:     make(map[string]Size, g.NodeCount()),
		Edges:     g.Edges(),
	}
	if g.NodeCount() == 0 {
		return res, nil
	}

	plain, err := renderPlain(ctx, ToDOT(g, opts))
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeLayout, err, "graphviz layout")
	}
	nodes, err := parsePlain(plain)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeLayout, err, "read graphviz output")
	}

	for _, n := range g.Nodes() {
		pn, ok := nodes[n.ID]
		if !ok {
			return Result{}, errors.New(errors.ErrCodeLayout, "graphviz output is missing node %q", n.ID)
		}
		res.Positions[n.ID] = Point{X: pn.X, Y: pn.Y}
		res.Sizes[n.ID] = Size{Width: pn.Width, Height: pn.Height}
	}
	return res, nil
}

// ToDOT writes g as a DOT digraph with fixed-size box nodes. Sizes are
// converted from points to inches.
func ToDOT(g *dag.DAG, opts Options) string {
	opts = opts.WithDefaults()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.Direction)
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(opts.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(opts.RankSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n", Quote(n.ID), inches(n.Width), inches(n.Height))
	}
	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s;\n", Quote(e.From), Quote(e.To))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func inches(points float64) string {
	return strconv.FormatFloat(points/pointsPerInch, 'f', 4, 64)
}

// Quote produces a DOT double-quoted string. Only backslashes and double
// quotes are escaped; every other byte is kept as is.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func renderPlain(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.Format("plain"), &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

type plainNode struct {
	X, Y, Width, Height float64
}

// parsePlain reads the node lines of Graphviz "plain" output:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 ... style color
//	stop
//
// Values are in inches with y pointing up. Returned values are in points
// with y pointing down.
func parsePlain(data []byte) (map[string]plainNode, error) {
	nodes := make(map[string]plainNode)
	var height float64
	sawGraph := false

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		fields, err := splitPlain(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "graph":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: short graph line", line)
			}
			h, err := strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: graph height: %w", line, err)
			}
			height, sawGraph = h, true
		case "node":
			if !sawGraph {
				return nil, fmt.Errorf("line %d: node before graph line", line)
			}
			if len(fields) < 6 {
				return nil, fmt.Errorf("line %d: short node line", line)
			}
			var v [4]float64
			for i := range v {
				f, err := strconv.ParseFloat(fields[2+i], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: node %s: %w", line, fields[1], err)
				}
				v[i] = f
			}
			nodes[fields[1]] = plainNode{
				X:      v[0] * pointsPerInch,
				Y:      (height - v[1]) * pointsPerInch,
				Width:  v[2] * pointsPerInch,
				Height: v[3] * pointsPerInch,
			}
		case "stop":
			return nodes, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// splitPlain splits a plain output line on spaces, honouring double-quoted
// fields with backslash escapes.
func splitPlain(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inQuote, escaped, quoted := false, false, false

	flush := func() {
		if cur.Len() > 0 || quoted {
			fields = append(fields, cur.String())
		}
		cur.Reset()
		quoted = false
	}

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			quoted = true
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()
	return fields, nil
}
