package report

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/graph"
	"github.com/matzehuels/splitgraph/pkg/layout"
)

// ImageEmitter renders a static picture of the graph with Graphviz. Node and
// edge colours come from Styles.
type ImageEmitter struct {
	Format Format
	Styles graph.Styles
}

// Mode returns [ModeImage].
func (ImageEmitter) Mode() Mode { return ModeImage }

// Emit renders doc in the emitter's format. PDF output is converted from SVG
// and requires rsvg-convert on the PATH.
func (e ImageEmitter) Emit(ctx context.Context, doc *graph.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dot := ToDOT(doc, e.Styles)

	var (
		data []byte
		err  error
	)
	switch e.Format {
	case FormatSVG:
		data, err = renderDOT(ctx, dot, graphviz.SVG)
	case FormatPNG:
		data, err = renderDOT(ctx, dot, graphviz.PNG)
	case FormatJPG, FormatJPEG:
		data, err = renderDOT(ctx, dot, graphviz.JPG)
	case FormatDOT, FormatGV:
		data, err = renderDOT(ctx, dot, graphviz.Format("dot"))
	case FormatPDF:
		data, err = renderDOT(ctx, dot, graphviz.SVG)
		if err == nil {
			data, err = ToPDF(ctx, data)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported image format %q", e.Format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtifactWrite, err, "render %s", e.Format)
	}
	return data, nil
}

// ToDOT writes doc as a styled DOT digraph. Nodes are listed largest first
// and edges in document order, so equal documents yield equal text.
func ToDOT(doc *graph.Document, s graph.Styles) string {
	q := layout.Quote
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", q(doc.BuildName))
	fmt.Fprintf(&buf, "  fontname=%s;\n  fontcolor=%s;\n", q(s.FontName), q(s.FontColor))
	fmt.Fprintf(&buf, "  margin=0;\n  pad=%s;\n  bgcolor=%s;\n", fmtFloat(s.Pad), q(s.Background))
	fmt.Fprintf(&buf, "  node [shape=box, style=filled, fontname=%s, fontcolor=%s, margin=%s, color=%s, fillcolor=%s];\n",
		q(s.FontName), q(s.FontColor), q(s.NodeMargin), q(s.NodeBorder), q(s.NodeFill))
	fmt.Fprintf(&buf, "  edge [fontname=%s, fontcolor=%s, color=%s, arrowsize=%s];\n\n",
		q(s.FontName), q(s.FontColor), q(s.EdgeColor), fmtFloat(s.ArrowSize))

	for _, id := range doc.NodeIDs() {
		data := doc.Nodes[id].Data
		fmt.Fprintf(&buf, "  %s [label=%s", q(id), q(data.Label))
		if data.EntryPoint {
			fmt.Fprintf(&buf, ", fillcolor=%s", q(s.Fill(true)))
		}
		buf.WriteString("];\n")
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		fmt.Fprintf(&buf, "  %s -> %s", q(e.Source), q(e.Target))
		if e.Data.Kind.IsHinted() {
			color, style := s.EdgeStroke(e.Data.Kind)
			fmt.Fprintf(&buf, " [color=%s, style=%s]", q(color), style)
		}
		buf.WriteString(";\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("pdf export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}

	cmd := exec.CommandContext(ctx, "rsvg-convert", "-f", "pdf")
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
