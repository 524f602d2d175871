package report

import (
	"bytes"
	"context"
	_ "embed"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/graph"
)

// DataElementID is the id of the script element carrying the document.
const DataElementID = "data"

//go:embed viewer/index.html
var viewerShell []byte

// ViewerShell returns a copy of the embedded viewer page.
func ViewerShell() []byte { return bytes.Clone(viewerShell) }

// HTMLEmitter embeds the document into the viewer page as a JSON script
// element in the page head.
type HTMLEmitter struct {
	// Shell overrides the embedded viewer page.
	Shell []byte
}

// Mode returns [ModeHTML].
func (HTMLEmitter) Mode() Mode { return ModeHTML }

// Emit renders the viewer page with doc attached.
func (e HTMLEmitter) Emit(ctx context.Context, doc *graph.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := graph.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtifactWrite, err, "serialize document")
	}

	shell := e.Shell
	if shell == nil {
		shell = viewerShell
	}
	page, err := html.Parse(bytes.NewReader(shell))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtifactWrite, err, "parse viewer page")
	}
	head := find(page, func(n *html.Node) bool { return n.DataAtom == atom.Head })
	if head == nil {
		return nil, errors.New(errors.ErrCodeArtifactWrite, "viewer page has no head")
	}

	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr: []html.Attribute{
			{Key: "type", Val: "application/json"},
			{Key: "id", Val: DataElementID},
		},
	}
	// Marshal escapes <, > and & so the payload cannot close the element.
	script.AppendChild(&html.Node{Type: html.TextNode, Data: string(payload)})
	head.AppendChild(script)

	var buf bytes.Buffer
	if err := html.Render(&buf, page); err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtifactWrite, err, "render report")
	}
	return buf.Bytes(), nil
}

// ParseDocument extracts the document embedded in an interactive report.
func ParseDocument(data []byte) (*graph.Document, error) {
	page, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse report")
	}
	script := find(page, func(n *html.Node) bool {
		return n.DataAtom == atom.Script && attr(n, "id") == DataElementID
	})
	if script == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "report has no embedded %q element", DataElementID)
	}
	var text bytes.Buffer
	for c := script.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		}
	}
	doc, err := graph.Unmarshal(text.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode embedded document")
	}
	return doc, nil
}

// find returns the first node in document order matching fn.
func find(n *html.Node, fn func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && fn(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := find(c, fn); m != nil {
			return m
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
