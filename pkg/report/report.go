package report

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/graph"
)

// Mode selects how a report presents the graph.
type Mode string

const (
	// ModeHTML embeds the document in the interactive viewer.
	ModeHTML Mode = "html"
	// ModeImage renders a static picture without embedded data.
	ModeImage Mode = "image"
)

// Format is an artifact file format.
type Format string

const (
	FormatHTML Format = "html"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
	FormatDOT  Format = "dot"
	FormatGV   Format = "gv"
)

// DefaultFormat is the interactive report.
const DefaultFormat = FormatHTML

// DefaultOutput is the report file name used when no output path is given.
const DefaultOutput = "split-chunks-report.html"

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatHTML, FormatSVG, FormatPNG, FormatJPG, FormatJPEG, FormatPDF, FormatDOT, FormatGV}
}

// ParseFormat validates a format name. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats(), f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", s)
	}
	return f, nil
}

// Mode returns the presentation mode of f.
func (f Format) Mode() Mode {
	if f == FormatHTML {
		return ModeHTML
	}
	return ModeImage
}

// OutputPath returns the file path a format is written to. HTML reports keep
// path as given; static images replace its extension with the format.
func (f Format) OutputPath(path string) string {
	if f == FormatHTML {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(f)
}

// Emitter serializes a graph document into artifact bytes.
type Emitter interface {
	Mode() Mode
	Emit(ctx context.Context, doc *graph.Document) ([]byte, error)
}

// New returns the emitter for format f.
func New(f Format, styles graph.Styles) (Emitter, error) {
	switch {
	case f == FormatHTML:
		return HTMLEmitter{}, nil
	case slices.Contains(Formats(), f):
		return ImageEmitter{Format: f, Styles: styles}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
}
