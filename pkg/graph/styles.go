package graph

// Palette colours from the Blueprint design system.
const (
	ColorWhite     = "#F5F8FA"
	ColorBlack     = "#10161A"
	ColorLightGray = "#EBF1F5"
	ColorBlue      = "#48AFF0"
	ColorGreen     = "#3DCC91"
	ColorOrange    = "#FFB366"
	ColorRed       = "#FF7373"
)

// Styles is the style table shared by the static renderer and the viewer.
// It is a plain value: callers get a copy from [DefaultStyles] and cannot
// change the defaults seen by anyone else.
type Styles struct {
	FontName   string
	FontColor  string
	Background string

	NodeBorder    string
	NodeFill      string
	EntryFill     string
	NodeMargin    string
	EdgeColor     string
	PrefetchColor string
	PreloadColor  string
	ArrowSize     float64

	// Pad is the canvas padding in inches.
	Pad float64
}

var defaultStyles = Styles{
	FontName:      "helvetica",
	FontColor:     ColorBlack,
	Background:    ColorLightGray,
	NodeBorder:    ColorBlack,
	NodeFill:      ColorWhite,
	EntryFill:     ColorGreen,
	NodeMargin:    "0.1,0.02",
	EdgeColor:     ColorBlack,
	PrefetchColor: ColorBlue,
	PreloadColor:  ColorOrange,
	ArrowSize:     0.7,
	Pad:           0.3,
}

// DefaultStyles returns a copy of the default style table.
func DefaultStyles() Styles { return defaultStyles }

// Fill returns the fill colour of a node.
func (s Styles) Fill(entryPoint bool) string {
	if entryPoint {
		return s.EntryFill
	}
	return s.NodeFill
}

// EdgeStroke returns the colour and line style of an edge of the given kind.
// Hinted edges are dashed; eager edges are solid.
func (s Styles) EdgeStroke(kind EdgeKind) (color, style string) {
	switch kind {
	case EdgeKindPrefetch:
		return s.PrefetchColor, "dashed"
	case EdgeKindPreload:
		return s.PreloadColor, "dashed"
	}
	return s.EdgeColor, "solid"
}
