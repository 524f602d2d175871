package layout

import (
	"context"
	"slices"

	"github.com/matzehuels/splitgraph/pkg/dag"
	"github.com/matzehuels/splitgraph/pkg/errors"
)

// Engine names accepted by [New].
const (
	EngineLayered  = "layered"
	EngineGraphviz = "graphviz"
)

// DefaultEngine is the engine used when none is configured.
const DefaultEngine = EngineLayered

// Direction is the rank direction of a layout.
type Direction string

const (
	DirectionTB Direction = "TB"
	DirectionLR Direction = "LR"
)

// Default spacing between nodes of one rank and between ranks, in points.
const (
	DefaultNodeSep = 40.0
	DefaultRankSep = 80.0
)

// Anchor tells which point of a node an engine's coordinates refer to.
type Anchor int

const (
	AnchorTopLeft Anchor = iota
	AnchorCenter
)

func (a Anchor) String() string {
	if a == AnchorCenter {
		return "center"
	}
	return "top-left"
}

// Point is a 2-D coordinate.
type Point struct {
	X, Y float64
}

// Size is the measured extent of a node.
type Size struct {
	Width, Height float64
}

// Options controls an engine run.
type Options struct {
	Direction Direction
	NodeSep   float64
	RankSep   float64
}

// WithDefaults returns a copy of o with zero fields set to their defaults.
func (o Options) WithDefaults() Options {
	if o.Direction == "" {
		o.Direction = DirectionTB
	}
	if o.NodeSep <= 0 {
		o.NodeSep = DefaultNodeSep
	}
	if o.RankSep <= 0 {
		o.RankSep = DefaultRankSep
	}
	return o
}

// Result is the output of an engine. Positions and Sizes hold one entry per
// input node; Edges lists the input edges in input order. Callers index by
// node ID, never by position.
type Result struct {
	Anchor    Anchor
	Positions map[string]Point
	Sizes     map[string]Size
	Edges     []dag.Edge
}

// Engine computes node coordinates for a layout graph. Engines never modify
// the graph they are given.
type Engine interface {
	Name() string
	Layout(ctx context.Context, g *dag.DAG, opts Options) (Result, error)
}

// Engines returns the names of all available engines.
func Engines() []string {
	return []string{EngineLayered, EngineGraphviz}
}

// New returns the engine with the given name. An empty name selects
// [DefaultEngine].
func New(name string) (Engine, error) {
	switch name {
	case "", EngineLayered:
		return Layered{}, nil
	case EngineGraphviz:
		return Graphviz{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEngine, "unknown layout engine %q (available: %v)", name, Engines())
}

// IsValid reports whether name selects an engine.
func IsValid(name string) bool {
	return name == "" || slices.Contains(Engines(), name)
}
