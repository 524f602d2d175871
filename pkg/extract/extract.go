package extract

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/splitgraph/pkg/build"
	"github.com/matzehuels/splitgraph/pkg/dag"
	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/graph"
)

// Placeholder node dimensions handed to layout engines. They fit a label of
// about twenty characters at the report font size.
const (
	DefaultNodeWidth  = 170.0
	DefaultNodeHeight = 55.0
)

// Options configures extraction.
type Options struct {
	NodeWidth  float64
	NodeHeight float64
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.NodeWidth <= 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	return o
}

// Extraction is the chunk group graph of one build, before layout.
type Extraction struct {
	// Nodes holds the semantic data of every surviving group by group ID.
	Nodes map[string]graph.NodeData
	// EdgeKinds holds the loading strategy of every edge by edge ID.
	EdgeKinds map[string]graph.EdgeKind
	// Graph is the layout graph: one placeholder-sized node per group and
	// one edge per parent to child relation.
	Graph *dag.DAG
	// Order lists surviving group IDs in build order.
	Order []string
	// Warnings records recovered metadata problems.
	Warnings []string
}

// Extract derives the chunk group graph of b.
//
// Groups that own no chunks and reference no children are pruned, and so are
// edges into them. Edge IDs are assigned sequentially from "0" in build order.
// Missing module or chunk names are replaced with [graph.UnknownName] and
// reported in [Extraction.Warnings]; they never fail the extraction.
func Extract(b *build.Build, opts Options) (*Extraction, error) {
	if b == nil {
		return nil, errors.New(errors.ErrCodePrecondition, "no build to analyze")
	}
	if b.OutputPath == "" {
		return nil, errors.New(errors.ErrCodePrecondition, "build has no output path")
	}
	opts = opts.WithDefaults()

	x := &extractor{
		build:  b,
		assets: ProductionAssets(b.Assets),
		out: &Extraction{
			Nodes:     make(map[string]graph.NodeData),
			EdgeKinds: make(map[string]graph.EdgeKind),
			Graph:     dag.New(),
		},
	}

	for i := range b.ChunkGroups {
		g := &b.ChunkGroups[i]
		if !x.survives(g) {
			continue
		}
		if _, dup := x.out.Nodes[g.ID]; dup {
			x.warn("duplicate chunk group %q ignored", g.ID)
			continue
		}
		x.out.Nodes[g.ID] = x.node(g)
		x.out.Order = append(x.out.Order, g.ID)
		if err := x.out.Graph.AddNode(dag.Node{
			ID:     g.ID,
			Width:  opts.NodeWidth,
			Height: opts.NodeHeight,
		}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "add group %q", g.ID)
		}
	}

	for _, id := range x.out.Order {
		g, _ := b.Group(id)
		if err := x.edges(g); err != nil {
			return nil, err
		}
	}
	return x.out, nil
}

type extractor struct {
	build  *build.Build
	assets AssetSet
	out    *Extraction
	nextID int
}

func (x *extractor) warn(format string, args ...any) {
	x.out.Warnings = append(x.out.Warnings, errors.New(errors.ErrCodeMalformedMetadata, format, args...).Error())
}

// survives reports whether a group owns a chunk or has a child group.
// Child ids naming no group and references to the group itself do not count.
func (x *extractor) survives(g *build.ChunkGroup) bool {
	if len(g.Chunks) > 0 {
		return true
	}
	for _, id := range childIDs(g) {
		if id == g.ID {
			continue
		}
		if _, ok := x.build.Group(id); ok {
			return true
		}
	}
	return false
}

// childIDs returns the children of g followed by any hinted child missing
// from Children, without duplicates.
func childIDs(g *build.ChunkGroup) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, list := range [][]string{g.Children, g.Prefetch, g.Preload} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// =============================================================================
// Nodes
// =============================================================================

func (x *extractor) node(g *build.ChunkGroup) graph.NodeData {
	return graph.NewNodeData(
		groupName(g),
		x.groupSize(g),
		x.build.IsEntrypoint(g.ID),
		x.chunks(g),
	)
}

// groupName resolves the display name of a group: its explicit name, else
// the last path segment of its first origin request, else its ID.
func groupName(g *build.ChunkGroup) string {
	if g.Name != "" {
		return g.Name
	}
	if len(g.Origins) > 0 {
		req := g.Origins[0].Request
		if name := req[strings.LastIndex(req, "/")+1:]; name != "" {
			return name
		}
	}
	return g.ID
}

// groupSize sums the production assets among the group's files. Each file
// counts once.
func (x *extractor) groupSize(g *build.ChunkGroup) int64 {
	var total int64
	seen := make(map[string]struct{}, len(g.Files))
	for _, f := range g.Files {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		if size, ok := x.assets.Size(f); ok {
			total += size
		}
	}
	return total
}

func (x *extractor) chunks(g *build.ChunkGroup) []graph.ChunkData {
	chunks := make([]graph.ChunkData, 0, len(g.Chunks))
	for _, c := range g.Chunks {
		name, size := graph.UnknownName, c.Size
		if len(c.Files) == 0 {
			x.warn("chunk %q in group %q has no output files", c.ID, g.ID)
		} else {
			name = c.Files[0]
			s, ok := x.assets.Size(name)
			if !ok {
				continue
			}
			size = s
		}
		chunks = append(chunks, graph.ChunkData{
			Name:        name,
			Size:        size,
			DisplaySize: graph.FormatSize(size),
			Modules:     x.modules(c),
		})
	}
	slices.SortStableFunc(chunks, func(a, b graph.ChunkData) int {
		return cmp.Compare(b.Size, a.Size)
	})
	return chunks
}

func (x *extractor) modules(c build.Chunk) []graph.ModuleData {
	mods := make([]graph.ModuleData, 0, len(c.Modules))
	for _, m := range c.Modules {
		name := m.Name
		if name == "" {
			name = graph.UnknownName
			x.warn("module without a name in chunk %q", c.ID)
		}
		mods = append(mods, graph.ModuleData{
			Name:        name,
			Size:        m.Size,
			DisplaySize: graph.FormatSize(m.Size),
		})
	}
	slices.SortStableFunc(mods, func(a, b graph.ModuleData) int {
		return cmp.Compare(b.Size, a.Size)
	})
	return mods
}

// =============================================================================
// Edges
// =============================================================================

func (x *extractor) edges(g *build.ChunkGroup) error {
	for _, child := range childIDs(g) {
		if _, ok := x.out.Nodes[child]; !ok {
			if _, known := x.build.Group(child); !known {
				x.warn("group %q references unknown child %q", g.ID, child)
			}
			continue
		}
		if child == g.ID {
			x.warn("group %q references itself", g.ID)
			continue
		}
		id := fmt.Sprint(x.nextID)
		x.nextID++
		if err := x.out.Graph.AddEdge(dag.Edge{ID: id, From: g.ID, To: child}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "add edge %s -> %s", g.ID, child)
		}
		x.out.EdgeKinds[id] = Kind(g, child)
	}
	return nil
}

// Kind classifies the edge from g to child. A child hinted both ways is a
// prefetch.
func Kind(g *build.ChunkGroup, child string) graph.EdgeKind {
	switch {
	case slices.Contains(g.Prefetch, child):
		return graph.EdgeKindPrefetch
	case slices.Contains(g.Preload, child):
		return graph.EdgeKindPreload
	}
	return graph.EdgeKindEager
}
