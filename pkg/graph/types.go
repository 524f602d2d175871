package graph

// UnknownName is substituted wherever a build, chunk or module carries no
// usable naming metadata.
const UnknownName = "<unknown>"

// =============================================================================
// Document - the serialized chunk group graph
// =============================================================================

// Document is the graph embedded in an interactive report. Field names are
// part of the viewer contract and must not change.
//
// A Document is built once by [Assemble] and not modified afterwards.
type Document struct {
	BuildName string          `json:"buildName"`
	Nodes     map[string]Node `json:"nodes"`
	Edges     []Edge          `json:"edges"`
}

// Position is the top-left corner of a node in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one chunk group placed on the canvas. Width and Height are the
// box size the layout reserved for it; zero means the viewer default.
type Node struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData describes a chunk group: its aggregate production size and the
// chunks it owns, largest first.
type NodeData struct {
	Label       string      `json:"label"`
	Name        string      `json:"name"`
	Size        int64       `json:"size"`
	DisplaySize string      `json:"displaySize"`
	EntryPoint  bool        `json:"entryPoint"`
	Chunks      []ChunkData `json:"chunks"`
}

// ChunkData is one output chunk of a group. Name is the chunk's primary
// output file. Modules are sorted largest first.
type ChunkData struct {
	Name        string       `json:"name"`
	Size        int64        `json:"size"`
	DisplaySize string       `json:"displaySize"`
	Modules     []ModuleData `json:"modules"`
}

// ModuleData is one source module bundled into a chunk.
type ModuleData struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	DisplaySize string `json:"displaySize"`
}

// =============================================================================
// Edges
// =============================================================================

// EdgeKind is the loading strategy of a parent to child relation.
type EdgeKind string

const (
	// EdgeKindEager is a plain on-demand child without a resource hint. It
	// serializes as an absent kind.
	EdgeKindEager    EdgeKind = ""
	EdgeKindPrefetch EdgeKind = "prefetch"
	EdgeKindPreload  EdgeKind = "preload"
)

// IsHinted reports whether the edge carries a prefetch or preload hint.
func (k EdgeKind) IsHinted() bool { return k != EdgeKindEager }

// Edge is a directed relation from a parent group to a child group it loads.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Data   EdgeData `json:"data"`
}

// EdgeData holds the optional loading strategy of an edge.
type EdgeData struct {
	Kind EdgeKind `json:"kind,omitempty"`
}

// NewNodeData builds the node data of a chunk group, deriving the display
// size and label from name and size.
func NewNodeData(name string, size int64, entryPoint bool, chunks []ChunkData) NodeData {
	display := FormatSize(size)
	if chunks == nil {
		chunks = []ChunkData{}
	}
	return NodeData{
		Label:       Label(name, display),
		Name:        name,
		Size:        size,
		DisplaySize: display,
		EntryPoint:  entryPoint,
		Chunks:      chunks,
	}
}

// Label formats a node label as "name (displaySize)".
func Label(name, displaySize string) string {
	return name + " (" + displaySize + ")"
}

// BuildName resolves the label of a build: its name, else its content hash,
// else [UnknownName].
func BuildName(name, hash string) string {
	switch {
	case name != "":
		return name
	case hash != "":
		return hash
	}
	return UnknownName
}
