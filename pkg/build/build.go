// Package build models a completed bundler build as a read-only snapshot.
//
// A [Build] carries exactly what the chunk group graph is derived from:
// output assets with sizes and flags, chunk groups with their chunks, child
// group references and loading hints, and the declared entry points.
// References between groups are IDs, never pointers, so a Build is acyclic
// by construction and can be encoded as JSON as-is.
//
// Snapshots are produced by the [webpack] adapter from a stats file or
// decoded from the native JSON encoding with [Decode].
//
// [webpack]: github.com/matzehuels/splitgraph/pkg/build/webpack
package build

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Build is a snapshot of one completed build.
type Build struct {
	Name        string       `json:"name,omitempty"`
	Hash        string       `json:"hash,omitempty"`
	OutputPath  string       `json:"outputPath"`
	Assets      []Asset      `json:"assets"`
	ChunkGroups []ChunkGroup `json:"chunkGroups"`
	Entrypoints []string     `json:"entrypoints"`
}

// Asset is one emitted output file.
type Asset struct {
	Name string    `json:"name"`
	Size int64     `json:"size"`
	Info AssetInfo `json:"info"`
}

// AssetInfo holds the bundler's per-asset flags.
type AssetInfo struct {
	Development bool `json:"development,omitempty"`
	Immutable   bool `json:"immutable,omitempty"`
}

// ChunkGroup is an entry point or a dynamic split point.
type ChunkGroup struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Chunks []Chunk `json:"chunks"`

	// Children, Prefetch and Preload hold child group IDs. Prefetch and
	// Preload are the subsets of children requested with a loading hint.
	Children []string `json:"children,omitempty"`
	Prefetch []string `json:"prefetch,omitempty"`
	Preload  []string `json:"preload,omitempty"`

	Origins []Origin `json:"origins,omitempty"`
	// Files lists every output file reachable from the group.
	Files []string `json:"files"`
}

// Chunk is one output bundle. Files[0] is the primary output file.
type Chunk struct {
	ID      string   `json:"id"`
	Files   []string `json:"files"`
	Size    int64    `json:"size"`
	Modules []Module `json:"modules,omitempty"`
}

// Module is one source module bundled into a chunk. An empty Name means the
// bundler reported no naming metadata.
type Module struct {
	Name string `json:"name,omitempty"`
	Size int64  `json:"size"`
}

// Origin is a request that caused a group to be created, such as the path
// of a dynamically imported module.
type Origin struct {
	Request string `json:"request"`
}

// Group returns the chunk group with the given ID.
func (b *Build) Group(id string) (*ChunkGroup, bool) {
	for i := range b.ChunkGroups {
		if b.ChunkGroups[i].ID == id {
			return &b.ChunkGroups[i], true
		}
	}
	return nil, false
}

// IsEntrypoint reports whether the group ID is a declared entry point.
func (b *Build) IsEntrypoint(id string) bool {
	return slices.Contains(b.Entrypoints, id)
}

// Asset returns the asset with the given name.
func (b *Build) Asset(name string) (Asset, bool) {
	for _, a := range b.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// ChunkCount returns the number of distinct chunks across all groups.
func (b *Build) ChunkCount() int {
	seen := make(map[string]struct{})
	for _, g := range b.ChunkGroups {
		for _, c := range g.Chunks {
			seen[c.ID] = struct{}{}
		}
	}
	return len(seen)
}

// HasChildren reports whether the group references at least one child.
func (g *ChunkGroup) HasChildren() bool { return len(g.Children) > 0 }

// =============================================================================
// Native snapshot encoding
// =============================================================================

// Encode writes b as indented JSON.
func Encode(w io.Writer, b *Build) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode build: %w", err)
	}
	return nil
}

// Decode reads a native snapshot. Unknown fields are rejected so that a
// stats file is never mistaken for a snapshot.
func Decode(data []byte) (*Build, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var b Build
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode build snapshot: %w", err)
	}
	return &b, nil
}

// =============================================================================
// Format detection
// =============================================================================

// Format identifies the encoding of an input file.
type Format int

const (
	FormatUnknown Format = iota
	// FormatSnapshot is the native [Build] JSON encoding.
	FormatSnapshot
	// FormatWebpackStats is the output of `webpack --json`.
	FormatWebpackStats
)

func (f Format) String() string {
	switch f {
	case FormatSnapshot:
		return "snapshot"
	case FormatWebpackStats:
		return "webpack-stats"
	}
	return "unknown"
}

// Detect inspects the top-level keys of a JSON document. A snapshot has
// "chunkGroups"; a stats file has any of "namedChunkGroups", "chunks",
// "entrypoints" or "children" (multi-compiler stats).
func Detect(data []byte) Format {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return FormatUnknown
	}
	if _, ok := top["chunkGroups"]; ok {
		return FormatSnapshot
	}
	for _, k := range []string{"namedChunkGroups", "chunks", "entrypoints", "children"} {
		if _, ok := top[k]; ok {
			return FormatWebpackStats
		}
	}
	return FormatUnknown
}
