// Package webpack converts webpack stats files into build snapshots.
//
// A stats file is what `webpack --json` (or stats.toJson()) emits. The
// adapter reads the parts needed for the chunk group graph: assets, chunks
// with their parents and ordered children, named chunk groups, entry points
// and per-chunk modules. Both webpack 4 (string asset and child references)
// and webpack 5 (object references) shapes are accepted.
package webpack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Stats is the subset of a webpack stats document the adapter reads.
type Stats struct {
	Name             string   `json:"name"`
	Hash             string   `json:"hash"`
	OutputPath       string   `json:"outputPath"`
	Assets           []Asset  `json:"assets"`
	Chunks           []Chunk  `json:"chunks"`
	Modules          []Module `json:"modules"`
	Entrypoints      Groups   `json:"entrypoints"`
	NamedChunkGroups Groups   `json:"namedChunkGroups"`

	// Children holds per-compiler stats of a multi-compiler build.
	Children []Stats `json:"children"`
}

// Asset is an emitted file.
type Asset struct {
	Name string    `json:"name"`
	Size int64     `json:"size"`
	Info AssetInfo `json:"info"`
}

// AssetInfo holds asset flags.
type AssetInfo struct {
	Development bool `json:"development"`
	Immutable   bool `json:"immutable"`
}

// Chunk is a stats chunk.
type Chunk struct {
	ID              ID              `json:"id"`
	Names           []string        `json:"names"`
	Files           []string        `json:"files"`
	Size            int64           `json:"size"`
	Entry           bool            `json:"entry"`
	Initial         bool            `json:"initial"`
	Parents         []ID            `json:"parents"`
	Children        []ID            `json:"children"`
	ChildrenByOrder map[string][]ID `json:"childrenByOrder"`
	Origins         []Origin        `json:"origins"`
	Modules         []Module        `json:"modules"`
}

// Module is a stats module. Chunks is only populated on top-level modules.
type Module struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Chunks []ID   `json:"chunks"`
}

// Origin is a request that created a chunk.
type Origin struct {
	Request    string `json:"request"`
	ModuleName string `json:"moduleName"`
}

// Group is an entry point or named chunk group.
type Group struct {
	Name     string                `json:"name"`
	Chunks   []ID                  `json:"chunks"`
	Assets   []Ref                 `json:"assets"`
	Children map[string][]GroupRef `json:"children"`
}

// =============================================================================
// Polymorphic references
// =============================================================================

// ID is a chunk ID. Webpack emits numeric IDs in production and string IDs
// in development; both decode to their decimal or literal string form.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("chunk id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// Ref is an asset reference: a file name (webpack 4) or an object with a
// name (webpack 5).
type Ref struct {
	Name string
	Size int64
}

// UnmarshalJSON accepts a string or {"name": ..., "size": ...}.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.Name)
	}
	var obj struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("asset reference: %w", err)
	}
	r.Name, r.Size = obj.Name, obj.Size
	return nil
}

// GroupRef is an ordered child reference: a group name (webpack 4) or an
// object with a name and chunks (webpack 5). Unnamed webpack 5 children
// are identified by their chunks.
type GroupRef struct {
	Name   string
	Chunks []ID
}

// UnmarshalJSON accepts a string or {"name": ..., "chunks": [...]}.
func (r *GroupRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.Name)
	}
	var obj struct {
		Name   string `json:"name"`
		Chunks []ID   `json:"chunks"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("chunk group reference: %w", err)
	}
	r.Name, r.Chunks = obj.Name, obj.Chunks
	return nil
}

// =============================================================================
// Ordered group maps
// =============================================================================

// NamedGroup is a group with the key it was listed under.
type NamedGroup struct {
	Key string
	Group
}

// Groups is a JSON object of groups decoded in document order. Webpack
// lists groups in creation order, which the report keeps.
type Groups []NamedGroup

// UnmarshalJSON decodes an object while preserving key order.
func (gs *Groups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*gs = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("chunk groups: expected object, got %v", tok)
	}

	var out Groups
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("chunk groups: expected key, got %v", tok)
		}
		var g Group
		if err := dec.Decode(&g); err != nil {
			return fmt.Errorf("chunk group %q: %w", key, err)
		}
		out = append(out, NamedGroup{Key: key, Group: g})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*gs = out
	return nil
}

// Keys returns the group keys in document order.
func (gs Groups) Keys() []string {
	keys := make([]string, len(gs))
	for i, g := range gs {
		keys[i] = g.Key
	}
	return keys
}

// Parse decodes a stats document.
func Parse(data []byte) (*Stats, error) {
	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode webpack stats: %w", err)
	}
	return &s, nil
}
