package webpack

import (
	"slices"

	"github.com/matzehuels/splitgraph/pkg/build"
	"github.com/matzehuels/splitgraph/pkg/errors"
)

// SyntheticGroupPrefix prefixes the ID of groups made up for async chunks
// that no named chunk group covers.
const SyntheticGroupPrefix = "chunk-"

// Orders are the childrenByOrder keys that carry loading hints.
const (
	OrderPrefetch = "prefetch"
	OrderPreload  = "preload"
)

// Convert builds a snapshot from stats.
//
// Groups are the named chunk groups (falling back to the entry points when
// the stats omit namedChunkGroups), keyed by name, followed by one
// synthetic group per chunk no named group covers. A group X is a child of
// G when every chunk of X lists a chunk of G among its parents. Prefetch and
// preload children come from the groups' ordered children and the chunks'
// childrenByOrder. Multi-compiler stats convert their first child.
func Convert(s *Stats) (*build.Build, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no stats")
	}
	if len(s.Chunks) == 0 && len(s.NamedChunkGroups) == 0 && len(s.Entrypoints) == 0 && len(s.Children) > 0 {
		s = &s.Children[0]
	}
	if len(s.Chunks) == 0 && len(s.NamedChunkGroups) == 0 && len(s.Entrypoints) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stats contain no chunks or chunk groups")
	}

	c := newConverter(s)
	b := &build.Build{
		Name:        s.Name,
		Hash:        s.Hash,
		OutputPath:  s.OutputPath,
		Assets:      c.assets(),
		Entrypoints: s.Entrypoints.Keys(),
	}
	if b.Entrypoints == nil {
		b.Entrypoints = []string{}
	}

	c.collectGroups()
	c.linkChildren()
	c.linkHints()
	b.ChunkGroups = c.groups
	return b, nil
}

type converter struct {
	stats    *Stats
	chunks   map[ID]*Chunk
	modules  map[ID][]build.Module
	groups   []build.ChunkGroup
	chunkIDs [][]ID
	refs     []map[string][]GroupRef
	owners   map[ID][]int
}

func newConverter(s *Stats) *converter {
	c := &converter{
		stats:   s,
		chunks:  make(map[ID]*Chunk, len(s.Chunks)),
		modules: make(map[ID][]build.Module),
		owners:  make(map[ID][]int),
	}
	for i := range s.Chunks {
		c.chunks[s.Chunks[i].ID] = &s.Chunks[i]
	}
	for _, m := range s.Modules {
		for _, id := range m.Chunks {
			c.modules[id] = append(c.modules[id], build.Module{Name: m.Name, Size: m.Size})
		}
	}
	return c
}

func (c *converter) assets() []build.Asset {
	out := make([]build.Asset, 0, len(c.stats.Assets))
	for _, a := range c.stats.Assets {
		out = append(out, build.Asset{
			Name: a.Name,
			Size: a.Size,
			Info: build.AssetInfo{Development: a.Info.Development, Immutable: a.Info.Immutable},
		})
	}
	return out
}

func (c *converter) collectGroups() {
	named := c.stats.NamedChunkGroups
	if len(named) == 0 {
		named = c.stats.Entrypoints
	}

	covered := make(map[ID]bool)
	for _, ng := range named {
		name := ng.Name
		if name == "" {
			name = ng.Key
		}
		files := make([]string, 0, len(ng.Assets))
		for _, a := range ng.Assets {
			files = append(files, a.Name)
		}
		c.addGroup(ng.Key, name, ng.Chunks, files, ng.Children)
		for _, id := range ng.Chunks {
			covered[id] = true
		}
	}

	for _, ch := range c.stats.Chunks {
		if covered[ch.ID] {
			continue
		}
		name := ""
		if len(ch.Names) > 0 {
			name = ch.Names[0]
		}
		c.addGroup(SyntheticGroupPrefix+string(ch.ID), name, []ID{ch.ID}, nil, nil)
	}
}

func (c *converter) addGroup(id, name string, chunkIDs []ID, files []string, refs map[string][]GroupRef) {
	g := build.ChunkGroup{ID: id, Name: name, Chunks: make([]build.Chunk, 0, len(chunkIDs))}
	var chunkFiles []string

	for _, cid := range chunkIDs {
		ch, ok := c.chunks[cid]
		if !ok {
			g.Chunks = append(g.Chunks, build.Chunk{ID: string(cid)})
			continue
		}
		mods := make([]build.Module, 0, len(ch.Modules))
		for _, m := range ch.Modules {
			mods = append(mods, build.Module{Name: m.Name, Size: m.Size})
		}
		if len(mods) == 0 {
			mods = append(mods, c.modules[cid]...)
		}
		g.Chunks = append(g.Chunks, build.Chunk{
			ID:      string(cid),
			Files:   slices.Clone(ch.Files),
			Size:    ch.Size,
			Modules: mods,
		})
		for _, f := range ch.Files {
			if !slices.Contains(chunkFiles, f) {
				chunkFiles = append(chunkFiles, f)
			}
		}
	}
	if len(chunkIDs) > 0 {
		if ch, ok := c.chunks[chunkIDs[0]]; ok {
			for _, o := range ch.Origins {
				g.Origins = append(g.Origins, build.Origin{Request: o.Request})
			}
		}
	}
	// Groups listed without assets fall back to their chunks' files.
	if len(files) == 0 {
		files = chunkFiles
	}
	if files == nil {
		files = []string{}
	}
	g.Files = files

	idx := len(c.groups)
	for _, cid := range chunkIDs {
		c.owners[cid] = append(c.owners[cid], idx)
	}
	c.groups = append(c.groups, g)
	c.chunkIDs = append(c.chunkIDs, chunkIDs)
	c.refs = append(c.refs, refs)
}

// linkChildren marks X as a child of G when every resolvable chunk of X has
// a parent chunk in G.
func (c *converter) linkChildren() {
	for gi := range c.groups {
		own := make(map[ID]bool, len(c.chunkIDs[gi]))
		for _, id := range c.chunkIDs[gi] {
			own[id] = true
		}
		if len(own) == 0 {
			continue
		}
		for xi := range c.groups {
			if xi == gi || !c.allChunksHaveParentIn(xi, own) {
				continue
			}
			c.addChild(gi, c.groups[xi].ID)
		}
	}
}

func (c *converter) allChunksHaveParentIn(xi int, parents map[ID]bool) bool {
	checked := 0
	for _, id := range c.chunkIDs[xi] {
		ch, ok := c.chunks[id]
		if !ok {
			continue
		}
		checked++
		if !slices.ContainsFunc(ch.Parents, func(p ID) bool { return parents[p] }) {
			return false
		}
	}
	return checked > 0
}

func (c *converter) linkHints() {
	for gi := range c.groups {
		for _, order := range []string{OrderPrefetch, OrderPreload} {
			for _, ref := range c.refs[gi][order] {
				if child, ok := c.resolve(gi, ref); ok {
					c.addHint(gi, order, child)
				}
			}
			for _, cid := range c.chunkIDs[gi] {
				ch, ok := c.chunks[cid]
				if !ok {
					continue
				}
				for _, target := range ch.ChildrenByOrder[order] {
					for _, xi := range c.owners[target] {
						if xi != gi {
							c.addHint(gi, order, c.groups[xi].ID)
						}
					}
				}
			}
		}
	}
}

// resolve maps an ordered child reference to a group ID, by name first and
// then by the first group other than gi owning the reference's first chunk.
func (c *converter) resolve(gi int, ref GroupRef) (string, bool) {
	if ref.Name != "" {
		for _, g := range c.groups {
			if g.ID == ref.Name || g.Name == ref.Name {
				return g.ID, true
			}
		}
	}
	if len(ref.Chunks) > 0 {
		for _, xi := range c.owners[ref.Chunks[0]] {
			if xi != gi {
				return c.groups[xi].ID, true
			}
		}
	}
	return "", false
}

func (c *converter) addChild(gi int, child string) {
	g := &c.groups[gi]
	if !slices.Contains(g.Children, child) {
		g.Children = append(g.Children, child)
	}
}

func (c *converter) addHint(gi int, order, child string) {
	c.addChild(gi, child)
	g := &c.groups[gi]
	switch order {
	case OrderPrefetch:
		if !slices.Contains(g.Prefetch, child) {
			g.Prefetch = append(g.Prefetch, child)
		}
	case OrderPreload:
		if !slices.Contains(g.Preload, child) {
			g.Preload = append(g.Preload, child)
		}
	}
}
