package cache

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of a layout of the graph with the given
	// content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the layout settings that change engine output.
type LayoutKeyOpts struct {
	Engine    string  `json:"engine"`
	Direction string  `json:"direction"`
	NodeSep   float64 `json:"node_sep"`
	RankSep   float64 `json:"rank_sep"`
}

// keyVersion is bumped whenever the cached layout encoding changes.
const keyVersion = "v1"

// DefaultKeyer produces unscoped keys of the form "layout:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the graph hash, the options and the key version.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", keyVersion, graphHash, opts)
}
