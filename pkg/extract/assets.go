package extract

import (
	"strings"

	"github.com/matzehuels/splitgraph/pkg/build"
)

// LicenseSuffixes are the name suffixes of license sidecar files. Webpack 4
// emits ".LICENSE"; webpack 5 defaults to ".LICENSE.txt".
var LicenseSuffixes = []string{".LICENSE", ".LICENSE.txt"}

// AssetSet is the set of production assets of a build with their sizes.
type AssetSet struct {
	sizes map[string]int64
	total int64
}

// ProductionAssets returns every asset that is neither a license sidecar nor
// flagged development-only. Empty input yields an empty set.
func ProductionAssets(assets []build.Asset) AssetSet {
	s := AssetSet{sizes: make(map[string]int64, len(assets))}
	for _, a := range assets {
		if !IsProduction(a) {
			continue
		}
		if _, dup := s.sizes[a.Name]; !dup {
			s.total += a.Size
		}
		s.sizes[a.Name] = a.Size
	}
	return s
}

// IsProduction reports whether a single asset ships to end users.
func IsProduction(a build.Asset) bool {
	if a.Info.Development {
		return false
	}
	for _, suffix := range LicenseSuffixes {
		if strings.HasSuffix(a.Name, suffix) {
			return false
		}
	}
	return true
}

// Has reports whether name is a production asset.
func (s AssetSet) Has(name string) bool {
	_, ok := s.sizes[name]
	return ok
}

// Size returns the size of a production asset.
func (s AssetSet) Size(name string) (int64, bool) {
	size, ok := s.sizes[name]
	return size, ok
}

// Len returns the number of production assets.
func (s AssetSet) Len() int { return len(s.sizes) }

// TotalSize returns the summed size of all production assets.
func (s AssetSet) TotalSize() int64 { return s.total }
