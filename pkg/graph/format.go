package graph

import "github.com/dustin/go-humanize"

// FormatSize renders a byte count with SI units, e.g. "2.0 kB". Negative
// counts are clamped to zero.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
