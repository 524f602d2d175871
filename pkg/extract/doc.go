// Package extract derives the chunk group graph from a [build.Build].
//
// [Extract] walks the build's chunk groups and produces two things: the
// semantic data of each group (name, production size, entry point flag, and
// its chunks and modules largest first), and an abstract [dag.DAG] of
// uniformly sized placeholder nodes for a layout engine to position. Edge
// IDs tie the two together so edge kinds can be reattached after layout.
//
// Production sizes only count assets that ship to users; license sidecars
// and development-only files are excluded by [ProductionAssets].
//
// [build.Build]: github.com/matzehuels/splitgraph/pkg/build.Build
// [dag.DAG]: github.com/matzehuels/splitgraph/pkg/dag.DAG
package extract
