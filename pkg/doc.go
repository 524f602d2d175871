// Package pkg provides the libraries behind splitgraph, a report generator
// for webpack split chunks.
//
// # Overview
//
// A finished webpack build splits its code into chunk groups: entry points,
// and async groups loaded on demand, some with a prefetch or preload hint.
// Splitgraph turns such a build into a graph of chunk groups, positions it
// with a layered layout, and writes either an interactive HTML report or a
// static picture.
//
// # Architecture
//
// The data flow through splitgraph:
//
//	webpack stats.json / build snapshot
//	         ↓
//	    [build] (+ [build/webpack]) load the build
//	         ↓
//	    [extract] chunk group data + layout graph ([dag])
//	         ↓
//	    [layout] node positions (cached by [cache])
//	         ↓
//	    [graph] assembled document
//	         ↓
//	    [report] HTML viewer page or svg/png/jpg/pdf/dot file
//
// [pipeline] runs these stages in order and is what the CLI calls.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "dist/stats.json",
//	    Format: "html",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Paths[0])
//
// # Main Packages
//
// [build] - Build snapshot types and the format detector.
//
// [build/webpack] - Decoding of webpack stats and conversion to a snapshot.
//
// [extract] - Production asset filtering, chunk group naming, sizes, pruning
// and edge kinds.
//
// [dag] - Directed graph used as layout input. [dag/transform] assigns
// layers and breaks cycles for the layered engine.
//
// [layout] - Layout engines: the built-in layered engine and graphviz.
//
// [graph] - The document embedded in reports, its styles and size formatting.
//
// [report] - Emitters, atomic file writes and the OS open action.
//
// [cache] - Layout cache backends: file, Redis and null.
//
// [errors] - Coded errors shared by all packages.
//
// [observability] - Optional hooks around pipeline stages and cache lookups.
//
// [buildinfo] - Version information set at link time.
//
// [build]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/build
// [build/webpack]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/build/webpack
// [extract]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/extract
// [dag]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/dag/transform
// [layout]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/graph
// [report]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/report
// [cache]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/splitgraph/pkg/pipeline
package pkg
