package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/splitgraph/pkg/build"
	"github.com/matzehuels/splitgraph/pkg/cache"
	"github.com/matzehuels/splitgraph/pkg/dag"
	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/extract"
	"github.com/matzehuels/splitgraph/pkg/graph"
	"github.com/matzehuels/splitgraph/pkg/layout"
	"github.com/matzehuels/splitgraph/pkg/observability"
	"github.com/matzehuels/splitgraph/pkg/report"
)

// Runner executes pipeline runs with a layout cache.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// results. Runs for different builds may share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → extract → layout → assemble → emit → write, then opens
// the last written path when requested. Stages run in order and the context
// is checked between them. A failed open action is logged and recorded in
// [Result.Warnings]; every other failure aborts the run.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.document(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger.With("run", result.RunID[:8])
	doc := result.Document

	// Stage 5: Emit
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	emitStart := time.Now()
	observability.Pipeline().OnEmitStart(ctx, opts.Format)
	data, err := Emit(ctx, doc, opts)
	result.Stats.EmitTime = time.Since(emitStart)
	observability.Pipeline().OnEmitComplete(ctx, opts.Format, len(data), result.Stats.EmitTime, err)
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	result.Artifact = data

	// Stage 6: Write and open
	result.Paths = opts.ResolveOutputs(result.Build)
	if opts.Reserve != nil {
		if err := opts.Reserve(result.Paths); err != nil {
			return nil, fmt.Errorf("write: %w", err)
		}
	}
	if err := report.Write(ctx, data, result.Paths...); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	logger.Info("wrote report",
		"format", opts.Format,
		"paths", result.Paths,
		"duration", result.Stats.EmitTime)

	if opts.Open {
		last := result.Paths[len(result.Paths)-1]
		if err := opts.Opener(ctx, last); err != nil {
			if errors.IsFatal(err) {
				err = errors.Wrap(errors.ErrCodeOpenAction, err, "open %s", last)
			}
			logger.Warn("could not open report", "path", last, "err", err)
			result.Warnings = append(result.Warnings, err.Error())
		}
	}
	return result, nil
}

// Document runs load → extract → layout → assemble and returns the result
// without emitting or writing a report. Artifact and Paths stay empty.
func (r *Runner) Document(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return r.document(ctx, opts)
}

func (r *Runner) document(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	b := opts.Build
	if b == nil {
		var err error
		if b, err = LoadBuild(opts.Input); err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	}
	if b.OutputPath == "" && opts.OutputDir != "" {
		withDir := *b
		withDir.OutputPath = opts.OutputDir
		b = &withDir
	}
	result.Build = b
	result.Summary = Summarize(b)
	result.Stats.LoadTime = time.Since(loadStart)
	logger.Info("loaded build",
		"name", graph.BuildName(b.Name, b.Hash),
		"size", graph.FormatSize(result.Summary.TotalSize),
		"assets", result.Summary.AssetCount,
		"chunks", result.Summary.ChunkCount)

	// Stage 2: Extract
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	extractStart := time.Now()
	x, err := r.Extract(ctx, b, opts)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	result.Extraction = x
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Warnings = append(result.Warnings, x.Warnings...)
	result.Stats.NodeCount = x.Graph.NodeCount()
	result.Stats.EdgeCount = x.Graph.EdgeCount()
	for _, w := range x.Warnings {
		logger.Warn(w)
	}
	logger.Info("extracted chunk groups",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount)

	// Stage 3: Layout
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layoutStart := time.Now()
	res, hit, err := r.ComputeLayoutWithCacheInfo(ctx, x.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.CacheInfo.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(layoutStart)
	logger.Info("computed layout",
		"engine", opts.Engine,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 4: Assemble
	doc, err := graph.Assemble(graph.AssembleInput{
		BuildName: b.Name,
		BuildHash: b.Hash,
		Nodes:     x.Nodes,
		EdgeKinds: x.EdgeKinds,
		Layout:    res,
	})
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	result.Document = doc
	return result, nil
}

// Extract derives the chunk group graph of b with hooks around the stage.
func (r *Runner) Extract(ctx context.Context, b *build.Build, opts Options) (*extract.Extraction, error) {
	name := ""
	if b != nil {
		name = graph.BuildName(b.Name, b.Hash)
	}
	start := time.Now()
	observability.Pipeline().OnExtractStart(ctx, name)
	x, err := extract.Extract(b, opts.ExtractOptions())
	nodes, edges := 0, 0
	if x != nil {
		nodes, edges = x.Graph.NodeCount(), x.Graph.EdgeCount()
	}
	observability.Pipeline().OnExtractComplete(ctx, name, nodes, edges, time.Since(start), err)
	return x, err
}

// ComputeLayoutWithCacheInfo positions g with the configured engine, reusing
// a cached result for an identical graph and settings unless opts.Refresh is
// set. It reports whether the result came from the cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *dag.DAG, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}

	key := r.Keyer.LayoutKey(GraphHash(g), opts.LayoutKeyOpts())
	if !opts.Refresh {
		var cached layout.Result
		err := cache.GetJSON(ctx, r.Cache, key, &cached)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		if err != cache.ErrCacheMiss {
			opts.Logger.Debug("layout cache unavailable", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	engine, err := layout.New(opts.Engine)
	if err != nil {
		return layout.Result{}, false, err
	}
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, engine.Name(), g.NodeCount())
	res, err := engine.Layout(ctx, g, opts.LayoutOptions())
	observability.Pipeline().OnLayoutComplete(ctx, engine.Name(), time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, err
	}

	if err := cache.SetJSON(ctx, r.Cache, key, res, cache.DefaultTTL); err != nil {
		opts.Logger.Debug("could not cache layout", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layout", g.NodeCount())
	}
	return res, false, nil
}

// ComputeLayout is ComputeLayoutWithCacheInfo without the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *dag.DAG, opts Options) (layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
