// Package pipeline runs the complete split chunk report pipeline.
//
// This package implements load → extract → layout → assemble → emit →
// write that the CLI commands share, so every entry point behaves the same.
//
// # Architecture
//
//  1. Load: read a webpack stats file or a build snapshot into a build.Build
//  2. Extract: derive chunk group data and the layout graph
//  3. Layout: position the graph with a layout engine (cached)
//  4. Assemble: merge positions and data into a graph.Document
//  5. Emit: serialize the document as an interactive or static report
//  6. Write: store the report at each output path, then optionally open it
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "dist/stats.json",
//	    Format:  "html",
//	    Outputs: []string{"split-chunks-report.html"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Paths)
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/splitgraph/pkg/build"
	"github.com/matzehuels/splitgraph/pkg/cache"
	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/extract"
	"github.com/matzehuels/splitgraph/pkg/graph"
	"github.com/matzehuels/splitgraph/pkg/layout"
	"github.com/matzehuels/splitgraph/pkg/report"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Input options
	Input string       `json:"input,omitempty"`
	Build *build.Build `json:"-"` // preloaded build; Input is ignored when set

	// Extract options
	NodeWidth  float64 `json:"node_width,omitempty"`
	NodeHeight float64 `json:"node_height,omitempty"`

	// Layout options
	Engine    string  `json:"engine,omitempty"`
	Direction string  `json:"direction,omitempty"`
	NodeSep   float64 `json:"node_sep,omitempty"`
	RankSep   float64 `json:"rank_sep,omitempty"`
	Refresh   bool    `json:"refresh,omitempty"` // ignore cached layouts

	// Render options
	Format    string   `json:"format,omitempty"`
	Outputs   []string `json:"outputs,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
	Open      bool     `json:"open,omitempty"`

	// PerBuildDir places relative outputs under OutputDir in a subdirectory
	// named by [BuildDir], so several builds can share one OutputDir.
	PerBuildDir bool `json:"per_build_dir,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger   `json:"-"`
	Opener report.Opener `json:"-"`
	Styles *graph.Styles `json:"-"`

	// Reserve is called with the resolved output paths before anything is
	// written. An error aborts the run.
	Reserve func(paths []string) error `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	Build      *build.Build
	Summary    Summary
	Extraction *extract.Extraction
	Layout     layout.Result
	Document   *graph.Document

	// Artifact is the emitted report, written to every path in Paths.
	Artifact []byte
	Paths    []string

	// Warnings collects recovered problems: malformed metadata and a failed
	// open action.
	Warnings []string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	LoadTime    time.Duration
	ExtractTime time.Duration
	LayoutTime  time.Duration
	EmitTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Build == nil {
		if err := errors.ValidateInputPath(o.Input); err != nil {
			return err
		}
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for extraction and layout.
func (o *Options) SetLayoutDefaults() {
	if o.NodeWidth <= 0 {
		o.NodeWidth = extract.DefaultNodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = extract.DefaultNodeHeight
	}
	if o.Engine == "" {
		o.Engine = layout.DefaultEngine
	}
	if o.Direction == "" {
		o.Direction = string(layout.DirectionTB)
	}
	if o.NodeSep <= 0 {
		o.NodeSep = layout.DefaultNodeSep
	}
	if o.RankSep <= 0 {
		o.RankSep = layout.DefaultRankSep
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates the layout settings.
func (o *Options) ValidateForLayout() error {
	if _, err := layout.New(o.Engine); err != nil {
		return err
	}
	switch layout.Direction(o.Direction) {
	case layout.DirectionTB, layout.DirectionLR:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid direction %q (must be TB or LR)", o.Direction)
}

// SetRenderDefaults sets default values for emitting and writing.
func (o *Options) SetRenderDefaults() {
	if o.Format == "" {
		o.Format = string(report.DefaultFormat)
	}
	if len(o.Outputs) == 0 {
		o.Outputs = []string{report.DefaultOutput}
	}
	if o.Opener == nil {
		o.Opener = report.Open
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates the format and output paths.
func (o *Options) ValidateForRender() error {
	if _, err := report.ParseFormat(o.Format); err != nil {
		return err
	}
	for _, p := range o.Outputs {
		if err := errors.ValidateOutputPath(p); err != nil {
			return err
		}
	}
	return nil
}

// ExtractOptions returns the extractor settings.
func (o *Options) ExtractOptions() extract.Options {
	return extract.Options{NodeWidth: o.NodeWidth, NodeHeight: o.NodeHeight}
}

// LayoutOptions returns the engine settings.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Direction: layout.Direction(o.Direction),
		NodeSep:   o.NodeSep,
		RankSep:   o.RankSep,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Engine:    o.Engine,
		Direction: o.Direction,
		NodeSep:   o.NodeSep,
		RankSep:   o.RankSep,
	}
}

// ResolveOutputs returns the destination paths of the report. Relative paths
// are resolved against OutputDir, else the build's output path. With
// PerBuildDir, OutputDir gains a per-build subdirectory. Static formats
// replace the file extension with the format name.
func (o *Options) ResolveOutputs(b *build.Build) []string {
	f, _ := report.ParseFormat(o.Format)
	base := o.OutputDir
	switch {
	case base == "" && b != nil:
		base = b.OutputPath
	case base != "" && o.PerBuildDir && b != nil:
		base = filepath.Join(base, BuildDir(b))
	}
	paths := make([]string, 0, len(o.Outputs))
	for _, p := range o.Outputs {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		paths = append(paths, f.OutputPath(p))
	}
	return paths
}

// BuildDir names the output subdirectory of b: its display name with every
// character outside [A-Za-z0-9._-] replaced by an underscore.
func BuildDir(b *build.Build) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			return r
		}
		return '_'
	}, graph.BuildName(b.Name, b.Hash))
	if strings.Trim(name, ".") == "" {
		return "build"
	}
	return name
}
