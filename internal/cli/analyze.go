package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/extract"
	"github.com/matzehuels/splitgraph/pkg/graph"
	"github.com/matzehuels/splitgraph/pkg/layout"
	"github.com/matzehuels/splitgraph/pkg/observability"
	"github.com/matzehuels/splitgraph/pkg/pipeline"
	"github.com/matzehuels/splitgraph/pkg/report"
)

// analyzeFlags holds the analyze command line. Only flags the user set
// override values from the config file.
type analyzeFlags struct {
	outputs    []string
	format     string
	open       bool
	engine     string
	direction  string
	nodeWidth  float64
	nodeHeight float64
	outputDir  string
	refresh    bool
	cache      cacheFlags
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <stats.json|glob>...",
		Short: "Generate a split chunk report from webpack stats",
		Long: `Generate a split chunk report from webpack stats.

Each argument is a stats file (webpack --json), a build snapshot, or a glob
such as "packages/**/stats.json". Every matching build gets its own report,
written relative to the build's output directory unless the path is
absolute. When several builds share --output-dir, each build's reports go to
a subdirectory named after the build.

The interactive html report embeds the graph in a self-contained page.
Static formats (svg, png, jpg, pdf, dot) draw the same graph without the
size panel.`,
		Example: `  splitgraph analyze dist/stats.json
  splitgraph analyze dist/stats.json -t svg -o chunks --open
  splitgraph analyze "apps/**/stats.json" --output-dir reports`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			opts := cfg.options()
			flags.override(cmd.Flags().Changed, &opts)

			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), inputs, opts, cfg, flags.cache)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.outputs, "output", "o", nil, "output file, repeatable (default "+report.DefaultOutput+")")
	cmd.Flags().StringVarP(&flags.format, "format", "t", string(report.DefaultFormat), "report format: html, svg, png, jpg, jpeg, pdf, dot, gv")
	cmd.Flags().BoolVar(&flags.open, "open", false, "open the report when done")
	cmd.Flags().StringVar(&flags.engine, "engine", layout.DefaultEngine, "layout engine: layered, graphviz")
	cmd.Flags().StringVar(&flags.direction, "direction", string(layout.DirectionTB), "rank direction: TB, LR")
	cmd.Flags().Float64Var(&flags.nodeWidth, "node-width", extract.DefaultNodeWidth, "node width in points")
	cmd.Flags().Float64Var(&flags.nodeHeight, "node-height", extract.DefaultNodeHeight, "node height in points")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "directory for relative outputs (default: the build's output path)")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute the layout even when cached")
	flags.cache.register(cmd)

	return cmd
}

// override copies the flags reported as changed onto opts.
func (f *analyzeFlags) override(changed func(string) bool, opts *pipeline.Options) {
	if changed("output") {
		opts.Outputs = f.outputs
	}
	if changed("format") {
		opts.Format = f.format
	}
	if changed("open") {
		opts.Open = f.open
	}
	if changed("engine") {
		opts.Engine = f.engine
	}
	if changed("direction") {
		opts.Direction = f.direction
	}
	if changed("node-width") {
		opts.NodeWidth = f.nodeWidth
	}
	if changed("node-height") {
		opts.NodeHeight = f.nodeHeight
	}
	if changed("output-dir") {
		opts.OutputDir = f.outputDir
	}
	opts.Refresh = f.refresh
}

// expandInputs resolves file arguments and glob patterns into a list of
// files, dropping duplicates. A pattern that matches nothing is an error.
func expandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid pattern %q", pattern)
		}
		if len(matches) == 0 {
			return nil, errors.New(errors.ErrCodeFileNotFound, "no stats file matches %s", pattern)
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", m)
			}
			if !seen[abs] {
				seen[abs] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// runAnalyze runs the pipeline once per input. With several inputs a failed
// build is reported and the rest still run, each build writes relative
// outputs under its own subdirectory of the output directory, and a build
// whose report would overwrite an earlier one in the same run fails.
func (c *CLI) runAnalyze(ctx context.Context, inputs []string, opts pipeline.Options, cfg Config, cf cacheFlags) error {
	runner, err := c.newRunner(ctx, cfg, cf)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})

	written := newPathClaims()
	failed := 0
	for _, input := range inputs {
		runOpts := opts
		runOpts.Input = input
		runOpts.Logger = c.Logger
		runOpts.PerBuildDir = runOpts.PerBuildDir || len(inputs) > 1
		runOpts.Reserve = written.reserver(input)

		res, err := c.analyzeOne(ctx, runner, runOpts)
		if err != nil {
			if len(inputs) == 1 || ctx.Err() != nil {
				return err
			}
			printError("%s: %s", input, errors.UserMessage(err))
			failed++
			continue
		}
		printResult(res)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d builds failed", failed, len(inputs))
	}
	return nil
}

// pathClaims remembers which input produced each report path in one run.
type pathClaims map[string]string

func newPathClaims() pathClaims { return make(pathClaims) }

// reserver claims paths for input, failing when another input holds one.
func (pc pathClaims) reserver(input string) func([]string) error {
	return func(paths []string) error {
		for _, p := range paths {
			if prev, ok := pc[claimKey(p)]; ok && prev != input {
				return errors.New(errors.ErrCodeInvalidPath, "%s was already written for %s", p, prev)
			}
		}
		for _, p := range paths {
			pc[claimKey(p)] = input
		}
		return nil
	}
}

func claimKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func (c *CLI) analyzeOne(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	prog := newProgress(c.Logger, opts.Input)
	spinner := newSpinner(os.Stderr, "Loading "+filepath.Base(opts.Input)+"...")
	observability.SetPipelineHooks(stageHooks{spinner: spinner})
	spinner.Start(ctx)

	res, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	prog.done("report ready", "nodes", res.Stats.NodeCount, "cached", res.CacheInfo.LayoutHit)
	return res, nil
}

// printResult summarizes a finished run.
func printResult(res *pipeline.Result) {
	printSuccess("%s %s", StyleTitle.Render(res.Document.BuildName),
		StyleDim.Render(graph.FormatSize(res.Summary.TotalSize)))
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LayoutHit)
	printDetail("%d assets · %d chunks", res.Summary.AssetCount, res.Summary.ChunkCount)
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}
	for _, p := range res.Paths {
		printFile(p)
	}
}
