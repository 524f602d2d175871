// Package cli implements the splitgraph command-line interface.
//
// The commands turn a finished webpack build into a split chunk report:
//   - analyze: run the report pipeline for one or more stats files
//   - serve: serve the interactive report over HTTP
//   - inspect: browse chunk groups in the terminal
//   - cache: manage the layout cache
//   - version: print build information
//
// All commands support --verbose (-v) for debug-level logging and read
// defaults from splitgraph.toml when present.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgraph/pkg/buildinfo"
	"github.com/matzehuels/splitgraph/pkg/cache"
	"github.com/matzehuels/splitgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "splitgraph"

	// redisKeyPrefix scopes layout keys in a shared Redis instance.
	redisKeyPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty means ./splitgraph.toml if present.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Splitgraph visualizes webpack split chunks",
		Long: `Splitgraph reads the stats of a finished webpack build and draws its chunk
groups as a graph: which groups load which, eagerly or through prefetch and
preload hints, and how much each group weighs in production files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+defaultConfigFile+")")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the layout cache backend.
type cacheFlags struct {
	noCache bool
	redis   string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().StringVar(&f.redis, "redis", "", "Redis address or URL for a shared layout cache")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg Config, flags cacheFlags) (*pipeline.Runner, error) {
	ch, keyer, err := c.newCache(ctx, cfg.Cache, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache opens the layout cache. Redis wins over the file cache when an
// address is configured; --no-cache disables both. An unusable cache
// directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg CacheConfig, flags cacheFlags) (cache.Cache, cache.Keyer, error) {
	if flags.noCache {
		return cache.NewNullCache(), nil, nil
	}

	addr := cfg.RedisAddr
	if flags.redis != "" {
		addr = flags.redis
	}
	if addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr, redisKeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.Logger.Debug("using redis layout cache", "addr", addr)
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisKeyPrefix), nil
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(); err != nil {
			c.Logger.Debug("no cache directory", "err", err)
			return cache.NewNullCache(), nil, nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("file cache unavailable", "dir", dir, "err", err)
		return cache.NewNullCache(), nil, nil
	}
	return fc, nil, nil
}
