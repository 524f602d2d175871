package cli

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/pipeline"
)

// defaultConfigFile is read from the working directory when --config is not set.
const defaultConfigFile = "splitgraph.toml"

// Config is the splitgraph.toml file. Zero values leave pipeline defaults in
// place.
//
//	output = ["report.html"]
//	format = "html"
//	open_on_finish = true
//	output_dir = "dist"
//
//	[layout]
//	engine = "layered"
//	node_width = 170
//	node_height = 55
//
//	[cache]
//	redis_addr = "localhost:6379"
type Config struct {
	Output       []string     `toml:"output"`
	Format       string       `toml:"format"`
	OpenOnFinish bool         `toml:"open_on_finish"`
	OutputDir    string       `toml:"output_dir"`
	Layout       LayoutConfig `toml:"layout"`
	Cache        CacheConfig  `toml:"cache"`
}

// LayoutConfig is the [layout] table.
type LayoutConfig struct {
	Engine     string  `toml:"engine"`
	Direction  string  `toml:"direction"`
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// loadConfig reads the config file at path. With an empty path it reads
// ./splitgraph.toml and returns an empty Config when that file is absent.
// Unknown keys are rejected so typos do not pass silently.
func loadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// options converts the file values into pipeline options.
func (cfg Config) options() pipeline.Options {
	return pipeline.Options{
		Outputs:    append([]string(nil), cfg.Output...),
		Format:     cfg.Format,
		Open:       cfg.OpenOnFinish,
		OutputDir:  cfg.OutputDir,
		Engine:     cfg.Layout.Engine,
		Direction:  cfg.Layout.Direction,
		NodeWidth:  cfg.Layout.NodeWidth,
		NodeHeight: cfg.Layout.NodeHeight,
	}
}
