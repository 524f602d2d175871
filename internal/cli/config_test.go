package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), defaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
output = ["a.html", "b.html"]
format = "svg"
open_on_finish = true
output_dir = "reports"

[layout]
engine = "graphviz"
direction = "LR"
node_width = 200
node_height = 60

[cache]
dir = "/tmp/sg"
redis_addr = "localhost:6379"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	want := Config{
		Output:       []string{"a.html", "b.html"},
		Format:       "svg",
		OpenOnFinish: true,
		OutputDir:    "reports",
		Layout:       LayoutConfig{Engine: "graphviz", Direction: "LR", NodeWidth: 200, NodeHeight: 60},
		Cache:        CacheConfig{Dir: "/tmp/sg", RedisAddr: "localhost:6379"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("loadConfig() = %+v, want %+v", cfg, want)
	}

	opts := cfg.options()
	wantOpts := pipeline.Options{
		Outputs:    []string{"a.html", "b.html"},
		Format:     "svg",
		Open:       true,
		OutputDir:  "reports",
		Engine:     "graphviz",
		Direction:  "LR",
		NodeWidth:  200,
		NodeHeight: 60,
	}
	if !reflect.DeepEqual(opts, wantOpts) {
		t.Errorf("options() = %+v, want %+v", opts, wantOpts)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing explicit file", filepath.Join(t.TempDir(), "nope.toml"), errors.ErrCodeFileNotFound},
		{"unknown key", writeConfig(t, "fromat = \"svg\"\n"), errors.ErrCodeInvalidInput},
		{"unknown nested key", writeConfig(t, "[layout]\nengin = \"layered\"\n"), errors.ErrCodeInvalidInput},
		{"syntax error", writeConfig(t, "format = \n"), errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("loadConfig() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadConfigDefaultAbsent(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Config{}) {
		t.Errorf("loadConfig(\"\") = %+v, want zero", cfg)
	}
}

func TestLoadConfigDefaultPresent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, defaultConfigFile), []byte("format = \"dot\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error = %v", err)
	}
	if cfg.Format != "dot" {
		t.Errorf("Format = %q, want dot", cfg.Format)
	}
}
