package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/splitgraph/pkg/errors"
	"github.com/matzehuels/splitgraph/pkg/pipeline"
	"github.com/matzehuels/splitgraph/pkg/report"
)

const statsFixture = "../../pkg/build/webpack/testdata/stats.json"

func TestAnalyzeFlagsOverride(t *testing.T) {
	flags := analyzeFlags{
		outputs:   []string{"flag.html"},
		format:    "svg",
		engine:    "graphviz",
		nodeWidth: 300,
		refresh:   true,
	}
	changed := map[string]bool{"output": true, "engine": true}
	opts := pipeline.Options{
		Outputs:   []string{"file.html"},
		Format:    "png",
		Engine:    "layered",
		NodeWidth: 200,
	}

	flags.override(func(name string) bool { return changed[name] }, &opts)

	want := pipeline.Options{
		Outputs:   []string{"flag.html"},
		Format:    "png",
		Engine:    "graphviz",
		NodeWidth: 200,
		Refresh:   true,
	}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("override() = %+v, want %+v", opts, want)
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a/stats.json", "b/stats.json", "b/deep/stats.json", "b/other.json"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name     string
		patterns []string
		want     int
		code     errors.Code
	}{
		{"literal file", []string{filepath.Join(dir, "a/stats.json")}, 1, ""},
		{"recursive glob", []string{filepath.Join(dir, "**/stats.json")}, 3, ""},
		{"duplicates dropped", []string{filepath.Join(dir, "a/stats.json"), filepath.Join(dir, "*/stats.json")}, 2, ""},
		{"no match", []string{filepath.Join(dir, "missing.json")}, 0, errors.ErrCodeFileNotFound},
		{"bad pattern", []string{filepath.Join(dir, "[")}, 0, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandInputs(tt.patterns)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("expandInputs() error = %v, want code %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("expandInputs() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expandInputs() = %v, want %d files", got, tt.want)
			}
		})
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "analyze", statsFixture,
		"--no-cache",
		"--output-dir", dir,
		"-o", "one.html", "-o", "two.html")
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	for _, name := range []string{"one.html", "two.html"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		doc, err := report.ParseDocument(data)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if doc.BuildName != "storefront" || len(doc.Nodes) != 4 {
			t.Errorf("%s: document = %s with %d nodes", name, doc.BuildName, len(doc.Nodes))
		}
	}
}

func TestAnalyzeCommandConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "format = \"dot\"\noutput = [\"graph\"]\noutput_dir = \""+filepath.ToSlash(dir)+"\"\n")

	if _, err := runCLI(t, "--config", cfg, "analyze", statsFixture, "--no-cache"); err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "graph.dot")); err != nil {
		t.Errorf("config-driven output missing: %v", err)
	}

	// An explicit flag beats the file.
	if _, err := runCLI(t, "--config", cfg, "analyze", statsFixture, "--no-cache", "-t", "gv"); err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "graph.gv")); err != nil {
		t.Errorf("flag-driven output missing: %v", err)
	}
}

func TestAnalyzeCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"analyze", "does-not-exist.json", "--no-cache"}, errors.ErrCodeFileNotFound},
		{"bad format", []string{"analyze", statsFixture, "--no-cache", "-t", "bmp"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRunAnalyzeContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, LogInfo)
	opts := pipeline.Options{OutputDir: dir}

	err := c.runAnalyze(context.Background(), []string{bad, statsFixture}, opts, Config{}, cacheFlags{noCache: true})
	if err == nil {
		t.Fatal("runAnalyze() succeeded with a broken input")
	}
	if _, err := os.Stat(filepath.Join(dir, "storefront", report.DefaultOutput)); err != nil {
		t.Errorf("valid build was not reported after a failure: %v", err)
	}
}

// namedStats writes a copy of the stats fixture renamed to name.
func namedStats(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(statsFixture)
	if err != nil {
		t.Fatal(err)
	}
	data = bytes.Replace(data, []byte(`"name": "storefront"`), []byte(`"name": "`+name+`"`), 1)
	path := filepath.Join(dir, name, "stats.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeSeveralBuildsSharedOutputDir(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	shop := namedStats(t, in, "shop")
	admin := namedStats(t, in, "admin")

	if _, err := runCLI(t, "analyze", shop, admin, "--no-cache", "--output-dir", out); err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	for _, name := range []string{"shop", "admin"} {
		data, err := os.ReadFile(filepath.Join(out, name, report.DefaultOutput))
		if err != nil {
			t.Fatalf("report for %s: %v", name, err)
		}
		doc, err := report.ParseDocument(data)
		if err != nil {
			t.Fatal(err)
		}
		if doc.BuildName != name {
			t.Errorf("report under %s/ is for build %q", name, doc.BuildName)
		}
	}
	if _, err := os.Stat(filepath.Join(out, report.DefaultOutput)); err == nil {
		t.Error("report written to the shared output dir root")
	}
}

func TestAnalyzeRefusesOverwriteWithinRun(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	first := namedStats(t, filepath.Join(in, "a"), "shop")
	second := namedStats(t, filepath.Join(in, "b"), "shop")

	c := New(io.Discard, LogInfo)
	err := c.runAnalyze(context.Background(), []string{first, second}, pipeline.Options{OutputDir: out}, Config{}, cacheFlags{noCache: true})
	if err == nil {
		t.Fatal("runAnalyze() let two builds write the same report")
	}
	if _, err := os.Stat(filepath.Join(out, "shop", report.DefaultOutput)); err != nil {
		t.Errorf("first build was not reported: %v", err)
	}
}
