package webpack

import (
	"os"
	"reflect"
	"testing"

	"github.com/matzehuels/splitgraph/pkg/build"
	"github.com/matzehuels/splitgraph/pkg/errors"
)

func loadFixture(t *testing.T) *build.Build {
	t.Helper()
	data, err := os.ReadFile("testdata/stats.json")
	if err != nil {
		t.Fatal(err)
	}
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, err := Convert(s)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	return b
}

func TestConvertIdentity(t *testing.T) {
	b := loadFixture(t)

	if b.Name != "storefront" || b.Hash != "4f2c9b1e7d0a6c35" || b.OutputPath != "/srv/storefront/dist" {
		t.Errorf("identity = %q %q %q", b.Name, b.Hash, b.OutputPath)
	}
	if !reflect.DeepEqual(b.Entrypoints, []string{"main"}) {
		t.Errorf("Entrypoints = %v", b.Entrypoints)
	}
	if len(b.Assets) != 6 {
		t.Fatalf("len(Assets) = %d, want 6", len(b.Assets))
	}
	if a, _ := b.Asset("main.js.map"); !a.Info.Development {
		t.Errorf("main.js.map not flagged development: %+v", a)
	}
}

func TestConvertGroups(t *testing.T) {
	b := loadFixture(t)

	var ids []string
	for _, g := range b.ChunkGroups {
		ids = append(ids, g.ID)
	}
	want := []string{"main", "settings", "charts", "chunk-3"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("group ids = %v, want %v", ids, want)
	}

	main, _ := b.Group("main")
	if !reflect.DeepEqual(main.Children, []string{"settings", "charts", "chunk-3"}) {
		t.Errorf("main.Children = %v", main.Children)
	}
	if !reflect.DeepEqual(main.Prefetch, []string{"charts"}) {
		t.Errorf("main.Prefetch = %v", main.Prefetch)
	}
	if !reflect.DeepEqual(main.Preload, []string{"settings"}) {
		t.Errorf("main.Preload = %v", main.Preload)
	}
	if !reflect.DeepEqual(main.Files, []string{"main.js"}) {
		t.Errorf("main.Files = %v", main.Files)
	}
	if len(main.Origins) != 1 || main.Origins[0].Request != "./src/index.js" {
		t.Errorf("main.Origins = %v", main.Origins)
	}

	lazy, _ := b.Group("chunk-3")
	if lazy.Name != "" {
		t.Errorf("synthetic group name = %q, want empty", lazy.Name)
	}
	if !reflect.DeepEqual(lazy.Files, []string{"3.js"}) {
		t.Errorf("synthetic group files = %v", lazy.Files)
	}
	if lazy.HasChildren() {
		t.Errorf("leaf group has children: %v", lazy.Children)
	}
	if lazy.Origins[0].Request != "./lazy/widget.js" {
		t.Errorf("synthetic group origin = %v", lazy.Origins)
	}

	charts, _ := b.Group("charts")
	mods := charts.Chunks[0].Modules
	if len(mods) != 2 || mods[1].Name != "" || mods[1].Size != 150 {
		t.Errorf("charts modules = %+v", mods)
	}
}

func TestConvertWebpack4Shapes(t *testing.T) {
	data := []byte(`{
		"hash": "abc",
		"outputPath": "/dist",
		"assets": [{"name": "main.js", "size": 10}, {"name": "vendor.js", "size": 20}],
		"chunks": [
			{"id": "main", "names": ["main"], "files": ["main.js"], "size": 10, "parents": [], "children": ["vendor"]},
			{"id": "vendor", "names": ["vendor"], "files": ["vendor.js"], "size": 20, "parents": ["main"]}
		],
		"entrypoints": {"main": {"chunks": ["main"], "assets": ["main.js"]}},
		"namedChunkGroups": {
			"main": {"chunks": ["main"], "assets": ["main.js"], "children": {"preload": ["vendor"]}},
			"vendor": {"chunks": ["vendor"], "assets": ["vendor.js"]}
		}
	}`)
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, err := Convert(s)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	main, ok := b.Group("main")
	if !ok {
		t.Fatal("main group missing")
	}
	if main.Name != "main" {
		t.Errorf("main.Name = %q, want key fallback", main.Name)
	}
	if !reflect.DeepEqual(main.Preload, []string{"vendor"}) || !reflect.DeepEqual(main.Children, []string{"vendor"}) {
		t.Errorf("main children=%v preload=%v", main.Children, main.Preload)
	}
}

func TestConvertSharedChunk(t *testing.T) {
	// "shared" sits in both async groups; only the group whose own chunk is
	// parented by an entry becomes that entry's child.
	data := []byte(`{
		"outputPath": "/dist",
		"chunks": [
			{"id": 1, "files": ["a.js"], "parents": []},
			{"id": 2, "files": ["b.js"], "parents": []},
			{"id": 3, "files": ["x.js"], "parents": [1]},
			{"id": 4, "files": ["y.js"], "parents": [2]},
			{"id": 5, "files": ["shared.js"], "parents": [1, 2]}
		],
		"namedChunkGroups": {
			"a": {"chunks": [1]},
			"b": {"chunks": [2]},
			"x": {"chunks": [3, 5]},
			"y": {"chunks": [4, 5]}
		}
	}`)
	s, _ := Parse(data)
	b, err := Convert(s)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := b.Group("a")
	if !reflect.DeepEqual(a.Children, []string{"x"}) {
		t.Errorf("a.Children = %v, want [x]", a.Children)
	}
	x, _ := b.Group("x")
	if !reflect.DeepEqual(x.Files, []string{"x.js", "shared.js"}) {
		t.Errorf("x.Files = %v, want chunk file fallback", x.Files)
	}
}

func TestConvertModuleFallback(t *testing.T) {
	data := []byte(`{
		"outputPath": "/dist",
		"chunks": [{"id": 7, "files": ["main.js"], "size": 30}],
		"modules": [
			{"name": "./a.js", "size": 10, "chunks": [7]},
			{"name": "./b.js", "size": 20, "chunks": [7, 8]}
		],
		"entrypoints": {"main": {"chunks": [7]}}
	}`)
	s, _ := Parse(data)
	b, err := Convert(s)
	if err != nil {
		t.Fatal(err)
	}
	main, ok := b.Group("main")
	if !ok {
		t.Fatal("entry point group missing")
	}
	if got := len(main.Chunks[0].Modules); got != 2 {
		t.Errorf("modules from top-level list = %d, want 2", got)
	}
}

func TestConvertMultiCompiler(t *testing.T) {
	data := []byte(`{"children": [{"name": "client", "outputPath": "/dist", "chunks": [{"id": 0, "files": ["c.js"]}]}]}`)
	s, _ := Parse(data)
	b, err := Convert(s)
	if err != nil {
		t.Fatal(err)
	}
	if b.Name != "client" || len(b.ChunkGroups) != 1 {
		t.Errorf("converted %+v", b)
	}
}

func TestConvertEmpty(t *testing.T) {
	if _, err := Convert(&Stats{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Convert(empty) error = %v, want INVALID_INPUT", err)
	}
}

func TestIDUnmarshal(t *testing.T) {
	tests := map[string]ID{`42`: "42", `"vendors-node_modules_a"`: "vendors-node_modules_a", `-1`: "-1"}
	for in, want := range tests {
		var id ID
		if err := id.UnmarshalJSON([]byte(in)); err != nil {
			t.Fatalf("UnmarshalJSON(%s) error = %v", in, err)
		}
		if id != want {
			t.Errorf("UnmarshalJSON(%s) = %q, want %q", in, id, want)
		}
	}
}
