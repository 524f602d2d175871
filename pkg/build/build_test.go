package build

import (
	"bytes"
	"reflect"
	"testing"
)

func sample() *Build {
	return &Build{
		Name:       "app",
		OutputPath: "/dist",
		Assets:     []Asset{{Name: "main.js", Size: 1000}},
		ChunkGroups: []ChunkGroup{{
			ID:     "main",
			Chunks: []Chunk{{ID: "0", Files: []string{"main.js"}, Size: 1000}},
			Files:  []string{"main.js"},
		}},
		Entrypoints: []string{"main"},
	}
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sample()); err != nil {
		t.Fatal(err)
	}
	got, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Errorf("Decode() = %+v, want %+v", got, sample())
	}
	if Detect(buf.Bytes()) != FormatSnapshot {
		t.Errorf("Detect(snapshot) = %v", Detect(buf.Bytes()))
	}
}

func TestDecodeRejectsStats(t *testing.T) {
	if _, err := Decode([]byte(`{"outputPath": "/dist", "namedChunkGroups": {}}`)); err == nil {
		t.Error("Decode() accepted a stats document")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{`{"chunkGroups": []}`, FormatSnapshot},
		{`{"namedChunkGroups": {}}`, FormatWebpackStats},
		{`{"chunks": []}`, FormatWebpackStats},
		{`{"children": []}`, FormatWebpackStats},
		{`{"other": 1}`, FormatUnknown},
		{`[1, 2]`, FormatUnknown},
		{`not json`, FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Detect([]byte(tt.in)); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLookups(t *testing.T) {
	b := sample()
	if _, ok := b.Group("main"); !ok {
		t.Error("Group(main) not found")
	}
	if _, ok := b.Group("nope"); ok {
		t.Error("Group(nope) found")
	}
	if !b.IsEntrypoint("main") || b.IsEntrypoint("other") {
		t.Error("IsEntrypoint mismatch")
	}
	if b.ChunkCount() != 1 {
		t.Errorf("ChunkCount() = %d, want 1", b.ChunkCount())
	}
}
