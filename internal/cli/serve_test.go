package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/splitgraph/pkg/graph"
	"github.com/matzehuels/splitgraph/pkg/report"
)

func fixtureDocument(t *testing.T) *graph.Document {
	t.Helper()
	c := New(io.Discard, LogInfo)
	doc, err := c.loadDocument(context.Background(), statsFixture, cacheFlags{noCache: true})
	if err != nil {
		t.Fatalf("loadDocument() error = %v", err)
	}
	return doc
}

func TestReportHandler(t *testing.T) {
	doc := fixtureDocument(t)
	h, err := newReportHandler(context.Background(), doc, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(h)
	defer srv.Close()

	tests := []struct {
		path        string
		status      int
		contentType string
		check       func(t *testing.T, body []byte)
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8", func(t *testing.T, body []byte) {
			got, err := report.ParseDocument(body)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, doc) {
				t.Error("served page embeds a different document")
			}
		}},
		{"/data.json", http.StatusOK, "application/json", func(t *testing.T, body []byte) {
			got, err := graph.Unmarshal(body)
			if err != nil {
				t.Fatal(err)
			}
			if got.BuildName != doc.BuildName || len(got.Nodes) != len(doc.Nodes) {
				t.Errorf("data.json = %s with %d nodes", got.BuildName, len(got.Nodes))
			}
		}},
		{"/healthz", http.StatusOK, "", func(t *testing.T, body []byte) {
			if string(body) != "ok" {
				t.Errorf("healthz body = %q", body)
			}
		}},
		{"/missing", http.StatusNotFound, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.contentType != "" && resp.Header.Get("Content-Type") != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", resp.Header.Get("Content-Type"), tt.contentType)
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestLoadDocumentFromReport(t *testing.T) {
	doc := fixtureDocument(t)
	page, err := report.HTMLEmitter{}.Emit(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "report.HTML")
	if err := os.WriteFile(path, page, 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	got, err := c.loadDocument(context.Background(), path, cacheFlags{noCache: true})
	if err != nil {
		t.Fatalf("loadDocument() error = %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Error("document read back from the report differs")
	}
}

func TestIsReport(t *testing.T) {
	tests := map[string]bool{
		"report.html":      true,
		"dist/REPORT.HTM":  true,
		"stats.json":       false,
		"split-chunks.svg": false,
		"html":             false,
	}
	for path, want := range tests {
		if got := isReport(path); got != want {
			t.Errorf("isReport(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := New(io.Discard, LogInfo)
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})

	done := make(chan error, 1)
	go func() { done <- c.serve(ctx, "127.0.0.1:0", h, false) }()
	cancel()

	if err := <-done; err != nil && !strings.Contains(err.Error(), "closed") {
		t.Errorf("serve() error = %v", err)
	}
}
