package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/splitgraph/pkg/graph"
)

func inspectDocument() *graph.Document {
	node := func(id string, size int64, entry bool, chunks ...graph.ChunkData) graph.Node {
		return graph.Node{ID: id, Data: graph.NewNodeData(id, size, entry, chunks)}
	}
	return &graph.Document{
		BuildName: "storefront",
		Nodes: map[string]graph.Node{
			"main": node("main", 2000, true, graph.ChunkData{
				Name: "main.js", Size: 2000, DisplaySize: "2.0 kB",
				Modules: []graph.ModuleData{{Name: "./src/app.js", Size: 700, DisplaySize: "700 B"}},
			}),
			"charts":   node("charts", 1200, false),
			"settings": node("settings", 800, false),
		},
		Edges: []graph.Edge{
			{ID: "0", Source: "main", Target: "charts", Data: graph.EdgeData{Kind: graph.EdgeKindPrefetch}},
			{ID: "1", Source: "main", Target: "settings"},
		},
	}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestInspectModelOrder(t *testing.T) {
	m := NewInspectModel(inspectDocument())
	want := []string{"main", "charts", "settings"}
	if strings.Join(m.IDs, ",") != strings.Join(want, ",") {
		t.Errorf("IDs = %v, want %v", m.IDs, want)
	}
}

func TestInspectModelNavigation(t *testing.T) {
	tests := []struct {
		name         string
		keys         []string
		wantCursor   int
		wantSelected string
	}{
		{"initial", nil, 0, ""},
		{"down", []string{"down"}, 1, ""},
		{"vim keys", []string{"j", "j", "k"}, 1, ""},
		{"clamped at end", []string{"down", "down", "down", "down"}, 2, ""},
		{"clamped at start", []string{"up"}, 0, ""},
		{"select", []string{"down", "enter"}, 1, "charts"},
		{"clear", []string{"enter", "esc"}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewInspectModel(inspectDocument()), tt.keys...).(InspectModel)
			if m.Cursor != tt.wantCursor || m.Selected != tt.wantSelected {
				t.Errorf("cursor = %d, selected = %q; want %d, %q",
					m.Cursor, m.Selected, tt.wantCursor, tt.wantSelected)
			}
		})
	}
}

func TestInspectModelView(t *testing.T) {
	m := press(NewInspectModel(inspectDocument())).(InspectModel)
	view := m.View()
	if !strings.Contains(view, placeholderText) {
		t.Errorf("view without selection lacks placeholder:\n%s", view)
	}

	m = press(m, "enter").(InspectModel)
	view = m.View()
	for _, want := range []string{"main (2.0 kB)", "entry", "charts (prefetch)", "settings (eager)", "main.js", "./src/app.js"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, placeholderText) {
		t.Error("placeholder shown with a selection")
	}
}

func TestInspectModelQuit(t *testing.T) {
	_, cmd := NewInspectModel(inspectDocument()).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q did not return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestInspectModelEmpty(t *testing.T) {
	m := press(NewInspectModel(&graph.Document{BuildName: "empty", Nodes: map[string]graph.Node{}}), "down", "enter").(InspectModel)
	if m.Selected != "" {
		t.Errorf("Selected = %q in an empty document", m.Selected)
	}
	if !strings.Contains(m.View(), "no chunk groups") {
		t.Error("empty view lacks notice")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"./node_modules/lodash/lodash.js", 10, "./node_mo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
