package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/splitgraph/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listEntryStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

const (
	// placeholderText is shown while no chunk group is selected.
	placeholderText = "Select a node to see size info"

	// maxModules caps the modules listed per chunk in the detail panel.
	maxModules = 8
)

// =============================================================================
// InspectModel - Chunk group browser
// =============================================================================

// InspectModel is the bubbletea model of the inspect command: a list of
// chunk groups, largest first, and a detail panel for the selected group.
// It never modifies the document.
type InspectModel struct {
	Doc *graph.Document
	IDs []string

	Cursor   int
	Offset   int
	Height   int
	Selected string // empty until a group is chosen with enter
}

// NewInspectModel creates a browser over doc.
func NewInspectModel(doc *graph.Document) InspectModel {
	return InspectModel{
		Doc:    doc,
		IDs:    doc.NodeIDs(),
		Height: 15,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.Selected = ""
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.IDs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(m.IDs) > 0 {
				m.Selected = m.IDs[m.Cursor]
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Doc.BuildName))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc clear  q quit"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.listView()),
		panelStyle.Render(m.detailView()),
	))
	b.WriteString("\n")
	if len(m.IDs) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.IDs))))
	}
	return b.String()
}

func (m InspectModel) listView() string {
	if len(m.IDs) == 0 {
		return listDimStyle.Render("no chunk groups")
	}

	end := min(m.Offset+m.Height, len(m.IDs))
	lines := make([]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		data := m.Doc.Nodes[m.IDs[i]].Data
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-28s %10s", cursor, truncate(data.Name, 28), data.DisplaySize)
		switch {
		case i == m.Cursor:
			line = listSelectedStyle.Render(line)
		case data.EntryPoint:
			line = listEntryStyle.Render(line)
		default:
			line = listNormalStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m InspectModel) detailView() string {
	node, ok := m.Doc.Nodes[m.Selected]
	if !ok {
		return listDimStyle.Render(placeholderText)
	}
	data := node.Data

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(data.Label))
	if data.EntryPoint {
		b.WriteString(" " + StyleSuccess.Render("entry"))
	}
	b.WriteString("\n")

	for _, e := range m.Doc.Edges {
		if e.Source != m.Selected {
			continue
		}
		kind := "eager"
		if e.Data.Kind.IsHinted() {
			kind = string(e.Data.Kind)
		}
		child := m.Doc.Nodes[e.Target].Data.Name
		b.WriteString(StyleDim.Render(fmt.Sprintf("%s %s (%s)", iconArrow, child, kind)))
		b.WriteString("\n")
	}

	for _, ch := range data.Chunks {
		b.WriteString("\n")
		b.WriteString(StyleValue.Render(fmt.Sprintf("%s  %s", ch.Name, ch.DisplaySize)))
		b.WriteString("\n")
		for i, mod := range ch.Modules {
			if i == maxModules {
				b.WriteString(StyleDim.Render(fmt.Sprintf("  … %d more", len(ch.Modules)-maxModules)))
				b.WriteString("\n")
				break
			}
			b.WriteString(StyleDim.Render(fmt.Sprintf("  %-40s %10s", truncate(mod.Name, 40), mod.DisplaySize)))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// Helpers
// =============================================================================

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
