package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Layer data
// =============================================================================

// layerRow is one bar of a layer as shown by the browser.
type layerRow struct {
	Block    graph.Block
	In, Out  float64
	Incoming []graph.Ribbon
	Outgoing []graph.Ribbon
}

// layerRows groups a layout's bars by layer in their final order. Nodelink
// layouts carry no bars, so their rows hold only the ids from Layers.
func layerRows(l graph.Layout) [][]layerRow {
	byID := make(map[string]*layerRow, len(l.Blocks))
	layers := make([][]layerRow, len(l.Layers))

	if len(l.Blocks) == 0 {
		for i, ids := range l.Layers {
			for pos, id := range ids {
				layers[i] = append(layers[i], layerRow{Block: graph.Block{ID: id, Label: id, Layer: i, Position: pos}})
			}
		}
		return layers
	}

	for _, b := range l.Blocks {
		for b.Layer >= len(layers) {
			layers = append(layers, nil)
		}
		layers[b.Layer] = append(layers[b.Layer], layerRow{Block: b})
	}
	for i := range layers {
		slices.SortStableFunc(layers[i], func(a, b layerRow) int {
			return cmp.Compare(a.Block.Position, b.Block.Position)
		})
		for j := range layers[i] {
			byID[layers[i][j].Block.ID] = &layers[i][j]
		}
	}
	for _, r := range l.Ribbons {
		if src, ok := byID[r.From]; ok {
			src.Out += r.Value
			src.Outgoing = append(src.Outgoing, r)
		}
		if dst, ok := byID[r.To]; ok {
			dst.In += r.Value
			dst.Incoming = append(dst.Incoming, r)
		}
	}
	return layers
}

// layerTable renders the rows of one layer; cursor marks the selected row
// (-1 for none) and offset/height select the visible window.
func layerTable(rows []layerRow, cursor, offset, height int) string {
	end := min(offset+height, len(rows))
	data := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		r := rows[i]
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		data = append(data, []string{
			mark,
			fmt.Sprint(r.Block.Position),
			r.Block.ID,
			r.Block.Label,
			layout.FormatNumber(r.Block.Flow),
			layout.FormatNumber(r.In),
			layout.FormatNumber(r.Out),
			fmt.Sprintf("%.1f", r.Block.Y),
			fmt.Sprintf("%.1f", r.Block.Height),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "ID", "Label", "Flow", "In", "Out", "Y", "Height").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return tableHeaderStyle
			}
			base := lipgloss.NewStyle()
			if col >= 4 {
				base = base.Foreground(colorGray)
			}
			if offset+row == cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})
	return t.Render()
}

// =============================================================================
// LayerBrowserModel - Interactive layer inspection
// =============================================================================

// LayerBrowserModel is the bubbletea model behind `sankey inspect`. Left
// and right switch layers, up and down move between the bars of a layer
// and the ribbons of the selected bar are listed below the table.
type LayerBrowserModel struct {
	Layout graph.Layout
	Layer  int
	Cursor int
	Height int
	Offset int

	rows [][]layerRow
}

// NewLayerBrowserModel creates a browser positioned on the first bar of
// layer 0.
func NewLayerBrowserModel(l graph.Layout) LayerBrowserModel {
	return LayerBrowserModel{
		Layout: l,
		Height: 15,
		rows:   layerRows(l),
	}
}

func (m LayerBrowserModel) Init() tea.Cmd {
	return nil
}

func (m LayerBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Layer > 0 {
				m.setLayer(m.Layer - 1)
			}
		case "right", "l", "tab":
			if m.Layer < len(m.rows)-1 {
				m.setLayer(m.Layer + 1)
			}
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.current())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m *LayerBrowserModel) setLayer(layer int) {
	m.Layer = layer
	m.Cursor = min(m.Cursor, max(len(m.current())-1, 0))
	m.Offset = max(0, m.Cursor-m.Height+1)
}

func (m LayerBrowserModel) current() []layerRow {
	if m.Layer < len(m.rows) {
		return m.rows[m.Layer]
	}
	return nil
}

// Selected returns the bar under the cursor.
func (m LayerBrowserModel) Selected() (graph.Block, bool) {
	rows := m.current()
	if m.Cursor >= len(rows) {
		return graph.Block{}, false
	}
	return rows[m.Cursor].Block, true
}

func (m LayerBrowserModel) View() string {
	var b strings.Builder

	rows := m.current()
	total := 0.0
	for _, r := range rows {
		total += r.Block.Flow
	}

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layer %d/%d", m.Layer+1, max(len(m.rows), 1))))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · flow %s", plural(len(rows), "node"), layout.FormatNumber(total))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ layer  ↑/↓ node  q quit"))
	b.WriteString("\n\n")

	if len(rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		return b.String()
	}

	b.WriteString(layerTable(rows, m.Cursor, m.Offset, m.Height))
	b.WriteString("\n")

	sel := rows[m.Cursor]
	for _, r := range sel.Incoming {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  ← %s  %s", r.From, layout.FormatNumber(r.Value))))
		b.WriteString("\n")
	}
	for _, r := range sel.Outgoing {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  → %s  %s", r.To, layout.FormatNumber(r.Value))))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(rows))))

	return b.String()
}
