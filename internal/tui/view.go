package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/listdeck/listdeck/internal/grid"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderTitleBar())
	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	view := b.String()
	if m.modal != modalNone {
		return m.renderModal(view)
	}
	return view
}

func (m Model) renderTitleBar() string {
	title := "listdeck"
	if m.version != "" {
		title += " " + m.version
	}
	return padRight(titleBarStyle.Render(title), m.width)
}

func (m Model) renderHeader() string {
	key, dir, ok := m.table.SortState()
	if !ok {
		key = ""
	}
	line := m.surface.renderHeader(key, dir)
	return tableHeaderStyle.Render(padRight(line, m.width))
}

// renderBody maps the materialized band onto the viewport: the painted
// range includes overscan rows above and below the screen, so each
// on-screen line indexes into the band at (row - Range.Start).
func (m Model) renderBody() string {
	if m.err != nil {
		return padRight(errorStyle.Render("Error: "+m.err.Error()), m.width) +
			strings.Repeat("\n"+padRight("", m.width), m.viewRows-1)
	}
	if m.loading {
		return padRight(loadingStyle.Render("Loading..."), m.width) +
			strings.Repeat("\n"+padRight("", m.width), m.viewRows-1)
	}

	p := m.surface.Paint()
	top := m.table.ScrollPosition()

	lines := make([]string, 0, m.viewRows)
	for row := top; row < top+m.viewRows; row++ {
		if row < p.Range.Start || row >= p.Range.End {
			lines = append(lines, padRight("", m.width))
			continue
		}
		text := m.surface.renderRow(p.Rows[row-p.Range.Start])

		marker := "  "
		style := normalRowStyle
		if p.Selected[row] {
			marker = "✓ "
			style = selectedRowStyle
		}
		if row == m.cursor {
			style = cursorRowStyle
		}
		lines = append(lines, style.Render(padRight(marker+text, m.width)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	if m.searchActive {
		return footerStyle.Render(padRight("/ "+m.searchInput.View(), m.width-2))
	}

	stats := m.table.Stats()
	parts := []string{
		fmt.Sprintf("%s of %s", formatCount(m.table.VisibleCount()), formatCount(stats.TotalRows)),
	}
	if stats.SelectedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", stats.SelectedCount))
	}
	if key, dir, ok := m.table.SortState(); ok {
		arrow := "↑"
		if dir == grid.SortDesc {
			arrow = "↓"
		}
		parts = append(parts, "sort "+key+" "+arrow)
	}
	if m.searchInput.Value() != "" {
		parts = append(parts, "filter: "+m.searchInput.Value())
	}
	if stats.FrameDropped {
		parts = append(parts, "frame!")
	}
	if m.flashMessage != "" {
		parts = append(parts, flashStyle.Render(m.flashMessage))
	}
	parts = append(parts, "?: help")

	return footerStyle.Render(padRight(strings.Join(parts, " · "), m.width-2))
}

func (m Model) renderModal(background string) string {
	var content string
	switch m.modal {
	case modalDeleteConfirm:
		n := m.table.Stats().SelectedCount
		content = fmt.Sprintf("Delete %d subscribers?\n\n[y] delete  [n] cancel", n)
	case modalHelp:
		content = strings.Join([]string{
			"j/k, ↑/↓      move cursor",
			"pgup/pgdn     page",
			"home/end, G   jump",
			"space         toggle selection",
			"v             extend selection to cursor",
			"a / x         select all / clear",
			"s / r         next sort column / reverse",
			"/             filter",
			"d             delete selected",
			"q             quit",
		}, "\n")
	default:
		return background
	}

	box := modalStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
