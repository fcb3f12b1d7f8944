package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/listdeck/listdeck/internal/grid"
)

// handleKeyPress processes keyboard input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchActive {
		return m.handleSearchKeys(msg)
	}
	if m.modal != modalNone {
		return m.handleModalKeys(msg)
	}
	return m.handleBrowseKeys(msg)
}

// handleSearchKeys handles keys while the filter bar is focused. The
// filter is applied live on every keystroke: the dataset is in memory,
// so there is nothing to debounce.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.table.Search("")
		m.clampCursor()
		frame := m.queueFrame()
		return m, frame

	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.table.Search(m.searchInput.Value())
		m.cursor = 0
		m.anchor = 0
		frame := m.queueFrame()
		return m, tea.Batch(cmd, frame)
	}
}

// handleModalKeys handles keys while a modal dialog is open.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalDeleteConfirm:
		switch msg.String() {
		case "y", "Y", "enter":
			m.modal = modalNone
			ids := rowIDs(m.table.SelectedRows())
			if len(ids) == 0 {
				return m, nil
			}
			return m, m.deleteSelected(ids)
		case "n", "N", "esc", "q":
			m.modal = modalNone
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case modalHelp:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			m.modal = modalNone
			return m, nil
		}
	}
	return m, nil
}

// handleBrowseKeys handles keys in the main list view.
func (m Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.table.Search("")
			m.clampCursor()
			frame := m.queueFrame()
			return m, frame
		}
		return m, nil

	// Filter bar
	case "/":
		m.searchActive = true
		m.searchInput.Focus()
		return m, textinput.Blink

	// Navigation
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		frame := m.queueFrame()
		return m, frame
	case "down", "j":
		if m.cursor < m.table.VisibleCount()-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		frame := m.queueFrame()
		return m, frame
	case "pgup", "ctrl+u":
		m.cursor -= m.viewRows
		m.clampCursor()
		m.ensureCursorVisible()
		frame := m.queueFrame()
		return m, frame
	case "pgdown", "ctrl+d":
		m.cursor += m.viewRows
		m.clampCursor()
		m.ensureCursorVisible()
		frame := m.queueFrame()
		return m, frame
	case "home":
		m.cursor = 0
		m.table.SetScrollPosition(0)
		frame := m.queueFrame()
		return m, frame
	case "end", "G":
		m.cursor = m.table.VisibleCount() - 1
		m.clampCursor()
		m.ensureCursorVisible()
		frame := m.queueFrame()
		return m, frame

	// Selection
	case " ":
		if m.table.VisibleCount() > 0 {
			m.table.ToggleSelection(m.cursor)
			m.anchor = m.cursor
		}
		frame := m.queueFrame()
		return m, frame
	case "v":
		if m.table.VisibleCount() > 0 {
			m.table.SelectRange(m.anchor, m.cursor)
		}
		frame := m.queueFrame()
		return m, frame
	case "a":
		m.table.SelectAll()
		frame := m.queueFrame()
		return m, frame
	case "x":
		m.table.ClearSelection()
		frame := m.queueFrame()
		return m, frame

	// Sorting: 's' cycles through the sortable columns, 'r' re-sorts
	// the active column, which flips its direction.
	case "s":
		if key := m.nextSortKey(); key != "" {
			m.table.Sort(key)
			m.cursor = 0
			m.anchor = 0
			m.table.SetScrollPosition(0)
		}
		frame := m.queueFrame()
		return m, frame
	case "r":
		if key, _, ok := m.table.SortState(); ok {
			m.table.Sort(key)
		}
		frame := m.queueFrame()
		return m, frame

	// Delete selection
	case "d", "D":
		if m.table.Stats().SelectedCount == 0 {
			if m.table.VisibleCount() == 0 {
				return m, nil
			}
			m.table.ToggleSelection(m.cursor)
			m.anchor = m.cursor
		}
		m.modal = modalDeleteConfirm
		frame := m.queueFrame()
		return m, frame

	// Help
	case "?":
		m.modal = modalHelp
		return m, nil
	}

	return m, nil
}

// nextSortKey returns the sortable column after the currently sorted
// one, wrapping around; with no active sort it returns the first
// sortable column.
func (m Model) nextSortKey() string {
	var sortable []grid.Column
	for _, col := range m.table.Columns() {
		if col.Sortable {
			sortable = append(sortable, col)
		}
	}
	if len(sortable) == 0 {
		return ""
	}
	current, _, ok := m.table.SortState()
	if !ok {
		return sortable[0].Key
	}
	for i, col := range sortable {
		if col.Key == current {
			return sortable[(i+1)%len(sortable)].Key
		}
	}
	return sortable[0].Key
}
