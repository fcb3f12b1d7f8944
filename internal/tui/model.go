// Package tui provides the terminal subscriber browser for listdeck.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/listdeck/listdeck/internal/grid"
	"github.com/listdeck/listdeck/internal/store"
)

// chromeLines is the fixed vertical overhead around the row band:
// title bar (1) + table header (1) + separator (1) + footer (1).
const chromeLines = 4

// flashDuration is how long flash messages are displayed.
const flashDuration = 4 * time.Second

// modalType represents the type of modal dialog.
type modalType int

const (
	modalNone modalType = iota
	modalDeleteConfirm
	modalHelp
)

// Source is the data access the browser needs from the store.
type Source interface {
	List(ctx context.Context) ([]store.Subscriber, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
}

// Options configures the browser.
type Options struct {
	Version string
	// BufferRows is the overscan band above and below the viewport.
	BufferRows int
	// Prefs persists per-column sort state across sessions. Optional.
	Prefs grid.PrefStore
}

// Model is the browser model following the Elm architecture. All grid
// state (filtering, sorting, selection, windowing) lives in the embedded
// table; the model owns only terminal concerns: cursor, key handling,
// the search input, and modal state.
type Model struct {
	source  Source
	table   *grid.Table
	surface *termSurface
	version string

	// cursor is a visible-sequence index.
	cursor int
	// anchor is the visible index of the most recent toggle, used as
	// the starting point for range extension.
	anchor int

	width    int
	height   int
	viewRows int

	searchInput  textinput.Model
	searchActive bool

	modal modalType

	flashMessage   string
	flashExpiresAt time.Time

	loading     bool
	err         error
	frameQueued bool
	quitting    bool
}

// New creates a browser over the given source.
func New(source Source, opts Options) Model {
	surface := newTermSurface(subscriberColumns())

	table := grid.New(grid.Options{
		Name:       "subscribers",
		Surface:    surface,
		Prefs:      opts.Prefs,
		RowHeight:  1,
		BufferSize: opts.BufferRows,
	})
	table.SetColumns(subscriberColumns())

	ti := textinput.New()
	ti.Placeholder = "filter subscribers"
	ti.CharLimit = 120
	ti.Width = 40

	return Model{
		source:      source,
		table:       table,
		surface:     surface,
		version:     opts.Version,
		searchInput: ti,
		loading:     true,
		viewRows:    1,
	}
}

// Table exposes the underlying grid for the host and for tests.
func (m Model) Table() *grid.Table {
	return m.table
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadSubscribers()
}

// subscribersLoadedMsg is sent when the subscriber list is loaded.
type subscribersLoadedMsg struct {
	subs []store.Subscriber
	err  error
}

// deleteDoneMsg is sent when a bulk delete completes.
type deleteDoneMsg struct {
	removed int64
	err     error
}

// frameMsg drives one render pass through the scheduler.
type frameMsg struct{}

// flashClearMsg clears the flash message after timeout.
type flashClearMsg struct{}

// loadSubscribers fetches the full subscriber set.
func (m Model) loadSubscribers() tea.Cmd {
	return func() (msg tea.Msg) {
		// Recover from panics to keep the terminal usable
		defer func() {
			if r := recover(); r != nil {
				msg = subscribersLoadedMsg{err: fmt.Errorf("load panic: %v", r)}
			}
		}()
		subs, err := m.source.List(context.Background())
		return subscribersLoadedMsg{subs: subs, err: err}
	}
}

// deleteSelected removes the given subscriber ids from the store.
func (m Model) deleteSelected(ids []int64) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = deleteDoneMsg{err: fmt.Errorf("delete panic: %v", r)}
			}
		}()
		n, err := m.source.Delete(context.Background(), ids)
		return deleteDoneMsg{removed: n, err: err}
	}
}

// queueFrame arms a single frame tick. At most one tick is in flight, so
// any number of mutations between frames coalesces into one render pass.
func (m *Model) queueFrame() tea.Cmd {
	if m.frameQueued {
		return nil
	}
	m.frameQueued = true
	return tea.Tick(grid.FrameBudget, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m *Model) flash(text string) tea.Cmd {
	m.flashMessage = text
	m.flashExpiresAt = time.Now().Add(flashDuration)
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width < 0 {
			m.width = 0
		}
		if m.height < 0 {
			m.height = 0
		}
		m.viewRows = m.height - chromeLines
		if m.viewRows < 1 {
			m.viewRows = 1
		}
		m.table.Resize(m.viewRows)
		m.clampCursor()
		frame := m.queueFrame()
		return m, frame

	case subscribersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.table.SetData(subscriberRows(msg.subs))
		m.table.RestoreSort()
		m.cursor = 0
		m.anchor = 0
		frame := m.queueFrame()
		return m, frame

	case deleteDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		flashCmd := m.flash(fmt.Sprintf("Deleted %d subscribers", msg.removed))
		m.loading = true
		return m, tea.Batch(flashCmd, m.loadSubscribers())

	case frameMsg:
		m.frameQueued = false
		m.table.Flush()
		if m.table.Pending() {
			frame := m.queueFrame()
			return m, frame
		}
		return m, nil

	case flashClearMsg:
		if time.Now().After(m.flashExpiresAt) || m.flashExpiresAt.IsZero() {
			m.flashMessage = ""
		}
		return m, nil
	}

	return m, nil
}

// clampCursor keeps the cursor inside the visible sequence.
func (m *Model) clampCursor() {
	n := m.table.VisibleCount()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// ensureCursorVisible scrolls the window so the cursor row is on screen.
func (m *Model) ensureCursorVisible() {
	top := m.table.ScrollPosition()
	if m.cursor < top {
		m.table.SetScrollPosition(m.cursor)
	} else if m.cursor >= top+m.viewRows {
		m.table.SetScrollPosition(m.cursor - m.viewRows + 1)
	}
}
