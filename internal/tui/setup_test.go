package tui

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/listdeck/listdeck/internal/grid"
	"github.com/listdeck/listdeck/internal/store"
)

// colorProfileMu serializes tests that mutate the global lipgloss color profile.
var colorProfileMu sync.Mutex

// forceColorProfile sets lipgloss to ANSI color output for tests that assert
// on styled output. It acquires colorProfileMu to prevent data races with
// parallel tests and restores the original profile via t.Cleanup.
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(orig)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// fakeSource is an in-memory Source for browser tests.
type fakeSource struct {
	subs    []store.Subscriber
	listErr error
	deleted [][]int64
}

func (f *fakeSource) List(_ context.Context) ([]store.Subscriber, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.subs, nil
}

func (f *fakeSource) Delete(_ context.Context, ids []int64) (int64, error) {
	f.deleted = append(f.deleted, ids)
	return int64(len(ids)), nil
}

// makeSubs creates n subscribers with sequential emails
// (user0000@example.com, ...).
func makeSubs(n int) []store.Subscriber {
	subs := make([]store.Subscriber, n)
	for i := range subs {
		subs[i] = store.Subscriber{
			ID:     int64(i + 1),
			Email:  fmt.Sprintf("user%04d@example.com", i),
			Name:   fmt.Sprintf("User %d", i),
			Domain: "example.com",
			Status: "active",
			Score:  i % 101,
		}
	}
	return subs
}

// TestModelBuilder constructs browser models for testing.
type TestModelBuilder struct {
	subs   []store.Subscriber
	width  int
	height int
	prefs  grid.PrefStore
	source *fakeSource
}

func NewBuilder() *TestModelBuilder {
	return &TestModelBuilder{width: 100, height: 24}
}

func (b *TestModelBuilder) WithSubscribers(subs ...store.Subscriber) *TestModelBuilder {
	b.subs = subs
	return b
}

func (b *TestModelBuilder) WithSize(width, height int) *TestModelBuilder {
	b.width = width
	b.height = height
	return b
}

func (b *TestModelBuilder) WithPrefs(p grid.PrefStore) *TestModelBuilder {
	b.prefs = p
	return b
}

// Build returns a model that has been sized, loaded, and flushed once,
// as if the program had processed its first frame.
func (b *TestModelBuilder) Build(t *testing.T) Model {
	t.Helper()
	b.source = &fakeSource{subs: b.subs}
	m := New(b.source, Options{Version: "test", BufferRows: 3, Prefs: b.prefs})

	m, _ = sendMsg(t, m, tea.WindowSizeMsg{Width: b.width, Height: b.height})
	m, _ = sendMsg(t, m, subscribersLoadedMsg{subs: b.subs})
	return flushFrame(t, m)
}

// Source returns the fake source wired into the last Build.
func (b *TestModelBuilder) Source() *fakeSource {
	return b.source
}

// sendMsg sends any tea.Msg through Update and returns the concrete Model.
func sendMsg(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	newM, cmd := m.Update(msg)
	return newM.(Model), cmd
}

// sendKey sends a key message to the model and returns the updated Model.
func sendKey(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	return sendMsg(t, m, k)
}

// flushFrame delivers frame ticks until the scheduler has no pending pass.
func flushFrame(t *testing.T, m Model) Model {
	t.Helper()
	for i := 0; i < 4; i++ {
		m, _ = sendMsg(t, m, frameMsg{})
		if !m.table.Pending() {
			return m
		}
	}
	t.Fatal("scheduler still pending after repeated flushes")
	return m
}

// typeRunes feeds each rune through Update as a key press.
func typeRunes(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = sendKey(t, m, key(r))
	}
	return m
}

// key returns a KeyMsg for a single rune (e.g., key('x'), key(' ')).
func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyEsc() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyEscape} }
func keyDown() tea.KeyMsg  { return tea.KeyMsg{Type: tea.KeyDown} }
func keyUp() tea.KeyMsg    { return tea.KeyMsg{Type: tea.KeyUp} }

// space is the selection-toggle key; " " parses as KeyRunes with a space rune.
func space() tea.KeyMsg { return key(' ') }

// assertCursor checks the model's cursor position.
func assertCursor(t *testing.T, m Model, want int) {
	t.Helper()
	if m.cursor != want {
		t.Errorf("cursor = %d, want %d", m.cursor, want)
	}
}

// assertSelectedCount checks the table's selection size.
func assertSelectedCount(t *testing.T, m Model, want int) {
	t.Helper()
	if got := m.table.Stats().SelectedCount; got != want {
		t.Errorf("selected count = %d, want %d", got, want)
	}
}
