package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/listdeck/listdeck/internal/grid"
)

func TestLoadPopulatesTable(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(50)...).Build(t)

	if got := m.table.VisibleCount(); got != 50 {
		t.Errorf("visible count = %d, want 50", got)
	}
	if m.loading {
		t.Error("loading should clear after data arrives")
	}
}

func TestLoadError(t *testing.T) {
	m := NewBuilder().Build(t)
	m, _ = sendMsg(t, m, subscribersLoadedMsg{err: errors.New("db locked")})

	if m.err == nil {
		t.Fatal("expected error to be recorded")
	}
}

func TestCursorNavigationScrollsWindow(t *testing.T) {
	// height 24 leaves 20 body rows
	m := NewBuilder().WithSubscribers(makeSubs(100)...).Build(t)

	for i := 0; i < 25; i++ {
		m, _ = sendKey(t, m, key('j'))
	}
	m = flushFrame(t, m)

	assertCursor(t, m, 25)
	top := m.table.ScrollPosition()
	if m.cursor < top || m.cursor >= top+m.viewRows {
		t.Errorf("cursor %d outside window [%d, %d)", m.cursor, top, top+m.viewRows)
	}

	// The materialized band must cover the whole window.
	rng := m.table.Range()
	if rng.Start > top || rng.End < top+m.viewRows {
		t.Errorf("band [%d, %d) does not cover window starting at %d", rng.Start, rng.End, top)
	}
}

func TestCursorStopsAtBounds(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(3)...).Build(t)

	m, _ = sendKey(t, m, key('k'))
	assertCursor(t, m, 0)

	for i := 0; i < 10; i++ {
		m, _ = sendKey(t, m, keyDown())
	}
	assertCursor(t, m, 2)
}

func TestHomeEndJump(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(100)...).Build(t)

	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assertCursor(t, m, 99)

	m, _ = sendKey(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assertCursor(t, m, 0)
	if m.table.ScrollPosition() != 0 {
		t.Errorf("home should reset scroll, got %d", m.table.ScrollPosition())
	}
}

func TestToggleAndRangeSelection(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(20)...).Build(t)

	// Toggle row 2, move to 5, extend.
	m, _ = sendKey(t, m, key('j'))
	m, _ = sendKey(t, m, key('j'))
	m, _ = sendKey(t, m, space())
	for i := 0; i < 3; i++ {
		m, _ = sendKey(t, m, key('j'))
	}
	m, _ = sendKey(t, m, key('v'))

	assertSelectedCount(t, m, 4)
	for _, i := range []int{2, 3, 4, 5} {
		if !m.table.Selected(i) {
			t.Errorf("row %d should be selected", i)
		}
	}
}

func TestRangeDeselection(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(20)...).Build(t)

	m, _ = sendKey(t, m, key('a')) // select all
	assertSelectedCount(t, m, 20)

	// Deselect row 0, then extend the deselection to row 4.
	m, _ = sendKey(t, m, space())
	for i := 0; i < 4; i++ {
		m, _ = sendKey(t, m, key('j'))
	}
	m, _ = sendKey(t, m, key('v'))

	assertSelectedCount(t, m, 15)
	if m.table.Selected(3) {
		t.Error("row 3 should be deselected by the extended range")
	}
}

func TestSelectAllAndClear(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(10)...).Build(t)

	m, _ = sendKey(t, m, key('a'))
	assertSelectedCount(t, m, 10)

	m, _ = sendKey(t, m, key('x'))
	assertSelectedCount(t, m, 0)
}

func TestSortCycleAndReverse(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(10)...).Build(t)

	m, _ = sendKey(t, m, key('s'))
	keyName, dir, ok := m.table.SortState()
	if !ok || keyName != "email" || dir != grid.SortAsc {
		t.Fatalf("after s: sort = %q %v %v, want email asc", keyName, dir, ok)
	}

	m, _ = sendKey(t, m, key('r'))
	if _, dir, _ := m.table.SortState(); dir != grid.SortDesc {
		t.Errorf("after r: direction = %v, want desc", dir)
	}

	m, _ = sendKey(t, m, key('s'))
	if keyName, _, _ := m.table.SortState(); keyName != "name" {
		t.Errorf("second s should move to next column, got %q", keyName)
	}
}

func TestSortClearsSelectionAndResetsCursor(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(30)...).Build(t)

	m, _ = sendKey(t, m, space())
	for i := 0; i < 15; i++ {
		m, _ = sendKey(t, m, key('j'))
	}
	m, _ = sendKey(t, m, key('s'))

	assertSelectedCount(t, m, 0)
	assertCursor(t, m, 0)
	if m.table.ScrollPosition() != 0 {
		t.Errorf("sort should reset scroll, got %d", m.table.ScrollPosition())
	}
}

func TestFilterLive(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(100)...).Build(t)

	m, _ = sendKey(t, m, key('/'))
	if !m.searchActive {
		t.Fatal("/ should activate the filter bar")
	}

	m = typeRunes(t, m, "user000")
	if got := m.table.VisibleCount(); got != 10 {
		t.Errorf("filtered count = %d, want 10", got)
	}

	// Enter keeps the filter, esc in browse mode clears it.
	m, _ = sendKey(t, m, keyEnter())
	if m.searchActive {
		t.Error("enter should close the filter bar")
	}
	if got := m.table.VisibleCount(); got != 10 {
		t.Errorf("filter should survive enter, count = %d", got)
	}

	m, _ = sendKey(t, m, keyEsc())
	if got := m.table.VisibleCount(); got != 100 {
		t.Errorf("esc should clear the filter, count = %d", got)
	}
}

func TestFilterEscCancels(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(10)...).Build(t)

	m, _ = sendKey(t, m, key('/'))
	m = typeRunes(t, m, "user0001")
	if got := m.table.VisibleCount(); got != 1 {
		t.Fatalf("filtered count = %d, want 1", got)
	}

	m, _ = sendKey(t, m, keyEsc())
	if m.searchActive {
		t.Error("esc should close the filter bar")
	}
	if got := m.table.VisibleCount(); got != 10 {
		t.Errorf("esc should clear the partial filter, count = %d", got)
	}
}

func TestDeleteFlow(t *testing.T) {
	b := NewBuilder().WithSubscribers(makeSubs(10)...)
	m := b.Build(t)

	m, _ = sendKey(t, m, space())
	m, _ = sendKey(t, m, key('j'))
	m, _ = sendKey(t, m, space())

	m, _ = sendKey(t, m, key('d'))
	if m.modal != modalDeleteConfirm {
		t.Fatal("d should open the delete confirmation")
	}

	m, cmd := sendKey(t, m, key('y'))
	if m.modal != modalNone {
		t.Error("confirming should close the modal")
	}
	if cmd == nil {
		t.Fatal("confirming should return a delete command")
	}

	msg := cmd()
	done, ok := msg.(deleteDoneMsg)
	if !ok {
		t.Fatalf("command returned %T, want deleteDoneMsg", msg)
	}
	if done.removed != 2 {
		t.Errorf("removed = %d, want 2", done.removed)
	}
	if len(b.Source().deleted) != 1 || len(b.Source().deleted[0]) != 2 {
		t.Errorf("source.Delete calls = %v, want one call with 2 ids", b.Source().deleted)
	}

	// Completion flashes and reloads.
	m, cmd = sendMsg(t, m, done)
	if !m.loading {
		t.Error("delete completion should trigger a reload")
	}
	if cmd == nil {
		t.Error("delete completion should return reload commands")
	}
	if m.flashMessage == "" {
		t.Error("delete completion should set a flash message")
	}
}

func TestDeleteWithoutSelectionTargetsCursorRow(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(10)...).Build(t)

	m, _ = sendKey(t, m, key('j'))
	m, _ = sendKey(t, m, key('d'))

	if m.modal != modalDeleteConfirm {
		t.Fatal("d should open the delete confirmation")
	}
	assertSelectedCount(t, m, 1)
	if !m.table.Selected(1) {
		t.Error("cursor row should be selected")
	}
}

func TestDeleteCancel(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(10)...).Build(t)

	m, _ = sendKey(t, m, space())
	m, _ = sendKey(t, m, key('d'))
	m, _ = sendKey(t, m, key('n'))

	if m.modal != modalNone {
		t.Error("n should dismiss the modal")
	}
	assertSelectedCount(t, m, 1)
}

func TestFrameCoalescing(t *testing.T) {
	m := NewBuilder().WithSubscribers(makeSubs(100)...).Build(t)

	// Several mutations between frames arm exactly one tick.
	m, cmd1 := sendKey(t, m, key('j'))
	m, cmd2 := sendKey(t, m, key('j'))
	m, cmd3 := sendKey(t, m, space())

	if cmd1 == nil {
		t.Error("first mutation should arm a frame tick")
	}
	if cmd2 != nil || cmd3 != nil {
		t.Error("later mutations must coalesce into the armed tick")
	}

	passes := m.table.Scheduler().Passes()
	m = flushFrame(t, m)
	if got := m.table.Scheduler().Passes(); got != passes+1 {
		t.Errorf("flush ran %d passes, want 1", got-passes)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{key('q'), {Type: tea.KeyCtrlC}} {
		m := NewBuilder().WithSubscribers(makeSubs(3)...).Build(t)
		m, cmd := sendKey(t, m, k)
		if !m.quitting || cmd == nil {
			t.Errorf("key %q should quit", k.String())
		}
	}
}

func TestSortPersistsAcrossSessions(t *testing.T) {
	prefs := newFakePrefs()

	m := NewBuilder().WithSubscribers(makeSubs(5)...).WithPrefs(prefs).Build(t)
	m, _ = sendKey(t, m, key('s'))
	m, _ = sendKey(t, m, key('r')) // email desc

	m2 := NewBuilder().WithSubscribers(makeSubs(5)...).WithPrefs(prefs).Build(t)
	keyName, dir, ok := m2.table.SortState()
	if !ok || keyName != "email" || dir != grid.SortDesc {
		t.Errorf("restored sort = %q %v %v, want email desc", keyName, dir, ok)
	}
	_ = m
}

// fakePrefs is an in-memory PrefStore.
type fakePrefs struct {
	values map[string]string
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{values: make(map[string]string)}
}

func (f *fakePrefs) Load(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakePrefs) Save(key, value string) error {
	f.values[key] = value
	return nil
}
