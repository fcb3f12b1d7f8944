package grid

import (
	"fmt"
	"strings"
)

// Options configures a Table.
type Options struct {
	// Name is the per-instance component name used to key persisted
	// preferences (sort state).
	Name string

	Surface Surface
	Prefs   PrefStore

	// RowHeight is the uniform height of one row; defaults to 1.
	RowHeight      int
	ViewportHeight int
	BufferSize     int
}

// Stats is the performance snapshot exposed to the host.
type Stats struct {
	TotalRows     int
	VisibleRows   int
	FrameDropped  bool
	ScrollTop     int
	SelectedCount int
}

// Table is the public face of the data-grid engine. It wires the dataset
// store, windowing, selection, layout sync, and the render scheduler
// behind the operation set the host sees. All methods are synchronous
// and none of them fail: out-of-range mutations are no-ops and invalid
// configuration degrades to identity behavior, because nothing may
// interrupt the scroll/render loop.
type Table struct {
	name    string
	data    *Dataset
	sel     *Selection
	vp      Viewport
	layout  *LayoutSync
	sched   *Scheduler
	surface Surface
	prefs   PrefStore

	rng Range

	savedSortKey string
	savedSortDir SortDirection
	savedSortOK  bool

	subs   map[EventKind]map[int]Handler
	nextID int
}

// New creates a table and loads any persisted sort state for its name.
// The loaded state is applied by RestoreSort, not implicitly, because
// SetData guarantees insertion order.
func New(opts Options) *Table {
	rowHeight := opts.RowHeight
	if rowHeight <= 0 {
		rowHeight = 1
	}
	bufferSize := opts.BufferSize
	if bufferSize < 0 {
		bufferSize = 0
	}
	t := &Table{
		name:    opts.Name,
		data:    NewDataset(),
		sel:     NewSelection(),
		layout:  NewLayoutSync(),
		sched:   NewScheduler(),
		surface: opts.Surface,
		prefs:   opts.Prefs,
		vp: Viewport{
			ViewportHeight: opts.ViewportHeight,
			RowHeight:      rowHeight,
			BufferSize:     bufferSize,
		},
		subs: make(map[EventKind]map[int]Handler),
	}
	t.loadSortPref()
	return t
}

// Subscribe registers a handler for one event kind and returns its
// unsubscribe function.
func (t *Table) Subscribe(kind EventKind, h Handler) func() {
	if t.subs[kind] == nil {
		t.subs[kind] = make(map[int]Handler)
	}
	id := t.nextID
	t.nextID++
	t.subs[kind][id] = h
	return func() {
		delete(t.subs[kind], id)
	}
}

func (t *Table) emit(e Event) {
	for _, h := range t.subs[e.Kind] {
		h(e)
	}
}

// SetColumns replaces the column descriptors and re-arms layout sync.
func (t *Table) SetColumns(cols []Column) {
	t.data.SetColumns(cols)
	t.layout.Invalidate()
	t.sched.Schedule()
}

// SetData replaces the full row set: sort and filter reset to identity,
// the selection is cleared, and scroll returns to the top.
func (t *Table) SetData(rows []Row) {
	t.data.SetData(rows)
	t.clearSelectionAfterRebuild()
	t.vp.ScrollOffset = 0
	t.sched.Schedule()
	t.emit(Event{Kind: EventDataChanged})
}

// AddRow appends to the raw backing store.
func (t *Table) AddRow(row Row) {
	t.data.AddRow(row)
	t.sel.Prune(t.data.VisibleCount())
	t.sched.Schedule()
	t.emit(Event{Kind: EventDataChanged})
}

// RemoveRow removes the row at raw index i; out-of-range is a no-op.
func (t *Table) RemoveRow(i int) {
	before := t.data.RawCount()
	t.data.RemoveRow(i)
	if t.data.RawCount() == before {
		return
	}
	t.sel.Prune(t.data.VisibleCount())
	t.sched.Schedule()
	t.emit(Event{Kind: EventDataChanged})
}

// UpdateRow merges patch into the row at raw index i; out-of-range is a
// no-op.
func (t *Table) UpdateRow(i int, patch Row) {
	if i < 0 || i >= t.data.RawCount() {
		return
	}
	t.data.UpdateRow(i, patch)
	t.sel.Prune(t.data.VisibleCount())
	t.sched.Schedule()
	t.emit(Event{Kind: EventDataChanged})
}

// Sort sorts by the given column (toggling direction on repeat), clears
// the selection, and persists the new sort state. Unknown or unsortable
// columns are a no-op.
func (t *Table) Sort(columnKey string) {
	if !t.data.Sort(columnKey) {
		return
	}
	t.clearSelectionAfterRebuild()
	t.saveSortPref()
	t.sched.Schedule()
	key, dir, _ := t.data.SortState()
	t.emit(Event{Kind: EventSortChanged, SortKey: key, SortDir: dir})
}

// RestoreSort applies the sort state loaded from the preference store,
// if any. Call after the initial SetData; reports whether a persisted
// state existed and applied.
func (t *Table) RestoreSort() bool {
	if !t.savedSortOK {
		return false
	}
	if !t.data.RestoreSortState(t.savedSortKey, t.savedSortDir) {
		return false
	}
	t.clearSelectionAfterRebuild()
	t.sched.Schedule()
	t.emit(Event{Kind: EventSortChanged, SortKey: t.savedSortKey, SortDir: t.savedSortDir})
	return true
}

// Filter replaces the active predicate wholesale and clears the
// selection. A nil predicate clears filtering.
func (t *Table) Filter(pred func(Row) bool) {
	t.data.Filter(pred)
	t.afterFilterChange()
}

// FilterFields filters by case-insensitive substring match across the
// given keys, AND semantics. An empty mapping clears filtering.
func (t *Table) FilterFields(fields map[string]string) {
	t.data.FilterFields(fields)
	t.afterFilterChange()
}

// Search filters rows whose serialized form contains query,
// case-insensitively. Same replacement semantics as Filter.
func (t *Table) Search(query string) {
	t.data.Search(query)
	t.afterFilterChange()
}

func (t *Table) afterFilterChange() {
	t.clearSelectionAfterRebuild()
	// Scroll is not reset here; materialization re-clamps the offset if
	// the filtered sequence is shorter than the old scroll position.
	t.sched.Schedule()
	t.emit(Event{Kind: EventDataChanged})
}

// clearSelectionAfterRebuild invalidates the selection after a
// structural change. The notification fires only when something was
// actually deselected.
func (t *Table) clearSelectionAfterRebuild() {
	hadMembers := t.sel.Count() > 0
	t.sel.Clear()
	if hadMembers {
		t.emitSelectionChanged()
	}
}

// ToggleSelection flips the selection of the row at visible index i.
func (t *Table) ToggleSelection(i int) {
	t.sel.Toggle(i, t.data.VisibleCount())
	t.emitSelectionChanged()
	t.sched.Schedule()
}

// SelectRange extends the most recent toggle action across the closed
// range [from, to].
func (t *Table) SelectRange(from, to int) {
	t.sel.ExtendRange(from, to, t.data.VisibleCount())
	t.emitSelectionChanged()
	t.sched.Schedule()
}

// SelectAll selects every row of the visible sequence.
func (t *Table) SelectAll() {
	t.sel.SelectAll(t.data.VisibleCount())
	t.emitSelectionChanged()
	t.sched.Schedule()
}

// ClearSelection empties the selection. Always notifies, even when the
// selection was already empty.
func (t *Table) ClearSelection() {
	t.sel.Clear()
	t.emitSelectionChanged()
	t.sched.Schedule()
}

func (t *Table) emitSelectionChanged() {
	idx := t.sel.Indices()
	items := make([]Row, 0, len(idx))
	for _, i := range idx {
		if r, ok := t.data.RowAt(i); ok {
			items = append(items, r.Clone())
		}
	}
	t.emit(Event{Kind: EventSelectionChanged, Selected: idx, Items: items})
}

// SelectedIndices returns the selected visible indices in order.
func (t *Table) SelectedIndices() []int {
	return t.sel.Indices()
}

// SelectedRows returns snapshots of the selected rows in visible order.
func (t *Table) SelectedRows() []Row {
	idx := t.sel.Indices()
	out := make([]Row, 0, len(idx))
	for _, i := range idx {
		if r, ok := t.data.RowAt(i); ok {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Selected reports whether visible index i is selected.
func (t *Table) Selected(i int) bool {
	return t.sel.Has(i)
}

// HeaderState derives the tri-state of the header select-all control.
func (t *Table) HeaderState() HeaderState {
	return t.sel.HeaderState(t.data.VisibleCount())
}

// ScrollToRow scrolls so the given visible index is materialized. The
// offset clamps to the scrollable extent, so an index past the end pins
// the window to the bottom.
func (t *Table) ScrollToRow(i int) {
	if i < 0 {
		i = 0
	}
	t.vp.ScrollOffset = t.vp.ClampScroll(i*t.vp.RowHeight, t.data.VisibleCount())
	t.sched.Schedule()
}

// ScrollPosition returns the current scroll offset.
func (t *Table) ScrollPosition() int {
	return t.vp.ScrollOffset
}

// SetScrollPosition sets the scroll offset, clamped to the scrollable
// extent.
func (t *Table) SetScrollPosition(offset int) {
	t.vp.ScrollOffset = t.vp.ClampScroll(offset, t.data.VisibleCount())
	t.sched.Schedule()
}

// Resize updates the viewport height.
func (t *Table) Resize(viewportHeight int) {
	if viewportHeight < 0 {
		viewportHeight = 0
	}
	t.vp.ViewportHeight = viewportHeight
	t.sched.Schedule()
}

// VisibleCount returns the length of the visible sequence.
func (t *Table) VisibleCount() int {
	return t.data.VisibleCount()
}

// RowAt returns the row at visible index i.
func (t *Table) RowAt(i int) (Row, bool) {
	return t.data.RowAt(i)
}

// Columns returns the active column descriptors.
func (t *Table) Columns() []Column {
	return t.data.Columns()
}

// SortState returns the active sort column and direction.
func (t *Table) SortState() (string, SortDirection, bool) {
	return t.data.SortState()
}

// Range returns the most recently materialized range.
func (t *Table) Range() Range {
	return t.rng
}

// Viewport returns the current viewport geometry.
func (t *Table) Viewport() Viewport {
	return t.vp
}

// Pending reports whether a materialization is queued.
func (t *Table) Pending() bool {
	return t.sched.Pending()
}

// Flush runs the queued materialization, if any: window the scroll
// position, hand the row slice to the surface, then reconcile header
// widths. One call per frame from the host. Reports whether a pass ran.
func (t *Table) Flush() bool {
	return t.sched.Flush(t.materialize)
}

// Scheduler exposes the render scheduler. Test hook for clock injection.
func (t *Table) Scheduler() *Scheduler {
	return t.sched
}

// Stats returns the performance snapshot for the host's footer and for
// operational visibility.
func (t *Table) Stats() Stats {
	return Stats{
		TotalRows:     t.data.RawCount(),
		VisibleRows:   t.rng.Len(),
		FrameDropped:  t.sched.FrameDropped(),
		ScrollTop:     t.vp.ScrollOffset,
		SelectedCount: t.sel.Count(),
	}
}

func (t *Table) materialize() {
	n := t.data.VisibleCount()
	// Re-clamp: the sequence may have shrunk since the offset was set.
	t.vp.ScrollOffset = t.vp.ClampScroll(t.vp.ScrollOffset, n)
	rng := t.vp.Range(n)
	t.rng = rng
	if t.surface == nil {
		return
	}
	selected := make(map[int]bool)
	for i := rng.Start; i < rng.End; i++ {
		if t.sel.Has(i) {
			selected[i] = true
		}
	}
	t.surface.Draw(Paint{
		Range:        rng,
		Rows:         t.data.Slice(rng.Start, rng.End),
		BlockOffset:  t.vp.BlockOffset(rng),
		SpacerExtent: t.vp.SpacerExtent(n),
		Selected:     selected,
	})
	t.layout.Reconcile(t.surface, t.data.Columns())
}

func (t *Table) sortPrefKey() string {
	return t.name + ".sort"
}

func (t *Table) loadSortPref() {
	if t.prefs == nil || t.name == "" {
		return
	}
	v, ok := t.prefs.Load(t.sortPrefKey())
	if !ok {
		return
	}
	key, dir, found := strings.Cut(v, ":")
	if !found || key == "" {
		return
	}
	t.savedSortKey = key
	t.savedSortDir = ParseSortDirection(dir)
	t.savedSortOK = true
}

func (t *Table) saveSortPref() {
	if t.prefs == nil || t.name == "" {
		return
	}
	key, dir, ok := t.data.SortState()
	if !ok {
		return
	}
	// Best-effort: a failing pref store must not surface in the render loop.
	_ = t.prefs.Save(t.sortPrefKey(), fmt.Sprintf("%s:%s", key, dir))
}
