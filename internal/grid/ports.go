package grid

// Paint is one materialization handed to the rendering surface: the row
// range, the row data for that range, the vertical offset of the block,
// the total scrollable extent, and the selected indices inside the range.
type Paint struct {
	Range        Range
	Rows         []Row
	BlockOffset  int
	SpacerExtent int
	Selected     map[int]bool
}

// Surface is the rendering collaborator. Draw receives each
// materialization; MeasureColumnWidths reports the rendered width of
// each body column in the first materialized row of the last Draw;
// PinHeaderWidths pins the header columns to exact widths. Surface
// errors are the surface's own problem — the engine never observes them.
type Surface interface {
	Draw(p Paint)
	MeasureColumnWidths() map[string]int
	PinHeaderWidths(widths map[string]int)
}

// PrefStore is the persisted key-value preference port. The engine
// round-trips its sort state through it, keyed by the table's component
// name. Load reports ok=false for missing keys; Save errors are ignored
// by the engine (persistence is best-effort, never fatal).
type PrefStore interface {
	Load(key string) (value string, ok bool)
	Save(key, value string) error
}

// EventKind identifies a notification emitted by the table.
type EventKind int

const (
	// EventSelectionChanged fires on every selection mutation, carrying
	// the resolved index set and the corresponding row snapshots.
	EventSelectionChanged EventKind = iota
	// EventDataChanged fires when the visible sequence is rebuilt.
	EventDataChanged
	// EventSortChanged fires after a sort change is applied.
	EventSortChanged
)

// Event is the payload delivered to subscribers.
type Event struct {
	Kind     EventKind
	Selected []int
	Items    []Row
	SortKey  string
	SortDir  SortDirection
}

// Handler consumes table events. Handlers run synchronously on the
// mutating call; they must not re-enter the table.
type Handler func(Event)
