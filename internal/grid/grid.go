// Package grid implements the windowed data-grid engine behind the
// listdeck subscriber browser. It renders datasets of tens of thousands
// of rows inside a fixed-height viewport by materializing only a small
// window of rows around the scroll position, while keeping a selection
// model, header/body layout sync, and a per-frame render budget.
//
// The package is host-agnostic: rendering goes through the Surface port,
// saved preferences through the PrefStore port, and outbound notifications
// through Subscribe. The engine is single-threaded by design; all
// mutations are synchronous and run to completion before the next event.
package grid

// Row is a single record: a mapping from column key to value. A row's
// identity is its position in the current (filtered+sorted) visible
// sequence, not a stable id. Consumers must treat selection indices as
// valid only for the sequence snapshot they were taken against.
type Row map[string]any

// Column describes one table column.
type Column struct {
	Key      string
	Label    string
	Width    int // fixed width in cells; 0 means size to content
	MinWidth int
	MaxWidth int
	Sortable bool

	// Render converts a row to the display value for this column.
	// When nil, the raw value is formatted with fmt.Sprint.
	Render func(Row) string
}

// Clone returns a shallow copy of the row. Used for selection snapshots
// handed to external consumers so they cannot mutate the backing store.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
