package grid

// LayoutSync reconciles header column widths against body column widths
// so a fixed header stays aligned with the independently-scrolling body.
// It runs at most once per materialization pass (not once per row) and
// re-pins from scratch whenever the column descriptors change.
type LayoutSync struct {
	pinned map[string]int
	stale  bool
}

// NewLayoutSync returns a synchronizer with nothing pinned yet.
func NewLayoutSync() *LayoutSync {
	return &LayoutSync{stale: true}
}

// Invalidate forces a full re-pin on the next reconcile. Called when
// column descriptors change.
func (l *LayoutSync) Invalidate() {
	l.pinned = nil
	l.stale = true
}

// Reconcile measures the body columns of the last materialization and
// pins the header to identical widths, honoring each column's fixed
// width and min/max constraints. The pin call is skipped when nothing
// changed since the previous pass. Reports whether the header was
// re-pinned.
func (l *LayoutSync) Reconcile(surface Surface, cols []Column) bool {
	if surface == nil {
		return false
	}
	measured := surface.MeasureColumnWidths()
	if len(measured) == 0 && !l.stale {
		return false
	}

	widths := make(map[string]int, len(cols))
	for _, c := range cols {
		widths[c.Key] = constrainWidth(c, measured[c.Key])
	}
	if !l.stale && equalWidths(widths, l.pinned) {
		return false
	}
	surface.PinHeaderWidths(widths)
	l.pinned = widths
	l.stale = false
	return true
}

// Pinned returns the currently pinned header widths.
func (l *LayoutSync) Pinned() map[string]int {
	return l.pinned
}

// constrainWidth resolves a column's final width: a fixed width wins
// outright, otherwise the measured width clamped to min/max.
func constrainWidth(c Column, measured int) int {
	if c.Width > 0 {
		return c.Width
	}
	w := measured
	if c.MinWidth > 0 && w < c.MinWidth {
		w = c.MinWidth
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	return w
}

func equalWidths(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
