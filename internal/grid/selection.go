package grid

import "sort"

// Action is the most recent selection mutation kind, used to decide what
// a following range extension does.
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionDeselect
)

// HeaderState is the derived tri-state of the header select-all control.
type HeaderState int

const (
	HeaderNone HeaderState = iota
	HeaderPartial
	HeaderAll
)

// Selection tracks selected indices into the current visible sequence,
// independent of what is materialized. Indices are only meaningful for
// the sequence snapshot they were taken against: any structural rebuild
// of that sequence must clear the selection via Clear.
type Selection struct {
	members    map[int]bool
	lastIndex  int
	lastAction Action
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{
		members:   make(map[int]bool),
		lastIndex: -1,
	}
}

// Toggle flips membership of index i, bounded to [0, n). It records the
// resulting action so a following range extension repeats it.
func (s *Selection) Toggle(i, n int) {
	if i < 0 || i >= n {
		return
	}
	if s.members[i] {
		delete(s.members, i)
		s.lastAction = ActionDeselect
	} else {
		s.members[i] = true
		s.lastAction = ActionSelect
	}
	s.lastIndex = i
}

// ExtendRange applies the most recent action across the closed range
// [from, to] (order-insensitive), bounded to [0, n). After a toggle that
// deselected, the whole range is deselected; otherwise it is selected —
// including the neutral state after Clear/SelectAll, which defaults to
// select. lastAction is left untouched so chained extensions keep
// repeating the same action.
func (s *Selection) ExtendRange(from, to, n int) {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	if lo > hi {
		return
	}
	for i := lo; i <= hi; i++ {
		if s.lastAction == ActionDeselect {
			delete(s.members, i)
		} else {
			s.members[i] = true
		}
	}
	s.lastIndex = to
}

// SelectAll selects every index in [0, n) and resets range tracking.
func (s *Selection) SelectAll(n int) {
	s.members = make(map[int]bool, n)
	for i := 0; i < n; i++ {
		s.members[i] = true
	}
	s.lastIndex = -1
	s.lastAction = ActionNone
}

// Clear empties the selection and resets range tracking. This is also
// the invalidation path for sort/filter/setData: the selection is
// defined only relative to one visible-sequence snapshot.
func (s *Selection) Clear() {
	s.members = make(map[int]bool)
	s.lastIndex = -1
	s.lastAction = ActionNone
}

// Prune drops members outside [0, n). Used after raw-row mutations that
// shrink the visible sequence without reordering it.
func (s *Selection) Prune(n int) {
	for i := range s.members {
		if i >= n {
			delete(s.members, i)
		}
	}
	if s.lastIndex >= n {
		s.lastIndex = -1
	}
}

// Has reports whether index i is selected.
func (s *Selection) Has(i int) bool {
	return s.members[i]
}

// Count returns the number of selected indices.
func (s *Selection) Count() int {
	return len(s.members)
}

// Indices returns the selected indices in ascending order.
func (s *Selection) Indices() []int {
	out := make([]int, 0, len(s.members))
	for i := range s.members {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// LastAction returns the most recent mutation kind.
func (s *Selection) LastAction() Action {
	return s.lastAction
}

// HeaderState derives the select-all control state from the selection
// size against the visible count. Derived, never stored.
func (s *Selection) HeaderState(visibleCount int) HeaderState {
	switch {
	case len(s.members) == 0:
		return HeaderNone
	case visibleCount > 0 && len(s.members) >= visibleCount:
		return HeaderAll
	default:
		return HeaderPartial
	}
}
