package grid

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// SortDirection is the direction of the active sort.
type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

// String returns the serialized form used for preference round-trips.
func (d SortDirection) String() string {
	if d == SortDesc {
		return "desc"
	}
	return "asc"
}

// ParseSortDirection parses the serialized form. Unknown input maps to
// ascending, matching the degrade-don't-fail policy of the engine.
func ParseSortDirection(s string) SortDirection {
	if s == "desc" {
		return SortDesc
	}
	return SortAsc
}

// Dataset owns the full row set and the active filter/sort pipeline.
// The visible sequence is kept as indices into the raw backing slice and
// is rebuilt (filter, then sort) whenever either stage changes.
type Dataset struct {
	columns []Column
	raw     []Row
	visible []int

	sortKey string
	sortDir SortDirection
	sorted  bool
	filter  func(Row) bool
}

// NewDataset returns an empty dataset with no columns.
func NewDataset() *Dataset {
	return &Dataset{}
}

// SetData replaces the full row set. Sort and filter reset to identity,
// so the visible sequence equals the insertion order of rows.
func (d *Dataset) SetData(rows []Row) {
	d.raw = rows
	d.sorted = false
	d.sortKey = ""
	d.sortDir = SortAsc
	d.filter = nil
	d.rebuild()
}

// SetColumns replaces the column descriptors. Row data is untouched.
func (d *Dataset) SetColumns(cols []Column) {
	d.columns = cols
}

// Columns returns the active column descriptors.
func (d *Dataset) Columns() []Column {
	return d.columns
}

// RawCount returns the size of the raw backing store.
func (d *Dataset) RawCount() int {
	return len(d.raw)
}

// VisibleCount returns the length of the visible (filtered+sorted) sequence.
func (d *Dataset) VisibleCount() int {
	return len(d.visible)
}

// RowAt returns the row at position i of the visible sequence.
func (d *Dataset) RowAt(i int) (Row, bool) {
	if i < 0 || i >= len(d.visible) {
		return nil, false
	}
	return d.raw[d.visible[i]], true
}

// Slice returns the rows in [start, end) of the visible sequence. The
// bounds are clamped, so a stale range never panics.
func (d *Dataset) Slice(start, end int) []Row {
	if start < 0 {
		start = 0
	}
	if end > len(d.visible) {
		end = len(d.visible)
	}
	if start >= end {
		return nil
	}
	out := make([]Row, 0, end-start)
	for _, ri := range d.visible[start:end] {
		out = append(out, d.raw[ri])
	}
	return out
}

// SortState returns the active sort column and direction. ok is false
// when no sort is active.
func (d *Dataset) SortState() (key string, dir SortDirection, ok bool) {
	return d.sortKey, d.sortDir, d.sorted
}

// Sort sorts the visible sequence by the given column. Sorting the
// active column again toggles direction; a new column starts ascending.
// The sort is stable and is applied to the current sequence, so equal
// keys keep their prior relative order and repeated sorting on one
// column cycles with period two. Unknown or unsortable columns are a
// no-op. Reports whether the sequence was rebuilt.
func (d *Dataset) Sort(key string) bool {
	col, ok := d.findColumn(key)
	if !ok || !col.Sortable {
		return false
	}
	if d.sorted && d.sortKey == key {
		d.sortDir = 1 - d.sortDir
	} else {
		d.sortKey = key
		d.sortDir = SortAsc
	}
	d.sorted = true
	d.applySort()
	return true
}

// RestoreSortState applies a previously persisted sort state without the
// toggle behavior of Sort. Unknown columns are ignored.
func (d *Dataset) RestoreSortState(key string, dir SortDirection) bool {
	col, ok := d.findColumn(key)
	if !ok || !col.Sortable {
		return false
	}
	d.sortKey = key
	d.sortDir = dir
	d.sorted = true
	d.applySort()
	return true
}

// Filter replaces the active predicate wholesale. A nil predicate clears
// filtering. Reports whether the sequence was rebuilt.
func (d *Dataset) Filter(pred func(Row) bool) bool {
	d.filter = pred
	d.rebuild()
	return true
}

// FilterFields installs a field-equality filter: for every key in fields,
// the row's value must contain the wanted string (case-folded substring
// match), AND semantics across keys. An empty mapping clears filtering.
func (d *Dataset) FilterFields(fields map[string]string) bool {
	if len(fields) == 0 {
		return d.Filter(nil)
	}
	want := make(map[string]string, len(fields))
	for k, v := range fields {
		want[k] = foldString(v)
	}
	return d.Filter(func(r Row) bool {
		for k, w := range want {
			if !strings.Contains(foldString(fmt.Sprint(r[k])), w) {
				return false
			}
		}
		return true
	})
}

// Search installs a filter matching query case-insensitively against a
// serialized form of the entire row. An empty query clears filtering.
func (d *Dataset) Search(query string) bool {
	if query == "" {
		return d.Filter(nil)
	}
	q := foldString(query)
	return d.Filter(func(r Row) bool {
		return strings.Contains(d.serializeRow(r), q)
	})
}

// AddRow appends to the raw backing store and rebuilds the sequence.
func (d *Dataset) AddRow(row Row) {
	d.raw = append(d.raw, row)
	d.rebuild()
}

// RemoveRow deletes the row at raw index i. Out-of-range is a no-op so
// the render loop stays resilient to stale external references.
func (d *Dataset) RemoveRow(i int) {
	if i < 0 || i >= len(d.raw) {
		return
	}
	d.raw = append(d.raw[:i], d.raw[i+1:]...)
	d.rebuild()
}

// UpdateRow merges patch into the row at raw index i. Out-of-range is a
// no-op.
func (d *Dataset) UpdateRow(i int, patch Row) {
	if i < 0 || i >= len(d.raw) || len(patch) == 0 {
		return
	}
	if d.raw[i] == nil {
		d.raw[i] = make(Row, len(patch))
	}
	for k, v := range patch {
		d.raw[i][k] = v
	}
	d.rebuild()
}

// rebuild recomputes the visible sequence: filter in raw order, then the
// active sort on top.
func (d *Dataset) rebuild() {
	d.visible = d.visible[:0]
	for i, r := range d.raw {
		if d.filter == nil || d.filter(r) {
			d.visible = append(d.visible, i)
		}
	}
	if d.sorted {
		d.applySort()
	}
}

// applySort stable-sorts the current visible sequence by the active
// sort column.
func (d *Dataset) applySort() {
	key, desc := d.sortKey, d.sortDir == SortDesc
	sort.SliceStable(d.visible, func(i, j int) bool {
		c := compareValues(d.raw[d.visible[i]][key], d.raw[d.visible[j]][key])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func (d *Dataset) findColumn(key string) (Column, bool) {
	for _, c := range d.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// serializeRow joins the row's values in column order into one folded
// string for whole-row search. Rows with no declared columns fall back
// to map iteration order, which is fine for membership checks.
func (d *Dataset) serializeRow(r Row) string {
	var sb strings.Builder
	if len(d.columns) > 0 {
		for _, c := range d.columns {
			sb.WriteString(fmt.Sprint(r[c.Key]))
			sb.WriteByte(' ')
		}
	} else {
		for _, v := range r {
			sb.WriteString(fmt.Sprint(v))
			sb.WriteByte(' ')
		}
	}
	return foldString(sb.String())
}

// compareValues orders two cell values: numeric comparison when both
// operands are numeric, case-folded lexical comparison otherwise. This
// is a documented simplification, not general type coercion.
func compareValues(a, b any) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(foldString(fmt.Sprint(a)), foldString(fmt.Sprint(b)))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// foldString lowercases with full Unicode case folding. strings.ToLower
// is not enough here (Turkish İ and friends change byte length and break
// naive comparisons).
func foldString(s string) string {
	return cases.Fold().String(s)
}
