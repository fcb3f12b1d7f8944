package grid

// Viewport holds the geometry needed to window the visible sequence:
// scroll offset, viewport height, the uniform row height, and the buffer
// of extra rows materialized on each side of the visible band to absorb
// scroll jitter without blank frames.
type Viewport struct {
	ScrollOffset   int
	ViewportHeight int
	RowHeight      int
	BufferSize     int
}

// Range is a half-open [Start, End) index range into the visible sequence.
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether index i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Range maps the current scroll position to the row range to materialize.
// The result always covers the geometrically visible band plus the buffer
// on both sides, clamped to [0, visibleCount]. O(1), no dataset scan.
func (v Viewport) Range(visibleCount int) Range {
	if v.RowHeight <= 0 || visibleCount <= 0 {
		return Range{}
	}
	rawStart := v.ScrollOffset / v.RowHeight
	rawVisible := ceilDiv(v.ViewportHeight, v.RowHeight) + 2*v.BufferSize

	start := rawStart - v.BufferSize
	if start < 0 {
		start = 0
	}
	end := rawStart + rawVisible + v.BufferSize
	if end > visibleCount {
		end = visibleCount
	}
	if start > end {
		start = end
	}
	return Range{Start: start, End: end}
}

// BlockOffset returns the vertical offset to apply to the rendered block
// as a whole. Positioning the block once is what keeps per-row layout
// cost out of the scroll path.
func (v Viewport) BlockOffset(r Range) int {
	return r.Start * v.RowHeight
}

// SpacerExtent returns the total scrollable extent: the size a spacer
// element must take so the host's scrollbar reflects the full dataset.
func (v Viewport) SpacerExtent(visibleCount int) int {
	return visibleCount * v.RowHeight
}

// MaxScroll returns the largest useful scroll offset for the dataset.
func (v Viewport) MaxScroll(visibleCount int) int {
	max := v.SpacerExtent(visibleCount) - v.ViewportHeight
	if max < 0 {
		return 0
	}
	return max
}

// ClampScroll bounds an offset to [0, MaxScroll].
func (v Viewport) ClampScroll(offset, visibleCount int) int {
	if offset < 0 {
		return 0
	}
	if max := v.MaxScroll(visibleCount); offset > max {
		return max
	}
	return offset
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
