package grid

import "testing"

func TestRangeCoversVisibleBand(t *testing.T) {
	// For every scroll offset the computed range must contain every row
	// that is geometrically visible in the viewport.
	vp := Viewport{ViewportHeight: 400, RowHeight: 24, BufferSize: 5}
	const visibleCount = 10000

	for offset := 0; offset < visibleCount*vp.RowHeight; offset += 7 {
		vp.ScrollOffset = offset
		r := vp.Range(visibleCount)

		firstVisible := offset / vp.RowHeight
		lastVisible := (offset + vp.ViewportHeight - 1) / vp.RowHeight
		if lastVisible >= visibleCount {
			lastVisible = visibleCount - 1
		}

		if !r.Contains(firstVisible) {
			t.Fatalf("offset %d: first visible row %d not in range [%d,%d)", offset, firstVisible, r.Start, r.End)
		}
		if !r.Contains(lastVisible) {
			t.Fatalf("offset %d: last visible row %d not in range [%d,%d)", offset, lastVisible, r.Start, r.End)
		}
		if r.Start > r.End {
			t.Fatalf("offset %d: start %d > end %d", offset, r.Start, r.End)
		}
	}
}

func TestRangeFormulas(t *testing.T) {
	tests := []struct {
		name         string
		vp           Viewport
		visibleCount int
		want         Range
	}{
		{
			name:         "top of list includes buffer below only",
			vp:           Viewport{ScrollOffset: 0, ViewportHeight: 100, RowHeight: 10, BufferSize: 3},
			visibleCount: 1000,
			// rawVisible = 10 + 6 = 16; end = 0 + 16 + 3 = 19
			want: Range{Start: 0, End: 19},
		},
		{
			name:         "mid list buffers both sides",
			vp:           Viewport{ScrollOffset: 500, ViewportHeight: 100, RowHeight: 10, BufferSize: 3},
			visibleCount: 1000,
			// rawStart = 50; start = 47; end = 50 + 16 + 3 = 69
			want: Range{Start: 47, End: 69},
		},
		{
			name:         "end clamps to visibleCount",
			vp:           Viewport{ScrollOffset: 9900, ViewportHeight: 100, RowHeight: 10, BufferSize: 3},
			visibleCount: 1000,
			want:         Range{Start: 987, End: 1000},
		},
		{
			name:         "fractional viewport rounds up",
			vp:           Viewport{ScrollOffset: 0, ViewportHeight: 105, RowHeight: 10, BufferSize: 0},
			visibleCount: 1000,
			want:         Range{Start: 0, End: 11},
		},
		{
			name:         "empty dataset",
			vp:           Viewport{ScrollOffset: 0, ViewportHeight: 100, RowHeight: 10, BufferSize: 3},
			visibleCount: 0,
			want:         Range{},
		},
		{
			name:         "offset past the end collapses to empty tail",
			vp:           Viewport{ScrollOffset: 100000, ViewportHeight: 100, RowHeight: 10, BufferSize: 0},
			visibleCount: 50,
			want:         Range{Start: 50, End: 50},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.vp.Range(tt.visibleCount)
			if got != tt.want {
				t.Errorf("Range() = [%d,%d), want [%d,%d)", got.Start, got.End, tt.want.Start, tt.want.End)
			}
		})
	}
}

func TestBlockOffsetAndSpacer(t *testing.T) {
	vp := Viewport{ScrollOffset: 480, ViewportHeight: 240, RowHeight: 24, BufferSize: 2}
	r := vp.Range(5000)

	if got, want := vp.BlockOffset(r), r.Start*24; got != want {
		t.Errorf("BlockOffset = %d, want %d", got, want)
	}
	if got, want := vp.SpacerExtent(5000), 5000*24; got != want {
		t.Errorf("SpacerExtent = %d, want %d", got, want)
	}
}

func TestClampScroll(t *testing.T) {
	vp := Viewport{ViewportHeight: 100, RowHeight: 10}

	if got := vp.ClampScroll(-5, 100); got != 0 {
		t.Errorf("negative offset clamped to %d, want 0", got)
	}
	// 100 rows * 10 - 100 viewport = 900 max
	if got := vp.ClampScroll(5000, 100); got != 900 {
		t.Errorf("overlarge offset clamped to %d, want 900", got)
	}
	// Dataset smaller than viewport: nothing to scroll.
	if got := vp.ClampScroll(50, 5); got != 0 {
		t.Errorf("short dataset clamped to %d, want 0", got)
	}
}
