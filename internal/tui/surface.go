package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/listdeck/listdeck/internal/grid"
)

// columnGap separates adjacent columns in header and body rows.
const columnGap = "  "

// termSurface renders the materialized row band into terminal lines. It
// implements grid.Surface: Draw captures the band and measures the body
// column widths, and PinHeaderWidths records the widths the header must
// render with so it never drifts from the body.
type termSurface struct {
	cols     []grid.Column
	paint    grid.Paint
	measured map[string]int
	pinned   map[string]int
}

func newTermSurface(cols []grid.Column) *termSurface {
	return &termSurface{cols: cols}
}

// Draw implements grid.Surface.
func (s *termSurface) Draw(p grid.Paint) {
	s.paint = p
	s.measured = s.measureBand(p)
}

// MeasureColumnWidths implements grid.Surface.
func (s *termSurface) MeasureColumnWidths() map[string]int {
	return s.measured
}

// PinHeaderWidths implements grid.Surface.
func (s *termSurface) PinHeaderWidths(widths map[string]int) {
	s.pinned = widths
}

// Paint returns the most recent materialization.
func (s *termSurface) Paint() grid.Paint {
	return s.paint
}

// measureBand computes the render width of each column across the band.
// Fixed-width columns keep their declared width; flexible columns take
// the widest cell, never narrower than the label.
func (s *termSurface) measureBand(p grid.Paint) map[string]int {
	widths := make(map[string]int, len(s.cols))
	for _, col := range s.cols {
		if col.Width > 0 {
			widths[col.Key] = col.Width
			continue
		}
		w := runewidth.StringWidth(col.Label)
		for _, row := range p.Rows {
			if cw := runewidth.StringWidth(s.cell(col, row)); cw > w {
				w = cw
			}
		}
		widths[col.Key] = w
	}
	return widths
}

// columnWidth returns the width a column renders at: the pinned header
// width when layout sync has reconciled, otherwise the measured width.
func (s *termSurface) columnWidth(col grid.Column) int {
	if w, ok := s.pinned[col.Key]; ok {
		return w
	}
	if w, ok := s.measured[col.Key]; ok {
		return w
	}
	return runewidth.StringWidth(col.Label)
}

// renderHeader builds the header line. Sort state is marked on the
// active column.
func (s *termSurface) renderHeader(sortKey string, sortDir grid.SortDirection) string {
	parts := make([]string, 0, len(s.cols))
	for _, col := range s.cols {
		label := col.Label
		if col.Key == sortKey {
			if sortDir == grid.SortAsc {
				label += " ↑"
			} else {
				label += " ↓"
			}
		}
		w := s.columnWidth(col)
		parts = append(parts, padRight(truncateRunes(label, w), w))
	}
	return strings.Join(parts, columnGap)
}

// renderRow builds one body line.
func (s *termSurface) renderRow(row grid.Row) string {
	parts := make([]string, 0, len(s.cols))
	for _, col := range s.cols {
		w := s.columnWidth(col)
		parts = append(parts, padRight(truncateRunes(s.cell(col, row), w), w))
	}
	return strings.Join(parts, columnGap)
}

func (s *termSurface) cell(col grid.Column, row grid.Row) string {
	if col.Render != nil {
		return col.Render(row)
	}
	return cellText(row[col.Key])
}
