package grid

import "fmt"

// fakeSurface records draws and serves canned column measurements.
type fakeSurface struct {
	draws     []Paint
	measured  map[string]int
	pins      []map[string]int
	measCalls int
}

func (s *fakeSurface) Draw(p Paint) {
	s.draws = append(s.draws, p)
}

func (s *fakeSurface) MeasureColumnWidths() map[string]int {
	s.measCalls++
	return s.measured
}

func (s *fakeSurface) PinHeaderWidths(widths map[string]int) {
	s.pins = append(s.pins, widths)
}

func (s *fakeSurface) lastDraw() Paint {
	if len(s.draws) == 0 {
		return Paint{}
	}
	return s.draws[len(s.draws)-1]
}

// fakePrefs is an in-memory PrefStore.
type fakePrefs struct {
	values map[string]string
	saves  int
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{values: make(map[string]string)}
}

func (p *fakePrefs) Load(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *fakePrefs) Save(key, value string) error {
	p.values[key] = value
	p.saves++
	return nil
}

func subscriberColumns() []Column {
	return []Column{
		{Key: "id", Label: "ID", Sortable: true},
		{Key: "name", Label: "Name", Sortable: true},
		{Key: "email", Label: "Email", Sortable: true},
	}
}

func makeRows(n int) []Row {
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, Row{
			"id":    i,
			"name":  fmt.Sprintf("user%04d", i),
			"email": fmt.Sprintf("user%04d@example.com", i),
		})
	}
	return rows
}

// newTestTable builds a table over n generated rows with a 10-row
// viewport, unit row height, and no buffer unless configured otherwise.
func newTestTable(n int, opts Options) *Table {
	if opts.RowHeight == 0 {
		opts.RowHeight = 1
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = 10
	}
	t := New(opts)
	t.SetColumns(subscriberColumns())
	t.SetData(makeRows(n))
	return t
}
