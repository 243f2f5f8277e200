package model

import (
	"github.com/pkg/errors"
)

var (
	// ErrLengthMismatch is returned when a series does not have the table row count.
	ErrLengthMismatch = errors.New("series length does not match row count")
	// ErrColumnNotFound is returned when a column is not in the table.
	ErrColumnNotFound = errors.New("column not found")
)

// Table is an ordered set of equal-length named series. Rows are aligned by position.
// Setting an existing name overwrites the column in place and keeps its position.
type Table struct {
	names   []string
	columns map[string]Series
	rows    int
}

// NewTable creates an empty table with the given row count.
func NewTable(rows int) *Table {
	return &Table{
		columns: make(map[string]Series),
		rows:    rows,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.names)
}

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Has reports whether the table holds a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.columns[name]

	return ok
}

// Column returns the named series.
func (t *Table) Column(name string) (Series, bool) {
	s, ok := t.columns[name]

	return s, ok
}

// At returns the i-th column in insertion order.
func (t *Table) At(i int) Series {
	return t.columns[t.names[i]]
}

// Columns returns every series in insertion order.
func (t *Table) Columns() []Series {
	out := make([]Series, len(t.names))
	for i, name := range t.names {
		out[i] = t.columns[name]
	}

	return out
}

// Set adds or overwrites the named column.
func (t *Table) Set(name string, s Series) error {
	if len(s) != t.rows {
		return errors.Wrapf(ErrLengthMismatch, "column %s: got %d, want %d", name, len(s), t.rows)
	}
	if _, ok := t.columns[name]; !ok {
		t.names = append(t.names, name)
	}
	t.columns[name] = s

	return nil
}

// Select returns a table made of the named columns, in the requested order.
// The series are shared with t.
func (t *Table) Select(names ...string) (*Table, error) {
	out := NewTable(t.rows)
	for _, name := range names {
		s, ok := t.columns[name]
		if !ok {
			return nil, errors.Wrap(ErrColumnNotFound, name)
		}
		if _, dup := out.columns[name]; !dup {
			out.names = append(out.names, name)
		}
		out.columns[name] = s
	}

	return out, nil
}

// Row returns a one-row table holding the i-th value of every column.
func (t *Table) Row(i int) *Table {
	out := NewTable(1)
	for _, name := range t.names {
		out.names = append(out.names, name)
		out.columns[name] = Series{t.columns[name][i]}
	}

	return out
}

// Value returns the value of the named column at row i.
func (t *Table) Value(name string, i int) (float64, bool) {
	s, ok := t.columns[name]
	if !ok || i < 0 || i >= len(s) {
		return 0, false
	}

	return s[i], true
}
