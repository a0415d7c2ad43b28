package contracts

import (
	"fmt"
	"time"
)

// Table is a date-indexed set of named integer columns
// Daily tables hold one row per calendar day, resampled tables one row per bucket.
// Columns keep insertion order; accessors hand out copies so a built table stays immutable.
type Table struct {
	dates   []time.Time
	index   map[time.Time]int
	columns []string
	values  map[string][]int
}

// NewTable creates an empty table over dates, which must be strictly ascending
func NewTable(dates []time.Time) (*Table, error) {
	t := &Table{
		dates:  make([]time.Time, len(dates)),
		index:  make(map[time.Time]int, len(dates)),
		values: make(map[string][]int),
	}
	for i, d := range dates {
		d = TruncateDay(d)
		if i > 0 && !d.After(t.dates[i-1]) {
			return nil, fmt.Errorf("%w: table dates must be strictly ascending (%s after %s)",
				ErrDataShape, FormatDate(d), FormatDate(t.dates[i-1]))
		}
		t.dates[i] = d
		t.index[d] = i
	}
	return t, nil
}

// AddColumn appends a column; values must have one entry per row
func (t *Table) AddColumn(name string, values []int) error {
	if _, exists := t.values[name]; exists {
		return fmt.Errorf("%w: duplicate column %q", ErrDataShape, name)
	}
	if len(values) != len(t.dates) {
		return fmt.Errorf("%w: column %q has %d values for %d rows", ErrDataShape, name, len(values), len(t.dates))
	}
	col := make([]int, len(values))
	copy(col, values)
	t.columns = append(t.columns, name)
	t.values[name] = col
	return nil
}

// RenameColumn renames a column in place, keeping its position
func (t *Table) RenameColumn(from, to string) error {
	col, ok := t.values[from]
	if !ok || from == to {
		return nil
	}
	if _, exists := t.values[to]; exists {
		return fmt.Errorf("%w: rename %q -> %q collides with an existing column", ErrDataShape, from, to)
	}
	for i, name := range t.columns {
		if name == from {
			t.columns[i] = to
			break
		}
	}
	delete(t.values, from)
	t.values[to] = col
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.dates)
}

// Date returns the date key of row i
func (t *Table) Date(i int) time.Time {
	return t.dates[i]
}

// Dates returns a copy of the date index
func (t *Table) Dates() []time.Time {
	out := make([]time.Time, len(t.dates))
	copy(out, t.dates)
	return out
}

// IndexOf returns the row holding date
func (t *Table) IndexOf(date time.Time) (int, bool) {
	i, ok := t.index[TruncateDay(date)]
	return i, ok
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether name is a column of t
func (t *Table) HasColumn(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Column returns a copy of the named column
func (t *Table) Column(name string) ([]int, bool) {
	col, ok := t.values[name]
	if !ok {
		return nil, false
	}
	out := make([]int, len(col))
	copy(out, col)
	return out, true
}

// Value returns the cell at row i of the named column (0 when the column is absent)
func (t *Table) Value(i int, name string) int {
	col, ok := t.values[name]
	if !ok {
		return 0
	}
	return col[i]
}

// Row returns row i in column order
func (t *Table) Row(i int) []int {
	row := make([]int, len(t.columns))
	for j, name := range t.columns {
		row[j] = t.values[name][i]
	}
	return row
}

// Sum returns the total of the named column
func (t *Table) Sum(name string) int {
	total := 0
	for _, v := range t.values[name] {
		total += v
	}
	return total
}
