// Package series provides the ordered time-series table the engine evaluates
// conditions against: rows keyed by unique ascending timestamps, named float64
// columns of equal length. Tables are read-only after construction; derived
// tables share backing slices with their parent.
package series

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantlab/quiver/internal/core"
)

// ColumnClose is the default price column name.
const ColumnClose = "close"

// Table is an immutable table of timestamped numeric columns.
type Table struct {
	timestamps []time.Time
	order      []string
	columns    map[string][]float64
}

// New builds a table from ascending unique timestamps and named columns.
// Every column must have the same length as the timestamp index.
func New(timestamps []time.Time, columns map[string][]float64) (*Table, error) {
	for i := 1; i < len(timestamps); i++ {
		if !timestamps[i].After(timestamps[i-1]) {
			return nil, core.Wrapf(core.ErrInvalidInput,
				"timestamps must be strictly ascending: row %d (%s) not after row %d (%s)",
				i, timestamps[i].Format(time.DateOnly), i-1, timestamps[i-1].Format(time.DateOnly))
		}
	}

	order := make([]string, 0, len(columns))
	for name := range columns {
		order = append(order, name)
	}
	sort.Strings(order)

	for _, name := range order {
		if len(columns[name]) != len(timestamps) {
			return nil, core.Wrapf(core.ErrInvalidInput,
				"column %q has %d values, table has %d rows", name, len(columns[name]), len(timestamps))
		}
	}

	return &Table{timestamps: timestamps, order: order, columns: columns}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.timestamps)
}

// Timestamp returns the timestamp at row i.
func (t *Table) Timestamp(i int) time.Time {
	return t.timestamps[i]
}

// Timestamps returns the full timestamp index. Callers must not modify it.
func (t *Table) Timestamps() []time.Time {
	return t.timestamps
}

// Columns returns the column names in deterministic order.
func (t *Table) Columns() []string {
	return t.order
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the named column. Callers must not modify it.
func (t *Table) Column(name string) ([]float64, bool) {
	col, ok := t.columns[name]
	return col, ok
}

// Value returns the value of the named column at row i.
func (t *Table) Value(name string, i int) (float64, bool) {
	col, ok := t.columns[name]
	if !ok || i < 0 || i >= len(col) {
		return 0, false
	}
	return col[i], true
}

// Start returns the first timestamp, or the zero time for an empty table.
func (t *Table) Start() time.Time {
	if len(t.timestamps) == 0 {
		return time.Time{}
	}
	return t.timestamps[0]
}

// End returns the last timestamp, or the zero time for an empty table.
func (t *Table) End() time.Time {
	if len(t.timestamps) == 0 {
		return time.Time{}
	}
	return t.timestamps[len(t.timestamps)-1]
}

// IndexOf returns the row index of an exact timestamp match.
func (t *Table) IndexOf(ts time.Time) (int, bool) {
	i := t.SearchCeil(ts)
	if i < len(t.timestamps) && t.timestamps[i].Equal(ts) {
		return i, true
	}
	return 0, false
}

// SearchCeil returns the first row index whose timestamp is >= ts.
// Returns Len() when every row is earlier than ts.
func (t *Table) SearchCeil(ts time.Time) int {
	return sort.Search(len(t.timestamps), func(i int) bool {
		return !t.timestamps[i].Before(ts)
	})
}

// Slice returns a sub-table over rows [i, j). The slice shares backing
// arrays with the parent; both remain read-only.
func (t *Table) Slice(i, j int) (*Table, error) {
	if i < 0 || j > len(t.timestamps) || i > j {
		return nil, core.Wrapf(core.ErrInvalidInput, "slice bounds [%d, %d) out of range for %d rows", i, j, len(t.timestamps))
	}
	cols := make(map[string][]float64, len(t.columns))
	for name, col := range t.columns {
		cols[name] = col[i:j]
	}
	return &Table{timestamps: t.timestamps[i:j], order: t.order, columns: cols}, nil
}

// WithColumn returns a new table with an additional (or replaced) column.
// The parent table is not modified.
func (t *Table) WithColumn(name string, values []float64) (*Table, error) {
	if len(values) != len(t.timestamps) {
		return nil, core.Wrapf(core.ErrInvalidInput,
			"column %q has %d values, table has %d rows", name, len(values), len(t.timestamps))
	}
	cols := make(map[string][]float64, len(t.columns)+1)
	for n, c := range t.columns {
		cols[n] = c
	}
	_, replacing := t.columns[name]
	cols[name] = values

	order := t.order
	if !replacing {
		order = make([]string, 0, len(t.order)+1)
		order = append(order, t.order...)
		order = append(order, name)
		sort.Strings(order)
	}
	return &Table{timestamps: t.timestamps, order: order, columns: cols}, nil
}

// Between returns the sub-table whose timestamps fall in [start, end].
// A zero start or end leaves that side unbounded.
func (t *Table) Between(start, end time.Time) *Table {
	i := 0
	if !start.IsZero() {
		i = t.SearchCeil(start)
	}
	j := len(t.timestamps)
	if !end.IsZero() {
		j = t.SearchCeil(end)
		if j < len(t.timestamps) && t.timestamps[j].Equal(end) {
			j++
		}
	}
	if i > j {
		i = j
	}
	sub, _ := t.Slice(i, j)
	return sub
}

// DateRange formats the covered period for result parameters.
func (t *Table) DateRange() string {
	if len(t.timestamps) == 0 {
		return "empty"
	}
	return fmt.Sprintf("%s to %s", t.Start().Format(time.DateOnly), t.End().Format(time.DateOnly))
}
