// Package table provides the in-memory tabular value mapped by the
// variable mapper.
//
// A Table has ordered named columns and row-major cells. Cells are
// untyped; nil marks a missing value, matching the null marker written
// for codes absent from a dictionary mapping. Tables handed to the
// mapper are never modified; mapping produces a fresh table.
package table

import (
	"github.com/censuskit/censuskit/pkg/errors"
)

// Table is a columnar dataset with named columns and row-major cells.
type Table struct {
	columns []string
	rows    [][]interface{}
}

// New creates a Table from a header and rows. Every row must have the
// same width as the header.
func New(columns []string, rows [][]interface{}) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.New(errors.ErrorTypeData, "row width does not match header").
				WithDetail("row", i).
				WithDetail("want", len(columns)).
				WithDetail("got", len(row))
		}
	}
	return &Table{columns: columns, rows: rows}, nil
}

// FromStrings creates a Table from string cells, as produced by the
// Census Data API or a CSV reader. Values are kept as strings; callers
// needing typed cells convert per column.
func FromStrings(columns []string, rows [][]string) (*Table, error) {
	converted := make([][]interface{}, len(rows))
	for i, row := range rows {
		converted[i] = make([]interface{}, len(row))
		for j, cell := range row {
			converted[i][j] = cell
		}
	}
	return New(columns, converted)
}

// Columns returns the column names in table order. The slice is a copy.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// columnIndex returns the position of a named column, or -1.
func (t *Table) columnIndex(name string) int {
	for i, col := range t.columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]interface{}, bool) {
	idx := t.columnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]interface{}, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, true
}

// Cell returns the value at (row, column name).
func (t *Table) Cell(row int, name string) (interface{}, bool) {
	idx := t.columnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.rows) {
		return nil, false
	}
	return t.rows[row][idx], true
}

// Clone returns a deep copy of the table's container: a fresh header
// slice and fresh row slices. Cell values themselves are shared, which
// is safe because mapping only ever replaces cells, never mutates them.
func (t *Table) Clone() *Table {
	columns := make([]string, len(t.columns))
	copy(columns, t.columns)

	rows := make([][]interface{}, len(t.rows))
	for i, row := range t.rows {
		rows[i] = make([]interface{}, len(row))
		copy(rows[i], row)
	}

	return &Table{columns: columns, rows: rows}
}

// setColumn replaces a column's cells in place. Internal use only;
// callers go through the copy-on-write mapping path.
func (t *Table) setColumn(idx int, values []interface{}) {
	for i := range t.rows {
		t.rows[i][idx] = values[i]
	}
}
