package domain

import (
	"fmt"
	"strings"
)

// Table is an in-memory tabular value. Cells are untyped strings until a
// check coerces them; blank cells are stored as "".
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	index map[string]int
}

// NewTable builds a Table, padding short rows with "" and rejecting
// duplicate column names.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidInput, c)
		}
		index[c] = i
	}

	normalized := make([][]string, len(rows))
	for r, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d", ErrInvalidInput, r, len(row), len(columns))
		}
		out := make([]string, len(columns))
		copy(out, row)
		normalized[r] = out
	}

	return &Table{Columns: columns, Rows: normalized, index: index}, nil
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columnIndex(name)
	return ok
}

// Value returns the raw cell at (row, column), or "" when the column does
// not exist.
func (t *Table) Value(row int, column string) string {
	i, ok := t.columnIndex(column)
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][i]
}

// Trimmed returns the cell at (row, column) with surrounding whitespace removed.
func (t *Table) Trimmed(row int, column string) string {
	return strings.TrimSpace(t.Value(row, column))
}

// Column returns a copy of every value in the named column.
func (t *Table) Column(name string) ([]string, bool) {
	i, ok := t.columnIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, true
}

// columnIndex never writes to t, so a Table is safe for concurrent reads.
// Tables built as literals, without NewTable, fall back to a linear scan.
func (t *Table) columnIndex(name string) (int, bool) {
	if t.index != nil {
		i, ok := t.index[name]
		return i, ok
	}
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}
