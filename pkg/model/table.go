// pkg/model/table.go
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColumnKind identifies the semantic type of a column. It is resolved once,
// during normalization, and carried with the column thereafter.
type ColumnKind int

const (
	// KindNumeric marks columns holding float64 cells (NaN = missing)
	KindNumeric ColumnKind = iota
	// KindCategorical marks columns holding text cells with an explicit null mask
	KindCategorical
)

// String returns the dtype label used in reports
func (k ColumnKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Column is the common interface over the two column variants.
// Only NumericColumn and CategoricalColumn implement it.
type Column interface {
	Name() string
	Kind() ColumnKind
	Len() int
	IsMissing(i int) bool
	MissingCount() int
	// DistinctNonMissing returns the number of distinct non-missing values
	DistinctNonMissing() int
	// CellString returns the textual form of cell i; ok is false for missing cells
	CellString(i int) (value string, ok bool)
	Clone() Column
	// Select returns a new column containing the cells at the given row indices
	Select(rows []int) Column

	// rename keeps the interface sealed to this package
	rename(name string)
}

// NumericColumn holds float64 cells; NaN marks a missing cell
type NumericColumn struct {
	name string

	// Values is mutated in place during imputation
	Values []float64
}

// NewNumericColumn creates a numeric column over the given cells
func NewNumericColumn(name string, values []float64) *NumericColumn {
	return &NumericColumn{name: name, Values: values}
}

// Name returns the column name
func (c *NumericColumn) Name() string { return c.name }

// Kind returns KindNumeric
func (c *NumericColumn) Kind() ColumnKind { return KindNumeric }

// Len returns the row count
func (c *NumericColumn) Len() int { return len(c.Values) }

// IsMissing reports whether cell i is missing
func (c *NumericColumn) IsMissing(i int) bool { return math.IsNaN(c.Values[i]) }

// MissingCount returns the number of missing cells
func (c *NumericColumn) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// DistinctNonMissing returns the number of distinct non-missing values
func (c *NumericColumn) DistinctNonMissing() int {
	seen := make(map[float64]struct{})
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// CellString formats cell i; ok is false for missing cells
func (c *NumericColumn) CellString(i int) (string, bool) {
	if math.IsNaN(c.Values[i]) {
		return "", false
	}
	return strconv.FormatFloat(c.Values[i], 'g', -1, 64), true
}

// NonMissing returns the non-missing cells in row order
func (c *NumericColumn) NonMissing() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns a deep copy
func (c *NumericColumn) Clone() Column {
	values := make([]float64, len(c.Values))
	copy(values, c.Values)
	return &NumericColumn{name: c.name, Values: values}
}

// Select returns a new column containing the cells at the given row indices
func (c *NumericColumn) Select(rows []int) Column {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = c.Values[r]
	}
	return &NumericColumn{name: c.name, Values: values}
}

func (c *NumericColumn) rename(name string) { c.name = name }

// CategoricalColumn holds text cells with an explicit null mask
type CategoricalColumn struct {
	name string

	// Values and Nulls are parallel; Values[i] is meaningless when Nulls[i]
	Values []string
	Nulls  []bool
}

// NewCategoricalColumn creates a categorical column over the given cells.
// nulls may be nil, meaning no cell is missing.
func NewCategoricalColumn(name string, values []string, nulls []bool) *CategoricalColumn {
	if nulls == nil {
		nulls = make([]bool, len(values))
	}
	return &CategoricalColumn{name: name, Values: values, Nulls: nulls}
}

// Name returns the column name
func (c *CategoricalColumn) Name() string { return c.name }

// Kind returns KindCategorical
func (c *CategoricalColumn) Kind() ColumnKind { return KindCategorical }

// Len returns the row count
func (c *CategoricalColumn) Len() int { return len(c.Values) }

// IsMissing reports whether cell i is missing
func (c *CategoricalColumn) IsMissing(i int) bool { return c.Nulls[i] }

// MissingCount returns the number of missing cells
func (c *CategoricalColumn) MissingCount() int {
	n := 0
	for _, null := range c.Nulls {
		if null {
			n++
		}
	}
	return n
}

// DistinctNonMissing returns the number of distinct non-missing values
func (c *CategoricalColumn) DistinctNonMissing() int {
	seen := make(map[string]struct{})
	for i, v := range c.Values {
		if !c.Nulls[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// CellString returns cell i; ok is false for missing cells
func (c *CategoricalColumn) CellString(i int) (string, bool) {
	if c.Nulls[i] {
		return "", false
	}
	return c.Values[i], true
}

// NonMissing returns the non-missing cells in row order
func (c *CategoricalColumn) NonMissing() []string {
	out := make([]string, 0, len(c.Values))
	for i, v := range c.Values {
		if !c.Nulls[i] {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns a deep copy
func (c *CategoricalColumn) Clone() Column {
	values := make([]string, len(c.Values))
	copy(values, c.Values)
	nulls := make([]bool, len(c.Nulls))
	copy(nulls, c.Nulls)
	return &CategoricalColumn{name: c.name, Values: values, Nulls: nulls}
}

// Select returns a new column containing the cells at the given row indices
func (c *CategoricalColumn) Select(rows []int) Column {
	values := make([]string, len(rows))
	nulls := make([]bool, len(rows))
	for i, r := range rows {
		values[i] = c.Values[r]
		nulls[i] = c.Nulls[r]
	}
	return &CategoricalColumn{name: c.name, Values: values, Nulls: nulls}
}

func (c *CategoricalColumn) rename(name string) { c.name = name }

// Table is an ordered sequence of equally sized named columns
type Table struct {
	cols []Column
}

// NewTable builds a table, validating that columns share one length and
// carry unique names
func NewTable(cols ...Column) (*Table, error) {
	seen := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		if _, dup := seen[col.Name()]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name())
		}
		seen[col.Name()] = struct{}{}
		if col.Len() != cols[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name(), col.Len(), cols[0].Len())
		}
	}
	return &Table{cols: cols}, nil
}

// NumRows returns the row count (0 for a table without columns)
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the column count
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in table order. The slice is shared; callers
// that need an owned copy should Clone the table.
func (t *Table) Columns() []Column { return t.cols }

// ColumnNames returns the column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, col := range t.cols {
		names[i] = col.Name()
	}
	return names
}

// Column returns the named column, or false if absent
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.cols {
		if col.Name() == name {
			return col, true
		}
	}
	return nil, false
}

// ReplaceColumn swaps the column at position i, keeping table order
func (t *Table) ReplaceColumn(i int, col Column) {
	t.cols[i] = col
}

// RenameColumn renames the column at position i
func (t *Table) RenameColumn(i int, name string) {
	t.cols[i].rename(name)
}

// DropColumn removes the named column, reporting whether it existed
func (t *Table) DropColumn(name string) bool {
	for i, col := range t.cols {
		if col.Name() == name {
			t.cols = append(t.cols[:i], t.cols[i+1:]...)
			return true
		}
	}
	return false
}

// FilterRows returns a new table holding only the given row indices, in order
func (t *Table) FilterRows(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, col := range t.cols {
		cols[i] = col.Select(rows)
	}
	return &Table{cols: cols}
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	cols := make([]Column, len(t.cols))
	for i, col := range t.cols {
		cols[i] = col.Clone()
	}
	return &Table{cols: cols}
}

// RowKey returns a string identifying row i by its cell values, used for
// exact-duplicate detection. Cells are length-prefixed so no byte inside
// a cell can shift the boundary between cells; missing cells map to a
// fixed marker that cannot start a length prefix.
func (t *Table) RowKey(i int) string {
	var sb strings.Builder
	for _, col := range t.cols {
		v, ok := col.CellString(i)
		if !ok {
			sb.WriteByte('-')
			continue
		}
		sb.WriteString(strconv.Itoa(len(v)))
		sb.WriteByte(':')
		sb.WriteString(v)
	}
	return sb.String()
}
