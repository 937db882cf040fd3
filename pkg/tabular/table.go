package tabular

import (
	"github.com/columnlab/tabular/pkg/errors"
)

// NamedColumn pairs a column with its name for table construction.
type NamedColumn struct {
	Name   string
	Column Column
}

// Col is a convenience constructor for NamedColumn.
func Col(name string, column Column) NamedColumn {
	return NamedColumn{Name: name, Column: column}
}

// Table is an ordered sequence of named columns with equal lengths.
// The name→index map is built once at construction; positional access
// never touches it.
//
// A Table is owned by one goroutine during mutation. It does no internal
// locking.
type Table struct {
	names   []string
	columns []Column
	index   map[string]int
}

// NewTable creates an empty table with no columns.
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// FromColumns builds a table from already-materialized columns in one step.
// This is the preferred construction path when the data is available up
// front: the column arrays are built directly and wrapped once, with no
// per-cell dispatch through the table.
//
// Names must be unique and all columns must have equal length.
func FromColumns(cols ...NamedColumn) (*Table, error) {
	t := &Table{
		names:   make([]string, 0, len(cols)),
		columns: make([]Column, 0, len(cols)),
		index:   make(map[string]int, len(cols)),
	}
	for _, nc := range cols {
		if nc.Column == nil {
			return nil, errors.Newf(errors.ErrorTypeValidation, "column %q is nil", nc.Name)
		}
		if _, exists := t.index[nc.Name]; exists {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate column name %q", nc.Name)
		}
		if len(t.columns) > 0 && nc.Column.Len() != t.columns[0].Len() {
			return nil, errors.Newf(errors.ErrorTypeSchemaMismatch,
				"column %q has %d rows, want %d", nc.Name, nc.Column.Len(), t.columns[0].Len())
		}
		t.index[nc.Name] = len(t.columns)
		t.names = append(t.names, nc.Name)
		t.columns = append(t.columns, nc.Column)
	}
	return t, nil
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.columns) }

// NumRows returns the number of rows. All columns hold this many cells.
func (t *Table) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// ColumnAt returns the column at position i. This is the performance-critical
// access path: O(1), no lookup, no allocation on success.
func (t *Table) ColumnAt(i int) (Column, error) {
	if i < 0 || i >= len(t.columns) {
		return nil, errors.Newf(errors.ErrorTypeOutOfRange, "column index %d out of range [0, %d)", i, len(t.columns))
	}
	return t.columns[i], nil
}

// Column resolves name to a position and delegates to positional access.
// The extra map lookup makes it inherently slower than ColumnAt.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeOutOfRange, "no column named %q", name)
	}
	return t.columns[i], nil
}

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, errors.Newf(errors.ErrorTypeOutOfRange, "no column named %q", name)
	}
	return i, nil
}

// Name returns the name of the column at position i.
func (t *Table) Name(i int) (string, error) {
	if i < 0 || i >= len(t.names) {
		return "", errors.Newf(errors.ErrorTypeOutOfRange, "column index %d out of range [0, %d)", i, len(t.names))
	}
	return t.names[i], nil
}

// Names returns the column names in order. The returned slice is a copy.
func (t *Table) Names() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// AddColumn appends a new column to the table. Its length must match the
// current row count unless the table has no columns yet.
func (t *Table) AddColumn(name string, column Column) error {
	if column == nil {
		return errors.Newf(errors.ErrorTypeValidation, "column %q is nil", name)
	}
	if _, exists := t.index[name]; exists {
		return errors.Newf(errors.ErrorTypeValidation, "duplicate column name %q", name)
	}
	if len(t.columns) > 0 && column.Len() != t.NumRows() {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"column %q has %d rows, want %d", name, column.Len(), t.NumRows())
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[name] = len(t.columns)
	t.names = append(t.names, name)
	t.columns = append(t.columns, column)
	return nil
}

// AppendRow appends exactly one row, one value per column in positional
// order. Every value is validated against its column kind before anything
// is mutated, so a failure leaves the table untouched.
//
// This is the fastest append variant: no temporary table is built.
func (t *Table) AppendRow(values ...interface{}) error {
	if len(values) != len(t.columns) {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"row has %d values, table has %d columns", len(values), len(t.columns))
	}
	for i, v := range values {
		if err := t.columns[i].CheckValue(v); err != nil {
			return errors.Wrap(err, errors.ErrorTypeSchemaMismatch,
				"value for column "+t.names[i]+" is incompatible")
		}
	}
	for i, v := range values {
		// Validated above, cannot fail
		if err := t.columns[i].Append(v); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "append after validation failed")
		}
	}
	return nil
}

// AppendTable extends every column in place by the rows of other. The two
// tables must have the same column count and pairwise compatible element
// kinds; the whole schema is validated before any column is mutated, so a
// failure leaves the table untouched.
//
// Appending is amortized O(appended rows): the underlying arrays grow
// geometrically. Contrast with Concat, which always copies everything.
func (t *Table) AppendTable(other *Table) error {
	if other == nil {
		return errors.New(errors.ErrorTypeValidation, "other table is nil")
	}
	if len(other.columns) != len(t.columns) {
		return errors.Newf(errors.ErrorTypeSchemaMismatch,
			"column count mismatch: %d != %d", len(t.columns), len(other.columns))
	}
	for i, col := range t.columns {
		if err := col.CheckColumn(other.columns[i]); err != nil {
			return errors.Wrap(err, errors.ErrorTypeSchemaMismatch,
				"column "+t.names[i]+" is incompatible")
		}
	}
	for i, col := range t.columns {
		// Validated above, cannot fail
		if err := col.AppendColumn(other.columns[i]); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "append after validation failed")
		}
	}
	return nil
}

// Concat returns a new table holding all rows of a followed by all rows of
// b. Both inputs are left unmodified; the result shares no mutable storage
// with them. This always pays a full copy, which is what makes it the slow
// alternative to AppendTable.
func Concat(a, b *Table) (*Table, error) {
	if a == nil || b == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "cannot concat nil tables")
	}
	if len(a.columns) != len(b.columns) {
		return nil, errors.Newf(errors.ErrorTypeSchemaMismatch,
			"column count mismatch: %d != %d", len(a.columns), len(b.columns))
	}
	for i, col := range a.columns {
		if err := col.CheckColumn(b.columns[i]); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeSchemaMismatch,
				"column "+a.names[i]+" is incompatible")
		}
	}
	out := &Table{
		names:   make([]string, len(a.names)),
		columns: make([]Column, len(a.columns)),
		index:   make(map[string]int, len(a.columns)),
	}
	copy(out.names, a.names)
	for name, i := range a.index {
		out.index[name] = i
	}
	for i, col := range a.columns {
		clone := col.Clone()
		if err := clone.AppendColumn(b.columns[i]); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "append after validation failed")
		}
		out.columns[i] = clone
	}
	return out, nil
}

// Row materializes row i as a name→value map. Intended for debugging and
// format export, not hot loops.
func (t *Table) Row(i int) (map[string]interface{}, error) {
	if i < 0 || i >= t.NumRows() {
		return nil, errors.Newf(errors.ErrorTypeOutOfRange, "row index %d out of range [0, %d)", i, t.NumRows())
	}
	row := make(map[string]interface{}, len(t.columns))
	for j, col := range t.columns {
		row[t.names[j]] = col.Get(i)
	}
	return row, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		names:   make([]string, len(t.names)),
		columns: make([]Column, len(t.columns)),
		index:   make(map[string]int, len(t.columns)),
	}
	copy(out.names, t.names)
	for name, i := range t.index {
		out.index[name] = i
	}
	for i, col := range t.columns {
		out.columns[i] = col.Clone()
	}
	return out
}

// Clear removes all rows from every column, keeping the schema.
func (t *Table) Clear() {
	for _, col := range t.columns {
		col.Clear()
	}
}

// MemoryUsage returns the approximate total memory held by the table's
// columns, in bytes.
func (t *Table) MemoryUsage() int64 {
	var total int64
	for i, col := range t.columns {
		total += int64(len(t.names[i]))
		total += col.MemoryUsage()
	}
	return total
}
