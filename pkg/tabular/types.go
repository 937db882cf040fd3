// Package tabular provides an in-memory columnar table: an ordered sequence
// of named, homogeneous, independently typed columns.
package tabular

import (
	"time"

	"github.com/columnlab/tabular/pkg/errors"
)

// ColumnType represents the data type of a column
type ColumnType int

const (
	ColumnTypeString ColumnType = iota
	ColumnTypeInt
	ColumnTypeFloat
	ColumnTypeBool
	ColumnTypeTime
)

// String returns the type name
func (t ColumnType) String() string {
	switch t {
	case ColumnTypeString:
		return "string"
	case ColumnTypeInt:
		return "int64"
	case ColumnTypeFloat:
		return "float64"
	case ColumnTypeBool:
		return "bool"
	case ColumnTypeTime:
		return "time"
	default:
		return "unknown"
	}
}

// Column is the base interface for all column variants. A column is a
// homogeneous array of a fixed element kind, owned exclusively by its Table.
//
// CheckValue and CheckColumn validate without mutating, so callers can
// guarantee that a subsequent Append or AppendColumn cannot leave the column
// partially modified.
type Column interface {
	Type() ColumnType
	Len() int
	Nullable() bool
	IsNull(i int) bool
	Get(i int) interface{}
	CheckValue(value interface{}) error
	Append(value interface{}) error
	CheckColumn(other Column) error
	AppendColumn(other Column) error
	Clone() Column
	Clear()
	MemoryUsage() int64
}

// Int64Column stores 64-bit integer values
type Int64Column struct {
	values []int64
}

// NewInt64Column creates an empty integer column
func NewInt64Column() *Int64Column {
	return &Int64Column{values: make([]int64, 0, 1024)}
}

// NewInt64ColumnFromValues wraps an already-materialized slice without
// copying. The column takes ownership of the slice.
func NewInt64ColumnFromValues(values []int64) *Int64Column {
	return &Int64Column{values: values}
}

func (c *Int64Column) Type() ColumnType  { return ColumnTypeInt }
func (c *Int64Column) Len() int          { return len(c.values) }
func (c *Int64Column) Nullable() bool    { return false }
func (c *Int64Column) IsNull(i int) bool { return false }

func (c *Int64Column) Get(i int) interface{} { return c.values[i] }

// Int64s returns the underlying slice for typed hot-loop access.
// The slice is shared with the column; do not grow it.
func (c *Int64Column) Int64s() []int64 { return c.values }

func (c *Int64Column) CheckValue(value interface{}) error {
	if _, err := coerceInt64(value); err != nil {
		return err
	}
	return nil
}

func (c *Int64Column) Append(value interface{}) error {
	v, err := coerceInt64(value)
	if err != nil {
		return err
	}
	c.values = append(c.values, v)
	return nil
}

func (c *Int64Column) CheckColumn(other Column) error {
	if _, ok := other.(*Int64Column); !ok {
		return incompatibleColumns(c, other)
	}
	return nil
}

func (c *Int64Column) AppendColumn(other Column) error {
	o, ok := other.(*Int64Column)
	if !ok {
		return incompatibleColumns(c, other)
	}
	c.values = append(c.values, o.values...)
	return nil
}

func (c *Int64Column) Clone() Column {
	values := make([]int64, len(c.values))
	copy(values, c.values)
	return &Int64Column{values: values}
}

func (c *Int64Column) Clear() { c.values = c.values[:0] }

func (c *Int64Column) MemoryUsage() int64 {
	return int64(len(c.values) * 8)
}

// Float64Column stores 64-bit floating point values
type Float64Column struct {
	values []float64
}

// NewFloat64Column creates an empty float column
func NewFloat64Column() *Float64Column {
	return &Float64Column{values: make([]float64, 0, 1024)}
}

// NewFloat64ColumnFromValues wraps an already-materialized slice without
// copying. The column takes ownership of the slice.
func NewFloat64ColumnFromValues(values []float64) *Float64Column {
	return &Float64Column{values: values}
}

func (c *Float64Column) Type() ColumnType  { return ColumnTypeFloat }
func (c *Float64Column) Len() int          { return len(c.values) }
func (c *Float64Column) Nullable() bool    { return false }
func (c *Float64Column) IsNull(i int) bool { return false }

func (c *Float64Column) Get(i int) interface{} { return c.values[i] }

// Float64s returns the underlying slice for typed hot-loop access.
// The slice is shared with the column; do not grow it.
func (c *Float64Column) Float64s() []float64 { return c.values }

func (c *Float64Column) CheckValue(value interface{}) error {
	if _, err := coerceFloat64(value); err != nil {
		return err
	}
	return nil
}

func (c *Float64Column) Append(value interface{}) error {
	v, err := coerceFloat64(value)
	if err != nil {
		return err
	}
	c.values = append(c.values, v)
	return nil
}

func (c *Float64Column) CheckColumn(other Column) error {
	if _, ok := other.(*Float64Column); !ok {
		return incompatibleColumns(c, other)
	}
	return nil
}

func (c *Float64Column) AppendColumn(other Column) error {
	o, ok := other.(*Float64Column)
	if !ok {
		return incompatibleColumns(c, other)
	}
	c.values = append(c.values, o.values...)
	return nil
}

func (c *Float64Column) Clone() Column {
	values := make([]float64, len(c.values))
	copy(values, c.values)
	return &Float64Column{values: values}
}

func (c *Float64Column) Clear() { c.values = c.values[:0] }

func (c *Float64Column) MemoryUsage() int64 {
	return int64(len(c.values) * 8)
}

// StringColumn stores string values
type StringColumn struct {
	values []string
}

// NewStringColumn creates an empty string column
func NewStringColumn() *StringColumn {
	return &StringColumn{values: make([]string, 0, 1024)}
}

// NewStringColumnFromValues wraps an already-materialized slice without
// copying. The column takes ownership of the slice.
func NewStringColumnFromValues(values []string) *StringColumn {
	return &StringColumn{values: values}
}

func (c *StringColumn) Type() ColumnType  { return ColumnTypeString }
func (c *StringColumn) Len() int          { return len(c.values) }
func (c *StringColumn) Nullable() bool    { return false }
func (c *StringColumn) IsNull(i int) bool { return false }

func (c *StringColumn) Get(i int) interface{} { return c.values[i] }

// Strings returns the underlying slice for typed hot-loop access.
// The slice is shared with the column; do not grow it.
func (c *StringColumn) Strings() []string { return c.values }

func (c *StringColumn) CheckValue(value interface{}) error {
	if _, ok := value.(string); !ok {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected string, got %T", value)
	}
	return nil
}

func (c *StringColumn) Append(value interface{}) error {
	v, ok := value.(string)
	if !ok {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected string, got %T", value)
	}
	c.values = append(c.values, v)
	return nil
}

func (c *StringColumn) CheckColumn(other Column) error {
	if _, ok := other.(*StringColumn); !ok {
		return incompatibleColumns(c, other)
	}
	return nil
}

func (c *StringColumn) AppendColumn(other Column) error {
	o, ok := other.(*StringColumn)
	if !ok {
		return incompatibleColumns(c, other)
	}
	c.values = append(c.values, o.values...)
	return nil
}

func (c *StringColumn) Clone() Column {
	values := make([]string, len(c.values))
	copy(values, c.values)
	return &StringColumn{values: values}
}

func (c *StringColumn) Clear() { c.values = c.values[:0] }

func (c *StringColumn) MemoryUsage() int64 {
	var total int64
	for _, v := range c.values {
		total += int64(len(v)) + 16 // string bytes + header overhead
	}
	return total
}

// BoolColumn stores boolean values bit-packed, 64 per word
type BoolColumn struct {
	words []uint64
	count int
}

// NewBoolColumn creates an empty boolean column
func NewBoolColumn() *BoolColumn {
	return &BoolColumn{words: make([]uint64, 0, 16)}
}

// NewBoolColumnFromValues packs an already-materialized slice.
func NewBoolColumnFromValues(values []bool) *BoolColumn {
	c := &BoolColumn{words: make([]uint64, 0, (len(values)+63)/64)}
	for _, v := range values {
		c.appendBool(v)
	}
	return c
}

func (c *BoolColumn) Type() ColumnType  { return ColumnTypeBool }
func (c *BoolColumn) Len() int          { return c.count }
func (c *BoolColumn) Nullable() bool    { return false }
func (c *BoolColumn) IsNull(i int) bool { return false }

func (c *BoolColumn) Get(i int) interface{} {
	return bitmapGet(c.words, i)
}

// Bools materializes the column into a fresh []bool for typed access.
func (c *BoolColumn) Bools() []bool {
	out := make([]bool, c.count)
	for i := range out {
		out[i] = bitmapGet(c.words, i)
	}
	return out
}

func (c *BoolColumn) CheckValue(value interface{}) error {
	if _, ok := value.(bool); !ok {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected bool, got %T", value)
	}
	return nil
}

func (c *BoolColumn) Append(value interface{}) error {
	v, ok := value.(bool)
	if !ok {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected bool, got %T", value)
	}
	c.appendBool(v)
	return nil
}

func (c *BoolColumn) appendBool(v bool) {
	word := c.count / 64
	if word >= len(c.words) {
		c.words = append(c.words, 0)
	}
	if v {
		c.words[word] |= 1 << (c.count % 64)
	}
	c.count++
}

func (c *BoolColumn) CheckColumn(other Column) error {
	if _, ok := other.(*BoolColumn); !ok {
		return incompatibleColumns(c, other)
	}
	return nil
}

func (c *BoolColumn) AppendColumn(other Column) error {
	o, ok := other.(*BoolColumn)
	if !ok {
		return incompatibleColumns(c, other)
	}
	// Bit offsets rarely line up, append element-wise
	for i := 0; i < o.count; i++ {
		c.appendBool(bitmapGet(o.words, i))
	}
	return nil
}

func (c *BoolColumn) Clone() Column {
	words := make([]uint64, len(c.words))
	copy(words, c.words)
	return &BoolColumn{words: words, count: c.count}
}

func (c *BoolColumn) Clear() {
	c.words = c.words[:0]
	c.count = 0
}

func (c *BoolColumn) MemoryUsage() int64 {
	return int64(len(c.words) * 8)
}

// TimeColumn stores timestamps as Unix seconds
type TimeColumn struct {
	values []int64
}

// NewTimeColumn creates an empty timestamp column
func NewTimeColumn() *TimeColumn {
	return &TimeColumn{values: make([]int64, 0, 1024)}
}

// NewTimeColumnFromValues converts an already-materialized slice of times.
func NewTimeColumnFromValues(values []time.Time) *TimeColumn {
	c := &TimeColumn{values: make([]int64, len(values))}
	for i, v := range values {
		c.values[i] = v.Unix()
	}
	return c
}

func (c *TimeColumn) Type() ColumnType  { return ColumnTypeTime }
func (c *TimeColumn) Len() int          { return len(c.values) }
func (c *TimeColumn) Nullable() bool    { return false }
func (c *TimeColumn) IsNull(i int) bool { return false }

func (c *TimeColumn) Get(i int) interface{} {
	return time.Unix(c.values[i], 0)
}

// Unixes returns the underlying Unix-seconds slice for typed hot-loop access.
func (c *TimeColumn) Unixes() []int64 { return c.values }

func (c *TimeColumn) CheckValue(value interface{}) error {
	if _, err := coerceUnix(value); err != nil {
		return err
	}
	return nil
}

func (c *TimeColumn) Append(value interface{}) error {
	v, err := coerceUnix(value)
	if err != nil {
		return err
	}
	c.values = append(c.values, v)
	return nil
}

func (c *TimeColumn) CheckColumn(other Column) error {
	if _, ok := other.(*TimeColumn); !ok {
		return incompatibleColumns(c, other)
	}
	return nil
}

func (c *TimeColumn) AppendColumn(other Column) error {
	o, ok := other.(*TimeColumn)
	if !ok {
		return incompatibleColumns(c, other)
	}
	c.values = append(c.values, o.values...)
	return nil
}

func (c *TimeColumn) Clone() Column {
	values := make([]int64, len(c.values))
	copy(values, c.values)
	return &TimeColumn{values: values}
}

func (c *TimeColumn) Clear() { c.values = c.values[:0] }

func (c *TimeColumn) MemoryUsage() int64 {
	return int64(len(c.values) * 8)
}

// Value coercion helpers

func coerceInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	default:
		return 0, errors.Newf(errors.ErrorTypeSchemaMismatch, "expected int64, got %T", value)
	}
}

func coerceFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	default:
		return 0, errors.Newf(errors.ErrorTypeSchemaMismatch, "expected float64, got %T", value)
	}
}

func coerceUnix(value interface{}) (int64, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Unix(), nil
	case int64:
		return v, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeSchemaMismatch, "expected time.Time, got %T", value)
	}
}

func incompatibleColumns(dst, src Column) error {
	return errors.Newf(errors.ErrorTypeSchemaMismatch,
		"incompatible column kinds: cannot append %s to %s", describeColumn(src), describeColumn(dst))
}

func describeColumn(c Column) string {
	kind := c.Type().String()
	if _, ok := c.(*CategoricalColumn); ok {
		kind = "categorical " + kind
	} else if c.Nullable() {
		kind = "nullable " + kind
	}
	return kind
}

// Bitmap helpers shared by BoolColumn and the nullable variants.

func bitmapGet(words []uint64, i int) bool {
	return words[i/64]&(1<<(i%64)) != 0
}

func bitmapAppend(words []uint64, i int, v bool) []uint64 {
	if i/64 >= len(words) {
		words = append(words, 0)
	}
	if v {
		words[i/64] |= 1 << (i % 64)
	}
	return words
}

func bitmapCount(words []uint64, n int) int {
	count := 0
	for i := 0; i < n; i++ {
		if bitmapGet(words, i) {
			count++
		}
	}
	return count
}
