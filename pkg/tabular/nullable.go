package tabular

import (
	"github.com/columnlab/tabular/pkg/errors"
)

// Nullable columns pair the raw storage with a validity bitmap: a set bit
// means the slot holds a value, a clear bit means the slot is absent. Every
// read pays the check-and-branch, which is what makes iteration over a
// nullable column strictly more expensive than over its raw counterpart.

// NullableInt64Column stores 64-bit integers where slots may be absent
type NullableInt64Column struct {
	values   []int64
	validity []uint64
}

// NewNullableInt64Column creates an empty nullable integer column
func NewNullableInt64Column() *NullableInt64Column {
	return &NullableInt64Column{
		values:   make([]int64, 0, 1024),
		validity: make([]uint64, 0, 16),
	}
}

// NewNullableInt64ColumnFromValues wraps a slice and a validity mask.
// valid[i] == false marks slot i absent; values[i] is then ignored.
func NewNullableInt64ColumnFromValues(values []int64, valid []bool) *NullableInt64Column {
	c := &NullableInt64Column{
		values:   values,
		validity: make([]uint64, 0, (len(values)+63)/64),
	}
	for i := range values {
		c.validity = bitmapAppend(c.validity, i, valid[i])
	}
	return c
}

func (c *NullableInt64Column) Type() ColumnType { return ColumnTypeInt }
func (c *NullableInt64Column) Len() int         { return len(c.values) }
func (c *NullableInt64Column) Nullable() bool   { return true }

func (c *NullableInt64Column) IsNull(i int) bool { return !bitmapGet(c.validity, i) }

// Get returns the value at i, or nil if the slot is absent.
func (c *NullableInt64Column) Get(i int) interface{} {
	if !bitmapGet(c.validity, i) {
		return nil
	}
	return c.values[i]
}

// Int64s returns the underlying value slice; absent slots hold zero.
// Pair it with Validity for typed hot-loop access.
func (c *NullableInt64Column) Int64s() []int64 { return c.values }

// Validity returns the validity bitmap, 64 slots per word.
func (c *NullableInt64Column) Validity() []uint64 { return c.validity }

// CountValid returns the number of present slots.
func (c *NullableInt64Column) CountValid() int { return bitmapCount(c.validity, len(c.values)) }

func (c *NullableInt64Column) CheckValue(value interface{}) error {
	if value == nil {
		return nil
	}
	_, err := coerceInt64(value)
	return err
}

func (c *NullableInt64Column) Append(value interface{}) error {
	if value == nil {
		c.validity = bitmapAppend(c.validity, len(c.values), false)
		c.values = append(c.values, 0)
		return nil
	}
	v, err := coerceInt64(value)
	if err != nil {
		return err
	}
	c.validity = bitmapAppend(c.validity, len(c.values), true)
	c.values = append(c.values, v)
	return nil
}

func (c *NullableInt64Column) CheckColumn(other Column) error {
	switch other.(type) {
	case *NullableInt64Column, *Int64Column:
		return nil
	default:
		return incompatibleColumns(c, other)
	}
}

func (c *NullableInt64Column) AppendColumn(other Column) error {
	switch o := other.(type) {
	case *NullableInt64Column:
		for i, v := range o.values {
			c.validity = bitmapAppend(c.validity, len(c.values), bitmapGet(o.validity, i))
			c.values = append(c.values, v)
		}
		return nil
	case *Int64Column:
		// Raw values are all present
		for _, v := range o.values {
			c.validity = bitmapAppend(c.validity, len(c.values), true)
			c.values = append(c.values, v)
		}
		return nil
	default:
		return incompatibleColumns(c, other)
	}
}

func (c *NullableInt64Column) Clone() Column {
	values := make([]int64, len(c.values))
	copy(values, c.values)
	validity := make([]uint64, len(c.validity))
	copy(validity, c.validity)
	return &NullableInt64Column{values: values, validity: validity}
}

func (c *NullableInt64Column) Clear() {
	c.values = c.values[:0]
	c.validity = c.validity[:0]
}

func (c *NullableInt64Column) MemoryUsage() int64 {
	return int64(len(c.values)*8 + len(c.validity)*8)
}

// NullableFloat64Column stores 64-bit floats where slots may be absent
type NullableFloat64Column struct {
	values   []float64
	validity []uint64
}

// NewNullableFloat64Column creates an empty nullable float column
func NewNullableFloat64Column() *NullableFloat64Column {
	return &NullableFloat64Column{
		values:   make([]float64, 0, 1024),
		validity: make([]uint64, 0, 16),
	}
}

// NewNullableFloat64ColumnFromValues wraps a slice and a validity mask.
// valid[i] == false marks slot i absent; values[i] is then ignored.
func NewNullableFloat64ColumnFromValues(values []float64, valid []bool) *NullableFloat64Column {
	c := &NullableFloat64Column{
		values:   values,
		validity: make([]uint64, 0, (len(values)+63)/64),
	}
	for i := range values {
		c.validity = bitmapAppend(c.validity, i, valid[i])
	}
	return c
}

func (c *NullableFloat64Column) Type() ColumnType { return ColumnTypeFloat }
func (c *NullableFloat64Column) Len() int         { return len(c.values) }
func (c *NullableFloat64Column) Nullable() bool   { return true }

func (c *NullableFloat64Column) IsNull(i int) bool { return !bitmapGet(c.validity, i) }

// Get returns the value at i, or nil if the slot is absent.
func (c *NullableFloat64Column) Get(i int) interface{} {
	if !bitmapGet(c.validity, i) {
		return nil
	}
	return c.values[i]
}

// Float64s returns the underlying value slice; absent slots hold zero.
// Pair it with Validity for typed hot-loop access.
func (c *NullableFloat64Column) Float64s() []float64 { return c.values }

// Validity returns the validity bitmap, 64 slots per word.
func (c *NullableFloat64Column) Validity() []uint64 { return c.validity }

// CountValid returns the number of present slots.
func (c *NullableFloat64Column) CountValid() int { return bitmapCount(c.validity, len(c.values)) }

func (c *NullableFloat64Column) CheckValue(value interface{}) error {
	if value == nil {
		return nil
	}
	_, err := coerceFloat64(value)
	return err
}

func (c *NullableFloat64Column) Append(value interface{}) error {
	if value == nil {
		c.validity = bitmapAppend(c.validity, len(c.values), false)
		c.values = append(c.values, 0)
		return nil
	}
	v, err := coerceFloat64(value)
	if err != nil {
		return err
	}
	c.validity = bitmapAppend(c.validity, len(c.values), true)
	c.values = append(c.values, v)
	return nil
}

func (c *NullableFloat64Column) CheckColumn(other Column) error {
	switch other.(type) {
	case *NullableFloat64Column, *Float64Column:
		return nil
	default:
		return incompatibleColumns(c, other)
	}
}

func (c *NullableFloat64Column) AppendColumn(other Column) error {
	switch o := other.(type) {
	case *NullableFloat64Column:
		for i, v := range o.values {
			c.validity = bitmapAppend(c.validity, len(c.values), bitmapGet(o.validity, i))
			c.values = append(c.values, v)
		}
		return nil
	case *Float64Column:
		// Raw values are all present
		for _, v := range o.values {
			c.validity = bitmapAppend(c.validity, len(c.values), true)
			c.values = append(c.values, v)
		}
		return nil
	default:
		return incompatibleColumns(c, other)
	}
}

func (c *NullableFloat64Column) Clone() Column {
	values := make([]float64, len(c.values))
	copy(values, c.values)
	validity := make([]uint64, len(c.validity))
	copy(validity, c.validity)
	return &NullableFloat64Column{values: values, validity: validity}
}

func (c *NullableFloat64Column) Clear() {
	c.values = c.values[:0]
	c.validity = c.validity[:0]
}

func (c *NullableFloat64Column) MemoryUsage() int64 {
	return int64(len(c.values)*8 + len(c.validity)*8)
}

// NullableStringColumn stores strings where slots may be absent
type NullableStringColumn struct {
	values   []string
	validity []uint64
}

// NewNullableStringColumn creates an empty nullable string column
func NewNullableStringColumn() *NullableStringColumn {
	return &NullableStringColumn{
		values:   make([]string, 0, 1024),
		validity: make([]uint64, 0, 16),
	}
}

// NewNullableStringColumnFromValues wraps a slice and a validity mask.
// valid[i] == false marks slot i absent; values[i] is then ignored.
func NewNullableStringColumnFromValues(values []string, valid []bool) *NullableStringColumn {
	c := &NullableStringColumn{
		values:   values,
		validity: make([]uint64, 0, (len(values)+63)/64),
	}
	for i := range values {
		c.validity = bitmapAppend(c.validity, i, valid[i])
	}
	return c
}

func (c *NullableStringColumn) Type() ColumnType { return ColumnTypeString }
func (c *NullableStringColumn) Len() int         { return len(c.values) }
func (c *NullableStringColumn) Nullable() bool   { return true }

func (c *NullableStringColumn) IsNull(i int) bool { return !bitmapGet(c.validity, i) }

// Get returns the value at i, or nil if the slot is absent.
func (c *NullableStringColumn) Get(i int) interface{} {
	if !bitmapGet(c.validity, i) {
		return nil
	}
	return c.values[i]
}

// Strings returns the underlying value slice; absent slots hold "".
// Pair it with Validity for typed hot-loop access.
func (c *NullableStringColumn) Strings() []string { return c.values }

// Validity returns the validity bitmap, 64 slots per word.
func (c *NullableStringColumn) Validity() []uint64 { return c.validity }

// CountValid returns the number of present slots.
func (c *NullableStringColumn) CountValid() int { return bitmapCount(c.validity, len(c.values)) }

func (c *NullableStringColumn) CheckValue(value interface{}) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(string); !ok {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected string, got %T", value)
	}
	return nil
}

func (c *NullableStringColumn) Append(value interface{}) error {
	if value == nil {
		c.validity = bitmapAppend(c.validity, len(c.values), false)
		c.values = append(c.values, "")
		return nil
	}
	v, ok := value.(string)
	if !ok {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected string, got %T", value)
	}
	c.validity = bitmapAppend(c.validity, len(c.values), true)
	c.values = append(c.values, v)
	return nil
}

func (c *NullableStringColumn) CheckColumn(other Column) error {
	switch other.(type) {
	case *NullableStringColumn, *StringColumn:
		return nil
	default:
		return incompatibleColumns(c, other)
	}
}

func (c *NullableStringColumn) AppendColumn(other Column) error {
	switch o := other.(type) {
	case *NullableStringColumn:
		for i, v := range o.values {
			c.validity = bitmapAppend(c.validity, len(c.values), bitmapGet(o.validity, i))
			c.values = append(c.values, v)
		}
		return nil
	case *StringColumn:
		// Raw values are all present
		for _, v := range o.values {
			c.validity = bitmapAppend(c.validity, len(c.values), true)
			c.values = append(c.values, v)
		}
		return nil
	default:
		return incompatibleColumns(c, other)
	}
}

func (c *NullableStringColumn) Clone() Column {
	values := make([]string, len(c.values))
	copy(values, c.values)
	validity := make([]uint64, len(c.validity))
	copy(validity, c.validity)
	return &NullableStringColumn{values: values, validity: validity}
}

func (c *NullableStringColumn) Clear() {
	c.values = c.values[:0]
	c.validity = c.validity[:0]
}

func (c *NullableStringColumn) MemoryUsage() int64 {
	var total int64
	for _, v := range c.values {
		total += int64(len(v)) + 16
	}
	return total + int64(len(c.validity)*8)
}
