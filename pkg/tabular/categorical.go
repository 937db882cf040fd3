package tabular

import (
	"github.com/columnlab/tabular/pkg/errors"
	stringpool "github.com/columnlab/tabular/pkg/strings"
)

// Dictionary maps distinct string values to small integer codes. It is built
// once when a categorical column is constructed and is immutable afterwards;
// all cells of the column share it by reference.
type Dictionary struct {
	codes  map[string]uint32
	values []string
}

// NewDictionary builds a dictionary from distinct values in first-seen order.
// Duplicate entries are collapsed; the values are interned so repeated cells
// share one backing allocation.
func NewDictionary(distinct []string) *Dictionary {
	intern := stringpool.NewIntern()
	d := &Dictionary{
		codes:  make(map[string]uint32, len(distinct)),
		values: make([]string, 0, len(distinct)),
	}
	for _, v := range distinct {
		if _, exists := d.codes[v]; exists {
			continue
		}
		interned := intern.Get(v)
		d.codes[interned] = uint32(len(d.values)) //nolint:gosec // G115: dictionaries are small by construction
		d.values = append(d.values, interned)
	}
	return d
}

// Code returns the code for a value and whether the value is in the dictionary.
func (d *Dictionary) Code(value string) (uint32, bool) {
	code, ok := d.codes[value]
	return code, ok
}

// Value decodes a code with one slice indirection.
func (d *Dictionary) Value(code uint32) string {
	return d.values[code]
}

// Size returns the number of distinct values.
func (d *Dictionary) Size() int {
	return len(d.values)
}

// Values returns the distinct values in code order. The returned slice is
// shared with the dictionary; do not modify it.
func (d *Dictionary) Values() []string {
	return d.values
}

// CategoricalColumn stores each cell as a code into a shared dictionary.
// The stored payload is smaller than the raw strings, but every read pays
// one dictionary indirection.
//
// A nil validity bitmap means the column has no absent slots.
type CategoricalColumn struct {
	dict     *Dictionary
	codes    []uint32
	validity []uint64
}

// NewCategoricalColumn encodes values into a fresh column, building the
// dictionary from the distinct values in first-seen order.
func NewCategoricalColumn(values []string) *CategoricalColumn {
	dict := NewDictionary(values)
	codes := make([]uint32, len(values))
	for i, v := range values {
		code, _ := dict.Code(v)
		codes[i] = code
	}
	return &CategoricalColumn{dict: dict, codes: codes}
}

// NewCategoricalColumnWithDictionary creates an empty column bound to an
// existing dictionary. Appends of values outside the dictionary fail.
func NewCategoricalColumnWithDictionary(dict *Dictionary) *CategoricalColumn {
	return &CategoricalColumn{dict: dict, codes: make([]uint32, 0, 1024)}
}

// NewNullableCategoricalColumnWithDictionary creates an empty nullable
// column bound to an existing dictionary.
func NewNullableCategoricalColumnWithDictionary(dict *Dictionary) *CategoricalColumn {
	return &CategoricalColumn{
		dict:     dict,
		codes:    make([]uint32, 0, 1024),
		validity: make([]uint64, 0, 16),
	}
}

// NewNullableCategoricalColumn encodes values with a validity mask.
// valid[i] == false marks slot i absent; values[i] is then ignored.
func NewNullableCategoricalColumn(values []string, valid []bool) *CategoricalColumn {
	present := make([]string, 0, len(values))
	for i, v := range values {
		if valid[i] {
			present = append(present, v)
		}
	}
	dict := NewDictionary(present)
	c := &CategoricalColumn{
		dict:     dict,
		codes:    make([]uint32, len(values)),
		validity: make([]uint64, 0, (len(values)+63)/64),
	}
	for i, v := range values {
		c.validity = bitmapAppend(c.validity, i, valid[i])
		if valid[i] {
			code, _ := dict.Code(v)
			c.codes[i] = code
		}
	}
	return c
}

func (c *CategoricalColumn) Type() ColumnType { return ColumnTypeString }
func (c *CategoricalColumn) Len() int         { return len(c.codes) }
func (c *CategoricalColumn) Nullable() bool   { return c.validity != nil }

func (c *CategoricalColumn) IsNull(i int) bool {
	return c.validity != nil && !bitmapGet(c.validity, i)
}

// Get materializes the value at i via one dictionary indirection,
// or nil if the slot is absent.
func (c *CategoricalColumn) Get(i int) interface{} {
	if c.IsNull(i) {
		return nil
	}
	return c.dict.Value(c.codes[i])
}

// Dict returns the shared dictionary.
func (c *CategoricalColumn) Dict() *Dictionary { return c.dict }

// Codes returns the underlying code slice for typed hot-loop access.
// The slice is shared with the column; do not grow it.
func (c *CategoricalColumn) Codes() []uint32 { return c.codes }

// DistinctCount returns the number of distinct values in the dictionary.
func (c *CategoricalColumn) DistinctCount() int { return c.dict.Size() }

// ValueCounts returns the per-value occurrence counts keyed by decoded value.
// Absent slots are not counted.
func (c *CategoricalColumn) ValueCounts() map[string]int {
	perCode := make([]int, c.dict.Size())
	for i, code := range c.codes {
		if c.IsNull(i) {
			continue
		}
		perCode[code]++
	}
	counts := make(map[string]int, c.dict.Size())
	for code, n := range perCode {
		counts[c.dict.Value(uint32(code))] = n //nolint:gosec // G115: code fits by construction
	}
	return counts
}

func (c *CategoricalColumn) CheckValue(value interface{}) error {
	// Nullability is fixed at construction
	if value == nil {
		if c.validity == nil {
			return errors.New(errors.ErrorTypeSchemaMismatch, "cannot append nil to a non-nullable categorical column")
		}
		return nil
	}
	v, ok := value.(string)
	if !ok {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "expected string, got %T", value)
	}
	if _, found := c.dict.Code(v); !found {
		return errors.Newf(errors.ErrorTypeSchemaMismatch, "value %q is not in the category dictionary", v)
	}
	return nil
}

func (c *CategoricalColumn) Append(value interface{}) error {
	if err := c.CheckValue(value); err != nil {
		return err
	}
	if value == nil {
		c.validity = bitmapAppend(c.validity, len(c.codes), false)
		c.codes = append(c.codes, 0)
		return nil
	}
	code, _ := c.dict.Code(value.(string))
	if c.validity != nil {
		c.validity = bitmapAppend(c.validity, len(c.codes), true)
	}
	c.codes = append(c.codes, code)
	return nil
}

func (c *CategoricalColumn) CheckColumn(other Column) error {
	o, ok := other.(*CategoricalColumn)
	if !ok {
		return incompatibleColumns(c, other)
	}
	if o.Nullable() && !c.Nullable() {
		return errors.New(errors.ErrorTypeSchemaMismatch, "cannot append a nullable categorical column to a non-nullable one")
	}
	// Every incoming value must already be in our dictionary
	for i := range o.codes {
		if o.IsNull(i) {
			continue
		}
		v := o.dict.Value(o.codes[i])
		if _, found := c.dict.Code(v); !found {
			return errors.Newf(errors.ErrorTypeSchemaMismatch, "value %q is not in the category dictionary", v)
		}
	}
	return nil
}

func (c *CategoricalColumn) AppendColumn(other Column) error {
	if err := c.CheckColumn(other); err != nil {
		return err
	}
	o := other.(*CategoricalColumn)
	for i := range o.codes {
		if o.IsNull(i) {
			c.validity = bitmapAppend(c.validity, len(c.codes), false)
			c.codes = append(c.codes, 0)
			continue
		}
		code, _ := c.dict.Code(o.dict.Value(o.codes[i]))
		if c.validity != nil {
			c.validity = bitmapAppend(c.validity, len(c.codes), true)
		}
		c.codes = append(c.codes, code)
	}
	return nil
}

func (c *CategoricalColumn) Clone() Column {
	codes := make([]uint32, len(c.codes))
	copy(codes, c.codes)
	clone := &CategoricalColumn{dict: c.dict, codes: codes}
	if c.validity != nil {
		clone.validity = make([]uint64, len(c.validity))
		copy(clone.validity, c.validity)
	}
	return clone
}

// Clear drops all cells. The dictionary is retained: it belongs to the
// column's construction, not its contents.
func (c *CategoricalColumn) Clear() {
	c.codes = c.codes[:0]
	if c.validity != nil {
		c.validity = c.validity[:0]
	}
}

func (c *CategoricalColumn) MemoryUsage() int64 {
	var total int64
	for _, v := range c.dict.values {
		total += int64(len(v)) + 4 // string bytes + uint32 code
	}
	total += int64(len(c.codes) * 4)
	total += int64(len(c.validity) * 8)
	return total
}
