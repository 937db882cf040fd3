package tabular

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/columnlab/tabular/pkg/errors"
)

// ToArrow converts the table to an Arrow record batch. Nullable columns map
// to Arrow validity bitmaps; categorical columns are materialized to plain
// string arrays (dictionary re-encoding on the Arrow side is the consumer's
// business). The caller must Release the returned record.
func ToArrow(t *Table, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	fields := make([]arrow.Field, t.NumCols())
	arrays := make([]arrow.Array, t.NumCols())
	defer func() {
		for _, a := range arrays {
			if a != nil {
				a.Release()
			}
		}
	}()

	for i, col := range t.columns {
		field, arr, err := columnToArrow(t.names[i], col, mem)
		if err != nil {
			return nil, err
		}
		fields[i] = field
		arrays[i] = arr
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, arrays, int64(t.NumRows()))
	return rec, nil
}

func columnToArrow(name string, col Column, mem memory.Allocator) (arrow.Field, arrow.Array, error) {
	valid := validMask(col)

	switch v := col.(type) {
	case *Int64Column:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(v.values, nil)
		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64}, b.NewArray(), nil
	case *NullableInt64Column:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(v.values, valid)
		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64, Nullable: true}, b.NewArray(), nil
	case *Float64Column:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(v.values, nil)
		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64}, b.NewArray(), nil
	case *NullableFloat64Column:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(v.values, valid)
		return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}, b.NewArray(), nil
	case *StringColumn:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(v.values, nil)
		return arrow.Field{Name: name, Type: arrow.BinaryTypes.String}, b.NewArray(), nil
	case *NullableStringColumn:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(v.values, valid)
		return arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}, b.NewArray(), nil
	case *BoolColumn:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(v.Bools(), nil)
		return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean}, b.NewArray(), nil
	case *TimeColumn:
		typ := &arrow.TimestampType{Unit: arrow.Second}
		b := array.NewTimestampBuilder(mem, typ)
		defer b.Release()
		stamps := make([]arrow.Timestamp, len(v.values))
		for i, unix := range v.values {
			stamps[i] = arrow.Timestamp(unix)
		}
		b.AppendValues(stamps, nil)
		return arrow.Field{Name: name, Type: typ}, b.NewArray(), nil
	case *CategoricalColumn:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		values := make([]string, len(v.codes))
		for i, code := range v.codes {
			if v.IsNull(i) {
				continue
			}
			values[i] = v.dict.Value(code)
		}
		b.AppendValues(values, valid)
		return arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: v.Nullable()}, b.NewArray(), nil
	default:
		return arrow.Field{}, nil, errors.Newf(errors.ErrorTypeData, "unsupported column type %T", col)
	}
}

// validMask expands a column's validity bitmap to the []bool form Arrow
// builders take, or nil for non-nullable columns.
func validMask(col Column) []bool {
	if !col.Nullable() {
		return nil
	}
	valid := make([]bool, col.Len())
	for i := range valid {
		valid[i] = !col.IsNull(i)
	}
	return valid
}
