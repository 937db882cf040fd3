package tabular

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToArrowShape(t *testing.T) {
	table, err := FromColumns(codecColumns(t)...)
	require.NoError(t, err)

	rec, err := ToArrow(table, memory.NewGoAllocator())
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(table.NumCols()), rec.NumCols())
	assert.Equal(t, int64(table.NumRows()), rec.NumRows())
	for i, name := range table.Names() {
		assert.Equal(t, name, rec.Schema().Field(i).Name)
	}
}

func TestToArrowValues(t *testing.T) {
	ids := []int64{10, 20, 30}
	labels := []string{"a", "b", "c"}
	table, err := FromColumns(
		Col("id", NewInt64ColumnFromValues(ids)),
		Col("label", NewStringColumnFromValues(labels)),
	)
	require.NoError(t, err)

	rec, err := ToArrow(table, nil)
	require.NoError(t, err)
	defer rec.Release()

	idArr, ok := rec.Column(0).(*array.Int64)
	require.True(t, ok)
	assert.Equal(t, ids, idArr.Int64Values())

	labelArr, ok := rec.Column(1).(*array.String)
	require.True(t, ok)
	for i, want := range labels {
		assert.Equal(t, want, labelArr.Value(i))
	}
}

func TestToArrowNullCounts(t *testing.T) {
	n := 100
	values := make([]float64, n)
	valid := make([]bool, n)
	for i := range values {
		values[i] = float64(i)
		valid[i] = i%4 != 0
	}
	table, err := FromColumns(
		Col("score", NewNullableFloat64ColumnFromValues(values, valid)),
	)
	require.NoError(t, err)

	rec, err := ToArrow(table, memory.NewGoAllocator())
	require.NoError(t, err)
	defer rec.Release()

	field := rec.Schema().Field(0)
	assert.True(t, field.Nullable)

	arr := rec.Column(0)
	assert.Equal(t, 25, arr.NullN())
	for i := 0; i < n; i++ {
		assert.Equal(t, !valid[i], arr.IsNull(i), "slot %d", i)
	}
}

func TestToArrowCategoricalMaterializes(t *testing.T) {
	values := []string{"red", "green", "red", "blue", "green"}
	table, err := FromColumns(
		Col("color", NewCategoricalColumn(values)),
	)
	require.NoError(t, err)

	rec, err := ToArrow(table, memory.NewGoAllocator())
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, arrow.BinaryTypes.String, rec.Schema().Field(0).Type)
	arr, ok := rec.Column(0).(*array.String)
	require.True(t, ok)
	for i, want := range values {
		assert.Equal(t, want, arr.Value(i))
	}
}

func TestToArrowTimestampUnit(t *testing.T) {
	tsTable, err := FromColumns(codecColumns(t)...)
	require.NoError(t, err)

	rec, err := ToArrow(tsTable, nil)
	require.NoError(t, err)
	defer rec.Release()

	idx, err := tsTable.ColumnIndex("ts")
	require.NoError(t, err)
	typ, ok := rec.Schema().Field(idx).Type.(*arrow.TimestampType)
	require.True(t, ok)
	assert.Equal(t, arrow.Second, typ.Unit)
}
