package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/columnlab/tabular/pkg/errors"
)

var statusDomain = []string{
	"pending", "active", "shipped", "delivered", "returned",
	"cancelled", "refunded", "archived", "disputed", "expired",
}

func TestCategoricalTenDistinct(t *testing.T) {
	rows := 100_000
	values := make([]string, rows)
	for i := range values {
		values[i] = statusDomain[i%len(statusDomain)]
	}

	col := NewCategoricalColumn(values)

	assert.Equal(t, rows, col.Len())
	assert.Equal(t, 10, col.DistinctCount())

	counts := col.ValueCounts()
	require.Len(t, counts, 10)
	total := 0
	for _, v := range statusDomain {
		assert.Equal(t, 10_000, counts[v], "count for %q", v)
		total += counts[v]
	}
	assert.Equal(t, rows, total)

	// Reading back materializes through the dictionary
	for i := 0; i < 10; i++ {
		assert.Equal(t, statusDomain[i], col.Get(i))
	}
}

func TestDictionaryFirstSeenOrder(t *testing.T) {
	dict := NewDictionary([]string{"b", "a", "b", "c", "a"})

	assert.Equal(t, 3, dict.Size())
	assert.Equal(t, []string{"b", "a", "c"}, dict.Values())

	code, ok := dict.Code("a")
	require.True(t, ok)
	assert.Equal(t, uint32(1), code)
	assert.Equal(t, "a", dict.Value(1))

	_, ok = dict.Code("z")
	assert.False(t, ok)
}

func TestCategoricalAppendOutsideDictionary(t *testing.T) {
	col := NewCategoricalColumn([]string{"red", "green", "red"})

	require.NoError(t, col.Append("green"))
	assert.Equal(t, 4, col.Len())

	err := col.Append("blue")
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.Equal(t, 4, col.Len())
	assert.Equal(t, 2, col.DistinctCount())
}

func TestCategoricalAppendColumn(t *testing.T) {
	dst := NewCategoricalColumn([]string{"x", "y", "x"})
	src := NewCategoricalColumnWithDictionary(dst.Dict())
	require.NoError(t, src.Append("y"))
	require.NoError(t, src.Append("x"))

	require.NoError(t, dst.AppendColumn(src))
	assert.Equal(t, 5, dst.Len())
	assert.Equal(t, "y", dst.Get(3))

	// A source with values outside the dictionary is rejected before mutation
	foreign := NewCategoricalColumn([]string{"z"})
	err := dst.CheckColumn(foreign)
	assert.True(t, errors.IsSchemaMismatch(err))

	err = dst.AppendColumn(foreign)
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.Equal(t, 5, dst.Len())
}

func TestCategoricalNilRejectedWhenNotNullable(t *testing.T) {
	// An empty column keeps the nullability it was constructed with
	empty := NewCategoricalColumnWithDictionary(NewDictionary([]string{"on", "off"}))
	err := empty.Append(nil)
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.Equal(t, 0, empty.Len())
	assert.False(t, empty.Nullable())

	populated := NewCategoricalColumn([]string{"on", "off"})
	err = populated.CheckValue(nil)
	assert.True(t, errors.IsSchemaMismatch(err))

	nullable := NewNullableCategoricalColumnWithDictionary(NewDictionary([]string{"on", "off"}))
	assert.True(t, nullable.Nullable())
	require.NoError(t, nullable.Append(nil))
	require.NoError(t, nullable.Append("on"))
	assert.Equal(t, 2, nullable.Len())
	assert.Nil(t, nullable.Get(0))
	assert.Equal(t, "on", nullable.Get(1))
}

func TestNullableCategorical(t *testing.T) {
	values := []string{"a", "", "b", "", "a", "b"}
	valid := []bool{true, false, true, false, true, true}

	col := NewNullableCategoricalColumn(values, valid)

	assert.True(t, col.Nullable())
	assert.Equal(t, 6, col.Len())
	assert.Equal(t, 2, col.DistinctCount())
	assert.Nil(t, col.Get(1))
	assert.Equal(t, "b", col.Get(5))

	counts := col.ValueCounts()
	assert.Equal(t, 2, counts["a"])
	assert.Equal(t, 2, counts["b"])
}

func TestCategoricalInTable(t *testing.T) {
	rows := 1000
	values := make([]string, rows)
	ids := make([]int64, rows)
	for i := range values {
		values[i] = statusDomain[i%3]
		ids[i] = int64(i)
	}

	table, err := FromColumns(
		Col("id", NewInt64ColumnFromValues(ids)),
		Col("status", NewCategoricalColumn(values)),
	)
	require.NoError(t, err)

	col, err := table.Column("status")
	require.NoError(t, err)
	assert.Equal(t, 3, col.(*CategoricalColumn).DistinctCount())

	require.NoError(t, table.AppendRow(int64(rows), statusDomain[0]))
	assert.Equal(t, rows+1, table.NumRows())

	err = table.AppendRow(int64(rows+1), "not-a-status")
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.Equal(t, rows+1, table.NumRows())
}

func TestCategoricalCodesAndCounts(t *testing.T) {
	col := NewCategoricalColumn([]string{"a", "b", "a", "a", "b"})

	counts := CountCodes(col.Codes(), col.Dict().Size())
	assert.Equal(t, []int{3, 2}, counts)
}
