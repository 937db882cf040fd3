package datagen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/columnlab/tabular/pkg/errors"
	"github.com/columnlab/tabular/pkg/tabular"
)

func TestSameSeedSameData(t *testing.T) {
	a, err := New(42).Int64s(1000, 0, 1_000_000)
	require.NoError(t, err)
	b, err := New(42).Int64s(1000, 0, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := New(43).Int64s(1000, 0, 1_000_000)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestInt64sRejectsEmptyRange(t *testing.T) {
	for _, bounds := range [][2]int64{{5, 5}, {10, 5}} {
		_, err := New(1).Int64s(100, bounds[0], bounds[1])
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	}
}

func TestSameSeedSameTable(t *testing.T) {
	left, err := New(7).MixedTable(500, 10, 3)
	require.NoError(t, err)
	right, err := New(7).MixedTable(500, 10, 3)
	require.NoError(t, err)

	require.Equal(t, left.NumRows(), right.NumRows())
	for i := 0; i < left.NumCols(); i++ {
		lc, err := left.ColumnAt(i)
		require.NoError(t, err)
		rc, err := right.ColumnAt(i)
		require.NoError(t, err)
		for j := 0; j < lc.Len(); j++ {
			require.Equal(t, lc.Get(j), rc.Get(j))
		}
	}
}

func TestNumericTableShape(t *testing.T) {
	table, err := New(1).NumericTable(100)
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumCols())
	assert.Equal(t, 100, table.NumRows())
	assert.Equal(t, []string{"id", "price"}, table.Names())
}

func TestStrideMask(t *testing.T) {
	valid := StrideMask(9, 3)
	assert.Equal(t, []bool{true, true, false, true, true, false, true, true, false}, valid)

	present := 0
	for _, v := range StrideMask(1000, 3) {
		if v {
			present++
		}
	}
	assert.Equal(t, 667, present)
}

func TestDomainDistinct(t *testing.T) {
	domain := Domain(10)
	assert.Len(t, domain, 10)
	seen := make(map[string]bool, 10)
	for _, s := range domain {
		seen[s] = true
	}
	assert.Len(t, seen, 10)
}

func TestCategoricalValuesCoverDomain(t *testing.T) {
	values := New(3).CategoricalValues(100_000, 10)
	col := tabular.NewCategoricalColumn(values)
	assert.Equal(t, 10, col.DistinctCount())
	for _, count := range col.ValueCounts() {
		assert.Equal(t, 10_000, count)
	}
}

func TestStringsStayInDomain(t *testing.T) {
	domain := []string{"x", "y", "z"}
	values := New(9).Strings(1000, domain)
	allowed := map[string]bool{"x": true, "y": true, "z": true}
	for _, s := range values {
		require.True(t, allowed[s])
	}
}

func TestMixedTableValidation(t *testing.T) {
	_, err := New(1).MixedTable(-1, 10, 3)
	assert.Error(t, err)
	_, err = New(1).MixedTable(10, 0, 3)
	assert.Error(t, err)
	_, err = New(1).MixedTable(10, 10, 1)
	assert.Error(t, err)
}
