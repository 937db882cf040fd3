package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	assert.Equal(t, int64(10), Sum([]int64{1, 2, 3, 4}))
	assert.Equal(t, 7.5, Sum([]float64{2.5, 5.0}))
	assert.Equal(t, int64(0), Sum([]int64(nil)))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 2.5, Mean([]int64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, Mean([]float64(nil)))
}

func TestMinMax(t *testing.T) {
	min, max := MinMax([]int64{3, -1, 7, 0})
	assert.Equal(t, int64(-1), min)
	assert.Equal(t, int64(7), max)

	fmin, fmax := MinMax([]float64{1.5})
	assert.Equal(t, 1.5, fmin)
	assert.Equal(t, 1.5, fmax)
}

func TestSumValid(t *testing.T) {
	col := NewNullableInt64ColumnFromValues(
		[]int64{10, 20, 30, 40},
		[]bool{true, false, true, false},
	)

	sum, n := SumValid(col.Int64s(), col.Validity())
	assert.Equal(t, int64(40), sum)
	assert.Equal(t, 2, n)

	assert.Equal(t, 20.0, MeanValid(col.Int64s(), col.Validity()))
}

func TestMeanValidAllAbsent(t *testing.T) {
	col := NewNullableFloat64ColumnFromValues([]float64{1, 2}, []bool{false, false})
	assert.Equal(t, 0.0, MeanValid(col.Float64s(), col.Validity()))
}

func TestCountCodes(t *testing.T) {
	counts := CountCodes([]uint32{0, 1, 0, 2, 0}, 3)
	assert.Equal(t, []int{3, 1, 1}, counts)
}

// The barrier pattern: the same aggregate computed through the interface and
// through extracted typed slices must agree.
func TestBarrierAgreesWithInterfaceAccess(t *testing.T) {
	values := make([]int64, 10_000)
	for i := range values {
		values[i] = int64(i % 97)
	}
	col := NewInt64ColumnFromValues(values)

	var viaInterface int64
	for i := 0; i < col.Len(); i++ {
		viaInterface += col.Get(i).(int64)
	}

	assert.Equal(t, viaInterface, Sum(col.Int64s()))
}
