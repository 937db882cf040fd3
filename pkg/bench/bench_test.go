package bench

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/columnlab/tabular/pkg/errors"
)

func TestMeasureCountsIterations(t *testing.T) {
	calls := 0
	result, err := Measure("noop", 10, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, calls)
	assert.Equal(t, 10, result.Iterations)
	assert.LessOrEqual(t, result.Min, result.Mean)
	assert.LessOrEqual(t, result.Mean, result.Max)
}

func TestMeasureRejectsBadIterations(t *testing.T) {
	_, err := Measure("bad", 0, func() error { return nil })
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestMeasureStopsOnError(t *testing.T) {
	calls := 0
	_, err := Measure("failing", 10, func() error {
		calls++
		if calls == 3 {
			return errors.New(errors.ErrorTypeInternal, "boom")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestMeasureRecordsAllocations(t *testing.T) {
	var sink [][]byte
	result, err := Measure("alloc", 5, func() error {
		sink = append(sink, make([]byte, 1<<20))
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, sink)
	assert.Greater(t, result.AllocBytes, uint64(5*(1<<20)/2))
}

func TestReporterPrint(t *testing.T) {
	r := NewReporter()
	_, err := r.Run("fast", 3, func() error { return nil })
	require.NoError(t, err)
	_, err = r.Run("slow", 3, func() error {
		time.Sleep(time.Millisecond)
		return nil
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf))
	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "fast")
	assert.Contains(t, out, "slow")

	sorted := r.SortedByMean()
	require.Len(t, sorted, 2)
	assert.Equal(t, "fast", sorted[0].Name)
}

func TestCollectorDump(t *testing.T) {
	c := NewCollector()
	result, err := Measure("scenario_a", 4, func() error { return nil })
	require.NoError(t, err)
	c.Observe(result)

	var buf bytes.Buffer
	require.NoError(t, c.Dump(&buf))
	out := buf.String()
	assert.True(t, strings.Contains(out, "tabular_bench_iterations_total"))
	assert.True(t, strings.Contains(out, "scenario_a"))
}

func TestResourceMonitor(t *testing.T) {
	rm, err := NewResourceMonitor()
	require.NoError(t, err)

	usage, err := rm.Usage()
	require.NoError(t, err)
	assert.Greater(t, usage.MemoryRSS, uint64(0))
	assert.Greater(t, usage.GoroutineCount, 0)
}
