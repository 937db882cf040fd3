// Package bench measures the demo scenarios: it runs a function repeatedly,
// records wall time and allocation deltas, and prints a summary table.
package bench

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/columnlab/tabular/pkg/errors"
)

// Result holds the measurements for one benchmarked operation.
type Result struct {
	Name       string
	Iterations int

	Min   time.Duration
	Mean  time.Duration
	Max   time.Duration
	Total time.Duration

	// Allocation deltas across all iterations, from runtime.ReadMemStats.
	AllocBytes   uint64
	AllocObjects uint64
}

// PerOp returns the mean duration per iteration.
func (r *Result) PerOp() time.Duration {
	return r.Mean
}

// BytesPerOp returns the mean allocated bytes per iteration.
func (r *Result) BytesPerOp() uint64 {
	if r.Iterations == 0 {
		return 0
	}
	return r.AllocBytes / uint64(r.Iterations)
}

// Measure runs fn iterations times and returns aggregate timings and
// allocation deltas. A GC runs before measuring so earlier garbage does not
// leak into the deltas. The first fn error aborts the run.
func Measure(name string, iterations int, fn func() error) (*Result, error) {
	if iterations < 1 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "iterations must be positive, got %d", iterations)
	}

	runtime.GC()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	result := &Result{
		Name:       name,
		Iterations: iterations,
		Min:        time.Duration(1<<63 - 1),
	}

	for i := 0; i < iterations; i++ {
		start := time.Now()
		if err := fn(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "measured function failed at iteration "+fmt.Sprint(i))
		}
		elapsed := time.Since(start)

		result.Total += elapsed
		if elapsed < result.Min {
			result.Min = elapsed
		}
		if elapsed > result.Max {
			result.Max = elapsed
		}
	}
	result.Mean = result.Total / time.Duration(iterations)

	runtime.ReadMemStats(&after)
	result.AllocBytes = after.TotalAlloc - before.TotalAlloc
	result.AllocObjects = after.Mallocs - before.Mallocs

	return result, nil
}

// Reporter accumulates results and prints them as an aligned table.
type Reporter struct {
	results []*Result
}

// NewReporter creates an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Add records a result.
func (r *Reporter) Add(result *Result) {
	r.results = append(r.results, result)
}

// Run measures fn and records the result in one step.
func (r *Reporter) Run(name string, iterations int, fn func() error) (*Result, error) {
	result, err := Measure(name, iterations, fn)
	if err != nil {
		return nil, err
	}
	r.Add(result)
	return result, nil
}

// Results returns the recorded results in insertion order.
func (r *Reporter) Results() []*Result {
	return r.results
}

// SortedByMean returns a copy of the results ordered fastest first.
func (r *Reporter) SortedByMean() []*Result {
	sorted := make([]*Result, len(r.results))
	copy(sorted, r.results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Mean < sorted[j].Mean
	})
	return sorted
}

// Print writes the result table to w.
func (r *Reporter) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tITERS\tMIN\tMEAN\tMAX\tALLOC/OP")
	for _, res := range r.results {
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%v\t%s\n",
			res.Name, res.Iterations, res.Min, res.Mean, res.Max, formatBytes(res.BytesPerOp()))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to flush report")
	}
	return nil
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1fGiB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1fMiB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1fKiB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%dB", b)
	}
}
