package bench

import (
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Collector mirrors benchmark results into Prometheus metrics on a private
// registry. Nothing is exported over HTTP; after a run the registry is
// gathered and dumped alongside the report table.
type Collector struct {
	registry   *prometheus.Registry
	iterations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	allocBytes *prometheus.GaugeVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabular_bench_iterations_total",
				Help: "Total iterations executed per scenario",
			},
			[]string{"scenario"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "tabular_bench_duration_seconds",
				Help: "Mean per-iteration duration per scenario",
				Buckets: []float64{
					1e-7, // 100ns
					1e-6, // 1us
					1e-5, // 10us
					1e-4, // 100us
					1e-3, // 1ms
					1e-2, // 10ms
					1e-1, // 100ms
					1,    // 1s
				},
			},
			[]string{"scenario"},
		),
		allocBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tabular_bench_alloc_bytes_per_op",
				Help: "Mean allocated bytes per iteration per scenario",
			},
			[]string{"scenario"},
		),
	}
	c.registry.MustRegister(c.iterations, c.duration, c.allocBytes)
	return c
}

// Observe records a finished result.
func (c *Collector) Observe(result *Result) {
	c.iterations.WithLabelValues(result.Name).Add(float64(result.Iterations))
	c.duration.WithLabelValues(result.Name).Observe(result.Mean.Seconds())
	c.allocBytes.WithLabelValues(result.Name).Set(float64(result.BytesPerOp()))
}

// Gather returns the current metric families from the private registry.
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	return c.registry.Gather()
}

// Dump writes a plain-text rendering of the gathered metrics to w.
func (c *Collector) Dump(w io.Writer) error {
	families, err := c.Gather()
	if err != nil {
		return err
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
