// Package scenarios runs the demonstration workloads behind the CLI: column
// access paths, append variants, column encodings, and the codec.
package scenarios

import (
	"io"

	"go.uber.org/zap"

	"github.com/columnlab/tabular/pkg/bench"
	"github.com/columnlab/tabular/pkg/compression"
	"github.com/columnlab/tabular/pkg/config"
	"github.com/columnlab/tabular/pkg/datagen"
	"github.com/columnlab/tabular/pkg/errors"
	"github.com/columnlab/tabular/pkg/tabular"
)

// Scenario names accepted by Run.
const (
	ScenarioAccess   = "access"
	ScenarioAppend   = "append"
	ScenarioEncode   = "encode"
	ScenarioCompress = "compress"
)

// All lists every scenario in run order.
var All = []string{ScenarioAccess, ScenarioAppend, ScenarioEncode, ScenarioCompress}

const (
	categoricalDistinct = 10
	nullStride          = 3
)

// Runner executes scenarios and accumulates their results.
type Runner struct {
	cfg       *config.BenchConfig
	reporter  *bench.Reporter
	collector *bench.Collector
	log       *zap.Logger
}

// NewRunner creates a runner for the given configuration.
func NewRunner(cfg *config.BenchConfig, log *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		reporter:  bench.NewReporter(),
		collector: bench.NewCollector(),
		log:       log,
	}, nil
}

// Run executes the named scenarios, or all of them when names is empty.
func (r *Runner) Run(names []string) error {
	if len(names) == 0 {
		names = All
	}
	for _, name := range names {
		r.log.Info("running scenario",
			zap.String("scenario", name),
			zap.Int("rows", r.cfg.Rows),
			zap.Int64("seed", r.cfg.Seed))

		var err error
		switch name {
		case ScenarioAccess:
			err = r.Access()
		case ScenarioAppend:
			err = r.Append()
		case ScenarioEncode:
			err = r.Encode()
		case ScenarioCompress:
			err = r.Compress()
		default:
			err = errors.Newf(errors.ErrorTypeConfig, "unknown scenario %q", name)
		}
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "scenario "+name+" failed")
		}
	}
	return nil
}

// Access compares the column lookup paths: positional, by name, and the two
// cell access styles (interface Get versus a typed slice extracted once).
func (r *Runner) Access() error {
	gen := datagen.New(r.cfg.Seed)
	table, err := gen.NumericTable(r.cfg.Rows)
	if err != nil {
		return err
	}

	if err := r.measure("access/positional", func() error {
		for i := 0; i < table.NumCols(); i++ {
			if _, err := table.ColumnAt(i); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	names := table.Names()
	if err := r.measure("access/by_name", func() error {
		for _, name := range names {
			if _, err := table.Column(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	col, err := table.ColumnAt(0)
	if err != nil {
		return err
	}
	if err := r.measure("access/interface_get", func() error {
		var sum int64
		for i := 0; i < col.Len(); i++ {
			sum += col.Get(i).(int64)
		}
		_ = sum
		return nil
	}); err != nil {
		return err
	}

	values := col.(*tabular.Int64Column).Int64s()
	return r.measure("access/typed_slice", func() error {
		_ = tabular.Sum(values)
		return nil
	})
}

// Append compares the append variants: single-row in place, bulk in place,
// and the non-destructive concat copy.
func (r *Runner) Append() error {
	gen := datagen.New(r.cfg.Seed)

	if err := r.measure("append/row", func() error {
		table, err := gen.NumericTable(0)
		if err != nil {
			return err
		}
		for i := 0; i < r.cfg.Rows; i++ {
			if err := table.AppendRow(int64(i), float64(i)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	chunk, err := gen.NumericTable(r.cfg.Rows / 100)
	if err != nil {
		return err
	}
	if err := r.measure("append/bulk", func() error {
		table, err := gen.NumericTable(0)
		if err != nil {
			return err
		}
		for i := 0; i < 100; i++ {
			if err := table.AppendTable(chunk); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	base, err := gen.NumericTable(r.cfg.Rows)
	if err != nil {
		return err
	}
	return r.measure("append/concat", func() error {
		_, err := tabular.Concat(base, chunk)
		return err
	})
}

// Encode compares aggregation over the column encodings: raw, nullable with
// a validity bitmap, categorical codes, and plain strings for contrast.
func (r *Runner) Encode() error {
	gen := datagen.New(r.cfg.Seed)
	rows := r.cfg.Rows

	raw := tabular.NewFloat64ColumnFromValues(gen.Float64s(rows, 0, 100))
	if err := r.measure("encode/raw_sum", func() error {
		_ = tabular.Sum(raw.Float64s())
		return nil
	}); err != nil {
		return err
	}

	nullable := tabular.NewNullableFloat64ColumnFromValues(
		gen.Float64s(rows, 0, 100), datagen.StrideMask(rows, nullStride))
	if err := r.measure("encode/nullable_sum", func() error {
		_, _ = tabular.SumValid(nullable.Float64s(), nullable.Validity())
		return nil
	}); err != nil {
		return err
	}

	values := gen.CategoricalValues(rows, categoricalDistinct)
	categorical := tabular.NewCategoricalColumn(values)
	if err := r.measure("encode/categorical_counts", func() error {
		_ = categorical.ValueCounts()
		return nil
	}); err != nil {
		return err
	}

	plain := tabular.NewStringColumnFromValues(values)
	return r.measure("encode/string_counts", func() error {
		counts := make(map[string]int, categoricalDistinct)
		for _, s := range plain.Strings() {
			counts[s]++
		}
		return nil
	})
}

// Compress round-trips columns and a full table through the codec with the
// configured algorithm.
func (r *Runner) Compress() error {
	alg, err := compression.ParseAlgorithm(r.cfg.Compression)
	if err != nil {
		return err
	}
	codec, err := tabular.NewCodec(alg)
	if err != nil {
		return err
	}

	gen := datagen.New(r.cfg.Seed)
	table, err := gen.MixedTable(r.cfg.Rows, categoricalDistinct, nullStride)
	if err != nil {
		return err
	}
	col, err := table.Column("id")
	if err != nil {
		return err
	}

	var colBlob []byte
	if err := r.measure("compress/encode_column", func() error {
		colBlob, err = codec.EncodeColumn(col)
		return err
	}); err != nil {
		return err
	}
	if err := r.measure("compress/decode_column", func() error {
		_, err := codec.DecodeColumn(colBlob)
		return err
	}); err != nil {
		return err
	}

	var tableBlob []byte
	if err := r.measure("compress/encode_table", func() error {
		tableBlob, err = codec.EncodeTable(table)
		return err
	}); err != nil {
		return err
	}
	r.log.Info("table compressed",
		zap.String("algorithm", string(alg)),
		zap.Int("rows", table.NumRows()),
		zap.Int("compressed_bytes", len(tableBlob)),
		zap.Int64("in_memory_bytes", table.MemoryUsage()))

	return r.measure("compress/decode_table", func() error {
		_, err := codec.DecodeTable(tableBlob)
		return err
	})
}

func (r *Runner) measure(name string, fn func() error) error {
	result, err := r.reporter.Run(name, r.cfg.Iterations, fn)
	if err != nil {
		return err
	}
	r.collector.Observe(result)
	r.log.Debug("scenario step finished",
		zap.String("step", name),
		zap.Duration("mean", result.Mean),
		zap.Uint64("alloc_bytes_per_op", result.BytesPerOp()))
	return nil
}

// Results returns all recorded results.
func (r *Runner) Results() []*bench.Result {
	return r.reporter.Results()
}

// Report writes the result table to w.
func (r *Runner) Report(w io.Writer) error {
	return r.reporter.Print(w)
}

// DumpMetrics writes the Prometheus text rendering of the run's metrics to w.
func (r *Runner) DumpMetrics(w io.Writer) error {
	return r.collector.Dump(w)
}
