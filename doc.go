// Package tabular is the root of the tabular module, an in-memory columnar
// table library with a small benchmark harness.
//
// A Table is an ordered sequence of named, homogeneous columns. Columns are
// addressed by position in O(1) or by name through an index built once at
// construction. Tables are built in bulk from pre-materialized columns and
// grown by amortized in-place appends; schema problems are detected before
// any mutation, so a failed append never leaves a table half modified.
//
// # Packages
//
//   - pkg/tabular: the core table, column kinds (raw, nullable, categorical),
//     typed aggregation helpers, the binary column codec, and Arrow interop.
//   - pkg/datagen: deterministic seeded table generators for demos.
//   - pkg/bench: timing/allocation measurement, Prometheus metrics, and a
//     process resource monitor.
//   - pkg/formats: JSON and CSV table import/export.
//   - pkg/compression: pooled compressors used by the column codec.
//   - pkg/config, pkg/logger, pkg/errors, pkg/strings: supporting
//     infrastructure for the harness.
//
// # Quick start
//
//	ids := tabular.NewInt64ColumnFromValues([]int64{1, 2, 3})
//	prices := tabular.NewFloat64ColumnFromValues([]float64{9.5, 8.25, 7.0})
//	t, err := tabular.FromColumns(
//		tabular.Col("id", ids),
//		tabular.Col("price", prices),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := t.AppendRow(int64(4), 6.75); err != nil {
//		log.Fatal(err)
//	}
//	col, _ := t.ColumnAt(1)
//	sum := tabular.Sum(col.(*tabular.Float64Column).Float64s())
//
// The cmd/tabular-bench CLI runs the demonstration scenarios comparing
// access paths, append variants, column encodings, and codec algorithms.
package tabular
