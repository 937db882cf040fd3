// Package datagen produces deterministic tables for benchmarks and demos.
//
// Every generator takes an explicit *rand.Rand; the same seed always yields
// the same data. Nothing in this package touches the global rand source.
package datagen

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/columnlab/tabular/pkg/errors"
	"github.com/columnlab/tabular/pkg/tabular"
)

// Generator builds columns and tables from a seeded random source.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator seeded with the given value.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Int64s returns n values uniformly drawn from [lo, hi).
func (g *Generator) Int64s(n int, lo, hi int64) ([]int64, error) {
	span := hi - lo
	if span <= 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "empty range [%d, %d)", lo, hi)
	}
	values := make([]int64, n)
	for i := range values {
		values[i] = lo + g.rng.Int63n(span)
	}
	return values, nil
}

// Float64s returns n values uniformly drawn from [lo, hi).
func (g *Generator) Float64s(n int, lo, hi float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = lo + g.rng.Float64()*(hi-lo)
	}
	return values
}

// Strings returns n values drawn uniformly from the given domain.
func (g *Generator) Strings(n int, domain []string) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = domain[g.rng.Intn(len(domain))]
	}
	return values
}

// Bools returns n values, each true with probability p.
func (g *Generator) Bools(n int, p float64) []bool {
	values := make([]bool, n)
	for i := range values {
		values[i] = g.rng.Float64() < p
	}
	return values
}

// Times returns n timestamps starting at base, each step apart.
func (g *Generator) Times(n int, base time.Time, step time.Duration) []time.Time {
	values := make([]time.Time, n)
	for i := range values {
		values[i] = base.Add(time.Duration(i) * step)
	}
	return values
}

// StrideMask returns a validity mask of length n where every stride-th slot
// (indices stride-1, 2*stride-1, ...) is absent.
func StrideMask(n, stride int) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = (i+1)%stride != 0
	}
	return valid
}

// ProbMask returns a validity mask of length n where each slot is present
// with probability p.
func (g *Generator) ProbMask(n int, p float64) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = g.rng.Float64() < p
	}
	return valid
}

// Domain returns k distinct synthetic category labels.
func Domain(k int) []string {
	domain := make([]string, k)
	for i := range domain {
		domain[i] = "cat-" + strconv.Itoa(i)
	}
	return domain
}

// NumericTable builds the two-numeric-column table the append scenarios use:
// an int64 "id" column and a float64 "price" column.
func (g *Generator) NumericTable(rows int) (*tabular.Table, error) {
	if rows < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative row count %d", rows)
	}
	ids, err := g.Int64s(rows, 0, 1_000_000)
	if err != nil {
		return nil, err
	}
	return tabular.FromColumns(
		tabular.Col("id", tabular.NewInt64ColumnFromValues(ids)),
		tabular.Col("price", tabular.NewFloat64ColumnFromValues(g.Float64s(rows, 0, 1000))),
	)
}

// MixedTable builds a table exercising every column kind: raw numerics and
// strings, a bit-packed bool, a timestamp, a nullable float with a stride
// mask, and a categorical over k distinct values.
func (g *Generator) MixedTable(rows, distinct, nullStride int) (*tabular.Table, error) {
	if rows < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative row count %d", rows)
	}
	if distinct < 1 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "need at least one distinct category, got %d", distinct)
	}
	if nullStride < 2 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "null stride must be at least 2, got %d", nullStride)
	}

	domain := Domain(distinct)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	ids, err := g.Int64s(rows, 0, 1_000_000)
	if err != nil {
		return nil, err
	}
	return tabular.FromColumns(
		tabular.Col("id", tabular.NewInt64ColumnFromValues(ids)),
		tabular.Col("price", tabular.NewFloat64ColumnFromValues(g.Float64s(rows, 0, 1000))),
		tabular.Col("label", tabular.NewStringColumnFromValues(g.Strings(rows, domain))),
		tabular.Col("active", tabular.NewBoolColumnFromValues(g.Bools(rows, 0.5))),
		tabular.Col("ts", tabular.NewTimeColumnFromValues(g.Times(rows, base, time.Second))),
		tabular.Col("score", tabular.NewNullableFloat64ColumnFromValues(
			g.Float64s(rows, 0, 100), StrideMask(rows, nullStride))),
		tabular.Col("category", tabular.NewCategoricalColumn(g.Strings(rows, domain))),
	)
}

// CategoricalValues draws rows values from exactly distinct labels, cycling
// so every label appears. Used by the dictionary-encoding scenarios.
func (g *Generator) CategoricalValues(rows, distinct int) []string {
	domain := Domain(distinct)
	values := make([]string, rows)
	for i := range values {
		values[i] = domain[i%distinct]
	}
	return values
}
