// Package tabular implements an in-memory columnar table: an ordered
// sequence of named columns, each an independently typed homogeneous array.
//
// # Overview
//
// The package provides:
//   - Column lookup by integer position or by name
//   - Bulk table construction from pre-built column arrays
//   - Amortized in-place row append, single-row and table-at-a-time
//   - Non-destructive concatenation
//   - Nullable columns backed by validity bitmaps
//   - Categorical columns backed by a shared immutable dictionary
//   - A binary column codec with compression integration
//   - Conversion to Arrow record batches
//
// # Access Paths
//
// Positional access is the fast path: ColumnAt is O(1) and allocation-free.
// Name-based access resolves through a map built once at construction and
// then delegates to positional access; the extra lookup makes it strictly
// slower. Code that reads many cells should extract the concretely typed
// slice once (Int64s, Float64s, Strings, Codes) and run its hot loop over
// that, using the helpers in barrier.go.
//
// # Construction
//
// Building column arrays first and wrapping them once is markedly faster
// than populating a live table cell by cell, because per-cell mutation pays
// interface dispatch and validation at every element:
//
//	ids := tabular.NewInt64ColumnFromValues(idValues)
//	prices := tabular.NewFloat64ColumnFromValues(priceValues)
//	t, err := tabular.FromColumns(
//	    tabular.Col("id", ids),
//	    tabular.Col("price", prices),
//	)
//
// # Appending
//
// AppendTable extends columns in place with amortized O(appended rows)
// cost. Concat always allocates a full copy of both inputs. AppendRow is
// the fastest way to add one row since it builds no temporary table:
//
//	err := t.AppendRow(int64(1000001), 17.25)
//
// All append variants validate the full schema before mutating anything, so
// a SchemaMismatch failure never leaves the table partially modified.
//
// # Encoding Variants
//
// Relative read cost is raw < nullable < categorical: nullable reads pay a
// validity branch per element, categorical reads pay a dictionary
// indirection. The stored payload of a categorical column is smaller even
// though reads are slower.
//
// # Concurrency
//
// A Table does no internal locking. It is owned by one goroutine during
// mutation; concurrent readers are safe only while no writer is active.
package tabular
