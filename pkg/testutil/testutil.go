// Package testutil provides testing utilities for tabular
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/columnlab/tabular/pkg/tabular"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// NumericTable builds a small two-column table with sequential values,
// for tests that need a table but do not care about its contents.
func NumericTable(t *testing.T, rows int) *tabular.Table {
	t.Helper()

	ids := make([]int64, rows)
	prices := make([]float64, rows)
	for i := 0; i < rows; i++ {
		ids[i] = int64(i)
		prices[i] = float64(i) / 2
	}
	table, err := tabular.FromColumns(
		tabular.Col("id", tabular.NewInt64ColumnFromValues(ids)),
		tabular.Col("price", tabular.NewFloat64ColumnFromValues(prices)),
	)
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	return table
}

// RequireTablesEqual fails the test if the two tables differ in shape,
// names, or cell values.
func RequireTablesEqual(t *testing.T, expected, actual *tabular.Table) {
	t.Helper()

	if expected.NumCols() != actual.NumCols() {
		t.Fatalf("column count mismatch: expected %d, got %d", expected.NumCols(), actual.NumCols())
	}
	if expected.NumRows() != actual.NumRows() {
		t.Fatalf("row count mismatch: expected %d, got %d", expected.NumRows(), actual.NumRows())
	}
	expectedNames, actualNames := expected.Names(), actual.Names()
	for i := 0; i < expected.NumCols(); i++ {
		if expectedNames[i] != actualNames[i] {
			t.Fatalf("column %d name mismatch: expected %q, got %q", i, expectedNames[i], actualNames[i])
		}
		ec, err := expected.ColumnAt(i)
		if err != nil {
			t.Fatal(err)
		}
		ac, err := actual.ColumnAt(i)
		if err != nil {
			t.Fatal(err)
		}
		for j := 0; j < ec.Len(); j++ {
			if ec.Get(j) != ac.Get(j) {
				t.Fatalf("cell mismatch at column %d row %d: expected %v, got %v", i, j, ec.Get(j), ac.Get(j))
			}
		}
	}
}
