package formats

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/columnlab/tabular/pkg/errors"
	"github.com/columnlab/tabular/pkg/tabular"
)

// WriteCSV writes the table as CSV with a header row. Null cells are written
// empty; timestamps are RFC 3339.
func WriteCSV(w io.Writer, t *tabular.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to write CSV header")
	}

	cols := make([]tabular.Column, t.NumCols())
	for i := range cols {
		col, err := t.ColumnAt(i)
		if err != nil {
			return err
		}
		cols[i] = col
	}

	record := make([]string, len(cols))
	for row := 0; row < t.NumRows(); row++ {
		for i, col := range cols {
			record[i] = formatCell(col.Get(row))
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "failed to write CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to flush CSV")
	}
	return nil
}

// ReadCSV parses CSV produced by WriteCSV. CSV carries no type information,
// so the caller supplies the schema; specs must match the header order.
// Empty cells become nulls in nullable columns.
func ReadCSV(r io.Reader, specs []ColumnSpec) (*tabular.Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV header")
	}
	if len(header) != len(specs) {
		return nil, errors.Newf(errors.ErrorTypeSchemaMismatch,
			"CSV has %d columns, schema has %d", len(header), len(specs))
	}
	for i, spec := range specs {
		if header[i] != spec.Name {
			return nil, errors.Newf(errors.ErrorTypeSchemaMismatch,
				"CSV column %d is %q, schema says %q", i, header[i], spec.Name)
		}
	}

	cells := make([][]string, len(specs))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to read CSV row")
		}
		for i, cell := range record {
			cells[i] = append(cells[i], cell)
		}
	}

	cols := make([]tabular.NamedColumn, len(specs))
	for i, spec := range specs {
		col, err := columnFromCells(spec, cells[i])
		if err != nil {
			return nil, err
		}
		cols[i] = tabular.Col(spec.Name, col)
	}
	return tabular.FromColumns(cols...)
}

func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case string:
		return x
	default:
		return ""
	}
}

func columnFromCells(spec ColumnSpec, cells []string) (tabular.Column, error) {
	n := len(cells)
	valid := make([]bool, n)
	for i, cell := range cells {
		valid[i] = cell != ""
	}

	if spec.Categorical {
		if spec.Nullable {
			return tabular.NewNullableCategoricalColumn(cells, valid), nil
		}
		return tabular.NewCategoricalColumn(cells), nil
	}

	switch spec.Kind {
	case KindInt:
		values := make([]int64, n)
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			v, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "column "+spec.Name+": bad integer")
			}
			values[i] = v
		}
		if spec.Nullable {
			return tabular.NewNullableInt64ColumnFromValues(values, valid), nil
		}
		return tabular.NewInt64ColumnFromValues(values), nil
	case KindFloat:
		values := make([]float64, n)
		for i, cell := range cells {
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "column "+spec.Name+": bad float")
			}
			values[i] = v
		}
		if spec.Nullable {
			return tabular.NewNullableFloat64ColumnFromValues(values, valid), nil
		}
		return tabular.NewFloat64ColumnFromValues(values), nil
	case KindString:
		if spec.Nullable {
			return tabular.NewNullableStringColumnFromValues(cells, valid), nil
		}
		return tabular.NewStringColumnFromValues(cells), nil
	case KindBool:
		values := make([]bool, n)
		for i, cell := range cells {
			v, err := strconv.ParseBool(cell)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "column "+spec.Name+": bad bool")
			}
			values[i] = v
		}
		return tabular.NewBoolColumnFromValues(values), nil
	case KindTime:
		values := make([]time.Time, n)
		for i, cell := range cells {
			ts, err := time.Parse(time.RFC3339, cell)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "column "+spec.Name+": bad timestamp")
			}
			values[i] = ts
		}
		return tabular.NewTimeColumnFromValues(values), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "column %s: unknown kind %q", spec.Name, spec.Kind)
	}
}
