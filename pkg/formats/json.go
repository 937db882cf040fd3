// Package formats reads and writes tables as JSON and CSV, so the CLI can
// load and dump demo data.
package formats

import (
	"io"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/columnlab/tabular/pkg/errors"
	"github.com/columnlab/tabular/pkg/tabular"
)

// Kind names used in serialized schemas.
const (
	KindInt    = "int64"
	KindFloat  = "float64"
	KindString = "string"
	KindBool   = "bool"
	KindTime   = "time"
)

// ColumnSpec describes one column in a serialized table.
type ColumnSpec struct {
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"kind" yaml:"kind"`
	Nullable    bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Categorical bool   `json:"categorical,omitempty" yaml:"categorical,omitempty"`
}

// jsonColumn is the wire form of a single column.
type jsonColumn struct {
	ColumnSpec
	// Dictionary carries the category domain in code order; only set for
	// categorical columns so import rebuilds the same encoding.
	Dictionary []string      `json:"dictionary,omitempty"`
	Values     []interface{} `json:"values"`
}

type jsonTable struct {
	Columns []jsonColumn `json:"columns"`
}

// WriteJSON serializes the table as a column-oriented JSON document.
func WriteJSON(w io.Writer, t *tabular.Table) error {
	doc := jsonTable{Columns: make([]jsonColumn, t.NumCols())}
	for i, name := range t.Names() {
		col, err := t.ColumnAt(i)
		if err != nil {
			return err
		}
		jc, err := columnToJSON(name, col)
		if err != nil {
			return err
		}
		doc.Columns[i] = jc
	}
	enc := gojson.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to encode table as JSON")
	}
	return nil
}

// ReadJSON rebuilds a table from a document produced by WriteJSON.
func ReadJSON(r io.Reader) (*tabular.Table, error) {
	var doc jsonTable
	dec := gojson.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode JSON table")
	}

	cols := make([]tabular.NamedColumn, len(doc.Columns))
	for i, jc := range doc.Columns {
		col, err := columnFromJSON(jc)
		if err != nil {
			return nil, err
		}
		cols[i] = tabular.Col(jc.Name, col)
	}
	return tabular.FromColumns(cols...)
}

func specFor(col tabular.Column) (ColumnSpec, error) {
	spec := ColumnSpec{Nullable: col.Nullable()}
	if _, ok := col.(*tabular.CategoricalColumn); ok {
		spec.Categorical = true
		spec.Kind = KindString
		return spec, nil
	}
	switch col.Type() {
	case tabular.ColumnTypeInt:
		spec.Kind = KindInt
	case tabular.ColumnTypeFloat:
		spec.Kind = KindFloat
	case tabular.ColumnTypeString:
		spec.Kind = KindString
	case tabular.ColumnTypeBool:
		spec.Kind = KindBool
	case tabular.ColumnTypeTime:
		spec.Kind = KindTime
	default:
		return spec, errors.Newf(errors.ErrorTypeData, "unsupported column type %v", col.Type())
	}
	return spec, nil
}

func columnToJSON(name string, col tabular.Column) (jsonColumn, error) {
	spec, err := specFor(col)
	if err != nil {
		return jsonColumn{}, err
	}
	spec.Name = name

	jc := jsonColumn{ColumnSpec: spec, Values: make([]interface{}, col.Len())}
	if cat, ok := col.(*tabular.CategoricalColumn); ok {
		jc.Dictionary = cat.Dict().Values()
	}

	for i := 0; i < col.Len(); i++ {
		v := col.Get(i)
		if ts, ok := v.(time.Time); ok {
			v = ts.UTC().Format(time.RFC3339)
		}
		jc.Values[i] = v
	}
	return jc, nil
}

// categoricalFromJSON binds the column to the serialized dictionary so codes
// and unused entries survive the round trip.
func categoricalFromJSON(jc jsonColumn) (tabular.Column, error) {
	dict := tabular.NewDictionary(jc.Dictionary)
	var col *tabular.CategoricalColumn
	if jc.Nullable {
		col = tabular.NewNullableCategoricalColumnWithDictionary(dict)
	} else {
		col = tabular.NewCategoricalColumnWithDictionary(dict)
	}
	for i, v := range jc.Values {
		if v == nil {
			if err := col.Append(nil); err != nil {
				return nil, err
			}
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeData, "column %s: cell %d is not a string", jc.Name, i)
		}
		if err := col.Append(s); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "column "+jc.Name+": cell outside the serialized dictionary")
		}
	}
	return col, nil
}

func columnFromJSON(jc jsonColumn) (tabular.Column, error) {
	n := len(jc.Values)
	valid := make([]bool, n)
	for i, v := range jc.Values {
		valid[i] = v != nil
		if !valid[i] && !jc.Nullable {
			return nil, errors.Newf(errors.ErrorTypeData, "column %s: null cell %d in a non-nullable column", jc.Name, i)
		}
	}

	if jc.Categorical {
		if len(jc.Dictionary) > 0 {
			return categoricalFromJSON(jc)
		}
		// Older documents carry no dictionary; rebuild it from the cells.
		values := make([]string, n)
		for i, v := range jc.Values {
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeData, "column %s: cell %d is not a string", jc.Name, i)
			}
			values[i] = s
		}
		if jc.Nullable {
			return tabular.NewNullableCategoricalColumn(values, valid), nil
		}
		return tabular.NewCategoricalColumn(values), nil
	}

	switch jc.Kind {
	case KindInt:
		values := make([]int64, n)
		for i, v := range jc.Values {
			if v == nil {
				continue
			}
			f, ok := v.(float64)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeData, "column %s: cell %d is not a number", jc.Name, i)
			}
			values[i] = int64(f)
		}
		if jc.Nullable {
			return tabular.NewNullableInt64ColumnFromValues(values, valid), nil
		}
		return tabular.NewInt64ColumnFromValues(values), nil
	case KindFloat:
		values := make([]float64, n)
		for i, v := range jc.Values {
			if v == nil {
				continue
			}
			f, ok := v.(float64)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeData, "column %s: cell %d is not a number", jc.Name, i)
			}
			values[i] = f
		}
		if jc.Nullable {
			return tabular.NewNullableFloat64ColumnFromValues(values, valid), nil
		}
		return tabular.NewFloat64ColumnFromValues(values), nil
	case KindString:
		values := make([]string, n)
		for i, v := range jc.Values {
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeData, "column %s: cell %d is not a string", jc.Name, i)
			}
			values[i] = s
		}
		if jc.Nullable {
			return tabular.NewNullableStringColumnFromValues(values, valid), nil
		}
		return tabular.NewStringColumnFromValues(values), nil
	case KindBool:
		values := make([]bool, n)
		for i, v := range jc.Values {
			b, ok := v.(bool)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeData, "column %s: cell %d is not a bool", jc.Name, i)
			}
			values[i] = b
		}
		return tabular.NewBoolColumnFromValues(values), nil
	case KindTime:
		values := make([]time.Time, n)
		for i, v := range jc.Values {
			s, ok := v.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeData, "column %s: cell %d is not a timestamp", jc.Name, i)
			}
			ts, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "column "+jc.Name+": bad timestamp")
			}
			values[i] = ts
		}
		return tabular.NewTimeColumnFromValues(values), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeData, "column %s: unknown kind %q", jc.Name, jc.Kind)
	}
}
