package formats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/columnlab/tabular/pkg/tabular"
	"github.com/columnlab/tabular/pkg/testutil"
)

func demoTable(t *testing.T) *tabular.Table {
	t.Helper()

	n := 50
	ids := make([]int64, n)
	prices := make([]float64, n)
	labels := make([]string, n)
	flags := make([]bool, n)
	stamps := make([]time.Time, n)
	scores := make([]float64, n)
	valid := make([]bool, n)
	cats := make([]string, n)

	domain := []string{"alpha", "beta", "gamma"}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ids[i] = int64(i)
		prices[i] = float64(i) * 0.25
		labels[i] = "row-" + domain[i%3]
		flags[i] = i%2 == 0
		stamps[i] = base.Add(time.Duration(i) * time.Hour)
		scores[i] = float64(i)
		valid[i] = i%4 != 0
		cats[i] = domain[i%3]
	}

	table, err := tabular.FromColumns(
		tabular.Col("id", tabular.NewInt64ColumnFromValues(ids)),
		tabular.Col("price", tabular.NewFloat64ColumnFromValues(prices)),
		tabular.Col("label", tabular.NewStringColumnFromValues(labels)),
		tabular.Col("active", tabular.NewBoolColumnFromValues(flags)),
		tabular.Col("ts", tabular.NewTimeColumnFromValues(stamps)),
		tabular.Col("score", tabular.NewNullableFloat64ColumnFromValues(scores, valid)),
		tabular.Col("category", tabular.NewCategoricalColumn(cats)),
	)
	require.NoError(t, err)
	return table
}

func demoSpecs() []ColumnSpec {
	return []ColumnSpec{
		{Name: "id", Kind: KindInt},
		{Name: "price", Kind: KindFloat},
		{Name: "label", Kind: KindString},
		{Name: "active", Kind: KindBool},
		{Name: "ts", Kind: KindTime},
		{Name: "score", Kind: KindFloat, Nullable: true},
		{Name: "category", Kind: KindString, Categorical: true},
	}
}

func assertTablesEqual(t *testing.T, want, got *tabular.Table) {
	t.Helper()

	require.Equal(t, want.Names(), got.Names())
	require.Equal(t, want.NumRows(), got.NumRows())
	for i := 0; i < want.NumCols(); i++ {
		wc, err := want.ColumnAt(i)
		require.NoError(t, err)
		gc, err := got.ColumnAt(i)
		require.NoError(t, err)
		for j := 0; j < wc.Len(); j++ {
			wv, gv := wc.Get(j), gc.Get(j)
			if wt, ok := wv.(time.Time); ok {
				gt, ok := gv.(time.Time)
				require.True(t, ok)
				assert.Equal(t, wt.Unix(), gt.Unix())
				continue
			}
			assert.Equal(t, wv, gv, "column %d cell %d", i, j)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	table := demoTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, table))

	decoded, err := ReadJSON(&buf)
	require.NoError(t, err)
	assertTablesEqual(t, table, decoded)
}

func TestJSONNumericRoundTrip(t *testing.T) {
	table := testutil.NumericTable(t, 200)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, table))
	decoded, err := ReadJSON(&buf)
	require.NoError(t, err)
	testutil.RequireTablesEqual(t, table, decoded)
}

func TestJSONPreservesDictionary(t *testing.T) {
	// The dictionary carries an entry no cell uses yet; it must survive the
	// round trip so the decoded column still accepts it.
	dict := tabular.NewDictionary([]string{"red", "green", "blue"})
	col := tabular.NewCategoricalColumnWithDictionary(dict)
	for _, v := range []string{"red", "green", "red"} {
		require.NoError(t, col.Append(v))
	}
	table, err := tabular.FromColumns(tabular.Col("color", col))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, table))
	assert.Contains(t, buf.String(), `"dictionary"`)

	decoded, err := ReadJSON(&buf)
	require.NoError(t, err)
	got, err := decoded.Column("color")
	require.NoError(t, err)
	cat, ok := got.(*tabular.CategoricalColumn)
	require.True(t, ok)
	assert.Equal(t, []string{"red", "green", "blue"}, cat.Dict().Values())
	assert.Equal(t, []uint32{0, 1, 0}, cat.Codes())

	require.NoError(t, cat.Append("blue"))
	assert.Equal(t, "blue", cat.Get(3))
}

func TestJSONNullableCategoricalDictionary(t *testing.T) {
	dict := tabular.NewDictionary([]string{"on", "off", "unknown"})
	col := tabular.NewNullableCategoricalColumnWithDictionary(dict)
	require.NoError(t, col.Append("on"))
	require.NoError(t, col.Append(nil))
	require.NoError(t, col.Append("off"))
	table, err := tabular.FromColumns(tabular.Col("state", col))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, table))

	decoded, err := ReadJSON(&buf)
	require.NoError(t, err)
	got, err := decoded.Column("state")
	require.NoError(t, err)
	cat, ok := got.(*tabular.CategoricalColumn)
	require.True(t, ok)
	assert.True(t, cat.Nullable())
	assert.Equal(t, []string{"on", "off", "unknown"}, cat.Dict().Values())
	assert.Nil(t, cat.Get(1))
	assert.Equal(t, "off", cat.Get(2))
}

func TestJSONNullInNonNullableColumn(t *testing.T) {
	docs := []string{
		`{"columns": [{"name":"id","kind":"int64","values":[1,null,3]}]}`,
		`{"columns": [{"name":"price","kind":"float64","values":[null]}]}`,
		`{"columns": [{"name":"label","kind":"string","values":["a",null]}]}`,
	}
	for _, doc := range docs {
		_, err := ReadJSON(strings.NewReader(doc))
		require.Error(t, err, doc)
	}
}

func TestJSONBadDocument(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"columns": [{"name":"x","kind":"nope","values":[1]}]}`))
	assert.Error(t, err)
}

func TestCSVRoundTrip(t *testing.T) {
	table := demoTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	decoded, err := ReadCSV(&buf, demoSpecs())
	require.NoError(t, err)
	assertTablesEqual(t, table, decoded)
}

func TestCSVHeaderMismatch(t *testing.T) {
	table := demoTable(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	specs := demoSpecs()
	specs[0].Name = "wrong"
	_, err := ReadCSV(bytes.NewReader(buf.Bytes()), specs)
	require.Error(t, err)

	_, err = ReadCSV(bytes.NewReader(buf.Bytes()), specs[:3])
	require.Error(t, err)
}

func TestCSVNullCellsEmpty(t *testing.T) {
	ids := []int64{10, 20, 30}
	values := []float64{1, 2, 3}
	valid := []bool{true, false, true}
	table, err := tabular.FromColumns(
		tabular.Col("id", tabular.NewInt64ColumnFromValues(ids)),
		tabular.Col("score", tabular.NewNullableFloat64ColumnFromValues(values, valid)),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "20,", lines[2])

	decoded, err := ReadCSV(bytes.NewReader(buf.Bytes()), []ColumnSpec{
		{Name: "id", Kind: KindInt},
		{Name: "score", Kind: KindFloat, Nullable: true},
	})
	require.NoError(t, err)
	col, err := decoded.Column("score")
	require.NoError(t, err)
	assert.False(t, col.IsNull(0))
	assert.True(t, col.IsNull(1))
	assert.False(t, col.IsNull(2))
}
