package datasource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/studio/internal/model"
)

func TestParseCSVHeaderAndOneRow(t *testing.T) {
	ds, err := FromUpload("small", "csv", "a,b,c\n1,x,2.5")
	require.NoError(t, err)

	require.Len(t, ds.Fields, 3)
	require.Len(t, ds.Data, 1)
	assert.Equal(t, []string{"a", "b", "c"}, ds.FieldNames())
	assert.Equal(t, model.Row{"a": 1.0, "b": "x", "c": 2.5}, ds.Data[0])
	assert.Equal(t, model.FieldNumber, ds.Fields[0].Type)
	assert.Equal(t, model.FieldString, ds.Fields[1].Type)
	assert.Equal(t, model.SourceCSV, ds.Type)
	assert.NotEmpty(t, ds.ID)
}

func TestParseCSVCoercesWholeNumbersOnly(t *testing.T) {
	ds, err := FromUpload("orders", "csv", "date,qty,price,n\n2024-01-15,12abc,Infinity,-3.5e2")
	require.NoError(t, err)

	assert.Equal(t, model.Row{"date": "2024-01-15", "qty": "12abc", "price": "Infinity", "n": -350.0}, ds.Data[0])
	types := make(map[string]model.FieldType)
	for _, f := range ds.Fields {
		types[f.Name] = f.Type
	}
	assert.Equal(t, map[string]model.FieldType{
		"date":  model.FieldDate,
		"qty":   model.FieldString,
		"price": model.FieldString,
		"n":     model.FieldNumber,
	}, types)
}

func TestParseCSVQuotesAndMissingCells(t *testing.T) {
	rows, cols := ParseCSV(" \"name\" , \"when\",n\n\"Ann\",2024-01-15\n")
	assert.Equal(t, []string{"name", "when", "n"}, cols)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ann", rows[0]["name"])
	assert.Equal(t, "2024-01-15", rows[0]["when"], "dates stay strings")
	assert.Equal(t, "", rows[0]["n"])

	fields := InferFields(rows, cols)
	assert.Equal(t, model.FieldDate, fields[1].Type)
}

func TestParseCSVTooShort(t *testing.T) {
	rows, cols := ParseCSV("only,a,header")
	assert.Empty(t, rows)
	assert.Empty(t, cols)

	ds, err := FromUpload("empty", "csv", "")
	require.NoError(t, err)
	assert.Empty(t, ds.Fields)
	assert.NotNil(t, ds.Data)
}

func TestParseCSVNaiveSplit(t *testing.T) {
	// A quoted comma still splits; the header has two columns so the tail is dropped.
	rows, _ := ParseCSV("name,city\n\"Smith, John\",Paris")
	require.Len(t, rows, 1)
	assert.Equal(t, "Smith", rows[0]["name"])
	assert.Equal(t, "John", rows[0]["city"])
}

func TestParseJSONKeepsKeyOrder(t *testing.T) {
	ds, err := FromUpload("people", "json", `[{"zeta":1,"alpha":"a","mid":true},{"zeta":2,"alpha":"b","mid":false}]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, ds.FieldNames())
	assert.Equal(t, model.FieldNumber, ds.Fields[0].Type)
	assert.Equal(t, model.FieldBoolean, ds.Fields[2].Type)
	assert.Len(t, ds.Data, 2)
}

func TestParseJSONSingleObject(t *testing.T) {
	rows, cols, err := ParseJSON(`{"id":"x","n":3}`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"id", "n"}, cols)
}

func TestParseJSONInvalid(t *testing.T) {
	for _, in := range []string{`{not json`, `42`, `["a","b"]`, `"text"`} {
		_, err := FromUpload("bad", "json", in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrInvalidJSON), in)
	}
}

func TestFromUploadUnsupportedFormat(t *testing.T) {
	_, err := FromUpload("x", "xml", "<a/>")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFilter(t *testing.T) {
	ds, ok := Sample(SampleTickets)
	require.True(t, ok)

	assert.Equal(t, ds.Data, Filter(ds.Data, nil), "no filters returns every row in order")
	assert.Len(t, Filter(ds.Data, map[string]any{"status": "open"}), 3)
	assert.Len(t, Filter(ds.Data, map[string]any{"status": "open", "priority": "HIGH"}), 2)
	assert.Len(t, Filter(ds.Data, map[string]any{"status": "", "priority": nil}), 5)

	// A null assignee reads as "null".
	got := Filter(ds.Data, map[string]any{"assignee": "nul"})
	require.Len(t, got, 1)
	assert.Equal(t, "TKT-003", got[0]["id"])

	assert.Empty(t, Filter(ds.Data, map[string]any{"missing": "x"}))
}

func TestFilterExactNonString(t *testing.T) {
	ds, _ := Sample(SampleInventory)
	got := Filter(ds.Data, map[string]any{"stock": 12})
	require.Len(t, got, 1)
	assert.Equal(t, "SKU-002", got[0]["sku"])

	assert.Empty(t, Filter(ds.Data, map[string]any{"stock": true}))
	assert.Empty(t, Filter(ds.Data, map[string]any{"stock": []any{12.0}}))
}

func TestSamples(t *testing.T) {
	assert.Equal(t, []string{"customers", "inventory", "sales", "tickets"}, SampleKeys())

	a, ok := Sample(SampleSales)
	require.True(t, ok)
	b, _ := Sample(SampleSales)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Sales Data", a.Name)
	assert.Equal(t, model.SourceSample, a.Type)
	assert.Len(t, a.Data, 6)

	a.Data[0]["revenue"] = 1.0
	assert.Equal(t, 45000.0, b.Data[0]["revenue"], "rows are not shared between copies")

	_, ok = Sample("nope")
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	ds, _ := Sample(SampleCustomers)
	s := Stats(ds)
	assert.Equal(t, 5, s.Count)
	assert.Len(t, s.Fields, 7)
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{45000.0, "45000"},
		{29.99, "29.99"},
		{7, "7"},
		{true, "true"},
		{[]any{1.0, "a", nil}, "1,a,"},
		{map[string]any{"a": 1}, "[object Object]"},
		{1e21, "1e+21"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Stringify(c.in))
	}
}

func TestTruthyAndRound(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(0))
	assert.False(t, Truthy(false))
	assert.True(t, Truthy("0"))
	assert.True(t, Truthy(map[string]any{}))

	assert.Equal(t, 1.01, Round2(1.005+1e-9))
	assert.Equal(t, 50800.0, Round2(50800))
	assert.Equal(t, 33.33, Round2(100.0/3))
}
