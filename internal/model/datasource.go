package model

import "time"

// FieldType is the inferred type of a data source column.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
)

// SourceType records where a data source came from.
type SourceType string

const (
	SourceCSV    SourceType = "csv"
	SourceJSON   SourceType = "json"
	SourceSample SourceType = "sample"
	SourceAPI    SourceType = "api"
)

// DataField describes one column, inferred from the first row.
type DataField struct {
	Name   string    `json:"name"`
	Type   FieldType `json:"type"`
	Sample any       `json:"sample,omitempty"`
}

// Row is one record of a data source. Numbers are float64, as decoded
// from JSON.
type Row map[string]any

// DataSource is a small tabular dataset with inferred field types.
type DataSource struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Type      SourceType  `json:"type"`
	Fields    []DataField `json:"fields"`
	Data      []Row       `json:"data"`
	CreatedAt time.Time   `json:"created_at"`
}

// FieldNames returns column names in field order.
func (ds DataSource) FieldNames() []string {
	names := make([]string, len(ds.Fields))
	for i, f := range ds.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldsOfType returns the names of fields with the given type, in field order.
func (ds DataSource) FieldsOfType(t FieldType) []string {
	var names []string
	for _, f := range ds.Fields {
		if f.Type == t {
			names = append(names, f.Name)
		}
	}
	return names
}

// DataStats is the summary shown next to an uploaded source.
type DataStats struct {
	Count  int         `json:"count"`
	Fields []DataField `json:"fields"`
}
