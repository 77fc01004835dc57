// Package datasource turns uploaded CSV/JSON text and built-in sample sets
// into typed data sources, and answers simple filter queries over them.
package datasource

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashita-ai/studio/internal/model"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// InferType classifies a single value.
func InferType(v any) model.FieldType {
	switch x := Normalize(v).(type) {
	case float64:
		return model.FieldNumber
	case bool:
		return model.FieldBoolean
	case string:
		if datePrefix.MatchString(x) {
			return model.FieldDate
		}
	}
	return model.FieldString
}

// InferFields derives fields from the first row only, in column order.
func InferFields(rows []model.Row, columns []string) []model.DataField {
	if len(rows) == 0 {
		return []model.DataField{}
	}
	first := rows[0]
	fields := make([]model.DataField, 0, len(columns))
	for _, name := range columns {
		v := Normalize(first[name])
		fields = append(fields, model.DataField{Name: name, Type: InferType(v), Sample: v})
	}
	return fields
}

// New builds a data source with a fresh id. Row values are normalized so
// numbers are float64 throughout.
func New(name string, typ model.SourceType, rows []model.Row, columns []string) model.DataSource {
	for _, row := range rows {
		for k, v := range row {
			row[k] = Normalize(v)
		}
	}
	if rows == nil {
		rows = []model.Row{}
	}
	return model.DataSource{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      typ,
		Fields:    InferFields(rows, columns),
		Data:      rows,
		CreatedAt: time.Now().UTC(),
	}
}

// FromUpload parses content in the given format ("csv" or "json").
// Nothing is returned on a parse error.
func FromUpload(name, format, content string) (model.DataSource, error) {
	switch model.SourceType(strings.ToLower(format)) {
	case model.SourceCSV:
		rows, columns := ParseCSV(content)
		return New(name, model.SourceCSV, rows, columns), nil
	case model.SourceJSON:
		rows, columns, err := ParseJSON(content)
		if err != nil {
			return model.DataSource{}, err
		}
		return New(name, model.SourceJSON, rows, columns), nil
	}
	return model.DataSource{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Filter returns the rows matching every filter, in stored order. A string
// filter is a case-insensitive substring test against the cell's text; any
// other filter must equal the cell. Nil and empty-string filters are
// ignored, so an empty map returns every row.
func Filter(rows []model.Row, filters map[string]any) []model.Row {
	out := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		if matchesAll(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func matchesAll(row model.Row, filters map[string]any) bool {
	for key, want := range filters {
		if want == nil || want == "" {
			continue
		}
		got, present := row[key]
		if s, ok := want.(string); ok {
			text := "undefined"
			if present {
				text = Stringify(got)
			}
			if !strings.Contains(strings.ToLower(text), strings.ToLower(s)) {
				return false
			}
			continue
		}
		if !present || !equalScalar(got, want) {
			return false
		}
	}
	return true
}

// equalScalar compares numbers and booleans. Lists and objects never match.
func equalScalar(a, b any) bool {
	switch x := Normalize(b).(type) {
	case float64:
		y, ok := Number(a)
		return ok && x == y
	case bool:
		y, ok := a.(bool)
		return ok && x == y
	}
	return false
}

// Stats summarizes a source for the upload panel.
func Stats(ds model.DataSource) model.DataStats {
	return model.DataStats{Count: len(ds.Data), Fields: ds.Fields}
}
