package datasource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/ashita-ai/studio/internal/model"
)

var (
	// ErrInvalidJSON is returned for upload text that is not a JSON object or
	// an array of objects.
	ErrInvalidJSON = errors.New("datasource: invalid JSON format")

	// ErrUnsupportedFormat is returned for upload formats other than csv and json.
	ErrUnsupportedFormat = errors.New("datasource: unsupported format")
)

// ParseCSV splits text into rows using the first line as the header. The
// split is naive: a comma inside quotes still separates cells. Surrounding
// quotes and whitespace are stripped, numeric cells become float64, and
// missing trailing cells become "". Fewer than two lines yields no rows.
// The returned columns preserve header order.
func ParseCSV(text string) ([]model.Row, []string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return []model.Row{}, nil
	}

	headers := splitCSVLine(lines[0])
	columns := dedupe(headers)

	rows := make([]model.Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitCSVLine(line)
		row := make(model.Row, len(headers))
		for i, h := range headers {
			cell := ""
			if i < len(values) {
				cell = values[i]
			}
			row[h] = coerceCell(cell)
		}
		rows = append(rows, row)
	}
	return rows, columns
}

func splitCSVLine(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, `"`)
		p = strings.TrimSuffix(p, `"`)
		parts[i] = p
	}
	return parts
}

// coerceCell turns a cell into float64 when the whole cell is a finite number.
func coerceCell(cell string) any {
	if cell == "" {
		return cell
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return cell
	}
	return f
}

// ParseJSON decodes an array of objects or a single object. Columns follow
// the key order of the first object as written in the source text.
func ParseJSON(text string) ([]model.Row, []string, error) {
	data := bytes.TrimSpace([]byte(text))

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var items []any
	switch v := parsed.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		return nil, nil, fmt.Errorf("%w: expected an object or an array of objects", ErrInvalidJSON)
	}

	rows := make([]model.Row, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidJSON, i)
		}
		rows = append(rows, model.Row(obj))
	}
	if len(rows) == 0 {
		return rows, nil, nil
	}

	columns, err := firstObjectKeys(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return rows, completeColumns(columns, rows[0]), nil
}

// firstObjectKeys reads the keys of the first object in source order;
// encoding/json maps do not keep it.
func firstObjectKeys(data []byte) ([]string, error) {
	obj := data
	if len(data) > 0 && data[0] == '[' {
		v, dt, _, err := jsonparser.Get(data, "[0]")
		if err != nil {
			return nil, err
		}
		if dt != jsonparser.Object {
			return nil, fmt.Errorf("first element is %v", dt)
		}
		obj = v
	}

	var keys []string
	err := jsonparser.ObjectEach(obj, func(key []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		k, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		keys = append(keys, k)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dedupe(keys), nil
}

// completeColumns appends any key of row missing from columns so no field
// is lost if the ordered scan and the decoder disagree.
func completeColumns(columns []string, row model.Row) []string {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	var extra []string
	for k := range row {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(columns, extra...)
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
