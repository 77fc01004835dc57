package tools

import (
	"context"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/studio/internal/datasource"
	"github.com/ashita-ai/studio/internal/model"
)

// Generate builds the tools for one data source: getData, getStats and
// search, plus groupBy when the source has at least one string field. The
// tools read a snapshot of the source's rows taken at generation time.
func Generate(ds model.DataSource) []Tool {
	out := []Tool{
		GetDataTool(ds),
		GetStatsTool(ds),
		SearchTool(ds),
	}
	if len(ds.FieldsOfType(model.FieldString)) > 0 {
		out = append(out, GroupByTool(ds))
	}
	return out
}

// GenerateAll concatenates the tools of every source in order.
func GenerateAll(sources []model.DataSource) []Tool {
	var out []Tool
	for _, ds := range sources {
		out = append(out, Generate(ds)...)
	}
	return out
}

// Names returns every tool name Generate can produce for a source called
// sourceName, groupBy included.
func Names(sourceName string) []string {
	c := compactName(sourceName)
	return []string{"get" + c + "Data", "get" + c + "Stats", "groupBy" + c, "search" + c}
}

// compactName strips all whitespace from a source name for use in tool names.
func compactName(name string) string {
	return strings.Join(strings.Fields(name), "")
}

// GetDataTool returns get<Name>Data. Every field is an optional filter.
func GetDataTool(ds model.DataSource) Tool {
	opts := []mcplib.ToolOption{
		mcplib.WithDescription(fmt.Sprintf("Get data from %q. Available fields: %s. You can filter by any field.",
			ds.Name, strings.Join(ds.FieldNames(), ", "))),
		mcplib.WithReadOnlyHintAnnotation(true),
	}
	for _, f := range ds.Fields {
		desc := mcplib.Description("Filter by " + f.Name)
		switch f.Type {
		case model.FieldNumber:
			opts = append(opts, mcplib.WithNumber(f.Name, desc))
		case model.FieldBoolean:
			opts = append(opts, mcplib.WithBoolean(f.Name, desc))
		default:
			opts = append(opts, mcplib.WithString(f.Name, desc))
		}
	}

	rows := ds.Data
	return Tool{
		Definition: mcplib.NewTool("get"+compactName(ds.Name)+"Data", opts...),
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			return datasource.Filter(rows, filterArgs(ds, args)), nil
		},
	}
}

// filterArgs accepts either flat field arguments or a single "filters"
// object, unless the source itself has a field called "filters".
func filterArgs(ds model.DataSource, args map[string]any) map[string]any {
	nested, ok := args["filters"].(map[string]any)
	if !ok {
		return args
	}
	for _, f := range ds.Fields {
		if f.Name == "filters" {
			return args
		}
	}
	return nested
}

// GetStatsTool returns get<Name>Stats: totalCount plus sum, avg, min and max
// of every number-typed field over its numeric values.
func GetStatsTool(ds model.DataSource) Tool {
	rows := ds.Data
	numeric := ds.FieldsOfType(model.FieldNumber)
	return Tool{
		Definition: mcplib.NewTool("get"+compactName(ds.Name)+"Stats",
			mcplib.WithDescription(fmt.Sprintf("Get statistics for %q including count, sum, average, min, and max for numeric fields.", ds.Name)),
			mcplib.WithReadOnlyHintAnnotation(true),
		),
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return computeStats(rows, numeric), nil
		},
	}
}

func computeStats(rows []model.Row, numeric []string) map[string]any {
	stats := map[string]any{"totalCount": len(rows)}
	for _, name := range numeric {
		values := numbers(rows, name)
		if len(values) == 0 {
			continue
		}
		sum, lo, hi := 0.0, values[0], values[0]
		for _, v := range values {
			sum += v
			lo = min(lo, v)
			hi = max(hi, v)
		}
		stats[name+"_sum"] = sum
		stats[name+"_avg"] = datasource.Round2(sum / float64(len(values)))
		stats[name+"_min"] = lo
		stats[name+"_max"] = hi
	}
	return stats
}

func numbers(rows []model.Row, field string) []float64 {
	var out []float64
	for _, row := range rows {
		if v, ok := datasource.Number(row[field]); ok {
			out = append(out, v)
		}
	}
	return out
}

// GroupByTool returns groupBy<Name>. A source without string fields has
// nothing to group on, so the stats tool is returned in its place.
func GroupByTool(ds model.DataSource) Tool {
	options := ds.FieldsOfType(model.FieldString)
	if len(options) == 0 {
		return GetStatsTool(ds)
	}
	rows := ds.Data
	numeric := ds.FieldsOfType(model.FieldNumber)

	return Tool{
		Definition: mcplib.NewTool("groupBy"+compactName(ds.Name),
			mcplib.WithDescription(fmt.Sprintf("Group %q data by a field and get aggregated statistics. Can group by: %s",
				ds.Name, strings.Join(options, ", "))),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithString("groupBy",
				mcplib.Description("Field to group by"),
				mcplib.Required(),
				mcplib.Enum(options...),
			),
			mcplib.WithString("aggregate",
				mcplib.Description("Numeric field to total and average; defaults to the first numeric field"),
			),
		),
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			field, ok := args["groupBy"].(string)
			if !ok || field == "" {
				return nil, fmt.Errorf("%w: groupBy is required", ErrInvalidArguments)
			}
			aggregate, _ := args["aggregate"].(string)
			return groupRows(rows, field, aggregateField(numeric, aggregate)), nil
		},
	}
}

// aggregateField picks the explicit aggregate when it names a numeric field,
// the first numeric field when none is given, and "" otherwise.
func aggregateField(numeric []string, aggregate string) string {
	if aggregate == "" {
		if len(numeric) == 0 {
			return ""
		}
		return numeric[0]
	}
	for _, n := range numeric {
		if n == aggregate {
			return n
		}
	}
	return ""
}

func groupRows(rows []model.Row, field, target string) []map[string]any {
	var keys []string
	groups := make(map[string][]model.Row)
	for _, row := range rows {
		key := "Unknown"
		if v := row[field]; datasource.Truthy(v) {
			key = datasource.Stringify(v)
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], row)
	}

	out := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		members := groups[key]
		g := map[string]any{field: key, "count": len(members)}
		if target != "" {
			if values := numbers(members, target); len(values) > 0 {
				total := 0.0
				for _, v := range values {
					total += v
				}
				g[target+"_total"] = total
				g[target+"_avg"] = datasource.Round2(total / float64(len(values)))
			}
		}
		out = append(out, g)
	}
	return out
}

// SearchTool returns search<Name>: rows where any value contains the query.
// String values are compared case-insensitively; other values by their text.
func SearchTool(ds model.DataSource) Tool {
	rows := ds.Data
	return Tool{
		Definition: mcplib.NewTool("search"+compactName(ds.Name),
			mcplib.WithDescription(fmt.Sprintf("Search %q data with a text query. Searches across all text fields.", ds.Name)),
			mcplib.WithReadOnlyHintAnnotation(true),
			mcplib.WithString("query",
				mcplib.Description("Text to look for"),
				mcplib.Required(),
			),
		),
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			query, ok := args["query"].(string)
			if !ok {
				return nil, fmt.Errorf("%w: query must be a string", ErrInvalidArguments)
			}
			return search(rows, query), nil
		},
	}
}

func search(rows []model.Row, query string) []model.Row {
	q := strings.ToLower(query)
	out := make([]model.Row, 0)
	for _, row := range rows {
		for _, v := range row {
			var hit bool
			if s, ok := v.(string); ok {
				hit = strings.Contains(strings.ToLower(s), q)
			} else {
				hit = strings.Contains(datasource.Stringify(v), q)
			}
			if hit {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
