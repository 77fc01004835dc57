package mcp

import "reflect"

// maxResultRows caps list results returned to MCP clients.
const maxResultRows = 50

// compactResult trims list results longer than maxResultRows, wrapping the
// kept rows with the total so the agent knows data was dropped. Other values
// pass through unchanged.
func compactResult(v any) any {
	if v == nil {
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Len() <= maxResultRows {
		return v
	}
	return map[string]any{
		"rows":      rv.Slice(0, maxResultRows).Interface(),
		"total":     rv.Len(),
		"truncated": true,
	}
}
