package datasource

import (
	"math"
	"strconv"
	"strings"
)

// Normalize converts Go numeric types to float64 so rows built in code
// compare and aggregate the same way as rows decoded from JSON.
func Normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}

// Number reports whether v is numeric and returns it as float64.
func Number(v any) (float64, bool) {
	f, ok := Normalize(v).(float64)
	return f, ok
}

// Truthy mirrors loose truthiness of dynamic values: nil, false, 0, NaN and
// the empty string are false.
func Truthy(v any) bool {
	switch x := Normalize(v).(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	}
	return true
}

// Stringify renders a cell value the way it reads in text: integral numbers
// without a decimal point, nil as "null", lists comma-joined, objects as
// "[object Object]".
func Stringify(v any) string {
	switch x := Normalize(v).(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatNumber(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e != nil {
				parts[i] = Stringify(e)
			}
		}
		return strings.Join(parts, ",")
	case map[string]any:
		return "[object Object]"
	}
	return "[object Object]"
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Round2 rounds to two decimals, halves toward positive infinity.
func Round2(f float64) float64 {
	return math.Floor(f*100+0.5) / 100
}
