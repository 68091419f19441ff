// Package records defines the in-memory row model shared by the parser, the
// remapping engine, the uniqueness validator, and the output sinks.
//
// A Record is one input row keyed by source column name. Values are the raw
// parsed cells: strings from CSV, or typed values (float64, bool, nil) when a
// record was assembled from decoded JSON. Records are treated as read-only
// once parsed; the engine never mutates them.
package records

import (
	"fmt"
	"strconv"
)

// Record is a single input row: source column name -> raw value.
// A missing key means the column was absent for that row.
type Record map[string]any

// Canon converts a cell value into its canonical string form. The rules match
// JavaScript String() for the value kinds that survive JSON decoding, so that
// numeric 1 and "1" compare equal in uniqueness checks and render identically
// in delimited output:
//
//	nil      -> ""
//	string   -> unchanged
//	bool     -> "true" / "false"
//	float64  -> shortest decimal form ("1", "1.5", not "1.000000")
//
// Other types fall back to fmt.Sprint.
func Canon(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// Empty reports whether a cell value is absent for validation purposes:
// nil or the empty string. Empty cells never participate in uniqueness checks.
func Empty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
