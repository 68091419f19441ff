// Package report aggregates the outcome of one remapping run: engine stats,
// de-duplicated format warnings from the input decoder, duplicate-header
// findings, and uniqueness-validation messages, merged into a single Result
// with one consistent warning total.
//
// Each underlying issue is counted exactly once, even when it could surface
// through two paths; format warnings are de-duplicated by (kind, message, row)
// identity before counting.
package report

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	parsecsv "remap/internal/parser/csv"
	"remap/internal/remap"
	"remap/internal/validate"
)

// Result is the object a run returns to its caller. Data holds output rows
// 1..N (the header row is carried separately in Headers). Stats.Warnings is
// the full total after aggregation: cell errors + unmapped columns + format
// warnings + duplicate headers + validation messages.
type Result struct {
	Headers []string
	Data    [][]any
	Stats   remap.Stats

	Validation validate.Result

	// Unmapped lists template columns with no mapping, in template order.
	Unmapped []string

	// FormatWarnings are the de-duplicated decode warnings, in first-seen
	// order. Duplicate-header findings are included here.
	FormatWarnings []string
}

// Aggregate merges the engine output with validation and decode findings.
// grid must include the header row produced by the engine.
func Aggregate(headers []string, grid [][]any, stats remap.Stats, unmapped []string, val validate.Result, warns []parsecsv.Warning) Result {
	format := dedupWarnings(warns)
	format = append(format, duplicateHeaders(headers)...)

	stats.Warnings += len(format) + len(val.Messages)

	var data [][]any
	if len(grid) > 0 {
		data = grid[1:]
	}
	return Result{
		Headers:        headers,
		Data:           data,
		Stats:          stats,
		Validation:     val,
		Unmapped:       unmapped,
		FormatWarnings: format,
	}
}

// dedupWarnings collapses repeated decode warnings. Identity is the xxh3
// digest of (kind, message, row); first occurrence wins and order is
// preserved.
func dedupWarnings(warns []parsecsv.Warning) []string {
	seen := make(map[uint64]struct{}, len(warns))
	var out []string
	for _, w := range warns {
		key := xxh3.HashString(fmt.Sprintf("%s\x1f%s\x1f%d", w.Kind, w.Message, w.Row))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w.Message)
	}
	return out
}

// duplicateHeaders reports template header names that appear more than once,
// one finding per name, in first-appearance order.
func duplicateHeaders(headers []string) []string {
	counts := make(map[string]int, len(headers))
	for _, h := range headers {
		counts[h]++
	}
	var out []string
	flagged := make(map[string]bool)
	for _, h := range headers {
		if counts[h] > 1 && !flagged[h] {
			flagged[h] = true
			out = append(out, fmt.Sprintf("Template header %q appears %d times", h, counts[h]))
		}
	}
	return out
}

// Summary renders the console report: totals, the warning breakdown by
// category, and the individual findings.
func (r Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows: %d  error rows: %d  warnings: %d\n",
		r.Stats.TotalRows, r.Stats.ErrorRows, r.Stats.Warnings)
	fmt.Fprintf(&b, "  cell errors: %d\n", r.Stats.CellErrors)
	fmt.Fprintf(&b, "  id validation: %d\n", len(r.Validation.Messages))
	fmt.Fprintf(&b, "  format: %d\n", len(r.FormatWarnings))
	if len(r.Unmapped) > 0 {
		fmt.Fprintf(&b, "  unmapped columns: %d (%s)\n", len(r.Unmapped), strings.Join(r.Unmapped, ", "))
	} else {
		fmt.Fprintf(&b, "  unmapped columns: 0\n")
	}
	for _, m := range r.Validation.Messages {
		b.WriteString(m)
		b.WriteByte('\n')
	}
	for _, m := range r.FormatWarnings {
		b.WriteString(m)
		b.WriteByte('\n')
	}
	return b.String()
}
