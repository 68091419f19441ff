// Package remap implements the remapping engine: it turns parsed input rows
// into an output grid shaped by the template headers, by invoking the
// registered transformation rule for each (row, column) pair.
//
// Failure semantics are fail-soft throughout. A rule error poisons exactly one
// cell (the "ERROR" sentinel), flags its row, and bumps the warning counter;
// the batch always runs to completion. The grid invariants hold regardless of
// errors: one header row plus one output row per input row, every row exactly
// len(headers) cells wide, rows in input order, cells in template order.
//
// The engine is deterministic: identical inputs produce byte-identical grids
// and identical stats, in both the sequential and the parallel path.
package remap

import (
	"remap/internal/rules"
	"remap/pkg/records"
)

// ErrorCell is the sentinel value written to a cell whose rule failed.
const ErrorCell = "ERROR"

// Stats describes one engine run. Warnings counts cell errors plus unmapped
// template columns; the report aggregator later adds format and validation
// warnings on top.
type Stats struct {
	// TotalRows is the number of input rows processed (header excluded).
	TotalRows int
	// ErrorRows is the number of rows with at least one failed cell. A row
	// counts once no matter how many of its cells fail.
	ErrorRows int
	// CellErrors is the total number of failed cells.
	CellErrors int
	// Warnings is the engine-level warning total: CellErrors + one per
	// unmapped template column.
	Warnings int
}

// OnError receives each cell failure as it happens: the 0-based input row
// index, the template column name, and the rule error. May be nil.
type OnError func(rowIndex int, column string, err error)

// Remap produces the output grid for the given template headers and input
// rows. Row 0 of the grid is the header row; rows 1..N correspond 1:1 to the
// input rows in input order.
//
// A template column with no registered rule yields an empty cell in every row
// and is reported once in the returned unmapped list (a warning, not an
// error). The engine applies no type coercion: whatever a rule returns is the
// cell value.
func Remap(headers []string, rows []records.Record, reg *rules.Registry, onErr OnError) ([][]any, Stats, []string) {
	grid := make([][]any, 0, len(rows)+1)
	grid = append(grid, headerRow(headers))

	unmapped := unmappedColumns(headers, reg)

	body, stats := remapRows(headers, rows, reg, 0, onErr)
	grid = append(grid, body...)

	stats.Warnings = stats.CellErrors + len(unmapped)
	return grid, stats, unmapped
}

// remapRows transforms rows into output rows without the header. base is the
// global 0-based index of rows[0]; rules observe global indexes so chunked
// execution matches sequential execution exactly.
func remapRows(headers []string, rows []records.Record, reg *rules.Registry, base int, onErr OnError) ([][]any, Stats) {
	var stats Stats
	out := make([][]any, 0, len(rows))

	for i, row := range rows {
		cells := make([]any, len(headers))
		rowFailed := false

		for j, h := range headers {
			rule, ok := reg.Rule(h)
			if !ok {
				cells[j] = ""
				continue
			}
			v, err := rule(row, base+i)
			if err != nil {
				cells[j] = ErrorCell
				stats.CellErrors++
				rowFailed = true
				if onErr != nil {
					onErr(base+i, h, err)
				}
				continue
			}
			cells[j] = v
		}

		if rowFailed {
			stats.ErrorRows++
		}
		out = append(out, cells)
	}

	stats.TotalRows = len(rows)
	return out, stats
}

// unmappedColumns lists template headers with no registered rule, in template
// order. A header that appears twice unmapped is listed twice; the report
// layer flags duplicate headers separately.
func unmappedColumns(headers []string, reg *rules.Registry) []string {
	var unmapped []string
	for _, h := range headers {
		if _, ok := reg.Rule(h); !ok {
			unmapped = append(unmapped, h)
		}
	}
	return unmapped
}

func headerRow(headers []string) []any {
	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	return hdr
}

// merge folds a chunk's stats into the run totals.
func (s *Stats) merge(o Stats) {
	s.TotalRows += o.TotalRows
	s.ErrorRows += o.ErrorRows
	s.CellErrors += o.CellErrors
	s.Warnings += o.Warnings
}
