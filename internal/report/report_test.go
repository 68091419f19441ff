package report

import (
	"reflect"
	"strings"
	"testing"

	parsecsv "remap/internal/parser/csv"
	"remap/internal/remap"
	"remap/internal/validate"
)

func TestAggregateTotals(t *testing.T) {
	headers := []string{"A", "B"}
	grid := [][]any{{"A", "B"}, {"1", ""}, {"ERROR", ""}}
	stats := remap.Stats{TotalRows: 2, ErrorRows: 1, CellErrors: 1, Warnings: 2} // 1 cell + 1 unmapped
	unmapped := []string{"B"}
	val := validate.Result{
		IsValid:  false,
		Messages: []string{`Value "x" in column "A" appears multiple times in rows: 1, 2`},
	}
	warns := []parsecsv.Warning{
		{Kind: "ragged", Row: 2, Message: "row 2 has 1 fields, header has 2"},
	}

	res := Aggregate(headers, grid, stats, unmapped, val, warns)

	// 1 cell error + 1 unmapped + 1 format + 1 validation.
	if res.Stats.Warnings != 4 {
		t.Errorf("Warnings = %d, want 4", res.Stats.Warnings)
	}
	if len(res.Data) != 2 {
		t.Errorf("Data rows = %d, want 2 (header removed)", len(res.Data))
	}
	if !reflect.DeepEqual(res.Data[0], grid[1]) {
		t.Errorf("Data[0] = %v", res.Data[0])
	}
}

// The same underlying issue surfacing twice through the decoder must be
// counted once.
func TestAggregateDedupsFormatWarnings(t *testing.T) {
	warns := []parsecsv.Warning{
		{Kind: "ragged", Row: 3, Message: "row 3 has 2 fields, header has 4"},
		{Kind: "ragged", Row: 3, Message: "row 3 has 2 fields, header has 4"},
		{Kind: "parse", Row: 3, Message: "row 3 has 2 fields, header has 4"}, // different kind survives
	}
	res := Aggregate([]string{"A"}, [][]any{{"A"}}, remap.Stats{}, nil, validate.Result{IsValid: true}, warns)
	if len(res.FormatWarnings) != 2 {
		t.Errorf("FormatWarnings = %v, want 2 entries", res.FormatWarnings)
	}
	if res.Stats.Warnings != 2 {
		t.Errorf("Warnings = %d, want 2", res.Stats.Warnings)
	}
}

func TestAggregateDuplicateHeaders(t *testing.T) {
	headers := []string{"A", "B", "A", "A", "C"}
	res := Aggregate(headers, [][]any{{"A", "B", "A", "A", "C"}}, remap.Stats{}, nil, validate.Result{IsValid: true}, nil)

	want := []string{`Template header "A" appears 3 times`}
	if !reflect.DeepEqual(res.FormatWarnings, want) {
		t.Errorf("FormatWarnings = %v, want %v", res.FormatWarnings, want)
	}
	if res.Stats.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1", res.Stats.Warnings)
	}
}

func TestSummary(t *testing.T) {
	res := Aggregate(
		[]string{"A", "B"},
		[][]any{{"A", "B"}, {"1", ""}},
		remap.Stats{TotalRows: 1, ErrorRows: 0, CellErrors: 0, Warnings: 1},
		[]string{"B"},
		validate.Result{IsValid: false, Messages: []string{`Value "1" in column "A" appears multiple times in rows: 1, 2`}},
		nil,
	)
	sum := res.Summary()
	for _, want := range []string{
		"rows: 1",
		"warnings: 2",
		"id validation: 1",
		"unmapped columns: 1 (B)",
		`Value "1" in column "A" appears multiple times in rows: 1, 2`,
	} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}
}
