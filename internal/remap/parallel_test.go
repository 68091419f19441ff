package remap

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"remap/internal/rules"
	"remap/pkg/records"
)

// The parallel path must be indistinguishable from the sequential one:
// same grid bytes, same stats, same unmapped list.
func TestParallelMatchesSequential(t *testing.T) {
	set := rules.Set{
		Helpers: map[string]string{"pad": `function (s) { return ("00" + s).slice(-3); }`},
		Columns: map[string]rules.Spec{
			"ID":    {Source: `function (row, i) { return pad(row.id) + "@" + i; }`},
			"Name":  {Column: "name"},
			"Flaky": {Source: `function (row) { if (row.bad === "1") throw new Error("bad row"); return "ok"; }`},
		},
	}
	headers := []string{"ID", "Name", "Flaky", "Ghost"}

	var rows []records.Record
	for i := 0; i < 23; i++ {
		row := records.Record{"id": fmt.Sprint(i), "name": fmt.Sprintf("n%d", i)}
		if i%5 == 0 {
			row["bad"] = "1"
		}
		rows = append(rows, row)
	}

	comp := rules.NewScriptCompiler()
	reg, err := comp.Compile(set)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	wantGrid, wantStats, wantUnmapped := Remap(headers, rows, reg, nil)

	for _, workers := range []int{1, 2, 3, 8, 64} {
		grid, stats, unmapped, err := Parallel(context.Background(), headers, rows, comp, set, workers, nil)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if !reflect.DeepEqual(grid, wantGrid) {
			t.Errorf("workers=%d: grid differs from sequential", workers)
		}
		if stats != wantStats {
			t.Errorf("workers=%d: stats = %+v, want %+v", workers, stats, wantStats)
		}
		if !reflect.DeepEqual(unmapped, wantUnmapped) {
			t.Errorf("workers=%d: unmapped = %v, want %v", workers, unmapped, wantUnmapped)
		}
	}
}

func TestParallelCompileError(t *testing.T) {
	set := rules.Set{Columns: map[string]rules.Spec{"A": {Source: "function ("}}}
	_, _, _, err := Parallel(context.Background(), []string{"A"}, []records.Record{{}},
		rules.NewScriptCompiler(), set, 4, nil)
	if err == nil {
		t.Fatal("want compile error")
	}
}

func TestParallelEmptyInput(t *testing.T) {
	set := rules.Set{Columns: map[string]rules.Spec{"A": {Column: "a"}}}
	grid, stats, _, err := Parallel(context.Background(), []string{"A"}, nil,
		rules.NewScriptCompiler(), set, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(grid) != 1 || stats.TotalRows != 0 {
		t.Errorf("grid rows = %d, stats = %+v", len(grid), stats)
	}
}
