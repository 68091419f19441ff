package rules

import (
	"strings"
	"testing"

	"remap/pkg/records"
)

func TestScriptCompileAndRun(t *testing.T) {
	set := Set{
		Columns: map[string]Spec{
			"CustomerID": {Source: `function (row) { return row.id; }`},
			"FullName":   {Source: `function (row) { return row.first_name + " " + row.last_name; }`},
			"Status":     {Source: `function (row) { return row.active === "1" ? "Active" : "Inactive"; }`},
		},
	}
	reg, err := NewScriptCompiler().Compile(set)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("Len = %d, want 3", reg.Len())
	}

	row := records.Record{"id": "001", "first_name": "John", "last_name": "Doe", "active": "1"}
	cases := []struct {
		column string
		want   any
	}{
		{"CustomerID", "001"},
		{"FullName", "John Doe"},
		{"Status", "Active"},
	}
	for _, tc := range cases {
		rule, ok := reg.Rule(tc.column)
		if !ok {
			t.Fatalf("no rule for %q", tc.column)
		}
		got, err := rule(row, 0)
		if err != nil {
			t.Fatalf("%s: %v", tc.column, err)
		}
		if got != tc.want {
			t.Errorf("%s = %v, want %v", tc.column, got, tc.want)
		}
	}
}

func TestScriptRowIndexArgument(t *testing.T) {
	reg, err := NewScriptCompiler().Compile(Set{
		Columns: map[string]Spec{"N": {Source: `function (row, i) { return i; }`}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	rule, _ := reg.Rule("N")
	got, err := rule(records.Record{}, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(7) {
		t.Errorf("index = %v (%T), want 7", got, got)
	}
}

func TestScriptHelpers(t *testing.T) {
	set := Set{
		Helpers: map[string]string{
			"upper": `function (s) { return String(s).toUpperCase(); }`,
		},
		Columns: map[string]Spec{
			"Name": {Source: `function (row) { return upper(row.name); }`},
		},
	}
	reg, err := NewScriptCompiler().Compile(set)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	rule, _ := reg.Rule("Name")
	got, err := rule(records.Record{"name": "ada"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ADA" {
		t.Errorf("got %v, want ADA", got)
	}
}

// Helpers bound during one load must be invisible to rules compiled in a
// later load: each Compile gets its own environment.
func TestScriptLoadsAreIsolated(t *testing.T) {
	comp := NewScriptCompiler()

	_, err := comp.Compile(Set{
		Helpers: map[string]string{"leaky": `function () { return "x"; }`},
		Columns: map[string]Spec{"A": {Source: `function (row) { return leaky(); }`}},
	})
	if err != nil {
		t.Fatalf("first load: %v", err)
	}

	reg2, err := comp.Compile(Set{
		Columns: map[string]Spec{"A": {Source: `function (row) { return typeof leaky; }`}},
	})
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	rule, _ := reg2.Rule("A")
	got, err := rule(records.Record{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != "undefined" {
		t.Errorf("leaky visible in second load: typeof = %v", got)
	}
}

func TestScriptStateDoesNotLeakBetweenLoads(t *testing.T) {
	comp := NewScriptCompiler()
	set := Set{
		Columns: map[string]Spec{
			"C": {Source: `function (row) { globalThis.n = (globalThis.n || 0) + 1; return globalThis.n; }`},
		},
	}

	for load := 1; load <= 2; load++ {
		reg, err := comp.Compile(set)
		if err != nil {
			t.Fatalf("load %d: %v", load, err)
		}
		rule, _ := reg.Rule("C")
		got, err := rule(records.Record{}, 0)
		if err != nil {
			t.Fatal(err)
		}
		if got != int64(1) {
			t.Errorf("load %d: counter = %v, want 1 (state leaked)", load, got)
		}
	}
}

func TestScriptCompileErrorNamesColumn(t *testing.T) {
	_, err := NewScriptCompiler().Compile(Set{
		Columns: map[string]Spec{"Broken": {Source: `function (row) {`}},
	})
	if err == nil {
		t.Fatal("want compile error")
	}
	if !strings.Contains(err.Error(), `"Broken"`) {
		t.Errorf("error should name the column: %v", err)
	}
}

func TestScriptNonFunctionNamesHelper(t *testing.T) {
	_, err := NewScriptCompiler().Compile(Set{
		Helpers: map[string]string{"notFn": `42`},
	})
	if err == nil {
		t.Fatal("want compile error")
	}
	if !strings.Contains(err.Error(), `"notFn"`) {
		t.Errorf("error should name the helper: %v", err)
	}
}

func TestScriptThrowBecomesRuleError(t *testing.T) {
	reg, err := NewScriptCompiler().Compile(Set{
		Columns: map[string]Spec{"X": {Source: `function (row) { throw new Error("boom"); }`}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	rule, _ := reg.Rule("X")
	if _, err := rule(records.Record{}, 0); err == nil {
		t.Fatal("want rule error from throw")
	}
}

func TestScriptColumnCopySpec(t *testing.T) {
	reg, err := NewScriptCompiler().Compile(Set{
		Columns: map[string]Spec{"Out": {Column: "in"}},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	rule, _ := reg.Rule("Out")

	got, err := rule(records.Record{"in": "v"}, 0)
	if err != nil || got != "v" {
		t.Errorf("copy = %v, %v", got, err)
	}
	got, err = rule(records.Record{}, 0)
	if err != nil || got != nil {
		t.Errorf("absent column = %v, %v; want nil", got, err)
	}
}
