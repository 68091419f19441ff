package config

import (
	"strings"
	"testing"
)

func hasIssue(issues []Issue, sev IssueSeverity, pathPart string) bool {
	for _, iss := range issues {
		if iss.Severity == sev && strings.Contains(iss.Path, pathPart) {
			return true
		}
	}
	return false
}

func TestValidateEmptyMappings(t *testing.T) {
	issues := Validate(Config{})
	if !hasIssue(issues, SeverityError, "mappings") {
		t.Errorf("want error at mappings, got %v", issues)
	}
}

func TestValidateOK(t *testing.T) {
	cfg := Config{
		Mappings:  map[string]Mapping{"A": {Column: "a"}, "B": {Source: "row => row.b"}},
		IDColumns: []string{"A"},
		Helpers:   map[string]string{"h": "x => x"},
	}
	if issues := Validate(cfg); len(issues) != 0 {
		t.Errorf("want no issues, got %v", issues)
	}
}

func TestValidateDisabledScripts(t *testing.T) {
	cfg := Config{
		Mappings: map[string]Mapping{
			"A": {Column: "a"},
			"B": {Source: "row => row.b"},
		},
		Helpers: map[string]string{"h": "x => x"},
		Runtime: RuntimeConfig{DisableScripts: true},
	}
	issues := Validate(cfg)
	if !hasIssue(issues, SeverityError, "mappings.B") {
		t.Errorf("want error at mappings.B, got %v", issues)
	}
	if !hasIssue(issues, SeverityError, "helpers") {
		t.Errorf("want error at helpers, got %v", issues)
	}
}

func TestValidateOutput(t *testing.T) {
	cfg := Config{
		Mappings: map[string]Mapping{"A": {Column: "a"}},
		Output:   Output{Kind: "carrier-pigeon"},
	}
	if issues := Validate(cfg); !hasIssue(issues, SeverityError, "output.kind") {
		t.Errorf("want error at output.kind, got %v", issues)
	}

	cfg.Output = Output{Kind: "sqlite"}
	issues := Validate(cfg)
	if !hasIssue(issues, SeverityError, "output.sqlite.dsn") {
		t.Errorf("want error at output.sqlite.dsn, got %v", issues)
	}
	if !hasIssue(issues, SeverityError, "output.sqlite.table") {
		t.Errorf("want error at output.sqlite.table, got %v", issues)
	}
}

func TestValidateRuntime(t *testing.T) {
	cfg := Config{
		Mappings: map[string]Mapping{"A": {Column: "a"}},
		Runtime:  RuntimeConfig{Workers: -1},
	}
	if issues := Validate(cfg); !hasIssue(issues, SeverityError, "runtime.workers") {
		t.Errorf("want error at runtime.workers, got %v", issues)
	}
}
