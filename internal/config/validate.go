// Package config provides configuration models and helpers for remapping runs.
//
// This file adds a lightweight linter/validator for Config values. It performs
// static checks over a decoded Config and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Config.
//
// Path is a dotted path into the config (e.g. "output.kind",
// "mappings.CustomerID"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation / linting of a Config.
//
// It does not mutate the config. Instead it returns a slice of Issue values.
// Callers decide whether to treat warnings as fatal or not.
func Validate(cfg Config) []Issue {
	var issues []Issue

	if len(cfg.Mappings) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "mappings",
			Message:  "at least one mapping is required",
		})
	}
	for col, m := range cfg.Mappings {
		path := "mappings." + col
		if strings.TrimSpace(m.Source) == "" && strings.TrimSpace(m.Column) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "mapping must be a function source string or a {\"column\": ...} object",
			})
		}
		if cfg.Runtime.DisableScripts && strings.TrimSpace(m.Source) != "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path,
				Message:  "scripted mappings are disabled (runtime.disableScripts); use a column-copy mapping",
			})
		}
	}
	if cfg.Runtime.DisableScripts && len(cfg.Helpers) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "helpers",
			Message:  "helpers are disabled (runtime.disableScripts)",
		})
	}
	for name, src := range cfg.Helpers {
		if strings.TrimSpace(src) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "helpers." + name,
				Message:  "helper source must not be empty",
			})
		}
	}
	for i, col := range cfg.IDColumns {
		if strings.TrimSpace(col) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("idColumns[%d]", i),
				Message:  "id column name must not be empty",
			})
		}
	}

	issues = append(issues, validateOutput(cfg.Output)...)
	issues = append(issues, validateRuntime(cfg.Runtime)...)
	return issues
}

// validateOutput validates the Output sink configuration.
func validateOutput(o Output) []Issue {
	var issues []Issue

	// Known sink kinds. Unknown kinds are errors because the sink factory
	// would refuse them at run time anyway.
	switch o.Kind {
	case "", "csv", "xlsx":
		// File sinks take their destination from the CLI -output flag.
	case "sqlite":
		issues = append(issues, validateDB("output.sqlite", o.SQLite)...)
	case "postgres":
		issues = append(issues, validateDB("output.postgres", o.Postgres)...)
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.kind",
			Message:  fmt.Sprintf("unknown output kind %q (want csv, xlsx, sqlite, or postgres)", o.Kind),
		})
	}
	if o.Delimiter != "" && len([]rune(o.Delimiter)) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output.delimiter",
			Message:  "delimiter should be a single character; only the first rune is used",
		})
	}
	return issues
}

func validateDB(path string, db DBConfig) []Issue {
	var issues []Issue
	if strings.TrimSpace(db.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".dsn",
			Message:  "dsn must not be empty",
		})
	}
	if strings.TrimSpace(db.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".table",
			Message:  "table must not be empty",
		})
	}
	return issues
}

// validateRuntime validates runtime knobs.
func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue
	if r.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.workers",
			Message:  "workers must not be negative",
		})
	}
	return issues
}
