// Package config defines the canonical, JSON-serializable configuration model
// for a remapping run. It is intentionally small, explicit, and dependency-
// free so that mapping files can be loaded from disk (or other sources) and
// passed through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in mapping
//     files.
//  3. Minimalism: No third-party config libraries; decoding is performed by the
//     standard library, with a light Options helper for typed access.
//
// Example (trimmed):
//
//	{
//	  "csvOptions": { "delimiter": ";", "encoding": "windows-1250" },
//	  "idColumns":  ["CustomerID"],
//	  "helpers":    { "titleCase": "function (s) { ... }" },
//	  "mappings": {
//	    "CustomerID": "function (row) { return row.id; }",
//	    "Status":     { "column": "active" }
//	  },
//	  "output": { "kind": "csv" }
//	}
package config

import "encoding/json"

// Config is the top-level object decoded from a mapping file. It binds every
// output column of the template to a transformation and carries the knobs for
// the surrounding run (CSV decoding, uniqueness checks, output sink).
type Config struct {
	// CSVOptions is a free-form options bag forwarded to the CSV input
	// provider. Typical keys:
	//   delimiter (string), trim_space (bool), lazy_quotes (bool),
	//   fields_per_record (int), encoding (string), header_map (object)
	CSVOptions Options `json:"csvOptions"`

	// IDColumns lists input columns whose values must be unique across the
	// dataset. Empty means no uniqueness validation.
	IDColumns []string `json:"idColumns"`

	// Helpers maps helper name -> function source. Helpers are compiled before
	// any mapping and are callable from every mapping by name.
	Helpers map[string]string `json:"helpers"`

	// Mappings maps template (output) column name -> transformation. A mapping
	// is either a function source string or a column-copy object; see Mapping.
	Mappings map[string]Mapping `json:"mappings"`

	// Output selects and configures the output sink.
	Output Output `json:"output"`

	// Runtime controls execution knobs that do not affect output content.
	Runtime RuntimeConfig `json:"runtime"`
}

// Mapping is one per-column transformation as written in the mapping file.
// Exactly one of Source or Column is set:
//
//	"FullName": "function (row) { return row.first_name; }"  -> Source
//	"Status":   { "column": "active" }                       -> Column
type Mapping struct {
	// Source is the function source text for scripted mappings.
	Source string

	// Column names an input column to copy verbatim (no script involved).
	Column string
}

// UnmarshalJSON accepts both mapping forms: a JSON string (function source)
// or an object with a "column" key (verbatim copy).
func (m *Mapping) UnmarshalJSON(b []byte) error {
	var src string
	if err := json.Unmarshal(b, &src); err == nil {
		*m = Mapping{Source: src}
		return nil
	}
	var obj struct {
		Column string `json:"column"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*m = Mapping{Column: obj.Column}
	return nil
}

// RuntimeConfig controls concurrency and compiler selection.
type RuntimeConfig struct {
	// Workers sets the number of remap workers. 0 or 1 means sequential.
	// Parallel execution produces byte-identical output to sequential.
	Workers int `json:"workers"`

	// DisableScripts forbids function-source mappings and helpers; only
	// column-copy mappings are accepted. Intended for deployments that do not
	// want executable code in configuration files.
	DisableScripts bool `json:"disableScripts"`
}

// Output selects the sink used to persist the remapped grid.
type Output struct {
	// Kind selects the sink implementation: "csv" (default), "xlsx",
	// "sqlite", or "postgres".
	Kind string `json:"kind"`

	// Delimiter optionally overrides the output delimiter for the csv sink.
	Delimiter string `json:"delimiter"`

	// SQLite carries options for the "sqlite" sink kind.
	SQLite DBConfig `json:"sqlite"`

	// Postgres carries options for the "postgres" sink kind.
	Postgres DBConfig `json:"postgres"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	// DSN is the connection string (database/sql for sqlite, pgxpool for
	// postgres).
	DSN string `json:"dsn"`

	// Table is the target table name. For postgres it may be schema-qualified
	// (e.g. "public.customers").
	Table string `json:"table"`

	// AutoCreateTable creates the target table from the template headers
	// (all TEXT columns) before loading.
	AutoCreateTable bool `json:"autoCreateTable"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns provided defaults when a key is absent or
// of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Used for single-character settings such as the delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null options
// object decodes to a non-nil, empty Options map. This removes the need to
// nil-check Options values at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
