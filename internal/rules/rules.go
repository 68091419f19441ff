// Package rules holds the transformation registry: the binding from template
// (output) column names to callable transformation rules, plus the named
// helper functions those rules may call.
//
// Rules arrive as configuration, not code, so compilation is behind the
// Compiler interface. Two implementations exist:
//
//   - ScriptCompiler embeds an ECMAScript engine and accepts function source
//     text, matching the mapping-file format.
//   - StaticCompiler accepts only column-copy specs expressed as data, for
//     deployments that refuse executable configuration.
//
// Compilation resolves helpers first and rules second, so every rule can call
// every helper by name. No rule is executed at compile time; execution happens
// only during remapping. Each Compile call produces a fully isolated
// environment: helpers bound for one registry are unreachable from any other.
package rules

import (
	"sort"

	"remap/pkg/records"
)

// Rule transforms one input row into the value of one output cell. The index
// is the 0-based position of the row in the input dataset. A returned error
// marks the cell as failed; it never aborts the batch.
type Rule func(row records.Record, index int) (any, error)

// Spec is one uncompiled per-column transformation. Exactly one field is set:
// Source holds function source text, Column names an input column to copy.
type Spec struct {
	Source string
	Column string
}

// Set is the uncompiled input to a Compiler: helper sources by name and
// column specs by template column name. A Set is plain data and safe to share;
// compiling the same Set twice yields two independent registries.
type Set struct {
	Helpers map[string]string
	Columns map[string]Spec
}

// Compiler turns a Set into a Registry. Implementations must not execute any
// rule during Compile and must report failures with the offending column or
// helper name.
type Compiler interface {
	Compile(set Set) (*Registry, error)
}

// Registry maps template column names to compiled rules. A registry built by
// ScriptCompiler shares one script runtime across its rules and must be
// confined to a single goroutine; compile one registry per worker instead of
// sharing (see remap.Parallel).
type Registry struct {
	rules   map[string]Rule
	helpers []string
}

// Rule returns the compiled rule for a template column, if one is registered.
func (r *Registry) Rule(column string) (Rule, bool) {
	rule, ok := r.rules[column]
	return rule, ok
}

// Columns returns the registered template column names in sorted order.
func (r *Registry) Columns() []string {
	out := make([]string, 0, len(r.rules))
	for c := range r.rules {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Helpers returns the bound helper names in sorted order.
func (r *Registry) Helpers() []string {
	out := make([]string, len(r.helpers))
	copy(out, r.helpers)
	return out
}

// Len reports the number of registered rules.
func (r *Registry) Len() int { return len(r.rules) }

// sortedKeys returns map keys in sorted order so compile errors and helper
// binding are deterministic across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// copyRule builds the rule for a column-copy spec: the raw input value, or
// nil when the column is absent.
func copyRule(column string) Rule {
	return func(row records.Record, _ int) (any, error) {
		return row[column], nil
	}
}
