package rules

import "fmt"

// StaticCompiler compiles only column-copy specs. Any function source in the
// set is rejected, so a mapping file processed with this compiler can never
// execute code.
type StaticCompiler struct{}

// NewStaticCompiler returns a Compiler for script-free deployments.
func NewStaticCompiler() StaticCompiler { return StaticCompiler{} }

// Compile builds copy rules for every column spec. Helper definitions and
// function sources are compile errors naming the offending artifact.
func (StaticCompiler) Compile(set Set) (*Registry, error) {
	for _, name := range sortedKeys(set.Helpers) {
		return nil, fmt.Errorf("rules: helper %q: scripted helpers are disabled", name)
	}

	compiled := make(map[string]Rule, len(set.Columns))
	for _, column := range sortedKeys(set.Columns) {
		spec := set.Columns[column]
		if spec.Source != "" {
			return nil, fmt.Errorf("rules: mapping %q: scripted mappings are disabled", column)
		}
		if spec.Column == "" {
			return nil, fmt.Errorf("rules: mapping %q: column-copy spec has no column", column)
		}
		compiled[column] = copyRule(spec.Column)
	}
	return &Registry{rules: compiled}, nil
}
