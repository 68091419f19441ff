package rules

import (
	"fmt"

	"github.com/dop251/goja"

	"remap/pkg/records"
)

// ScriptCompiler compiles helper and mapping sources with an embedded
// ECMAScript engine (goja). Every Compile call creates a fresh runtime, so
// helpers and any state a script establishes live exactly as long as the
// returned registry and never leak into a later load.
type ScriptCompiler struct{}

// NewScriptCompiler returns a Compiler that accepts both function-source and
// column-copy specs.
func NewScriptCompiler() ScriptCompiler { return ScriptCompiler{} }

// Compile evaluates helper sources first, binding each helper into the
// runtime's global scope under its name, then evaluates mapping sources.
// A source that fails to parse, or that does not evaluate to a function, is a
// fatal compile error naming the helper or column.
func (ScriptCompiler) Compile(set Set) (*Registry, error) {
	rt := goja.New()

	helpers := sortedKeys(set.Helpers)
	for _, name := range helpers {
		fn, err := evalFunction(rt, set.Helpers[name])
		if err != nil {
			return nil, fmt.Errorf("rules: helper %q: %w", name, err)
		}
		if err := rt.Set(name, fn); err != nil {
			return nil, fmt.Errorf("rules: helper %q: bind: %w", name, err)
		}
	}

	compiled := make(map[string]Rule, len(set.Columns))
	for _, column := range sortedKeys(set.Columns) {
		spec := set.Columns[column]
		if spec.Source == "" {
			compiled[column] = copyRule(spec.Column)
			continue
		}
		fn, err := evalFunction(rt, spec.Source)
		if err != nil {
			return nil, fmt.Errorf("rules: mapping %q: %w", column, err)
		}
		call, _ := goja.AssertFunction(fn)
		compiled[column] = scriptRule(rt, call)
	}

	return &Registry{rules: compiled, helpers: helpers}, nil
}

// evalFunction evaluates source as an expression and verifies the result is
// callable. The source is wrapped in parentheses so plain function
// declarations ("function (row) { ... }") parse as expressions.
func evalFunction(rt *goja.Runtime, source string) (goja.Value, error) {
	v, err := rt.RunString("(" + source + "\n)")
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	if _, ok := goja.AssertFunction(v); !ok {
		return nil, fmt.Errorf("source does not evaluate to a function")
	}
	return v, nil
}

// scriptRule wraps a compiled script function as a Rule. The row is handed to
// the script as an object whose properties are the source column names; the
// 0-based row index is the second argument. A script throw becomes a cell
// error, not a batch failure.
func scriptRule(rt *goja.Runtime, call goja.Callable) Rule {
	return func(row records.Record, index int) (out any, err error) {
		defer func() {
			// goja reports interrupts and stack exhaustion via panic.
			if r := recover(); r != nil {
				out, err = nil, fmt.Errorf("rule panic: %v", r)
			}
		}()
		res, err := call(goja.Undefined(), rt.ToValue(map[string]any(row)), rt.ToValue(index))
		if err != nil {
			return nil, err
		}
		return res.Export(), nil
	}
}
