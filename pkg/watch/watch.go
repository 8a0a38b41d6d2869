// Package watch implements the watch-expression surface that supplements
// the adapter's "Context Variables" scope: while paused, an expr-lang/expr
// expression is evaluated against the flat variable store and stringified.
// The opaque context node a probe event carries is never dereferenced
// here — evaluation only ever sees the string-valued variable store.
package watch

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Evaluate compiles and runs expression against vars (the session's flat
// variable store, see pkg/session.State.Variables), returning a stringified
// result. Values in vars are already strings, so the expr environment
// exposes them as map[string]any holding string values; numeric/boolean
// comparisons in the expression (e.g. `len(itemCount) > 0`) still work
// since expr's builtins operate on the underlying Go types.
func Evaluate(expression string, vars map[string]string) (string, error) {
	env := make(map[string]any, len(vars))
	for k, v := range vars {
		env[k] = v
	}

	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return "", fmt.Errorf("watch: compile %q: %w", expression, err)
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return "", fmt.Errorf("watch: eval %q: %w", expression, err)
	}
	return fmt.Sprint(output), nil
}
