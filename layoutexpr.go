// Package layoutexpr evaluates the small arithmetic expressions used in
// layout attributes, such as "width / 2 - 10" or "max(50%, 120px)".
//
// Operator fixity is decided by surrounding whitespace, so unit suffixes and
// custom operators need no special syntax: in "5px" the identifier px is a
// postfix operator, in "-x" the minus is a prefix operator.
//
// # Quick Start
//
//	// Simple evaluation
//	v, err := layoutexpr.Eval("pow(2, 8) - 1")
//
//	// Compile once, evaluate many times
//	expr, err := layoutexpr.Compile("width / columns",
//	    evaluator.WithConstants(map[string]float64{"columns": 3}),
//	    evaluator.WithFallback(lookupWidth),
//	)
//	v1, _ := expr.Evaluate()
//
//	// Strings, booleans and arbitrary Go values
//	v, err := layoutexpr.EvalAny(`count == 1 ? 'item' : 'items'`,
//	    evaluator.WithAnyConstants(map[string]any{"count": 3}),
//	)
//
// # Performance
//
// Parsed trees are cached process-wide by source text and constant
// sub-expressions are folded once at compile time, so evaluation only walks
// what is left. Compiled expressions are safe for concurrent use.
//
// # More Information
//
// For detailed documentation, see:
//   - Parser: github.com/sandrolain/layoutexpr/pkg/parser
//   - Evaluator: github.com/sandrolain/layoutexpr/pkg/evaluator
//   - Cache: github.com/sandrolain/layoutexpr/pkg/cache
//   - Types: github.com/sandrolain/layoutexpr/pkg/types
package layoutexpr

import (
	"fmt"

	"github.com/sandrolain/layoutexpr/pkg/evaluator"
)

// Version returns the current version of layoutexpr.
func Version() string {
	return "v0.1.0-dev"
}

// Compile parses a numeric expression for repeated evaluation.
//
// Example:
//
//	expr, err := layoutexpr.Compile("max(a, b) * 2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, _ := expr.Evaluate()
func Compile(source string, opts ...evaluator.EvalOption) (*evaluator.Expression, error) {
	return evaluator.Compile(source, opts...)
}

// CompileAny parses an expression for the boxed-value engine.
func CompileAny(source string, opts ...evaluator.EvalOption) (*evaluator.AnyExpression, error) {
	return evaluator.CompileAny(source, opts...)
}

// Eval is a convenience function that compiles and evaluates a numeric
// expression in a single call.
//
// For repeated evaluations of the same expression, use Compile instead.
func Eval(source string, opts ...evaluator.EvalOption) (float64, error) {
	expr, err := Compile(source, opts...)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate()
}

// EvalAny compiles and evaluates an expression with the boxed-value engine.
func EvalAny(source string, opts ...evaluator.EvalOption) (any, error) {
	expr, err := CompileAny(source, opts...)
	if err != nil {
		return nil, err
	}
	return expr.Evaluate()
}

// Interpolate renders a string with embedded `{expression}` segments.
func Interpolate(source string, opts ...evaluator.EvalOption) (string, error) {
	return evaluator.NewString(source, opts...).Evaluate()
}

// Format returns the canonical form of an expression. String literals are
// accepted; constant folding is not applied.
func Format(source string) (string, error) {
	expr, err := CompileAny(source, evaluator.WithOptimization(false))
	if err != nil {
		return "", err
	}
	return expr.String(), nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables.
func MustCompile(source string, opts ...evaluator.EvalOption) *evaluator.Expression {
	expr, err := Compile(source, opts...)
	if err != nil {
		panic(fmt.Sprintf("layoutexpr: Compile(%q): %v", source, err))
	}
	return expr
}
