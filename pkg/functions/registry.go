// Package functions provides types for registering custom symbols.
//
// Any symbol an expression references (a variable, an operator or a function)
// can be implemented by the caller and handed to the evaluator with
// [evaluator.WithSymbols] or, for the boxed-value engine,
// [evaluator.WithAnySymbols].
//
// # Example
//
//	expr := evaluator.New("clamp(x, 0, 100)",
//	    evaluator.WithSymbols(map[types.Symbol]functions.Func{
//	        types.Function("clamp", 3): func(args []float64) (float64, error) {
//	            return math.Min(math.Max(args[0], args[1]), args[2]), nil
//	        },
//	    }),
//	)
package functions

import "github.com/sandrolain/layoutexpr/pkg/types"

// Func evaluates a numeric symbol. args holds the already evaluated
// operands in order; variables receive none.
type Func func(args []float64) (float64, error)

// Fallback is consulted for symbols that no table defines. It returns
// ok == false when it does not handle sym.
type Fallback func(sym types.Symbol, args []float64) (value float64, ok bool, err error)

// AnyFunc evaluates a symbol of the boxed-value engine. Arguments arrive
// unboxed: numbers as float64, strings as string, booleans as bool, and
// any other value exactly as it was stored.
type AnyFunc func(args []any) (any, error)

// AnyFallback is the boxed-value counterpart of Fallback.
type AnyFallback func(sym types.Symbol, args []any) (value any, ok bool, err error)

// Def pairs a numeric symbol with its implementation.
type Def struct {
	Symbol types.Symbol
	Fn     Func
}

// AnyDef pairs a boxed-value symbol with its implementation.
type AnyDef struct {
	Symbol types.Symbol
	Fn     AnyFunc
}

// Table builds a symbol map from a list of definitions. Later definitions
// replace earlier ones with the same symbol.
func Table(defs ...Def) map[types.Symbol]Func {
	m := make(map[types.Symbol]Func, len(defs))
	for _, d := range defs {
		m[d.Symbol] = d.Fn
	}
	return m
}

// AnyTable builds a boxed-value symbol map from a list of definitions.
func AnyTable(defs ...AnyDef) map[types.Symbol]AnyFunc {
	m := make(map[types.Symbol]AnyFunc, len(defs))
	for _, d := range defs {
		m[d.Symbol] = d.Fn
	}
	return m
}
