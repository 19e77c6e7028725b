package evaluator

import (
	"math"
	"sync"

	"github.com/sandrolain/layoutexpr/pkg/functions"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

var (
	mathSymbols     map[types.Symbol]functions.Func
	boolSymbols     map[types.Symbol]functions.Func
	builtinsByName  map[string][]types.Symbol // function name -> arities, for arity errors
	builtinSymbolsO sync.Once
)

// initBuiltinSymbols initializes the built-in symbol tables.
func initBuiltinSymbols() {
	builtinSymbolsO.Do(func() {
		mathSymbols = map[types.Symbol]functions.Func{
			// Arithmetic
			types.Infix("+"):  func(a []float64) (float64, error) { return a[0] + a[1], nil },
			types.Infix("-"):  func(a []float64) (float64, error) { return a[0] - a[1], nil },
			types.Infix("*"):  func(a []float64) (float64, error) { return a[0] * a[1], nil },
			types.Infix("/"):  func(a []float64) (float64, error) { return a[0] / a[1], nil },
			types.Infix("%"):  func(a []float64) (float64, error) { return math.Mod(a[0], a[1]), nil },
			types.Prefix("-"): func(a []float64) (float64, error) { return -a[0], nil },

			// Functions
			types.Function("sqrt", 1):  unary(math.Sqrt),
			types.Function("floor", 1): unary(math.Floor),
			types.Function("ceil", 1):  unary(math.Ceil),
			types.Function("round", 1): unary(math.Round),
			types.Function("cos", 1):   unary(math.Cos),
			types.Function("acos", 1):  unary(math.Acos),
			types.Function("sin", 1):   unary(math.Sin),
			types.Function("asin", 1):  unary(math.Asin),
			types.Function("tan", 1):   unary(math.Tan),
			types.Function("atan", 1):  unary(math.Atan),
			types.Function("abs", 1):   unary(math.Abs),
			types.Function("pow", 2):   binary(math.Pow),
			types.Function("max", 2):   binary(math.Max),
			types.Function("min", 2):   binary(math.Min),
			types.Function("atan2", 2): binary(math.Atan2),
			types.Function("mod", 2):   binary(math.Mod),

			// Constants
			types.Variable("pi"): func([]float64) (float64, error) { return math.Pi, nil },
		}

		boolSymbols = map[types.Symbol]functions.Func{
			types.Variable("true"):  func([]float64) (float64, error) { return 1, nil },
			types.Variable("false"): func([]float64) (float64, error) { return 0, nil },

			types.Infix("=="): compare(func(a, b float64) bool { return a == b }),
			types.Infix("!="): compare(func(a, b float64) bool { return a != b }),
			types.Infix("<>"): compare(func(a, b float64) bool { return a != b }),
			types.Infix("<"):  compare(func(a, b float64) bool { return a < b }),
			types.Infix("<="): compare(func(a, b float64) bool { return a <= b }),
			types.Infix(">="): compare(func(a, b float64) bool { return a >= b }),
			types.Infix(">"):  compare(func(a, b float64) bool { return a > b }),

			// Both operands are evaluated before the operator runs.
			types.Infix("&&"): compare(func(a, b float64) bool { return truthy(a) && truthy(b) }),
			types.Infix("||"): compare(func(a, b float64) bool { return truthy(a) || truthy(b) }),

			types.Prefix("!"): func(a []float64) (float64, error) { return boolValue(!truthy(a[0])), nil },

			types.Ternary: func(a []float64) (float64, error) {
				if len(a) == 2 {
					if truthy(a[0]) {
						return a[0], nil
					}
					return a[1], nil
				}
				if truthy(a[0]) {
					return a[1], nil
				}
				return a[2], nil
			},
		}

		builtinsByName = make(map[string][]types.Symbol)
		for _, table := range []map[types.Symbol]functions.Func{mathSymbols, boolSymbols} {
			for sym := range table {
				if sym.Kind == types.SymbolFunction {
					builtinsByName[sym.Name] = append(builtinsByName[sym.Name], sym)
				}
			}
		}
	})
}

// lookupBuiltin returns the built-in implementation of sym.
func lookupBuiltin(sym types.Symbol, booleans bool) (functions.Func, bool) {
	initBuiltinSymbols()
	if fn, ok := mathSymbols[sym]; ok {
		return fn, true
	}
	if booleans {
		if fn, ok := boolSymbols[sym]; ok {
			return fn, true
		}
	}
	return nil, false
}

// IsBuiltin reports whether sym is one of the built-in symbols. Boolean
// symbols count only when booleans is true.
func IsBuiltin(sym types.Symbol, booleans bool) bool {
	_, ok := lookupBuiltin(sym, booleans)
	return ok
}

// BuiltinSymbols returns every built-in symbol.
func BuiltinSymbols(booleans bool) types.SymbolSet {
	initBuiltinSymbols()
	set := make(types.SymbolSet, len(mathSymbols)+len(boolSymbols))
	for sym := range mathSymbols {
		set.Add(sym)
	}
	if booleans {
		for sym := range boolSymbols {
			set.Add(sym)
		}
	}
	return set
}

func unary(fn func(float64) float64) functions.Func {
	return func(a []float64) (float64, error) {
		return fn(a[0]), nil
	}
}

func binary(fn func(float64, float64) float64) functions.Func {
	return func(a []float64) (float64, error) {
		return fn(a[0], a[1]), nil
	}
}

func compare(fn func(float64, float64) bool) functions.Func {
	return func(a []float64) (float64, error) {
		return boolValue(fn(a[0], a[1])), nil
	}
}

func truthy(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
