// Package extnumeric provides numeric functions beyond the built-in set.
package extnumeric

import (
	"fmt"
	"math"

	"github.com/sandrolain/layoutexpr/pkg/functions"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// All returns all extended numeric symbol definitions.
func All() []functions.Def {
	return []functions.Def{
		Log(),
		LogBase(),
		Log2(),
		Log10(),
		Exp(),
		Sign(),
		Trunc(),
		Hypot(),
		Clamp(),
		E(),
	}
}

// Table returns All as a symbol table for evaluator.WithSymbols.
func Table() map[types.Symbol]functions.Func {
	return functions.Table(All()...)
}

// Log returns the definition for log(n), the natural logarithm.
func Log() functions.Def {
	return functions.Def{
		Symbol: types.Function("log", 1),
		Fn: func(a []float64) (float64, error) {
			if a[0] <= 0 {
				return 0, fmt.Errorf("log: argument must be positive")
			}
			return math.Log(a[0]), nil
		},
	}
}

// LogBase returns the definition for log(n, base).
func LogBase() functions.Def {
	return functions.Def{
		Symbol: types.Function("log", 2),
		Fn: func(a []float64) (float64, error) {
			if a[0] <= 0 {
				return 0, fmt.Errorf("log: argument must be positive")
			}
			if a[1] <= 0 || a[1] == 1 {
				return 0, fmt.Errorf("log: base must be positive and not 1")
			}
			return math.Log(a[0]) / math.Log(a[1]), nil
		},
	}
}

// Log2 returns the definition for log2(n).
func Log2() functions.Def {
	return unary("log2", math.Log2)
}

// Log10 returns the definition for log10(n).
func Log10() functions.Def {
	return unary("log10", math.Log10)
}

// Exp returns the definition for exp(n).
func Exp() functions.Def {
	return unary("exp", math.Exp)
}

// Sign returns the definition for sign(n): -1, 0 or 1.
func Sign() functions.Def {
	return unary("sign", func(n float64) float64 {
		switch {
		case n < 0:
			return -1
		case n > 0:
			return 1
		default:
			return 0
		}
	})
}

// Trunc returns the definition for trunc(n), truncating toward zero.
func Trunc() functions.Def {
	return unary("trunc", math.Trunc)
}

// Hypot returns the definition for hypot(x, y).
func Hypot() functions.Def {
	return functions.Def{
		Symbol: types.Function("hypot", 2),
		Fn: func(a []float64) (float64, error) {
			return math.Hypot(a[0], a[1]), nil
		},
	}
}

// Clamp returns the definition for clamp(n, min, max).
func Clamp() functions.Def {
	return functions.Def{
		Symbol: types.Function("clamp", 3),
		Fn: func(a []float64) (float64, error) {
			n, lo, hi := a[0], a[1], a[2]
			if lo > hi {
				return 0, fmt.Errorf("clamp: min (%v) must not exceed max (%v)", lo, hi)
			}
			return math.Max(lo, math.Min(hi, n)), nil
		},
	}
}

// E returns the definition for the variable e.
func E() functions.Def {
	return functions.Def{
		Symbol: types.Variable("e"),
		Fn: func([]float64) (float64, error) {
			return math.E, nil
		},
	}
}

func unary(name string, fn func(float64) float64) functions.Def {
	return functions.Def{
		Symbol: types.Function(name, 1),
		Fn: func(a []float64) (float64, error) {
			return fn(a[0]), nil
		},
	}
}
