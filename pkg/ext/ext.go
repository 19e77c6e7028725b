// Package ext provides optional symbol libraries beyond the built-in
// arithmetic and boolean symbols.
//
// The libraries live in sub-packages grouped by category:
//   - extnumeric – log, log2, log10, exp, sign, trunc, hypot, clamp, e
//   - extstring  – uppercase, lowercase, capitalize, trim, length, hasPrefix, …
//
// extstring works on strings and therefore only applies to the boxed-value
// engine (evaluator.NewAny and evaluator.NewString).
//
// # Integration – all libraries at once
//
//	import "github.com/sandrolain/layoutexpr/pkg/ext"
//
//	v, err := layoutexpr.EvalAny(`uppercase(name)`, ext.WithAll())
//
// # Integration – single symbol from a sub-package
//
//	import "github.com/sandrolain/layoutexpr/pkg/ext/extnumeric"
//
//	expr := evaluator.New("clamp(x, 0, 1)",
//	    evaluator.WithSymbols(functions.Table(extnumeric.Clamp())),
//	)
package ext

import (
	"github.com/sandrolain/layoutexpr/pkg/evaluator"
	"github.com/sandrolain/layoutexpr/pkg/ext/extnumeric"
	"github.com/sandrolain/layoutexpr/pkg/ext/extstring"
)

// WithAll returns an EvalOption that registers every library.
func WithAll() evaluator.EvalOption {
	numeric, str := WithNumeric(), WithString()
	return func(opts *evaluator.EvalOptions) {
		numeric(opts)
		str(opts)
	}
}

// WithNumeric returns an EvalOption for the extended numeric functions.
// The functions are pure, so they are added alongside any existing symbols
// and folded only when WithPureSymbols is set.
func WithNumeric() evaluator.EvalOption {
	return evaluator.WithSymbols(extnumeric.Table())
}

// WithString returns an EvalOption for the string functions of the
// boxed-value engine.
func WithString() evaluator.EvalOption {
	return evaluator.WithAnySymbols(extstring.Table())
}
