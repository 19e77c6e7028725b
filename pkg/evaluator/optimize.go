package evaluator

import (
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// fold replaces every operand whose symbol is pure and whose arguments are
// all literals with its value, bottom-up. The input tree may be shared
// through the parse cache, so changed nodes are copied, never mutated.
func (e *Expression) fold(node *types.Subexpression) *types.Subexpression {
	if !node.IsOperand() {
		return node
	}

	var args []*types.Subexpression
	literals := true
	for i, arg := range node.Args {
		folded := e.fold(arg)
		if folded != arg && args == nil {
			args = make([]*types.Subexpression, len(node.Args))
			copy(args, node.Args[:i])
		}
		if args != nil {
			args[i] = folded
		}
		literals = literals && folded.IsLiteral()
	}

	if literals && e.isPure(node.Symbol) {
		values := make([]float64, len(node.Args))
		for i, arg := range node.Args {
			if args != nil {
				arg = args[i]
			}
			values[i] = arg.Value
		}
		// A failing fold is left for Evaluate to report.
		if v, err := e.apply(node.Symbol, values, nil); err == nil {
			if e.opts.Debug {
				e.logger.Debug("folded constant", "symbol", node.Symbol.String(), "value", v)
			}
			return types.NewLiteral(v)
		}
	}

	if args != nil {
		return types.NewOperand(node.Symbol, args...)
	}
	return node
}

// isPure reports whether sym always yields the same value for the same
// arguments under this expression's options.
//
// Constants are always pure. Custom symbols are pure only when marked so.
// Built-in symbols are pure unless a fallback evaluator exists, since a
// fallback may give a built-in name another meaning.
func (e *Expression) isPure(sym types.Symbol) bool {
	if sym.Kind == types.SymbolVariable {
		if _, ok := e.opts.Constants[sym.Name]; ok {
			return true
		}
	}
	if _, ok := e.opts.Symbols[sym]; ok {
		return e.opts.PureSymbols
	}
	if e.opts.Fallback != nil || e.opts.dynamic {
		return false
	}
	return IsBuiltin(sym, e.opts.BooleanSymbols)
}
