package evaluator

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/sandrolain/layoutexpr/pkg/functions"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// AnyExpression evaluates an expression over arbitrary Go values.
//
// Non-numeric values are boxed into a per-evaluation registry and travel
// through the numeric engine as sentinel numbers, so the same parser,
// folding and cache serve both engines. Quoted string literals ('…' or "…")
// are accepted in the source.
//
// On top of the numeric built-ins it defines:
//   - + concatenates once any value has been boxed during the evaluation
//   - == and != compare any comparable values
//   - comparisons and && || ! yield bool, and true/false are bool
//   - ?: passes the chosen value through unchanged
type AnyExpression struct {
	source   string
	inner    *Expression
	literals []string
	opts     EvalOptions
	symbols  map[types.Symbol]functions.AnyFunc
	err      error
}

// NewAny parses source for the boxed-value engine. Like New it never fails;
// see Err.
func NewAny(source string, opts ...EvalOption) *AnyExpression {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	a := &AnyExpression{
		source:  source,
		opts:    options,
		symbols: make(map[types.Symbol]functions.AnyFunc, len(options.Symbols)+len(options.AnySymbols)),
	}
	for sym, fn := range options.Symbols {
		a.symbols[sym] = numericFunc(sym, fn)
	}
	for sym, fn := range options.AnySymbols {
		a.symbols[sym] = fn
	}

	rewritten, literals, err := extractStrings(source)
	if err != nil {
		a.err = err
		a.inner = &Expression{
			source:  source,
			root:    types.NewErrorNode(err, source),
			symbols: make(types.SymbolSet),
			opts:    options,
			logger:  options.Logger,
			err:     err,
		}
		return a
	}
	a.literals = literals

	inner := options
	inner.Symbols = nil
	inner.Fallback = nil
	inner.BooleanSymbols = true
	inner.dynamic = true
	inner.Constants = make(map[string]float64, len(options.Constants))
	for name, v := range options.Constants {
		if !isBoxed(v) {
			inner.Constants[name] = v
		}
	}
	// Numeric constants fold like in the numeric engine.
	for name, v := range options.AnyConstants {
		if f, ok := toFloat(v); ok && !isBoxed(f) {
			inner.Constants[name] = f
		}
	}
	for sym := range a.symbols {
		inner.knownSymbols = append(inner.knownSymbols, sym)
	}

	a.inner = newExpression(rewritten, inner)
	a.err = a.inner.err
	if a.err != nil {
		a.inner.root = types.NewErrorNode(a.err, source)
	}
	return a
}

// CompileAny is like NewAny but returns the parse error immediately.
func CompileAny(source string, opts ...EvalOption) (*AnyExpression, error) {
	a := NewAny(source, opts...)
	if a.err != nil {
		return nil, a.err
	}
	return a, nil
}

// Evaluate computes the value of the expression. Numbers are returned as
// float64; every other value is returned exactly as it was produced.
func (a *AnyExpression) Evaluate() (any, error) {
	if a.err != nil {
		return nil, a.err
	}
	reg := newRegistry(a.literals)
	v, err := a.inner.evaluate(func(sym types.Symbol, args []float64) (float64, bool, error) {
		return a.resolve(reg, sym, args)
	})
	if err != nil {
		return nil, err
	}
	return reg.load(v), nil
}

// resolve is the typed part of the evaluator chain: typed constants, typed
// symbols, the typed fallback, the numeric fallback, then the defaults.
func (a *AnyExpression) resolve(reg *registry, sym types.Symbol, args []float64) (float64, bool, error) {
	if sym.Kind == types.SymbolVariable {
		if v, ok := a.opts.AnyConstants[sym.Name]; ok {
			f, err := reg.store(v)
			return f, true, err
		}
		// Only constants inside the sentinel range get here.
		if v, ok := a.opts.Constants[sym.Name]; ok {
			f, err := reg.store(v)
			return f, true, err
		}
	}

	values := reg.loadAll(args)
	if fn, ok := a.symbols[sym]; ok {
		v, err := fn(values)
		if err != nil {
			return 0, true, err
		}
		f, err := reg.store(v)
		return f, true, err
	}
	if a.opts.AnyFallback != nil {
		v, ok, err := a.opts.AnyFallback(sym, values)
		if err != nil {
			return 0, true, err
		}
		if ok {
			f, err := reg.store(v)
			return f, true, err
		}
	}
	if a.opts.Fallback != nil && allNumeric(values) {
		v, ok, err := a.opts.Fallback(sym, args)
		if err != nil {
			return 0, true, err
		}
		if ok {
			f, err := reg.store(v)
			return f, true, err
		}
	}
	return a.defaults(reg, sym, args, values)
}

func (a *AnyExpression) defaults(reg *registry, sym types.Symbol, args []float64, values []any) (float64, bool, error) {
	switch sym {
	case types.Variable("true"), types.Variable("false"):
		f, err := reg.store(sym.Name == "true")
		return f, true, err

	case types.Infix("+"):
		if reg.stringy {
			f, err := reg.store(stringify(values[0]) + stringify(values[1]))
			return f, true, err
		}

	case types.Infix("=="), types.Infix("!="), types.Infix("<>"):
		eq, ok := equal(values[0], values[1])
		if !ok {
			return 0, true, types.UndefinedSymbol(sym)
		}
		if sym.Name != "==" {
			eq = !eq
		}
		f, err := reg.store(eq)
		return f, true, err

	case types.Infix("<"), types.Infix("<="), types.Infix(">="), types.Infix(">"):
		c, ok := order(values[0], values[1])
		if !ok {
			return 0, true, typeMismatch(sym, values)
		}
		var result bool
		switch sym.Name {
		case "<":
			result = c < 0
		case "<=":
			result = c <= 0
		case ">=":
			result = c >= 0
		default:
			result = c > 0
		}
		f, err := reg.store(result)
		return f, true, err

	case types.Infix("&&"):
		f, err := reg.store(truthyValue(values[0]) && truthyValue(values[1]))
		return f, true, err

	case types.Infix("||"):
		f, err := reg.store(truthyValue(values[0]) || truthyValue(values[1]))
		return f, true, err

	case types.Prefix("!"):
		f, err := reg.store(!truthyValue(values[0]))
		return f, true, err

	case types.Ternary:
		if len(args) == 2 {
			if truthyValue(values[0]) {
				return args[0], true, nil
			}
			return args[1], true, nil
		}
		if truthyValue(values[0]) {
			return args[1], true, nil
		}
		return args[2], true, nil
	}

	fn, ok := lookupBuiltin(sym, true)
	if !ok {
		return 0, false, nil
	}
	// The numeric built-ins would read sentinels as numbers.
	if !allNumeric(values) {
		return 0, true, typeMismatch(sym, values)
	}
	v, err := fn(args)
	if err != nil {
		return 0, true, err
	}
	f, err := reg.store(v)
	return f, true, err
}

// Err returns the parse error captured by NewAny, if any.
func (a *AnyExpression) Err() error {
	return a.err
}

// Symbols returns every symbol the expression references.
func (a *AnyExpression) Symbols() types.SymbolSet {
	return a.inner.Symbols()
}

// Source returns the text the expression was built from.
func (a *AnyExpression) Source() string {
	return a.source
}

// String returns the canonical form of the expression with string literals
// quoted. Invalid expressions return their original text.
func (a *AnyExpression) String() string {
	if a.err != nil {
		return a.source
	}
	return a.inner.root.Format(func(v float64) (string, bool) {
		if isBoxed(v) {
			if i := int(v - boxBase); i < len(a.literals) {
				return quote(a.literals[i]), true
			}
		}
		return "", false
	})
}

// Description is an alias of String used by formatter tooling.
func (a *AnyExpression) Description() string {
	return a.String()
}

// EvaluateAs evaluates e and converts the result to T. float64, int, bool
// and string results are converted; any other T must match exactly.
func EvaluateAs[T any](e *AnyExpression) (T, error) {
	var zero T
	v, err := e.Evaluate()
	if err != nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}

	var out any
	switch any(zero).(type) {
	case float64:
		if f, ok := toFloat(v); ok {
			out = f
		}
	case int:
		if f, ok := toFloat(v); ok {
			out = int(f)
		}
	case bool:
		out = truthyValue(v)
	case string:
		out = stringify(v)
	}
	if t, ok := out.(T); ok {
		return t, nil
	}
	return zero, types.Message("Type mismatch: cannot convert %T to %T", v, zero)
}

// numericFunc adapts a numeric symbol to the boxed engine.
func numericFunc(sym types.Symbol, fn functions.Func) functions.AnyFunc {
	return func(values []any) (any, error) {
		args := make([]float64, len(values))
		for i, v := range values {
			f, ok := toFloat(v)
			if !ok {
				return nil, typeMismatch(sym, values)
			}
			args[i] = f
		}
		return fn(args)
	}
}

func allNumeric(values []any) bool {
	for _, v := range values {
		if _, ok := toFloat(v); !ok {
			return false
		}
	}
	return true
}

func typeMismatch(sym types.Symbol, values []any) error {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = fmt.Sprintf("%T", v)
	}
	return types.Message("Type mismatch: %s cannot take (%s)", sym, strings.Join(names, ", "))
}

// equal compares two values. ok is false when either value is not
// comparable.
func equal(a, b any) (eq bool, ok bool) {
	if fa, isNum := toFloat(a); isNum {
		if fb, isNum := toFloat(b); isNum {
			return fa == fb, true
		}
	}
	if !isComparable(a) || !isComparable(b) {
		return false, false
	}
	return a == b, true
}

func isComparable(v any) bool {
	return v == nil || reflect.ValueOf(v).Comparable()
}

// order compares two numbers or two strings.
func order(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb), true
		}
	}
	return 0, false
}
