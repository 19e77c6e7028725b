// Package evaluator implements the layout expression evaluation engine.
//
// An Expression binds a parsed tree to an evaluator chain. Each operand is
// resolved, children first, by trying in order:
//   - the constants map
//   - the custom symbol table
//   - the fallback evaluator
//   - the built-in arithmetic symbols
//   - the built-in boolean symbols, when enabled
//
// A ternary `?:` no table defines is retried as `?` followed by `:`. A
// function known only under a different arity fails with an arity error,
// anything else with an undefined-symbol error.
//
// # Example
//
//	expr := evaluator.New("max(width / 2, 10)",
//	    evaluator.WithConstants(map[string]float64{"width": 320}),
//	)
//	v, err := expr.Evaluate() // 160
//
// # Performance
//
// Parsing and constant folding happen once, in New. Parsed trees are cached
// process-wide by source string, so building many expressions from the same
// text is cheap too. Evaluate is safe for concurrent use.
package evaluator

import (
	"log/slog"

	"github.com/sandrolain/layoutexpr/pkg/cache"
	"github.com/sandrolain/layoutexpr/pkg/functions"
	"github.com/sandrolain/layoutexpr/pkg/parser"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// Expression is a parsed, optimized numeric expression ready for repeated
// evaluation.
type Expression struct {
	source  string
	root    *types.Subexpression
	symbols types.SymbolSet
	opts    EvalOptions
	logger  *slog.Logger
	err     error
}

// EvalOptions configures expression construction and evaluation.
type EvalOptions struct {
	// Constants are checked first and, being pure, are folded at parse time.
	Constants map[string]float64
	// Symbols implements custom variables, operators and functions.
	Symbols map[types.Symbol]functions.Func
	// Fallback is consulted for symbols neither table defines.
	Fallback functions.Fallback
	// BooleanSymbols enables true, false, comparisons, && || ! and ?:.
	BooleanSymbols bool
	// Optimize enables constant folding. Defaults to true.
	Optimize bool
	// PureSymbols lets the custom symbols be folded like constants.
	PureSymbols bool
	// Caching enables the process-wide parse cache. Defaults to true.
	Caching bool
	// Cache is a custom parse cache. If non-nil, it is used regardless of Caching.
	Cache cache.Store[*types.Subexpression]
	// MaxDepth limits parenthesis nesting while parsing.
	MaxDepth int
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger

	// Boxed-value engine options, ignored by New.
	AnyConstants map[string]any
	AnySymbols   map[types.Symbol]functions.AnyFunc
	AnyFallback  functions.AnyFallback

	// set by the boxed-value engine
	dynamic      bool
	knownSymbols []types.Symbol
}

func defaultOptions() EvalOptions {
	return EvalOptions{
		Optimize: true,
		Caching:  true,
		MaxDepth: 100,
	}
}

// New parses source and returns an Expression. It never fails: a parse
// error is kept in the expression, reported by Err and returned by every
// call to Evaluate, while String still returns the original text.
func New(source string, opts ...EvalOption) *Expression {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return newExpression(source, options)
}

// Compile is like New but returns the parse error immediately.
func Compile(source string, opts ...EvalOption) (*Expression, error) {
	e := New(source, opts...)
	if e.err != nil {
		return nil, e.err
	}
	return e, nil
}

func newExpression(source string, options EvalOptions) *Expression {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	e := &Expression{
		source: source,
		opts:   options,
		logger: options.Logger,
	}

	root := e.parse(source)
	if root.Type == types.NodeError {
		e.err = root.Err
		e.root = root
		e.symbols = make(types.SymbolSet)
		return e
	}

	if options.Optimize {
		root = e.fold(root)
	}
	e.root = root
	e.symbols = root.Symbols()
	return e
}

// parse returns the tree for source, going through the configured cache.
func (e *Expression) parse(source string) *types.Subexpression {
	parse := func() *types.Subexpression {
		if e.opts.Debug {
			e.logger.Debug("parsing expression", "source", source)
		}
		return parser.ParseExpression(source, parser.WithMaxDepth(e.opts.MaxDepth))
	}

	store := e.opts.Cache
	if store == nil {
		if !e.opts.Caching {
			return parse()
		}
		store = DefaultCache()
	}
	return store.GetOrParse(source, parse)
}

// Evaluate computes the value of the expression.
func (e *Expression) Evaluate() (float64, error) {
	return e.evaluate(nil)
}

// evaluate runs the chain with an extra per-call evaluator consulted right
// after the custom symbol table.
func (e *Expression) evaluate(dynamic functions.Fallback) (float64, error) {
	if e.err != nil {
		return 0, e.err
	}
	return e.eval(e.root, dynamic)
}

func (e *Expression) eval(node *types.Subexpression, dynamic functions.Fallback) (float64, error) {
	switch node.Type {
	case types.NodeLiteral:
		return node.Value, nil
	case types.NodeError:
		return 0, node.Err
	}

	var buf [4]float64
	args := buf[:0]
	for _, arg := range node.Args {
		v, err := e.eval(arg, dynamic)
		if err != nil {
			return 0, err
		}
		args = append(args, v)
	}

	v, err := e.apply(node.Symbol, args, dynamic)
	if e.opts.Debug {
		e.logger.Debug("evaluated symbol",
			"symbol", node.Symbol.String(),
			"args", args,
			"value", v,
			"error", err)
	}
	return v, err
}

// apply resolves sym through the evaluator chain.
func (e *Expression) apply(sym types.Symbol, args []float64, dynamic functions.Fallback) (float64, error) {
	if sym.Kind == types.SymbolVariable {
		if v, ok := e.opts.Constants[sym.Name]; ok {
			return v, nil
		}
	}
	if fn, ok := e.opts.Symbols[sym]; ok {
		return fn(args)
	}
	if dynamic != nil {
		if v, ok, err := dynamic(sym, args); ok || err != nil {
			return v, err
		}
	}
	if e.opts.Fallback != nil {
		if v, ok, err := e.opts.Fallback(sym, args); ok || err != nil {
			return v, err
		}
	}
	if fn, ok := lookupBuiltin(sym, e.opts.BooleanSymbols); ok {
		return fn(args)
	}
	if sym == types.Ternary && len(args) == 3 {
		return e.decomposeTernary(args, dynamic)
	}
	if expected, ok := e.otherArity(sym); ok {
		return 0, types.ArityMismatch(expected)
	}
	return 0, types.UndefinedSymbol(sym)
}

// decomposeTernary evaluates `a ? b : c` as `(a ? b) : c` so callers can
// implement the ternary with two binary operators.
func (e *Expression) decomposeTernary(args []float64, dynamic functions.Fallback) (float64, error) {
	cond, err := e.apply(types.Infix("?"), args[:2], dynamic)
	if err != nil {
		if types.CodeOf(err) == types.ErrUndefinedSymbol {
			return 0, types.UndefinedSymbol(types.Ternary)
		}
		return 0, err
	}
	v, err := e.apply(types.Infix(":"), []float64{cond, args[2]}, dynamic)
	if err != nil && types.CodeOf(err) == types.ErrUndefinedSymbol {
		return 0, types.UndefinedSymbol(types.Ternary)
	}
	return v, err
}

// otherArity finds a function with the same name as sym but a different
// arity in any of the tables.
func (e *Expression) otherArity(sym types.Symbol) (types.Symbol, bool) {
	if sym.Kind != types.SymbolFunction {
		return types.Symbol{}, false
	}
	for known := range e.opts.Symbols {
		if known.Kind == types.SymbolFunction && known.Name == sym.Name {
			return known, true
		}
	}
	for _, known := range e.opts.knownSymbols {
		if known.Kind == types.SymbolFunction && known.Name == sym.Name && known != sym {
			return known, true
		}
	}
	initBuiltinSymbols()
	for _, known := range builtinsByName[sym.Name] {
		if IsBuiltin(known, e.opts.BooleanSymbols) {
			return known, true
		}
	}
	return types.Symbol{}, false
}

// Err returns the parse error captured by New, if any.
func (e *Expression) Err() error {
	return e.err
}

// Symbols returns every symbol the (folded) expression references.
func (e *Expression) Symbols() types.SymbolSet {
	return e.symbols
}

// Source returns the text the expression was built from.
func (e *Expression) Source() string {
	return e.source
}

// AST returns the root of the (folded) tree.
func (e *Expression) AST() *types.Subexpression {
	return e.root
}

// String returns the canonical form of the expression. Invalid expressions
// return their original text.
func (e *Expression) String() string {
	return e.root.String()
}

// Description is an alias of String used by formatter tooling.
func (e *Expression) Description() string {
	return e.String()
}

// EvalOption configures an expression.
type EvalOption func(*EvalOptions)

// WithConstants adds named numeric constants. Constants take precedence
// over every other symbol source and are folded at parse time.
func WithConstants(constants map[string]float64) EvalOption {
	return func(opts *EvalOptions) {
		opts.Constants = merge(opts.Constants, constants)
	}
}

// WithSymbols adds custom symbol implementations. Later definitions of the
// same symbol win.
func WithSymbols(symbols map[types.Symbol]functions.Func) EvalOption {
	return func(opts *EvalOptions) {
		opts.Symbols = merge(opts.Symbols, symbols)
	}
}

// WithFallback sets the evaluator consulted for symbols no table defines.
// A fallback may override built-in names, so its presence disables folding
// of built-in symbols.
func WithFallback(fn functions.Fallback) EvalOption {
	return func(opts *EvalOptions) {
		opts.Fallback = fn
	}
}

// WithBooleanSymbols enables or disables the built-in boolean symbols.
func WithBooleanSymbols(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.BooleanSymbols = enabled
	}
}

// WithOptimization enables or disables constant folding.
func WithOptimization(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Optimize = enabled
	}
}

// WithPureSymbols marks the custom symbols as pure, allowing them to be
// folded when all their arguments are constant.
func WithPureSymbols(pure bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.PureSymbols = pure
	}
}

// WithCaching enables or disables the process-wide parse cache.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCache attaches a parse cache, such as cache.Noop in tests.
func WithCache(c cache.Store[*types.Subexpression]) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithMaxDepth sets the maximum parenthesis nesting depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithAnyConstants adds typed constants for the boxed-value engine.
func WithAnyConstants(constants map[string]any) EvalOption {
	return func(opts *EvalOptions) {
		opts.AnyConstants = merge(opts.AnyConstants, constants)
	}
}

// WithAnySymbols adds typed symbol implementations for the boxed-value engine.
func WithAnySymbols(symbols map[types.Symbol]functions.AnyFunc) EvalOption {
	return func(opts *EvalOptions) {
		opts.AnySymbols = merge(opts.AnySymbols, symbols)
	}
}

// WithAnyFallback sets the typed fallback evaluator for the boxed-value engine.
func WithAnyFallback(fn functions.AnyFallback) EvalOption {
	return func(opts *EvalOptions) {
		opts.AnyFallback = fn
	}
}

// merge copies src over dst into a new map, leaving both inputs untouched.
func merge[K comparable, V any](dst, src map[K]V) map[K]V {
	if len(dst) == 0 {
		return src
	}
	out := make(map[K]V, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}
