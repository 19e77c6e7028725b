package evaluator

import (
	"fmt"

	"github.com/sandrolain/layoutexpr/pkg/functions"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// Scope holds named bindings that refer to each other by name. Bindings are
// evaluated lazily with the boxed-value engine and memoized until the scope
// is invalidated. Lookups that miss walk up to the parent scope.
//
// A Scope is not safe for concurrent use.
type Scope struct {
	parent   *Scope
	children []*Scope
	bindings map[string]*binding
	opts     []EvalOption
	next     functions.AnyFallback

	// evaluating tracks the bindings on the current resolution path
	evaluating map[string]bool
	depth      int
}

type binding struct {
	expr  *AnyExpression // nil for plain values
	value any
	ready bool
}

// NewScope creates a root scope. opts apply to every binding expression; a
// typed fallback among them is consulted after the scope's own names.
func NewScope(opts ...EvalOption) *Scope {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Scope{
		bindings:   make(map[string]*binding),
		opts:       opts,
		next:       options.AnyFallback,
		evaluating: make(map[string]bool),
	}
}

// NewChild creates a scope whose lookups fall back to s.
func (s *Scope) NewChild() *Scope {
	child := &Scope{
		parent:     s,
		bindings:   make(map[string]*binding),
		opts:       s.opts,
		next:       s.next,
		evaluating: make(map[string]bool),
		depth:      s.depth + 1,
	}
	s.children = append(s.children, child)
	return child
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Depth returns the number of ancestors of s.
func (s *Scope) Depth() int {
	return s.depth
}

// Set binds name to the expression source. The expression may reference any
// name visible from s. Parse errors are returned immediately.
func (s *Scope) Set(name, source string) error {
	opts := make([]EvalOption, 0, len(s.opts)+1)
	opts = append(opts, s.opts...)
	opts = append(opts, WithAnyFallback(s.fallback))

	expr, err := CompileAny(source, opts...)
	if err != nil {
		return err
	}
	s.bindings[name] = &binding{expr: expr}
	s.Invalidate()
	return nil
}

// SetValue binds name to a fixed value.
func (s *Scope) SetValue(name string, value any) {
	s.bindings[name] = &binding{value: value, ready: true}
	s.Invalidate()
}

// Get returns the value of name, evaluating its expression on first use.
func (s *Scope) Get(name string) (any, error) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.bindings[name]; ok {
			return sc.resolve(name, b)
		}
	}
	return nil, types.UndefinedSymbol(types.Variable(name))
}

// Has reports whether name is bound in s or an ancestor.
func (s *Scope) Has(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if _, ok := sc.bindings[name]; ok {
			return true
		}
	}
	return false
}

// Invalidate drops the memoized values of s and its descendants.
func (s *Scope) Invalidate() {
	for _, b := range s.bindings {
		if b.expr != nil {
			b.ready = false
			b.value = nil
		}
	}
	for _, child := range s.children {
		child.Invalidate()
	}
}

func (s *Scope) resolve(name string, b *binding) (any, error) {
	if b.ready {
		return b.value, nil
	}
	if s.evaluating[name] {
		return nil, types.CircularReference(name)
	}
	s.evaluating[name] = true
	defer delete(s.evaluating, name)

	v, err := b.expr.Evaluate()
	if err != nil {
		return nil, err
	}
	b.value, b.ready = v, true
	return v, nil
}

func (s *Scope) fallback(sym types.Symbol, args []any) (any, bool, error) {
	if sym.Kind == types.SymbolVariable && s.Has(sym.Name) {
		v, err := s.Get(sym.Name)
		return v, true, err
	}
	if s.next != nil {
		return s.next(sym, args)
	}
	return nil, false, nil
}

// String returns a short description of the scope.
func (s *Scope) String() string {
	return fmt.Sprintf("Scope{depth=%d, bindings=%d}", s.depth, len(s.bindings))
}
