package types

import "sort"

// SymbolKind identifies how a symbol is applied in an expression.
type SymbolKind uint8

const (
	SymbolVariable SymbolKind = iota // constant or variable reference
	SymbolInfix                      // binary operator
	SymbolPrefix                     // unary operator before its operand
	SymbolPostfix                    // unary operator after its operand
	SymbolFunction                   // function call with a fixed arity
)

// String returns a string representation of the symbol kind.
func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolInfix:
		return "infix operator"
	case SymbolPrefix:
		return "prefix operator"
	case SymbolPostfix:
		return "postfix operator"
	case SymbolFunction:
		return "function"
	default:
		return "(unknown)"
	}
}

// Symbol is a named slot an expression can reference: a variable, an
// operator or a function. Symbols are comparable and are used directly as
// map keys. Two symbols are equal when they have the same kind and name;
// functions additionally need the same arity, so pow(_) and pow(_,_) are
// distinct symbols.
type Symbol struct {
	Kind  SymbolKind
	Name  string
	Arity int // always 0 unless Kind is SymbolFunction
}

// Variable returns a variable or constant symbol.
func Variable(name string) Symbol {
	return Symbol{Kind: SymbolVariable, Name: name}
}

// Infix returns a binary operator symbol.
func Infix(name string) Symbol {
	return Symbol{Kind: SymbolInfix, Name: name}
}

// Prefix returns a prefix operator symbol.
func Prefix(name string) Symbol {
	return Symbol{Kind: SymbolPrefix, Name: name}
}

// Postfix returns a postfix operator symbol.
func Postfix(name string) Symbol {
	return Symbol{Kind: SymbolPostfix, Name: name}
}

// Function returns a function symbol taking exactly arity arguments.
// A negative arity is clamped to zero.
func Function(name string, arity int) Symbol {
	if arity < 0 {
		arity = 0
	}
	return Symbol{Kind: SymbolFunction, Name: name, Arity: arity}
}

// Ternary is the symbol the parser emits for `a ? b : c`.
var Ternary = Infix("?:")

// String returns the human-readable name, e.g. "infix operator +" or
// "function pow()".
func (s Symbol) String() string {
	if s.Kind == SymbolFunction {
		return "function " + s.Name + "()"
	}
	return s.Kind.String() + " " + s.Name
}

// SymbolSet is a set of symbols.
type SymbolSet map[Symbol]struct{}

// Add inserts a symbol into the set.
func (s SymbolSet) Add(sym Symbol) {
	s[sym] = struct{}{}
}

// Contains reports whether sym is in the set.
func (s SymbolSet) Contains(sym Symbol) bool {
	_, ok := s[sym]
	return ok
}

// Variables returns the sorted names of all variable symbols in the set.
func (s SymbolSet) Variables() []string {
	var names []string
	for sym := range s {
		if sym.Kind == SymbolVariable {
			names = append(names, sym.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Sorted returns the symbols ordered by kind, name and arity.
func (s SymbolSet) Sorted() []Symbol {
	out := make([]Symbol, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Arity < b.Arity
	})
	return out
}
