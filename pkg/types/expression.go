// Package types defines the core data model for layoutexpr.
//
// This package contains type definitions for:
//   - Symbol: variables, operators and functions an expression references
//   - Subexpression: Abstract Syntax Tree nodes and their arena allocator
//   - Error types: Structured errors with codes
//   - Operator precedence and the canonical printer shared by parser and tools
package types

import (
	"math"
	"strconv"
	"strings"
)

// Operator precedence levels. Higher values bind more tightly.
const (
	PrecedenceComma      = iota // ,
	PrecedenceTernary           // ? : ?:
	PrecedenceLogical           // && ||
	PrecedenceBitwise           // & | ^
	PrecedenceEquality          // == != <>
	PrecedenceRelational        // < <= >= >
	PrecedenceShift             // << >>
	PrecedenceDefault           // + - and any operator not listed
	PrecedenceMultiply          // * / %
)

// Precedence returns the binding power of an infix operator.
func Precedence(op string) int {
	switch op {
	case ",":
		return PrecedenceComma
	case "?", ":", "?:":
		return PrecedenceTernary
	case "&&", "||":
		return PrecedenceLogical
	case "&", "|", "^":
		return PrecedenceBitwise
	case "==", "!=", "<>":
		return PrecedenceEquality
	case "<", "<=", ">=", ">":
		return PrecedenceRelational
	case "<<", ">>":
		return PrecedenceShift
	case "*", "/", "%":
		return PrecedenceMultiply
	default:
		return PrecedenceDefault
	}
}

// RightAssociative reports whether chains of op group to the right.
func RightAssociative(op string) bool {
	return op == "?" || op == ":"
}

// FormatNumber renders a literal so that it parses back to the same value.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// String returns the canonical source form of the tree.
func (n *Subexpression) String() string {
	return n.Format(nil)
}

// Description is an alias of String used by formatter tooling.
func (n *Subexpression) Description() string {
	return n.Format(nil)
}

// Format prints the tree like String, but lets the caller render literal
// values itself. literal returns false to fall back to FormatNumber.
func (n *Subexpression) Format(literal func(float64) (string, bool)) string {
	var sb strings.Builder
	p := printer{sb: &sb, literal: literal}
	p.node(n)
	return sb.String()
}

type printer struct {
	sb      *strings.Builder
	literal func(float64) (string, bool)
}

func (p printer) node(n *Subexpression) {
	if n == nil {
		return
	}
	switch n.Type {
	case NodeLiteral:
		p.number(n.Value)
	case NodeError:
		p.sb.WriteString(n.Source)
	case NodeOperand:
		p.operand(n)
	}
}

func (p printer) number(v float64) {
	if p.literal != nil {
		if s, ok := p.literal(v); ok {
			p.sb.WriteString(s)
			return
		}
	}
	p.sb.WriteString(FormatNumber(v))
}

func (p printer) operand(n *Subexpression) {
	sym := n.Symbol
	switch sym.Kind {
	case SymbolVariable:
		p.sb.WriteString(sym.Name)
	case SymbolFunction:
		p.sb.WriteString(sym.Name)
		p.sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.wrap(arg, isInfix(arg) && Precedence(arg.Symbol.Name) == PrecedenceComma)
		}
		p.sb.WriteByte(')')
	case SymbolPrefix:
		p.sb.WriteString(sym.Name)
		p.wrap(n.Arg(0), !isAtom(n.Arg(0)))
	case SymbolPostfix:
		arg := n.Arg(0)
		p.wrap(arg, !isAtom(arg) || (isIdentifier(sym.Name) && !arg.IsLiteral()))
		p.sb.WriteString(sym.Name)
	case SymbolInfix:
		if sym == Ternary {
			p.ternary(n)
			return
		}
		prec := Precedence(sym.Name)
		lhs, rhs := n.Arg(0), n.Arg(1)
		p.wrap(lhs, isTernary(lhs) || (isInfix(lhs) && (Precedence(lhs.Symbol.Name) < prec ||
			(RightAssociative(sym.Name) && Precedence(lhs.Symbol.Name) == prec))))
		if sym.Name == "," {
			p.sb.WriteString(", ")
		} else {
			p.sb.WriteByte(' ')
			p.sb.WriteString(sym.Name)
			p.sb.WriteByte(' ')
		}
		p.wrap(rhs, isTernary(rhs) || (isInfix(rhs) && Precedence(rhs.Symbol.Name) <= prec))
	}
}

func (p printer) ternary(n *Subexpression) {
	needsParens := func(arg *Subexpression) bool {
		return isTernary(arg) || (isInfix(arg) && Precedence(arg.Symbol.Name) <= PrecedenceTernary)
	}
	if len(n.Args) == 2 {
		p.wrap(n.Args[0], needsParens(n.Args[0]))
		p.sb.WriteString(" ?: ")
		p.wrap(n.Args[1], needsParens(n.Args[1]))
		return
	}
	p.wrap(n.Arg(0), needsParens(n.Arg(0)))
	p.sb.WriteString(" ? ")
	p.wrap(n.Arg(1), needsParens(n.Arg(1)))
	p.sb.WriteString(" : ")
	p.wrap(n.Arg(2), needsParens(n.Arg(2)))
}

func (p printer) wrap(n *Subexpression, parens bool) {
	if parens {
		p.sb.WriteByte('(')
		p.node(n)
		p.sb.WriteByte(')')
		return
	}
	p.node(n)
}

// Arg returns the i-th argument, or nil.
func (n *Subexpression) Arg(i int) *Subexpression {
	if n == nil || i >= len(n.Args) {
		return nil
	}
	return n.Args[i]
}

func isInfix(n *Subexpression) bool {
	return n.IsOperand() && n.Symbol.Kind == SymbolInfix
}

func isTernary(n *Subexpression) bool {
	return n.IsOperand() && n.Symbol == Ternary
}

// isAtom reports whether n prints as a single token that an operator can be
// attached to without parentheses.
func isAtom(n *Subexpression) bool {
	switch {
	case n == nil:
		return true
	case n.Type == NodeLiteral:
		return n.Value >= 0 || math.IsNaN(n.Value)
	case n.Type == NodeOperand:
		return n.Symbol.Kind == SymbolVariable || n.Symbol.Kind == SymbolFunction
	default:
		return false
	}
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c == '_' || c == '$' || c == '@' || c == '#' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
