// Package parser implements the layout expression parser.
//
// The parser is a single-pass, stack-based operator-precedence engine. It
// supports prefix, infix and postfix operators whose fixity is decided by the
// surrounding whitespace, function calls with any number of arguments,
// parenthesized groups, comma lists and the `?:` ternary.
//
// # Architecture
//
// The parser consists of three main components:
//   - Lexer: Tokenizes the input into numbers, identifiers and operator runs
//   - Parser: Builds an Abstract Syntax Tree (AST) from tokens
//   - Segments: Splits interpolated strings into text and `{expression}` parts
//
// # Example
//
//	ast, err := parser.Parse("width / 2 - 10")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ast.Symbols().Variables()) // [width]
//
// # Fixity
//
// An operator preceded and followed by whitespace, or by neither, is infix
// (`a - b`, `a-b`). Preceded only, it is prefix (`-a`); followed only, it is
// postfix (`50% `). An identifier glued to an operand is a postfix operator
// (`5px`).
package parser

import (
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// Parse parses an expression and returns the root of its AST.
//
// An empty or all-whitespace source fails with the sentinel
// types.UnexpectedToken("") error; see types.IsEmptyExpression.
//
// Example:
//
//	ast, err := parser.Parse("max(a, b)")
//	if err != nil {
//	    fmt.Printf("Parse error: %v\n", err)
//	    return
//	}
func Parse(source string, opts ...CompileOption) (*types.Subexpression, error) {
	p := NewParser(source, opts...)
	return p.Parse()
}

// ParseExpression parses source and never fails: a parse error is captured
// in a NodeError that keeps the original source text, so the expression can
// still be displayed.
func ParseExpression(source string, opts ...CompileOption) *types.Subexpression {
	node, err := Parse(source, opts...)
	if err != nil {
		return types.NewErrorNode(err, source)
	}
	return node
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits parenthesis nesting. Zero disables the limit.
	MaxDepth int
}

// WithMaxDepth sets the maximum parenthesis nesting depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
