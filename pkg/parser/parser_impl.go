package parser

import (
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// fragmentKind classifies an entry on the parser stack.
type fragmentKind uint8

const (
	fragmentOperand fragmentKind = iota
	fragmentInfix
	fragmentPrefix
	fragmentPostfix
)

// fragment is a not yet reduced element of the current parenthesis scope:
// either a finished operand or an operator whose fixity was decided from the
// surrounding whitespace.
type fragment struct {
	kind      fragmentKind
	node      *types.Subexpression // operand only
	op        string               // operator spelling
	text      string               // source text, for error messages
	pos       int                  // byte offset in the source
	delimiter bool                 // `,` and `:` can never be unary
}

// scope is an outer stack saved while a parenthesized group is parsed.
type scope struct {
	stack []fragment
	open  int // position of the `(`
}

// Parser implements a single-pass, stack-based operator-precedence parser.
//
// Tokens are pushed onto a flat stack of fragments for the current
// parenthesis scope. Opening a parenthesis saves the stack on the scopes
// stack; closing it reduces the inner fragments to one node and splices it
// back, turning a preceding bare identifier into a function call.
type Parser struct {
	lexer   *Lexer
	opts    CompileOptions
	arena   *types.NodeArena
	stack   []fragment
	scopes  []scope
	grouped map[*types.Subexpression]bool
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Parser{
		lexer:   NewLexer(input),
		opts:    options,
		arena:   types.NewNodeArena(),
		grouped: make(map[*types.Subexpression]bool),
	}
}

// Parse consumes the whole input and returns the root node.
func (p *Parser) Parse() (*types.Subexpression, error) {
	for {
		tok := p.lexer.Next()
		switch tok.Type {
		case TokenEOF:
			return p.finish()
		case TokenError:
			return nil, p.lexer.Error()
		case TokenNumber:
			p.push(fragment{
				kind: fragmentOperand,
				node: p.arena.Literal(tok.NumValue),
				text: tok.Value,
				pos:  tok.Position,
			})
		case TokenIdentifier:
			p.pushIdentifier(tok)
		case TokenOperator:
			p.pushOperator(tok, p.lexer.AtSpace())
		case TokenComma, TokenColon:
			p.push(fragment{
				kind:      fragmentInfix,
				op:        tok.Value,
				text:      tok.Value,
				pos:       tok.Position,
				delimiter: true,
			})
		case TokenParenOpen:
			if p.opts.MaxDepth > 0 && len(p.scopes) >= p.opts.MaxDepth {
				err := types.Message("Maximum nesting depth (%d) exceeded", p.opts.MaxDepth)
				err.Position = tok.Position
				return nil, err
			}
			p.scopes = append(p.scopes, scope{stack: p.stack, open: tok.Position})
			p.stack = nil
		case TokenParenClose:
			if err := p.closeScope(tok); err != nil {
				return nil, err
			}
		}
	}
}

func (p *Parser) finish() (*types.Subexpression, error) {
	if len(p.scopes) > 0 {
		return nil, types.MissingDelimiter(")", len(p.lexer.Input()))
	}
	node, err := p.reduce(p.stack)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, types.UnexpectedToken("", 0)
	}
	return node, nil
}

func (p *Parser) push(f fragment) {
	p.stack = append(p.stack, f)
}

// last returns the topmost fragment of the current scope, or nil.
func (p *Parser) last() *fragment {
	if len(p.stack) == 0 {
		return nil
	}
	return &p.stack[len(p.stack)-1]
}

// pushIdentifier pushes a variable, or a postfix operator when the
// identifier is glued to the preceding operand (5px).
func (p *Parser) pushIdentifier(tok Token) {
	if prev := p.last(); prev != nil && prev.kind == fragmentOperand && !tok.SpaceBefore {
		p.push(fragment{
			kind: fragmentPostfix,
			op:   tok.Value,
			text: tok.Value,
			pos:  tok.Position,
		})
		return
	}
	p.push(fragment{
		kind: fragmentOperand,
		node: p.arena.Operand(types.Variable(tok.Value)),
		text: tok.Value,
		pos:  tok.Position,
	})
}

// pushOperator resolves fixity from whitespace. The start of a scope and a
// preceding delimiter count as whitespace.
func (p *Parser) pushOperator(tok Token, followed bool) {
	preceded := tok.SpaceBefore
	if prev := p.last(); prev == nil || prev.delimiter {
		preceded = true
	}

	kind := fragmentInfix
	switch {
	case preceded && !followed:
		kind = fragmentPrefix
	case !preceded && followed:
		kind = fragmentPostfix
	}
	p.push(fragment{
		kind: kind,
		op:   tok.Value,
		text: tok.Value,
		pos:  tok.Position,
	})
}

func (p *Parser) closeScope(tok Token) error {
	if len(p.scopes) == 0 {
		return types.UnexpectedToken(")", tok.Position)
	}
	inner := p.stack
	outer := p.scopes[len(p.scopes)-1]
	p.scopes = p.scopes[:len(p.scopes)-1]
	p.stack = outer.stack

	node, err := p.reduce(inner)
	if err != nil {
		return err
	}

	if prev := p.last(); prev != nil && p.isCallee(prev) {
		args := p.arguments(node)
		prev.node = p.arena.Operand(types.Function(prev.node.Symbol.Name, len(args)), args...)
		prev.text = p.lexer.Input()[prev.pos : tok.Position+1]
		return nil
	}

	if node == nil {
		return types.UnexpectedToken(")", tok.Position)
	}
	p.grouped[node] = true
	p.push(fragment{
		kind: fragmentOperand,
		node: node,
		text: p.lexer.Input()[outer.open : tok.Position+1],
		pos:  outer.open,
	})
	return nil
}

// isCallee reports whether f is a bare variable that turns into a function
// name when followed by a parenthesized group.
func (p *Parser) isCallee(f *fragment) bool {
	return f.kind == fragmentOperand &&
		f.node.IsOperand() &&
		f.node.Symbol.Kind == types.SymbolVariable &&
		!p.grouped[f.node]
}

// arguments flattens an ungrouped comma chain into an argument list.
func (p *Parser) arguments(node *types.Subexpression) []*types.Subexpression {
	if node == nil {
		return nil
	}
	if p.isComma(node) {
		return append(p.arguments(node.Args[0]), node.Args[1])
	}
	return []*types.Subexpression{node}
}

func (p *Parser) isComma(node *types.Subexpression) bool {
	return node.IsOperand() &&
		node.Symbol == types.Infix(",") &&
		len(node.Args) == 2 &&
		!p.grouped[node]
}

// reduce collapses the fragments of one scope into a single node. It
// returns nil without error for an empty scope.
func (p *Parser) reduce(stack []fragment) (*types.Subexpression, error) {
	if len(stack) == 0 {
		return nil, nil
	}
	r := reducer{arena: p.arena, stack: stack}
	node, err := r.expression(types.PrecedenceComma)
	if err != nil {
		return nil, err
	}
	if r.i < len(r.stack) {
		f := r.stack[r.i]
		return nil, types.UnexpectedToken(f.text, f.pos)
	}
	return node, nil
}

// reducer walks the fragments of a single scope by precedence climbing.
type reducer struct {
	arena *types.NodeArena
	stack []fragment
	i     int
	// conditions counts `?` operators still waiting for their `:`.
	conditions int
}

func (r *reducer) peek() *fragment {
	if r.i >= len(r.stack) {
		return nil
	}
	return &r.stack[r.i]
}

// expression parses operands joined by operators binding at least minPrec.
//
// Fixity decided from whitespace is only a hint in operator position: an
// operator with operands on both sides is always infix (`5 -3` is 2), a
// postfix operator followed by an operand becomes infix, and an operator at
// the end of the scope becomes postfix.
func (r *reducer) expression(minPrec int) (*types.Subexpression, error) {
	lhs, err := r.unary()
	if err != nil {
		return nil, err
	}

	for {
		f := r.peek()
		if f == nil {
			return lhs, nil
		}
		if f.kind == fragmentOperand {
			return nil, types.UnexpectedToken(f.text, f.pos)
		}

		next := r.i + 1
		atEnd := next >= len(r.stack)
		if f.kind == fragmentPostfix && (atEnd || r.stack[next].kind != fragmentOperand) {
			r.i++
			lhs = r.arena.Operand(types.Postfix(f.op), lhs)
			continue
		}
		if atEnd {
			if f.delimiter {
				return nil, types.UnexpectedToken(f.text, f.pos)
			}
			r.i++
			lhs = r.arena.Operand(types.Postfix(f.op), lhs)
			continue
		}

		if f.op == ":" && r.conditions > 0 {
			return lhs, nil
		}
		prec := types.Precedence(f.op)
		if prec < minPrec {
			return lhs, nil
		}
		r.i++

		if f.op == "?" {
			lhs, err = r.condition(lhs)
			if err != nil {
				return nil, err
			}
			continue
		}

		rhsPrec := prec + 1
		if types.RightAssociative(f.op) {
			rhsPrec = prec
		}
		rhs, err := r.expression(rhsPrec)
		if err != nil {
			return nil, err
		}
		lhs = r.arena.Operand(types.Infix(f.op), lhs, rhs)
	}
}

// condition parses the remainder of `cond ? a : b` or `cond ?: b` after the
// `?` has been consumed. Without a matching `:` the result is a plain `?`
// infix application.
func (r *reducer) condition(cond *types.Subexpression) (*types.Subexpression, error) {
	if f := r.peek(); f != nil && f.op == ":" && f.delimiter {
		r.i++
		rhs, err := r.expression(types.PrecedenceTernary)
		if err != nil {
			return nil, err
		}
		return r.arena.Operand(types.Ternary, cond, rhs), nil
	}

	r.conditions++
	then, err := r.expression(types.PrecedenceTernary)
	r.conditions--
	if err != nil {
		return nil, err
	}

	f := r.peek()
	if f == nil || f.op != ":" || !f.delimiter {
		return r.arena.Operand(types.Infix("?"), cond, then), nil
	}
	if r.i+1 >= len(r.stack) {
		return nil, types.UnexpectedToken(f.text, f.pos)
	}
	r.i++
	els, err := r.expression(types.PrecedenceTernary)
	if err != nil {
		return nil, err
	}
	return r.arena.Operand(types.Ternary, cond, then, els), nil
}

// unary parses an operand together with any prefix operators before it.
func (r *reducer) unary() (*types.Subexpression, error) {
	f := r.peek()
	if f == nil {
		last := r.stack[len(r.stack)-1]
		return nil, types.UnexpectedToken(last.text, last.pos)
	}
	r.i++

	if f.kind == fragmentOperand {
		return f.node, nil
	}
	if f.delimiter || r.i >= len(r.stack) {
		return nil, types.UnexpectedToken(f.text, f.pos)
	}
	operand, err := r.unary()
	if err != nil {
		return nil, err
	}
	return r.arena.Operand(types.Prefix(f.op), operand), nil
}
