package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sandrolain/layoutexpr/pkg/types"
)

const eof = -1

// Lexer converts an expression into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
//
// Each call to Next tries, in order, a numeric literal, an operator run and an
// identifier. Whitespace is never emitted as a token; it is recorded on the
// following token so the parser can decide operator fixity.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls. Input that matches no token class produces a TokenError
// whose value is the unparsed remainder.
func (l *Lexer) Next() Token {
	space := l.skipWhitespace()

	ch := l.nextRune()
	if ch == eof {
		t := l.eof()
		t.SpaceBefore = space
		return t
	}

	var t Token
	switch {
	case isDigit(ch):
		l.backup()
		t = l.scanNumber()
	case lookupDelimiter(ch) > 0:
		t = l.newToken(lookupDelimiter(ch))
	case isOperatorRune(ch):
		l.acceptAll(isOperatorRune)
		t = l.newToken(TokenOperator)
	case isIdentifierHead(ch):
		t = l.scanIdentifier()
	default:
		l.backup()
		rest := strings.TrimRightFunc(l.input[l.current:], isWhitespace)
		l.current = l.length
		t = l.error(types.UnexpectedToken(rest, l.start))
	}
	t.SpaceBefore = space
	return t
}

// AtSpace reports whether the lexer is positioned at whitespace or at the
// end of the input. The parser calls it right after a token to learn whether
// the token is followed by whitespace.
func (l *Lexer) AtSpace() bool {
	if l.current >= l.length {
		return true
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.current:])
	return isWhitespace(r)
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// Input returns the string being scanned.
func (l *Lexer) Input() string {
	return l.input
}

// scanNumber reads a numeric literal from the current position.
// Format: [0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)? or 0x[0-9a-fA-F]+
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)

	// Hexadecimal literal
	if l.input[l.start:l.current] == "0" {
		mark := l.current
		if l.acceptRune('x') {
			if l.acceptAll(isHexDigit) {
				t := l.newToken(TokenNumber)
				v, err := strconv.ParseUint(t.Value[2:], 16, 64)
				if err != nil {
					return l.error(types.UnexpectedToken(t.Value, t.Position))
				}
				t.NumValue = float64(v)
				return t
			}
			l.current = mark
		}
	}

	// Fractional part. A dot with no digits after it is left for the
	// next token.
	mark := l.current
	if l.acceptRune('.') && !l.acceptAll(isDigit) {
		l.current = mark
	}

	// Exponent part
	mark = l.current
	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		if !l.acceptAll(isDigit) {
			l.current = mark
		}
	}

	t := l.newToken(TokenNumber)
	v, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		return l.error(types.UnexpectedToken(t.Value, t.Position))
	}
	t.NumValue = v
	return t
}

// scanIdentifier reads an identifier. The head rune has already been
// consumed. Dots join keypath components (previous.bottom) but a trailing
// dot is pushed back.
func (l *Lexer) scanIdentifier() Token {
	l.acceptAll(isIdentifierTail)
	for l.current-1 > l.start && l.input[l.current-1] == '.' {
		l.current--
	}
	return l.newToken(TokenIdentifier)
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(err *types.Error) Token {
	t := l.newToken(TokenError)
	t.Value = err.Token
	t.Position = err.Position
	if l.err == nil {
		l.err = err
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
	l.width = 0
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// skipWhitespace consumes whitespace and reports whether any was found.
func (l *Lexer) skipWhitespace() bool {
	skipped := l.acceptAll(isWhitespace)
	l.ignore()
	return skipped
}
