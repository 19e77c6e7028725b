package parser

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenNumber     // 42, 3.14, 1e-3, 0xFF
	TokenIdentifier // width, previous.bottom, $0, #tag

	// Operators and delimiters
	TokenOperator   // maximal run of operator characters: + - == && ...
	TokenParenOpen  // (
	TokenParenClose // )
	TokenComma      // ,
	TokenColon      // :
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenNumber:
		return "(number)"
	case TokenIdentifier:
		return "(identifier)"
	case TokenOperator:
		return "(operator)"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenComma:
		return ","
	case TokenColon:
		return ":"
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token in an expression.
type Token struct {
	Type        TokenType // Type of the token
	Value       string    // Literal text of the token
	NumValue    float64   // Parsed value for TokenNumber
	Position    int       // Starting byte offset in the input string
	SpaceBefore bool      // Whitespace separates this token from the previous one
}

// delimiters maps single-character delimiter tokens.
var delimiters = [...]TokenType{
	'(': TokenParenOpen,
	')': TokenParenClose,
	',': TokenComma,
	':': TokenColon,
}

// lookupDelimiter returns the token type for a delimiter rune, or 0.
func lookupDelimiter(r rune) TokenType {
	if r < 0 || r >= rune(len(delimiters)) {
		return 0
	}
	return delimiters[r]
}

// operatorTable holds every rune that may appear in an operator run: ASCII
// punctuation plus the Unicode blocks commonly used for mathematical and
// typographic operators.
var operatorTable = rangetable.Merge(
	rangetable.New('/', '=', '-', '+', '!', '*', '%', '<', '>', '&', '|', '^', '~', '?', '.'),
	&unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x00A1, Hi: 0x00A7, Stride: 1},
			{Lo: 0x00A9, Hi: 0x00A9, Stride: 1},
			{Lo: 0x00AB, Hi: 0x00AC, Stride: 1},
			{Lo: 0x00AE, Hi: 0x00AE, Stride: 1},
			{Lo: 0x00B0, Hi: 0x00B1, Stride: 1},
			{Lo: 0x00B6, Hi: 0x00B6, Stride: 1},
			{Lo: 0x00BB, Hi: 0x00BB, Stride: 1},
			{Lo: 0x00BF, Hi: 0x00BF, Stride: 1},
			{Lo: 0x00D7, Hi: 0x00D7, Stride: 1},
			{Lo: 0x00F7, Hi: 0x00F7, Stride: 1},
			{Lo: 0x2016, Hi: 0x2017, Stride: 1},
			{Lo: 0x2020, Hi: 0x2027, Stride: 1},
			{Lo: 0x2030, Hi: 0x203E, Stride: 1},
			{Lo: 0x2041, Hi: 0x2053, Stride: 1},
			{Lo: 0x2055, Hi: 0x205E, Stride: 1},
			{Lo: 0x2190, Hi: 0x23FF, Stride: 1},
			{Lo: 0x2500, Hi: 0x2775, Stride: 1},
			{Lo: 0x2794, Hi: 0x2BFF, Stride: 1},
			{Lo: 0x2E00, Hi: 0x2E7F, Stride: 1},
			{Lo: 0x3001, Hi: 0x3003, Stride: 1},
			{Lo: 0x3008, Hi: 0x3030, Stride: 1},
		},
	},
)

// identifierHeadTable holds the Unicode letters an identifier may start with.
var identifierHeadTable = rangetable.Merge(
	unicode.L,
	unicode.Nl,
	unicode.Other_ID_Start,
)

// identifierTailTable adds digits, combining marks and connectors.
var identifierTailTable = rangetable.Merge(
	identifierHeadTable,
	unicode.Nd,
	unicode.Mn,
	unicode.Mc,
	unicode.Pc,
	unicode.Other_ID_Continue,
)

// Character classification functions

func isOperatorRune(r rune) bool {
	return r >= 0 && unicode.Is(operatorTable, r)
}

func isIdentifierHead(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == '_', r == '$', r == '@', r == '#':
		return true
	case r < 0x80:
		return false
	default:
		return unicode.Is(identifierHeadTable, r)
	}
}

func isIdentifierTail(r rune) bool {
	switch {
	case isIdentifierHead(r), isDigit(r), r == '.':
		return true
	case r < 0x80:
		return false
	default:
		return unicode.Is(identifierTailTable, r)
	}
}

// IsIdentifierRune reports whether r can continue an identifier or number,
// so that a token glued after it would merge with or attach to it.
func IsIdentifierRune(r rune) bool {
	return isIdentifierTail(r)
}

func isWhitespace(r rune) bool {
	return r >= 0 && unicode.IsSpace(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
