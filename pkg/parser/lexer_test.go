package parser_test

import (
	"errors"
	"testing"

	"github.com/sandrolain/layoutexpr/pkg/parser"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

type lexerTestCase struct {
	name      string
	input     string
	expected  []parser.Token
	expectErr bool
}

func TestLexerWhitespace(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "no whitespace",
			input: "abc",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "abc", Position: 0},
			},
		},
		{
			name:  "leading whitespace",
			input: "   abc",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "abc", Position: 3, SpaceBefore: true},
			},
		},
		{
			name:  "trailing whitespace",
			input: "abc   ",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "abc", Position: 0},
			},
		},
		{
			name:  "whitespace is recorded on the next token",
			input: "a -b",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "a", Position: 0},
				{Type: parser.TokenOperator, Value: "-", Position: 2, SpaceBefore: true},
				{Type: parser.TokenIdentifier, Value: "b", Position: 3},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerNumbers(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "integer",
			input: "123",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "123", NumValue: 123},
			},
		},
		{
			name:  "decimal",
			input: "3.14",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "3.14", NumValue: 3.14},
			},
		},
		{
			name:  "exponent",
			input: "1.5E-2",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "1.5E-2", NumValue: 0.015},
			},
		},
		{
			name:  "hex",
			input: "0xFF",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "0xFF", NumValue: 255},
			},
		},
		{
			name:  "hex prefix without digits",
			input: "0x",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "0", NumValue: 0},
				{Type: parser.TokenIdentifier, Value: "x", Position: 1},
			},
		},
		{
			name:  "trailing dot is not consumed",
			input: "5.",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "5", NumValue: 5},
				{Type: parser.TokenOperator, Value: ".", Position: 1},
			},
		},
		{
			name:  "dangling exponent is not consumed",
			input: "1e",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "1", NumValue: 1},
				{Type: parser.TokenIdentifier, Value: "e", Position: 1},
			},
		},
		{
			name:  "unit suffix",
			input: "5px",
			expected: []parser.Token{
				{Type: parser.TokenNumber, Value: "5", NumValue: 5},
				{Type: parser.TokenIdentifier, Value: "px", Position: 1},
			},
		},
		{
			name:      "float overflow",
			input:     "1e999",
			expectErr: true,
		},
		{
			name:      "hex overflow",
			input:     "0xFFFFFFFFFFFFFFFFFF",
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerIdentifiers(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "keypath",
			input: "previous.bottom",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "previous.bottom"},
			},
		},
		{
			name:  "trailing dot is pushed back",
			input: "a.",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "a"},
				{Type: parser.TokenOperator, Value: ".", Position: 1},
			},
		},
		{
			name:  "special heads",
			input: "$0 @x #tag _y",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "$0"},
				{Type: parser.TokenIdentifier, Value: "@x", Position: 3, SpaceBefore: true},
				{Type: parser.TokenIdentifier, Value: "#tag", Position: 6, SpaceBefore: true},
				{Type: parser.TokenIdentifier, Value: "_y", Position: 11, SpaceBefore: true},
			},
		},
		{
			name:  "unicode letters",
			input: "ñandú",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "ñandú"},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerOperators(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "operator run",
			input: "a==b",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "a"},
				{Type: parser.TokenOperator, Value: "==", Position: 1},
				{Type: parser.TokenIdentifier, Value: "b", Position: 3},
			},
		},
		{
			name:  "delimiters are single characters",
			input: "(,):",
			expected: []parser.Token{
				{Type: parser.TokenParenOpen, Value: "("},
				{Type: parser.TokenComma, Value: ",", Position: 1},
				{Type: parser.TokenParenClose, Value: ")", Position: 2},
				{Type: parser.TokenColon, Value: ":", Position: 3},
			},
		},
		{
			name:  "delimiters end an operator run",
			input: "?:",
			expected: []parser.Token{
				{Type: parser.TokenOperator, Value: "?"},
				{Type: parser.TokenColon, Value: ":", Position: 1},
			},
		},
		{
			name:  "unicode operator",
			input: "a ≠ b",
			expected: []parser.Token{
				{Type: parser.TokenIdentifier, Value: "a"},
				{Type: parser.TokenOperator, Value: "≠", Position: 2, SpaceBefore: true},
				{Type: parser.TokenIdentifier, Value: "b", Position: 6, SpaceBefore: true},
			},
		},
		{
			name:      "unclassifiable input",
			input:     "a ; b",
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerErrorToken(t *testing.T) {
	l := parser.NewLexer("a ; b ")
	if tok := l.Next(); tok.Type != parser.TokenIdentifier {
		t.Fatalf("Expected identifier, got %s", tok.Type)
	}
	tok := l.Next()
	if tok.Type != parser.TokenError {
		t.Fatalf("Expected error token, got %s", tok.Type)
	}
	if tok.Value != "; b" || tok.Position != 2 {
		t.Errorf("Expected `; b` at 2, got %q at %d", tok.Value, tok.Position)
	}

	var e *types.Error
	if !errors.As(l.Error(), &e) || e.Code != types.ErrUnexpectedToken {
		t.Errorf("Expected UnexpectedToken error, got %v", l.Error())
	}
	if next := l.Next(); next.Type != parser.TokenEOF {
		t.Errorf("Expected EOF after error, got %s", next.Type)
	}
}

func TestLexerAtSpace(t *testing.T) {
	l := parser.NewLexer("a- b")
	l.Next()
	if l.AtSpace() {
		t.Error("Expected no whitespace after `a`")
	}
	l.Next()
	if !l.AtSpace() {
		t.Error("Expected whitespace after `-`")
	}
	l.Next()
	if !l.AtSpace() {
		t.Error("Expected end of input to count as whitespace")
	}
}

func runLexerTests(t *testing.T, tests []lexerTestCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := parser.NewLexer(tt.input)
			var tokens []parser.Token
			for {
				tok := l.Next()
				if tok.Type == parser.TokenEOF {
					break
				}
				if tok.Type == parser.TokenError {
					if !tt.expectErr {
						t.Fatalf("Unexpected error: %v", l.Error())
					}
					return
				}
				tokens = append(tokens, tok)
			}

			if tt.expectErr {
				t.Fatalf("Expected error but got tokens %v", tokens)
			}
			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d: %v", len(tt.expected), len(tokens), tokens)
			}
			for i, want := range tt.expected {
				got := tokens[i]
				if got.Type != want.Type || got.Value != want.Value || got.Position != want.Position {
					t.Errorf("Token %d: expected %s %q at %d, got %s %q at %d",
						i, want.Type, want.Value, want.Position, got.Type, got.Value, got.Position)
				}
				if got.SpaceBefore != want.SpaceBefore {
					t.Errorf("Token %d: expected SpaceBefore=%v", i, want.SpaceBefore)
				}
				if want.Type == parser.TokenNumber && got.NumValue != want.NumValue {
					t.Errorf("Token %d: expected value %v, got %v", i, want.NumValue, got.NumValue)
				}
			}
		})
	}
}

func TestIsIdentifierRune(t *testing.T) {
	for _, r := range []rune{'a', 'Z', '_', '$', '7', '.', 'é'} {
		if !parser.IsIdentifierRune(r) {
			t.Errorf("IsIdentifierRune(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'(', ')', '+', ',', ' ', '\''} {
		if parser.IsIdentifierRune(r) {
			t.Errorf("IsIdentifierRune(%q) = true, want false", r)
		}
	}
}
