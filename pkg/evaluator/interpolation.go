package evaluator

import (
	"strings"

	"github.com/sandrolain/layoutexpr/pkg/parser"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// StringExpression is an interpolated string such as "{count} items". Each
// `{…}` segment is evaluated with the boxed-value engine and its string form
// is spliced into the surrounding text.
type StringExpression struct {
	source string
	parts  []stringPart
	err    error
}

type stringPart struct {
	text string
	expr *AnyExpression
}

// NewString parses an interpolated string. Like New it never fails; the
// first error is reported by Err and returned by Evaluate.
func NewString(source string, opts ...EvalOption) *StringExpression {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	s := &StringExpression{source: source}
	parsed := parseSegments(source, options)
	if parsed.Err != nil {
		s.err = parsed.Err
		return s
	}

	s.parts = make([]stringPart, len(parsed.Segments))
	for i, seg := range parsed.Segments {
		if !seg.Expression {
			s.parts[i] = stringPart{text: seg.Text}
			continue
		}
		expr := NewAny(seg.Text, opts...)
		if s.err == nil {
			s.err = expr.Err()
		}
		s.parts[i] = stringPart{expr: expr}
	}
	return s
}

func parseSegments(source string, options EvalOptions) ParsedSegments {
	parse := func() ParsedSegments {
		segments, err := parser.ParseSegments(source)
		return ParsedSegments{Segments: segments, Err: err}
	}
	if !options.Caching || options.Cache != nil {
		return parse()
	}
	return DefaultSegmentCache().GetOrParse(source, parse)
}

// Evaluate renders the string.
func (s *StringExpression) Evaluate() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if len(s.parts) == 1 && s.parts[0].expr == nil {
		return s.parts[0].text, nil
	}

	var sb strings.Builder
	for _, part := range s.parts {
		if part.expr == nil {
			sb.WriteString(part.text)
			continue
		}
		v, err := part.expr.Evaluate()
		if err != nil {
			return "", err
		}
		sb.WriteString(stringify(v))
	}
	return sb.String(), nil
}

// Err returns the first parse error, if any.
func (s *StringExpression) Err() error {
	return s.err
}

// Symbols returns the union of the symbols of every embedded expression.
func (s *StringExpression) Symbols() types.SymbolSet {
	set := make(types.SymbolSet)
	for _, part := range s.parts {
		if part.expr == nil {
			continue
		}
		for sym := range part.expr.Symbols() {
			set.Add(sym)
		}
	}
	return set
}

// Source returns the text the expression was built from.
func (s *StringExpression) Source() string {
	return s.source
}

// String returns the string with every embedded expression in canonical
// form. Invalid strings return their original text.
func (s *StringExpression) String() string {
	if s.err != nil {
		return s.source
	}
	var sb strings.Builder
	for _, part := range s.parts {
		if part.expr == nil {
			sb.WriteString(part.text)
			continue
		}
		sb.WriteByte('{')
		sb.WriteString(part.expr.String())
		sb.WriteByte('}')
	}
	return sb.String()
}
