package parser

import (
	"strings"

	"github.com/sandrolain/layoutexpr/pkg/types"
)

// Segment is one part of an interpolated string: either literal text or the
// source of an embedded `{expression}`.
type Segment struct {
	Text       string
	Expression bool
}

// ParseSegments splits an interpolated string such as "Hello {name}!" into
// literal text and expression segments. Braces nest, and braces inside quoted
// string literals are ignored. A `}` with no opener is literal text.
func ParseSegments(source string) ([]Segment, error) {
	var (
		segments []Segment
		text     strings.Builder
	)

	for i := 0; i < len(source); i++ {
		c := source[i]
		if c != '{' {
			text.WriteByte(c)
			continue
		}

		end, err := matchBrace(source, i)
		if err != nil {
			return nil, err
		}
		if text.Len() > 0 {
			segments = append(segments, Segment{Text: text.String()})
			text.Reset()
		}
		segments = append(segments, Segment{
			Text:       strings.TrimSpace(source[i+1 : end]),
			Expression: true,
		})
		i = end
	}

	if text.Len() > 0 {
		segments = append(segments, Segment{Text: text.String()})
	}
	return segments, nil
}

// matchBrace returns the index of the `}` closing the `{` at open.
func matchBrace(source string, open int) (int, error) {
	depth := 0
	var quote byte
	for i := open; i < len(source); i++ {
		c := source[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, types.MissingDelimiter("}", len(source))
}
