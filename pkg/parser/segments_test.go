package parser_test

import (
	"reflect"
	"testing"

	"github.com/sandrolain/layoutexpr/pkg/parser"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

func TestParseSegments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []parser.Segment
	}{
		{
			name:  "text and expression",
			input: "Hello {name}!",
			expected: []parser.Segment{
				{Text: "Hello "},
				{Text: "name", Expression: true},
				{Text: "!"},
			},
		},
		{
			name:  "adjacent expressions",
			input: "{a}{ b + 1 }",
			expected: []parser.Segment{
				{Text: "a", Expression: true},
				{Text: "b + 1", Expression: true},
			},
		},
		{
			name:     "plain text",
			input:    "no braces",
			expected: []parser.Segment{{Text: "no braces"}},
		},
		{
			name:     "unmatched close brace is text",
			input:    "a } b",
			expected: []parser.Segment{{Text: "a } b"}},
		},
		{
			name:     "brace inside quotes",
			input:    "{'}'}",
			expected: []parser.Segment{{Text: "'}'", Expression: true}},
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.ParseSegments(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseSegments(%q) = %#v, want %#v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseSegmentsUnclosed(t *testing.T) {
	_, err := parser.ParseSegments("width: {a + b")
	if code := types.CodeOf(err); code != types.ErrMissingDelimiter {
		t.Fatalf("Expected %s, got %v", types.ErrMissingDelimiter, err)
	}
}
