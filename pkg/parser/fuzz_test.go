package parser_test

import (
	"errors"
	"testing"

	"github.com/sandrolain/layoutexpr/pkg/parser"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		`1 + 2 * 3`,
		`a ? b : c ? d : e`,
		`max(previous.bottom, 10) - 5px`,
		`-(a + b)%`,
		`f(1,)`,
		``,
		`(`,
		`)`,
		`0x`,
		`a ≠ b`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		node, err := parser.Parse(input)
		if err != nil {
			var e *types.Error
			if !errors.As(err, &e) {
				t.Fatalf("Parse(%q) returned untyped error %v", input, err)
			}
			return
		}
		_ = node.String()
	})
}
