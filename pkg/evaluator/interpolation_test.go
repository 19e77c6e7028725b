package evaluator_test

import (
	"testing"

	"github.com/sandrolain/layoutexpr/pkg/evaluator"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

func TestStringExpression(t *testing.T) {
	consts := evaluator.WithAnyConstants(map[string]any{
		"name":  "Bob",
		"count": 3,
	})

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"plain text", "plain", "plain"},
		{"empty", "", ""},
		{"variable", "Hello {name}!", "Hello Bob!"},
		{"number", "{count} items", "3 items"},
		{"arithmetic", "{count * 2 + 0.5}", "6.5"},
		{"adjacent", "{1 + 1}{'x'}", "2x"},
		{"ternary", "{count} {count == 1 ? 'item' : 'items'}", "3 items"},
		{"brace in literal", "{'}'}", "}"},
		{"stray closing brace", "a } b", "a } b"},
		{"bool", "{count > 1}", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := evaluator.NewString(tt.source, consts, evaluator.WithCaching(false))
			got, err := s.Evaluate()
			if err != nil {
				t.Fatalf("Failed to evaluate %q: %v", tt.source, err)
			}
			if got != tt.want {
				t.Errorf("%q = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestStringExpressionErrors(t *testing.T) {
	s := evaluator.NewString("total: {a", evaluator.WithCaching(false))
	if types.CodeOf(s.Err()) != types.ErrMissingDelimiter {
		t.Fatalf("Expected missing delimiter, got %v", s.Err())
	}
	if _, err := s.Evaluate(); err != s.Err() {
		t.Errorf("Evaluate() = %v, want %v", err, s.Err())
	}
	if s.String() != "total: {a" {
		t.Errorf("Expected original text, got %q", s.String())
	}

	s = evaluator.NewString("{(1}", evaluator.WithCaching(false))
	if s.Err() == nil {
		t.Error("Expected parse error of the embedded expression")
	}

	s = evaluator.NewString("{missing}", evaluator.WithCaching(false))
	if _, err := s.Evaluate(); types.CodeOf(err) != types.ErrUndefinedSymbol {
		t.Errorf("Expected undefined symbol, got %v", err)
	}
}

func TestStringExpressionSymbolsAndFormat(t *testing.T) {
	s := evaluator.NewString("Total: {a+b} of {max(a, limit)}", evaluator.WithCaching(false))
	syms := s.Symbols()
	for _, want := range []types.Symbol{
		types.Variable("a"),
		types.Variable("b"),
		types.Variable("limit"),
		types.Function("max", 2),
	} {
		if !syms.Contains(want) {
			t.Errorf("Expected %v in %v", want, syms.Sorted())
		}
	}
	if got := s.String(); got != "Total: {a + b} of {max(a, limit)}" {
		t.Errorf("String() = %q", got)
	}
	if s.Source() != "Total: {a+b} of {max(a, limit)}" {
		t.Errorf("Source() = %q", s.Source())
	}
}

func TestStringExpressionSegmentCache(t *testing.T) {
	evaluator.ClearCache()
	src := "{1} and {2}"
	evaluator.NewString(src)
	evaluator.NewString(src)
	if _, ok := evaluator.DefaultSegmentCache().Get(src); !ok {
		t.Error("Expected the segments to be cached")
	}
	if stats := evaluator.DefaultSegmentCache().Stats(); stats.Hits != 1 {
		t.Errorf("Expected 1 hit, got %+v", stats)
	}
}
