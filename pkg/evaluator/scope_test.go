package evaluator_test

import (
	"errors"
	"testing"

	"github.com/sandrolain/layoutexpr/pkg/evaluator"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

func mustSet(t *testing.T, s *evaluator.Scope, name, source string) {
	t.Helper()
	if err := s.Set(name, source); err != nil {
		t.Fatalf("Set(%q, %q): %v", name, source, err)
	}
}

func mustGet(t *testing.T, s *evaluator.Scope, name string) any {
	t.Helper()
	v, err := s.Get(name)
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}
	return v
}

func TestScopeBindings(t *testing.T) {
	root := evaluator.NewScope(noCache())
	root.SetValue("width", 320)
	mustSet(t, root, "half", "width / 2")
	mustSet(t, root, "label", "'w=' + half")

	if got := mustGet(t, root, "half"); got != 160.0 {
		t.Errorf("half = %#v, want 160", got)
	}
	if got := mustGet(t, root, "label"); got != "w=160" {
		t.Errorf("label = %#v", got)
	}
	if got := mustGet(t, root, "width"); got != 320 {
		t.Errorf("width = %#v", got)
	}
}

func TestScopeChild(t *testing.T) {
	root := evaluator.NewScope(noCache())
	root.SetValue("width", 320)
	mustSet(t, root, "half", "width / 2")

	child := root.NewChild()
	mustSet(t, child, "quarter", "half / 2")
	if child.Depth() != 1 || child.Parent() != root {
		t.Fatalf("Unexpected child %s", child)
	}
	if got := mustGet(t, child, "quarter"); got != 80.0 {
		t.Errorf("quarter = %#v, want 80", got)
	}
	if root.Has("quarter") {
		t.Error("Child binding leaked into the parent")
	}

	// Rebinding in the parent invalidates the memoized child values.
	root.SetValue("width", 400)
	if got := mustGet(t, child, "quarter"); got != 100.0 {
		t.Errorf("quarter = %#v, want 100", got)
	}

	// Child bindings shadow the parent.
	child.SetValue("width", 40)
	mustSet(t, child, "own", "width")
	if got := mustGet(t, child, "own"); got != 40.0 {
		t.Errorf("own = %#v, want 40", got)
	}
}

func TestScopeCircularReference(t *testing.T) {
	s := evaluator.NewScope(noCache())
	mustSet(t, s, "a", "b + 1")
	mustSet(t, s, "b", "a + 1")
	mustSet(t, s, "self", "self * 2")

	for _, name := range []string{"a", "b", "self"} {
		_, err := s.Get(name)
		var e *types.Error
		if !errors.As(err, &e) || e.Code != types.ErrCircularReference {
			t.Errorf("Get(%q) = %v, want circular reference", name, err)
		}
	}

	// Breaking the cycle makes the bindings usable again.
	s.SetValue("b", 1)
	if got := mustGet(t, s, "a"); got != 2.0 {
		t.Errorf("a = %#v, want 2", got)
	}
}

func TestScopeUndefined(t *testing.T) {
	s := evaluator.NewScope(noCache())
	if _, err := s.Get("nope"); types.CodeOf(err) != types.ErrUndefinedSymbol {
		t.Errorf("Expected undefined symbol, got %v", err)
	}

	mustSet(t, s, "y", "z + 1")
	_, err := s.Get("y")
	var e *types.Error
	if !errors.As(err, &e) || e.Symbol != types.Variable("z") {
		t.Errorf("Expected undefined variable z, got %v", err)
	}

	if err := s.Set("bad", "(1"); types.CodeOf(err) != types.ErrMissingDelimiter {
		t.Errorf("Expected parse error from Set, got %v", err)
	}
}

func TestScopeMemoization(t *testing.T) {
	calls := 0
	s := evaluator.NewScope(noCache(), evaluator.WithAnyFallback(
		func(sym types.Symbol, _ []any) (any, bool, error) {
			if sym == types.Variable("tick") {
				calls++
				return calls, true, nil
			}
			return nil, false, nil
		}))
	mustSet(t, s, "t", "tick + 1")

	mustGet(t, s, "t")
	if got := mustGet(t, s, "t"); got != 2.0 || calls != 1 {
		t.Errorf("t = %#v after %d calls, want 2 after 1", got, calls)
	}

	s.Invalidate()
	if got := mustGet(t, s, "t"); got != 3.0 || calls != 2 {
		t.Errorf("t = %#v after %d calls, want 3 after 2", got, calls)
	}
}
