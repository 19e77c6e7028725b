package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandrolain/layoutexpr/cmd/layoutexpr/commands"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := commands.NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, stderr)
	}
	return strings.TrimSpace(out)
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"arithmetic", []string{"eval", "1 + 2 * 3"}, "7"},
		{"constants", []string{"eval", "max(width / 2, 100)", "--const", "width=320"}, "160"},
		{"repeated constants", []string{"eval", "a * b", "-c", "a=3", "-c", "b=4"}, "12"},
		{"booleans", []string{"eval", "--bool", "1 < 2 ? 10 : 20"}, "10"},
		{"no optimize", []string{"eval", "--no-optimize", "pow(2, 10)"}, "1024"},
		{"ext", []string{"eval", "--ext", "clamp(15, 0, 10)"}, "10"},
		{"boxed strings", []string{"eval", "--any", "name + '!'", "--const", "name=Bob"}, "Bob!"},
		{"boxed plural", []string{"eval", "--any", "n == 1 ? 'item' : 'items'", "-c", "n=3"}, "items"},
		{"boxed bool", []string{"eval", "--any", "flag", "-c", "flag=true"}, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustRun(t, tt.args...); got != tt.want {
				t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"parse", []string{"eval", "(1 + 2"}, "S0202"},
		{"undefined", []string{"eval", "width"}, "U1001"},
		{"bad constant", []string{"eval", "x", "--const", "x"}, "expected name=value"},
		{"non-numeric constant", []string{"eval", "x", "--const", "x=abc"}, "--any"},
		{"missing argument", []string{"eval"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layoutexpr.yaml")
	config := `constants:
  width: 320
  gutter: 8
bool_symbols: true
`
	if err := os.WriteFile(path, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := mustRun(t, "--config", path, "eval", "width - gutter * 2"); got != "304" {
		t.Errorf("Expected 304, got %q", got)
	}
	if got := mustRun(t, "--config", path, "eval", "width > 100"); got != "1" {
		t.Errorf("Expected 1, got %q", got)
	}
	// Flags override the file.
	if got := mustRun(t, "--config", path, "eval", "width", "--const", "width=10"); got != "10" {
		t.Errorf("Expected 10, got %q", got)
	}

	if _, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "eval", "1"); err == nil {
		t.Error("Expected error for a missing config file")
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("LAYOUTEXPR_BOOL_SYMBOLS", "true")
	if got := mustRun(t, "eval", "2 >= 2"); got != "1" {
		t.Errorf("Expected 1, got %q", got)
	}
}

func TestDebugLogging(t *testing.T) {
	_, stderr, err := run(t, "--debug", "eval", "x * 2", "--const", "x=4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "configuration loaded") || !strings.Contains(stderr, "level=DEBUG") {
		t.Errorf("Expected debug output, got:\n%s", stderr)
	}
}

func TestFmt(t *testing.T) {
	got := mustRun(t, "fmt", "a+b*c", "(a+b)*c", "f( x ,'y' )")
	want := "a + b * c\n(a + b) * c\nf(x, \"y\")"
	if got != want {
		t.Errorf("fmt output:\n%s\nwant:\n%s", got, want)
	}

	if out := mustRun(t, "fmt", "--check", "a + b * c"); out != "" {
		t.Errorf("Expected no output for canonical input, got %q", out)
	}

	out, _, err := run(t, "fmt", "--check", "a + b * c", "a+b")
	if err == nil || !strings.Contains(err.Error(), "1 expression(s)") {
		t.Errorf("Expected check failure, got %v", err)
	}
	if !strings.Contains(out, "a+b => a + b") {
		t.Errorf("Expected diff line, got %q", out)
	}

	if _, _, err := run(t, "fmt", "1 +* (2"); err == nil {
		t.Error("Expected parse error")
	}
}

func TestSymbols(t *testing.T) {
	got := mustRun(t, "symbols", "max(width, 10) + 5px")
	for _, want := range []string{"variable width", "infix operator +", "postfix operator px", "function max()"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in:\n%s", want, got)
		}
	}

	if got := mustRun(t, "symbols", "--variables", "b + a * b"); got != "a\nb" {
		t.Errorf("Expected a and b, got %q", got)
	}
}

func TestVersion(t *testing.T) {
	if got := mustRun(t, "version"); !strings.HasPrefix(got, "v") {
		t.Errorf("Unexpected version %q", got)
	}
}
