package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/layoutexpr/pkg/parser"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// Boxed values travel through the numeric evaluator as sentinel numbers in
// [boxBase, boxBase+MaxStoredValues). The range sits just below 2^53, the
// end of the exactly representable integers.
const (
	// MaxStoredValues is the capacity of the per-evaluation registry.
	MaxStoredValues = 256

	boxBase = float64(1<<53) - MaxStoredValues
)

// registry holds the non-numeric values of a single evaluation.
type registry struct {
	values  []any
	stringy bool   // a value has been boxed, so + concatenates
	bools   [2]int // slot+1 of false and true, reused across stores
}

func newRegistry(literals []string) *registry {
	r := &registry{values: make([]any, len(literals), len(literals)+4)}
	for i, s := range literals {
		r.values[i] = s
	}
	r.stringy = len(literals) > 0
	return r
}

// store boxes v, returning plain numbers unchanged.
func (r *registry) store(v any) (float64, error) {
	if f, ok := toFloat(v); ok {
		if isBoxed(f) {
			return 0, types.Message("Value %s is out of range", types.FormatNumber(f))
		}
		return f, nil
	}
	b, isBool := v.(bool)
	slot := 0
	if b {
		slot = 1
	}
	if isBool && r.bools[slot] > 0 {
		return boxBase + float64(r.bools[slot]-1), nil
	}
	if len(r.values) >= MaxStoredValues {
		return 0, types.Message("Maximum number of stored values (%d) exceeded", MaxStoredValues)
	}
	r.stringy = true
	r.values = append(r.values, v)
	if isBool {
		r.bools[slot] = len(r.values)
	}
	return boxBase + float64(len(r.values)-1), nil
}

// load maps a sentinel back to its value. Other numbers are returned as is.
func (r *registry) load(f float64) any {
	if isBoxed(f) {
		if i := int(f - boxBase); i < len(r.values) {
			return r.values[i]
		}
	}
	return f
}

func (r *registry) loadAll(args []float64) []any {
	out := make([]any, len(args))
	for i, f := range args {
		out[i] = r.load(f)
	}
	return out
}

func isBoxed(f float64) bool {
	return f >= boxBase && f < boxBase+MaxStoredValues && f == math.Trunc(f)
}

// toFloat converts Go numeric kinds to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// stringify returns the string form used for concatenation.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return types.FormatNumber(s)
	case bool:
		return strconv.FormatBool(s)
	case fmt.Stringer:
		return s.String()
	default:
		if f, ok := toFloat(v); ok {
			return types.FormatNumber(f)
		}
		return fmt.Sprint(v)
	}
}

// truthyValue is the boolean interpretation of a boxed value.
func truthyValue(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	default:
		if f, ok := toFloat(v); ok {
			return truthy(f)
		}
		return true
	}
}

// extractStrings replaces quoted string literals in source with sentinel
// placeholders, returning the rewritten source and the literal values in
// placeholder order. An unterminated quote is left in place for the parser
// to reject. Number literals that fall inside the sentinel range are
// rejected, since they would read back as stored values.
func extractStrings(source string) (string, []string, error) {
	if !strings.ContainsAny(source, `'"`) {
		return source, nil, checkNumbers(source, nil)
	}

	var (
		sb           strings.Builder
		literals     []string
		placeholders = make(map[int]bool)
	)
	for i := 0; i < len(source); i++ {
		c := source[i]
		if c != '\'' && c != '"' {
			sb.WriteByte(c)
			continue
		}
		value, end, ok := unquote(source, i)
		if !ok {
			sb.WriteString(source[i:])
			break
		}
		// The placeholder is parenthesized, so a literal after a name
		// would read as a call.
		if before := strings.TrimRightFunc(source[:i], unicode.IsSpace); before != "" {
			if r, _ := utf8.DecodeLastRuneInString(before); parser.IsIdentifierRune(r) {
				return "", nil, types.UnexpectedToken(source[i:end+1], i)
			}
		}
		if len(literals) >= MaxStoredValues {
			return "", nil, types.Message("Maximum number of stored values (%d) exceeded", MaxStoredValues)
		}
		sb.WriteByte('(')
		placeholders[sb.Len()] = true
		sb.WriteString(strconv.FormatFloat(boxBase+float64(len(literals)), 'f', 0, 64))
		sb.WriteByte(')')
		literals = append(literals, value)
		i = end
	}
	rewritten := sb.String()
	return rewritten, literals, checkNumbers(rewritten, placeholders)
}

// checkNumbers rejects number literals inside the sentinel range, skipping
// the placeholders at the given offsets. Lexical errors are left for the
// parser to report.
func checkNumbers(source string, placeholders map[int]bool) error {
	lex := parser.NewLexer(source)
	for {
		tok := lex.Next()
		switch tok.Type {
		case parser.TokenEOF, parser.TokenError:
			return nil
		case parser.TokenNumber:
			if isBoxed(tok.NumValue) && !placeholders[tok.Position] {
				err := types.Message("Value %s is out of range", tok.Value)
				err.Position = tok.Position
				return err
			}
		}
	}
}

// unquote decodes the literal starting at source[start], returning the
// index of its closing quote.
func unquote(source string, start int) (string, int, bool) {
	q := source[start]
	var sb strings.Builder
	for i := start + 1; i < len(source); i++ {
		c := source[i]
		switch {
		case c == q:
			return sb.String(), i, true
		case c == '\\' && i+1 < len(source):
			i++
			switch source[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(source[i])
			}
		default:
			sb.WriteByte(c)
		}
	}
	return "", 0, false
}

// quote is the inverse of unquote.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return `"` + r.Replace(s) + `"`
}
