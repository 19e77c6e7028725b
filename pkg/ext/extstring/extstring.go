// Package extstring provides string functions for the boxed-value engine.
package extstring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/layoutexpr/pkg/ext/extutil"
	"github.com/sandrolain/layoutexpr/pkg/functions"
	"github.com/sandrolain/layoutexpr/pkg/types"
)

// All returns all string symbol definitions.
func All() []functions.AnyDef {
	return []functions.AnyDef{
		Uppercase(),
		Lowercase(),
		Capitalize(),
		Trim(),
		Length(),
		HasPrefix(),
		HasSuffix(),
		Contains(),
		Repeat(),
	}
}

// Table returns All as a symbol table for evaluator.WithAnySymbols.
func Table() map[types.Symbol]functions.AnyFunc {
	return functions.AnyTable(All()...)
}

// Uppercase returns the definition for uppercase(str).
func Uppercase() functions.AnyDef {
	return mapString("uppercase", strings.ToUpper)
}

// Lowercase returns the definition for lowercase(str).
func Lowercase() functions.AnyDef {
	return mapString("lowercase", strings.ToLower)
}

// Capitalize returns the definition for capitalize(str).
// Uppercases the first character, lowercases the rest.
func Capitalize() functions.AnyDef {
	return mapString("capitalize", func(str string) string {
		if str == "" {
			return str
		}
		runes := []rune(strings.ToLower(str))
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	})
}

// Trim returns the definition for trim(str).
func Trim() functions.AnyDef {
	return mapString("trim", strings.TrimSpace)
}

// Length returns the definition for length(str), counted in characters.
func Length() functions.AnyDef {
	return functions.AnyDef{
		Symbol: types.Function("length", 1),
		Fn: func(args []any) (any, error) {
			s, err := extutil.Strings("length", args)
			if err != nil {
				return nil, err
			}
			return float64(utf8.RuneCountInString(s[0])), nil
		},
	}
}

// HasPrefix returns the definition for hasPrefix(str, prefix).
func HasPrefix() functions.AnyDef {
	return predicate("hasPrefix", strings.HasPrefix)
}

// HasSuffix returns the definition for hasSuffix(str, suffix).
func HasSuffix() functions.AnyDef {
	return predicate("hasSuffix", strings.HasSuffix)
}

// Contains returns the definition for contains(str, substr).
func Contains() functions.AnyDef {
	return predicate("contains", strings.Contains)
}

// Repeat returns the definition for repeat(str, count).
func Repeat() functions.AnyDef {
	return functions.AnyDef{
		Symbol: types.Function("repeat", 2),
		Fn: func(args []any) (any, error) {
			s, err := extutil.Strings("repeat", args[:1])
			if err != nil {
				return nil, err
			}
			n, err := extutil.Int("repeat", args[1])
			if err != nil {
				return nil, err
			}
			if n < 0 {
				n = 0
			}
			return strings.Repeat(s[0], n), nil
		},
	}
}

func mapString(name string, fn func(string) string) functions.AnyDef {
	return functions.AnyDef{
		Symbol: types.Function(name, 1),
		Fn: func(args []any) (any, error) {
			s, err := extutil.Strings(name, args)
			if err != nil {
				return nil, err
			}
			return fn(s[0]), nil
		},
	}
}

func predicate(name string, fn func(string, string) bool) functions.AnyDef {
	return functions.AnyDef{
		Symbol: types.Function(name, 2),
		Fn: func(args []any) (any, error) {
			s, err := extutil.Strings(name, args)
			if err != nil {
				return nil, err
			}
			return fn(s[0], s[1]), nil
		},
	}
}
