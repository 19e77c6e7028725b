// Package extutil provides shared helpers for the ext sub-packages.
package extutil

import (
	"fmt"
)

// Strings asserts that every argument is a string. name prefixes the error.
func Strings(name string, args []any) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		s, ok := a.(string)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d must be a string, got %T", name, i+1, a)
		}
		out[i] = s
	}
	return out, nil
}

// Int converts a numeric argument to an int.
func Int(name string, v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s: argument must be a number, got %T", name, v)
	}
}
