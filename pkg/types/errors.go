package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of an expression error.
type ErrorCode string

// Error codes.
const (
	// S0xxx: Parser/Syntax errors
	ErrUnexpectedToken  ErrorCode = "S0201"
	ErrMissingDelimiter ErrorCode = "S0202"

	// T0xxx: Type errors
	ErrArityMismatch ErrorCode = "T0410"

	// D0xxx: Evaluation errors
	ErrMessage           ErrorCode = "D1000"
	ErrCircularReference ErrorCode = "D3010"

	// U0xxx: Runtime errors
	ErrUndefinedSymbol ErrorCode = "U1001"
)

// Error represents a structured expression error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int    // byte offset in the source, or -1 when unknown
	Token    string // offending token or missing delimiter
	Symbol   Symbol // undefined symbol, or the expected symbol for arity mismatches
	Err      error
}

// NewError creates a new error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// UnexpectedToken reports input the parser could not classify. An empty
// token means the expression was empty; see IsEmptyExpression.
func UnexpectedToken(token string, position int) *Error {
	msg := "Empty expression"
	if token != "" {
		msg = fmt.Sprintf("Unexpected token `%s`", token)
	}
	return &Error{
		Code:     ErrUnexpectedToken,
		Message:  msg,
		Position: position,
		Token:    token,
	}
}

// MissingDelimiter reports an opening delimiter that was never closed.
func MissingDelimiter(delimiter string, position int) *Error {
	return &Error{
		Code:     ErrMissingDelimiter,
		Message:  fmt.Sprintf("Missing `%s`", delimiter),
		Position: position,
		Token:    delimiter,
	}
}

// UndefinedSymbol reports a symbol no table or evaluator could resolve.
func UndefinedSymbol(sym Symbol) *Error {
	return &Error{
		Code:     ErrUndefinedSymbol,
		Message:  "Undefined " + sym.String(),
		Position: -1,
		Symbol:   sym,
	}
}

// ArityMismatch reports a call to a known function with the wrong number of
// arguments. expected is the symbol as it is actually defined.
func ArityMismatch(expected Symbol) *Error {
	noun := "arguments"
	if expected.Arity == 1 {
		noun = "argument"
	}
	return &Error{
		Code:     ErrArityMismatch,
		Message:  fmt.Sprintf("Function %s() expects %d %s", expected.Name, expected.Arity, noun),
		Position: -1,
		Symbol:   expected,
	}
}

// Message creates a free-form evaluation error.
func Message(format string, args ...any) *Error {
	return &Error{
		Code:     ErrMessage,
		Message:  fmt.Sprintf(format, args...),
		Position: -1,
	}
}

// CircularReference reports a binding that refers to itself, directly or
// through other bindings.
func CircularReference(name string) *Error {
	return &Error{
		Code:     ErrCircularReference,
		Message:  fmt.Sprintf("Circular reference: %s", name),
		Position: -1,
		Symbol:   Variable(name),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsEmptyExpression reports whether err is the sentinel produced when parsing
// an empty or all-whitespace expression. Callers usually treat it as "no
// expression" rather than as a syntax error.
func IsEmptyExpression(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrUnexpectedToken && e.Token == ""
}
