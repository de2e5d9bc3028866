package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from one of these with
// [Error.Wrap], [Error.With], or [Error.Explain], and still match it with
// [errors.Is].
var (
	ErrUnclosedString   = NewError("unclosed string")
	ErrUndefinedSymbol  = NewError("undefined symbol")
	ErrTypeMismatch     = NewError("type mismatch")
	ErrArity            = NewError("arity mismatch")
	ErrAssignmentTarget = NewError("invalid assignment")
	ErrNotCallable      = NewError("not callable")
	ErrSyntax           = NewError("syntax error")
	ErrDivideByZero     = NewError("division by zero")
	ErrMaxDepthExceeded = NewError("maximum call depth exceeded")
	ErrReadInput        = NewError("failed to read input")
	ErrHostBinding      = NewError("host binding failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	base   *Error
	msg    string
	detail string
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <detail>: <err>"
	//   2. "<msg>: <detail>"
	//   3. "<msg>"
	//   4. "<err>"
	part := make([]string, 0, 3) //nolint:mnd

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, e.detail)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Detail returns the human-readable explanation attached with
// [Error.Explain], if any.
func (e *Error) Detail() string { return e.detail }

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3) //nolint:mnd

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// Explain attaches a formatted explanation to the error.
func (e *Error) Explain(format string, args ...any) *Error {
	c := e.derive()
	c.detail = fmt.Sprintf(format, args...)

	return c
}

func (e *Error) derive() *Error {
	return &Error{
		base:   e.root(),
		msg:    e.msg,
		detail: e.detail,
		err:    e.err,
		attrs:  e.attrs, // Share attrs
	}
}
