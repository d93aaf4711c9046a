package shim

import (
	"errors"
	"strconv"
	"strings"
)

// Kind categorizes shim failures that are not runtime exceptions.
type Kind string

const (
	KindTypeMismatch   Kind = "type_mismatch"
	KindCoercion       Kind = "coercion"
	KindNotFunction    Kind = "not_function"
	KindCallbackFailed Kind = "callback_failed"
	KindMemory         Kind = "memory"
)

// Error is the structured failure returned by shim operations.
type Error struct {
	Cause    error
	Kind     Kind
	Op       string
	Detail   string
	Index    int
	Expected Type
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("shim")
	if e.Op != "" {
		b.WriteByte(' ')
		b.WriteString(e.Op)
	}
	b.WriteString(": ")
	b.WriteString(string(e.Kind))

	if e.Kind == KindTypeMismatch {
		b.WriteString(" at argument ")
		b.WriteString(strconv.Itoa(e.Index))
		b.WriteString(", expected ")
		b.WriteString(e.Expected.String())
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

var (
	// ErrCallbackFailed is returned by a callback that failed without
	// raising. Nothing is thrown to the runtime.
	ErrCallbackFailed = &Error{Kind: KindCallbackFailed}

	// ErrTypeMismatch matches unpacking failures.
	ErrTypeMismatch = &Error{Kind: KindTypeMismatch}

	// ErrCoercion matches conversions that are not defined.
	ErrCoercion = &Error{Kind: KindCoercion}

	// ErrNotFunction matches call-outs on values that are not callable.
	ErrNotFunction = &Error{Kind: KindNotFunction}
)

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func coercionError(op string, from, to Type) *Error {
	return &Error{
		Kind:   KindCoercion,
		Op:     op,
		Detail: "no coercion from " + from.String() + " to " + to.String(),
	}
}
