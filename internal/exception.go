package shim

import (
	"fmt"
	"unicode/utf8"

	"github.com/dop251/goja"
)

// ErrorKind selects the runtime error constructor used by the throw helpers.
type ErrorKind int

const (
	ErrorKindGeneric ErrorKind = iota
	ErrorKindType
	ErrorKindRange
)

// Exception is a runtime exception surfaced as a Go error.
type Exception struct {
	value goja.Value
}

func (e *Exception) Error() string {
	msg := "exception"
	func() {
		defer func() { _ = recover() }()
		msg = e.value.String()
	}()
	return msg
}

// Value returns the thrown runtime value.
func (e *Exception) Value() goja.Value {
	return e.value
}

// formatMessage formats like the fixed message buffer of the native API:
// the result never exceeds limit-1 bytes and never ends in a split rune.
func formatMessage(limit int, format string, args ...any) string {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if limit <= 0 || len(msg) < limit {
		return msg
	}
	msg = msg[:limit-1]
	for len(msg) > 0 {
		r, size := utf8.DecodeLastRuneInString(msg)
		if r != utf8.RuneError || size != 1 {
			break
		}
		msg = msg[:len(msg)-1]
	}
	return msg
}

// capture records thrown in the capture scope.
func (c *Context) capture(thrown goja.Value) *Exception {
	c.exception = thrown
	return &Exception{value: thrown}
}

// ExceptionPending reports whether an exception was raised in this context
// and not cleared.
func (c *Context) ExceptionPending() bool {
	return c.exception != nil
}

// Exception returns the pending exception as a fresh value.
func (c *Context) Exception() (*Value, bool) {
	if c.exception == nil {
		return nil, false
	}
	return c.arena.alloc(c.exception, TypeUnknown), true
}

// ClearException drops the pending exception.
func (c *Context) ClearException() {
	c.exception = nil
}

// SetException installs v as the pending exception. The returned error is
// meant to be returned from the callback.
func (c *Context) SetException(v *Value) error {
	return c.capture(v.Handle())
}

func (c *Context) newError(kind ErrorKind, format string, args []any) goja.Value {
	msg := formatMessage(c.engine.config.maxMessageLength, format, args...)
	return c.host.newError(kind, msg)
}

// NewError creates, without throwing, a generic error object.
func (c *Context) NewError(format string, args ...any) *Value {
	return c.arena.alloc(c.newError(ErrorKindGeneric, format, args), TypeObject)
}

// NewTypeError creates, without throwing, a TypeError object.
func (c *Context) NewTypeError(format string, args ...any) *Value {
	return c.arena.alloc(c.newError(ErrorKindType, format, args), TypeObject)
}

// NewRangeError creates, without throwing, a RangeError object.
func (c *Context) NewRangeError(format string, args ...any) *Value {
	return c.arena.alloc(c.newError(ErrorKindRange, format, args), TypeObject)
}

// Throw installs a new error of the given kind as the pending exception.
// Control does not unwind, the caller returns the error.
func (c *Context) Throw(kind ErrorKind, format string, args ...any) error {
	return c.capture(c.newError(kind, format, args))
}

func (c *Context) ThrowError(format string, args ...any) error {
	return c.Throw(ErrorKindGeneric, format, args...)
}

func (c *Context) ThrowTypeError(format string, args ...any) error {
	return c.Throw(ErrorKindType, format, args...)
}

func (c *Context) ThrowRangeError(format string, args ...any) error {
	return c.Throw(ErrorKindRange, format, args...)
}
