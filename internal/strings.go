package shim

import (
	"strings"

	"github.com/dop251/goja"
	"golang.org/x/text/encoding/charmap"
)

// WriteOptions alters StringWriteASCII.
type WriteOptions int32

const (
	WriteNoOptions         WriteOptions = 0
	WriteNoNullTermination WriteOptions = 1 << 0
)

// NewString creates an empty string.
func (c *Context) NewString() *Value {
	return c.arena.alloc(c.rt.ToValue(""), TypeString)
}

// NewStringCopy creates a string holding a copy of s.
func (c *Context) NewStringCopy(s string) *Value {
	return c.arena.alloc(c.rt.ToValue(strings.ToValidUTF8(s, "\uFFFD")), TypeString)
}

// NewStringCopyN creates a string from the first n bytes of s.
func (c *Context) NewStringCopyN(s string, n int) *Value {
	if n < len(s) {
		s = s[:max(n, 0)]
	}
	return c.NewStringCopy(s)
}

func (c *Context) toString(v *Value) (goja.String, error) {
	var str goja.String
	thrown := c.host.guard(func() {
		str = v.Handle().ToString()
	})
	if thrown != nil {
		return nil, c.capture(thrown)
	}
	return str, nil
}

// StringValue applies ToString and returns the result as a Go string.
func (c *Context) StringValue(v *Value) (string, error) {
	str, err := c.toString(v)
	if err != nil {
		return "", err
	}
	return str.String(), nil
}

// StringLength returns the length of the string in UTF-16 code units.
func (c *Context) StringLength(v *Value) (int, error) {
	str, err := c.toString(v)
	if err != nil {
		return 0, err
	}
	return str.Length(), nil
}

// StringUTF8Length returns the length of the string in UTF-8 bytes.
func (c *Context) StringUTF8Length(v *Value) (int, error) {
	s, err := c.StringValue(v)
	if err != nil {
		return 0, err
	}
	return len(s), nil
}

// StringWriteASCII writes UTF-16 code units [start, start+length) of the
// string into buf as 7-bit ASCII, one byte per unit, and returns the number
// of bytes written. Units outside Latin-1, surrogates included, become SUB.
// A negative length means up to the end of the string. Unless
// WriteNoNullTermination is set, a terminating zero is added when buf has
// room for it; it is not counted.
func (c *Context) StringWriteASCII(v *Value, buf []byte, start, length int, options WriteOptions) (int, error) {
	str, err := c.toString(v)
	if err != nil {
		return 0, err
	}

	end := str.Length()
	start = min(max(start, 0), end)
	if length >= 0 && length < end-start {
		end = start + length
	}

	n := min(end-start, len(buf))
	for i := 0; i < n; i++ {
		b, ok := charmap.ISO8859_1.EncodeRune(rune(str.CharAt(start + i)))
		if !ok {
			b = 0x1a
		}
		buf[i] = b & 0x7f
	}

	if options&WriteNoNullTermination == 0 && n < len(buf) && (length < 0 || n < length) {
		buf[n] = 0
	}

	return n, nil
}
