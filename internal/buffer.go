package shim

import (
	"unsafe"

	"github.com/dop251/goja"
)

// BufferFreeFunc releases the memory behind an external buffer once the
// runtime no longer references it. It runs on the main goroutine during
// Engine.Sweep.
type BufferFreeFunc func(data []byte, hint any)

// Numeric lists the element types BufferView supports.
type Numeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// NewExternal wraps an opaque Go value. Scripts see an object they cannot
// inspect.
func (c *Context) NewExternal(data any) *Value {
	return c.arena.alloc(c.rt.ToValue(&external{data: data}), TypeExternal)
}

// ExternalValue returns the data wrapped by NewExternal.
func (c *Context) ExternalValue(v *Value) (any, bool) {
	if !v.Is(TypeExternal) {
		return nil, false
	}
	ext, ok := v.handle.Export().(*external)
	if !ok {
		return nil, false
	}
	return ext.data, true
}

// NewBuffer creates a zeroed buffer of n bytes.
func (c *Context) NewBuffer(n int) *Value {
	return c.NewBufferExternal(make([]byte, n), nil, nil)
}

// NewBufferCopy creates a buffer holding a copy of data.
func (c *Context) NewBufferCopy(data []byte) *Value {
	b := make([]byte, len(data))
	copy(b, data)
	return c.NewBufferExternal(b, nil, nil)
}

// NewBufferExternal creates a buffer over data without copying. free, when
// not nil, is called with data and hint after the buffer was collected.
func (c *Context) NewBufferExternal(data []byte, free BufferFreeFunc, hint any) *Value {
	obj := c.rt.ToValue(c.rt.NewArrayBuffer(data)).(*goja.Object)
	if free != nil {
		c.engine.weak.trackBuffer(obj, data, free, hint)
	}
	return c.arena.alloc(obj, TypeBuffer)
}

// BufferValue returns the bytes backing a buffer. Writes through the slice
// are visible to scripts.
func (c *Context) BufferValue(v *Value) ([]byte, bool) {
	if !v.Is(TypeBuffer) {
		return nil, false
	}
	switch b := v.handle.Export().(type) {
	case goja.ArrayBuffer:
		return b.Bytes(), true
	case []byte:
		return b, true
	}
	return nil, false
}

// BufferLength returns the byte length of a buffer, or 0 for non-buffers.
func (c *Context) BufferLength(v *Value) int {
	b, _ := c.BufferValue(v)
	return len(b)
}

// BufferView reinterprets a buffer's bytes as a slice of T. It fails for
// non-buffers and for memory that is not aligned for T.
func BufferView[T Numeric](c *Context, v *Value) ([]T, bool) {
	b, ok := c.BufferValue(v)
	if !ok {
		return nil, false
	}
	return bytesAs[T](b)
}

func bytesAs[T Numeric](b []byte) ([]T, bool) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(b) < size {
		return []T{}, true
	}
	ptr := unsafe.Pointer(&b[0])
	if uintptr(ptr)%unsafe.Alignof(zero) != 0 {
		return nil, false
	}
	return unsafe.Slice((*T)(ptr), len(b)/size), true
}
