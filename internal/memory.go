package shim

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/tetratelabs/wazero/api"
)

// NewMemoryBuffer exposes byteCount bytes of guest memory at offset as a
// buffer without copying. The view is only valid while the guest memory is
// not grown. free, when not nil, runs after the buffer was collected so the
// guest allocation can be returned.
func (c *Context) NewMemoryBuffer(mem api.Memory, offset, byteCount uint32, free BufferFreeFunc, hint any) (*Value, error) {
	view, ok := mem.Read(offset, byteCount)
	if !ok {
		return nil, &Error{
			Kind:   KindMemory,
			Op:     "memory buffer",
			Detail: fmt.Sprintf("could not read %d bytes at offset %d", byteCount, offset),
		}
	}
	return c.NewBufferExternal(view, free, hint), nil
}

// CopyToMemory copies the contents of buffer v into guest memory at offset
// and returns the number of bytes written.
func (c *Context) CopyToMemory(v *Value, mem api.Memory, offset uint32) (uint32, error) {
	data, ok := c.BufferValue(v)
	if !ok {
		return 0, &Error{Kind: KindTypeMismatch, Op: "copy to memory", Expected: TypeBuffer}
	}
	if !mem.Write(offset, data) {
		return 0, &Error{
			Kind:   KindMemory,
			Op:     "copy to memory",
			Detail: fmt.Sprintf("could not write %d bytes at offset %d", len(data), offset),
		}
	}
	return uint32(len(data)), nil
}

// MemoryView reads a typed view over guest memory, like a typed array over
// the wasm heap.
func MemoryView[T Numeric](mem api.Memory, offset, count uint32) ([]T, bool) {
	var zero T
	byteCount := uint64(count) * uint64(unsafe.Sizeof(zero))
	if byteCount > math.MaxUint32 {
		return nil, false
	}
	view, ok := mem.Read(offset, uint32(byteCount))
	if !ok {
		return nil, false
	}
	return bytesAs[T](view)
}
