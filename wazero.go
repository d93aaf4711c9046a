package shim

import (
	internal "github.com/jerbob92/goja-shim/internal"

	"github.com/tetratelabs/wazero/api"
)

// MemoryView reads count elements of T from guest memory at offset without
// copying. The view is invalidated when the guest memory grows.
func MemoryView[T Numeric](mem api.Memory, offset, count uint32) ([]T, bool) {
	return internal.MemoryView[T](mem, offset, count)
}

// NewMemoryBuffer exposes guest memory to scripts as a buffer. free runs
// once the buffer was collected and swept, which is where the guest
// allocation is typically released.
func NewMemoryBuffer(ctx *Context, mem api.Memory, offset, byteCount uint32, free BufferFreeFunc, hint any) (*Value, error) {
	return ctx.NewMemoryBuffer(mem, offset, byteCount, free, hint)
}
