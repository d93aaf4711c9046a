package shim

import (
	"github.com/dop251/goja"
)

const arenaChunkSize = 16

// ValueStats counts value allocations and releases over an engine's life.
type ValueStats struct {
	Allocated uint64
	Released  uint64
}

// Live returns how many values are currently unreleased.
func (s ValueStats) Live() uint64 {
	return s.Allocated - s.Released
}

// arena hands out values in fixed chunks that survive a reset, so a pooled
// context allocates nothing once it has warmed up.
type arena struct {
	chunks [][]Value
	used   int
	stats  *ValueStats
}

func (a *arena) alloc(h goja.Value, t Type) *Value {
	chunk, slot := a.used/arenaChunkSize, a.used%arenaChunkSize
	if chunk == len(a.chunks) {
		a.chunks = append(a.chunks, make([]Value, arenaChunkSize))
	}
	a.used++
	a.stats.Allocated++

	v := &a.chunks[chunk][slot]
	*v = Value{handle: h, tag: t}
	return v
}

func (a *arena) release(v *Value) {
	if v == nil || v.sentinel || v.released {
		return
	}
	v.handle = nil
	v.released = true
	a.stats.Released++
}

// reset releases whatever is still live and clears every slot so the
// collector can reclaim the handles.
func (a *arena) reset() {
	for i := 0; i < a.used; i++ {
		v := &a.chunks[i/arenaChunkSize][i%arenaChunkSize]
		a.release(v)
		*v = Value{}
	}
	a.used = 0
}
