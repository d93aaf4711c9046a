package shim

import (
	"weak"

	"github.com/dop251/goja"
)

type persistentSlot struct {
	strong    goja.Value
	target    weak.Pointer[goja.Object]
	tag       Type
	baton     *weakBaton
	collected bool
}

// object returns the referenced object whether held strongly or weakly.
func (s *persistentSlot) object() *goja.Object {
	if obj, ok := s.strong.(*goja.Object); ok {
		return obj
	}
	return s.target.Value()
}

type persistentTable struct {
	allocated []*persistentSlot
	freelist  []uint32
	live      int
}

func newPersistentTable() *persistentTable {
	// Slot 0 is never handed out so the zero Persistent stays invalid.
	return &persistentTable{allocated: []*persistentSlot{nil}}
}

func (pt *persistentTable) allocate(slot *persistentSlot) uint32 {
	var id uint32

	// Reuse freed slots when available.
	if len(pt.freelist) > 0 {
		id = pt.freelist[len(pt.freelist)-1]
		pt.freelist = pt.freelist[:len(pt.freelist)-1]
		pt.allocated[id] = slot
	} else {
		id = uint32(len(pt.allocated))
		pt.allocated = append(pt.allocated, slot)
	}

	pt.live++
	return id
}

func (pt *persistentTable) get(id uint32) *persistentSlot {
	if id == 0 || int(id) >= len(pt.allocated) {
		return nil
	}
	return pt.allocated[id]
}

func (pt *persistentTable) free(id uint32) {
	if pt.get(id) == nil {
		return
	}
	pt.allocated[id] = nil
	pt.freelist = append(pt.freelist, id)
	pt.live--
}

// Persistent is a reference that outlives the context it was created in.
// It must be disposed exactly once.
type Persistent struct {
	engine *Engine
	id     uint32
}

// Persist promotes v to a persistent reference.
func (c *Context) Persist(v *Value) *Persistent {
	slot := &persistentSlot{
		strong: v.Handle(),
		tag:    v.tag,
	}
	return &Persistent{
		engine: c.engine,
		id:     c.engine.refs.allocate(slot),
	}
}

// Local returns a context value for the referenced handle. After the target
// of a weak reference was collected it returns Undefined().
func (c *Context) Local(p *Persistent) *Value {
	slot := c.engine.refs.get(p.id)
	if slot == nil {
		return undefinedValue
	}
	if slot.strong != nil {
		return c.wrap(slot.strong, slot.tag)
	}
	if obj := slot.target.Value(); obj != nil {
		return c.arena.alloc(obj, slot.tag)
	}
	return undefinedValue
}

// Dispose drops the reference. A pending weak finalization is cancelled.
func (p *Persistent) Dispose() {
	refs := p.engine.refs
	slot := refs.get(p.id)
	if slot == nil {
		return
	}
	if slot.baton != nil {
		slot.baton.cancel()
		slot.baton = nil
	}
	refs.free(p.id)
	p.id = 0
}

// IsWeak reports whether a finalizer is armed for this reference.
func (p *Persistent) IsWeak() bool {
	slot := p.engine.refs.get(p.id)
	return slot != nil && slot.baton != nil
}

// IsCollected reports whether the weakly referenced target was finalized.
func (p *Persistent) IsCollected() bool {
	slot := p.engine.refs.get(p.id)
	return slot != nil && slot.collected
}

// PersistentCount returns how many persistent references are alive.
func (e *Engine) PersistentCount() int {
	return e.refs.live
}
