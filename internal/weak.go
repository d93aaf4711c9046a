package shim

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// WeakFunc is called once the target of a weak reference was collected. v
// keeps the target's last known type but no longer holds it. The callback
// normally disposes the persistent it was registered for.
type WeakFunc func(ctx *Context, v *Value, data any)

type weakBaton struct {
	id        uint32
	cb        WeakFunc
	data      any
	tag       Type
	cleanup   runtime.Cleanup
	armed     bool
	cancelled bool
}

func (b *weakBaton) cancel() {
	if b.armed {
		b.cleanup.Stop()
	}
	b.cancelled = true
}

type bufferBaton struct {
	data []byte
	free BufferFreeFunc
	hint any
}

// weakQueue collects batons from the runtime's cleanup goroutine until the
// owning goroutine sweeps them.
type weakQueue struct {
	mu        sync.Mutex
	collected []*weakBaton
	buffers   []*bufferBaton
}

func (q *weakQueue) enqueue(b *weakBaton) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.collected = append(q.collected, b)
}

func (q *weakQueue) enqueueBuffer(b *bufferBaton) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buffers = append(q.buffers, b)
}

func (q *weakQueue) trackBuffer(obj *goja.Object, data []byte, free BufferFreeFunc, hint any) {
	runtime.AddCleanup(obj, q.enqueueBuffer, &bufferBaton{
		data: data,
		free: free,
		hint: hint,
	})
}

func (q *weakQueue) drain() ([]*weakBaton, []*bufferBaton) {
	q.mu.Lock()
	defer q.mu.Unlock()
	collected, buffers := q.collected, q.buffers
	q.collected, q.buffers = nil, nil
	return collected, buffers
}

// MakeWeak arms cb to run once after the target of p was collected. Until
// then p no longer keeps the target alive. Making a reference weak again
// replaces the previous callback. Primitive targets are never collected, so
// their callback never runs.
func (c *Context) MakeWeak(p *Persistent, data any, cb WeakFunc) {
	e := c.engine
	slot := e.refs.get(p.id)
	if slot == nil {
		return
	}

	obj := slot.object()
	if slot.baton != nil {
		slot.baton.cancel()
	}

	baton := &weakBaton{
		id:   p.id,
		cb:   cb,
		data: data,
		tag:  slot.tag,
	}
	slot.baton = baton

	if obj == nil {
		return
	}

	slot.target = weak.Make(obj)
	slot.strong = nil
	baton.cleanup = runtime.AddCleanup(obj, e.weak.enqueue, baton)
	baton.armed = true
}

// ClearWeak cancels a pending finalization and makes p strong again. The
// baton's data reverts to the caller.
func (p *Persistent) ClearWeak() {
	slot := p.engine.refs.get(p.id)
	if slot == nil || slot.baton == nil {
		return
	}
	slot.baton.cancel()
	slot.baton = nil
	if slot.strong == nil {
		if obj := slot.target.Value(); obj != nil {
			slot.strong = obj
		}
	}
}

// Sweep runs the finalizers of collected weak references and the free
// callbacks of collected external buffers. It must be called from the
// goroutine that owns the runtime. Exceptions left uncaught by finalizers
// are logged and returned.
func (e *Engine) Sweep() error {
	collected, buffers := e.weak.drain()

	var errs []error
	for _, b := range collected {
		if b.cancelled {
			continue
		}
		slot := e.refs.get(b.id)
		if slot == nil || slot.baton != b {
			continue
		}
		b.cancelled = true
		slot.baton = nil
		slot.collected = true

		err := e.Run(func(ctx *Context) error {
			v := ctx.arena.alloc(nil, b.tag)
			v.collected = true
			b.cb(ctx, v, b.data)
			return nil
		})
		if err != nil {
			e.logger.Warn("weak finalizer left an uncaught exception", zap.Error(err))
			errs = append(errs, fmt.Errorf("could not finalize weak reference %d: %w", b.id, err))
		}
	}

	for _, b := range buffers {
		b.free(b.data, b.hint)
	}

	return errors.Join(errs...)
}
