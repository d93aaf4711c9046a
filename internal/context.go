package shim

import (
	"github.com/dop251/goja"
)

// Context is the per-call execution context. It owns every value created
// through it and the capture scope for exceptions raised while it is open.
// A Context is only valid until the call that received it returns.
type Context struct {
	engine    *Engine
	rt        *goja.Runtime
	host      *host
	arena     arena
	args      Args
	exception goja.Value
}

func (e *Engine) enter() *Context {
	if n := len(e.contexts); n > 0 {
		c := e.contexts[n-1]
		e.contexts = e.contexts[:n-1]
		return c
	}
	return &Context{
		engine: e,
		rt:     e.rt,
		host:   e.host,
		arena:  arena{stats: &e.stats},
	}
}

func (e *Engine) exit(c *Context) {
	c.args.release(c)
	c.arena.reset()
	c.exception = nil
	e.contexts = append(e.contexts, c)
}

// Engine returns the engine this context belongs to.
func (c *Context) Engine() *Engine {
	return c.engine
}

// Runtime returns the wrapped runtime.
func (c *Context) Runtime() *goja.Runtime {
	return c.rt
}

// Release releases v ahead of context exit. Releasing a sentinel or an
// already released value does nothing.
func (c *Context) Release(v *Value) {
	c.arena.release(v)
}

// Clone returns a new value for the same handle.
func (c *Context) Clone(v *Value) *Value {
	if v.sentinel {
		return v
	}
	return c.arena.alloc(v.handle, v.tag)
}

// Wrap adopts a runtime value into this context.
func (c *Context) Wrap(h goja.Value) *Value {
	return c.wrap(h, TypeUnknown)
}

func (c *Context) wrap(h goja.Value, t Type) *Value {
	if h == nil || goja.IsUndefined(h) {
		return undefinedValue
	}
	if goja.IsNull(h) {
		return nullValue
	}
	return c.arena.alloc(h, t)
}

// NextTick queues fn to run once the outermost make-callback returns, or
// when the work loop next drains.
func (c *Context) NextTick(fn func(ctx *Context) error) {
	c.engine.ticks = append(c.engine.ticks, fn)
}
