package shim

import (
	"github.com/dop251/goja"
)

// Args is the call frame handed to a Func. It is only valid during the call.
type Args struct {
	argv []*Value
	this *Value
	ret  *Value
	data any
	name string
}

// Length returns the number of arguments the caller passed.
func (a *Args) Length() int {
	return len(a.argv)
}

// Get returns argument i. i must be below Length.
func (a *Args) Get(i int) *Value {
	return a.argv[i]
}

// This returns the receiver.
func (a *Args) This() *Value {
	return a.this
}

// Data returns the data given at registration.
func (a *Args) Data() any {
	return a.data
}

// Name returns the registered function name.
func (a *Args) Name() string {
	return a.name
}

// SetReturn stores the value returned to the caller. Without a call the
// caller receives null.
func (a *Args) SetReturn(v *Value) {
	a.ret = v
}

// ArgsData returns the registration data as T.
func ArgsData[T any](a *Args) (T, bool) {
	d, ok := a.data.(T)
	return d, ok
}

func (c *Context) frame(rec *funcRecord, this goja.Value, argv []goja.Value) *Args {
	a := &c.args
	a.argv = a.argv[:0]
	for _, h := range argv {
		a.argv = append(a.argv, c.arena.alloc(h, TypeUnknown))
	}
	if this == nil {
		this = goja.Undefined()
	}
	a.this = c.arena.alloc(this, TypeUnknown)
	a.ret = nil
	a.data = rec.data
	a.name = rec.name
	return a
}

func (a *Args) release(c *Context) {
	for i, v := range a.argv {
		c.arena.release(v)
		a.argv[i] = nil
	}
	a.argv = a.argv[:0]
	c.arena.release(a.this)
	a.this = nil
	a.ret = nil
	a.data = nil
}
