package shim

import (
	"github.com/dop251/goja"
)

func (c *Context) receiver(self *Value) (*goja.Object, error) {
	if self == nil {
		return c.rt.NewObject(), nil
	}
	return c.toObject(self)
}

func (c *Context) method(recv *goja.Object, sym *goja.Symbol, name string) (goja.Callable, error) {
	h, err := c.get(recv, sym, name)
	if err != nil {
		return nil, err
	}
	if h != nil {
		if fn, ok := goja.AssertFunction(h); ok {
			return fn, nil
		}
	}
	if sym != nil {
		name = sym.String()
	}
	_ = c.ThrowTypeError("%s is not a function", name)
	return nil, &Error{Kind: KindNotFunction, Op: "call", Detail: name, Cause: &Exception{value: c.exception}}
}

func (c *Context) function(fv *Value) (goja.Callable, error) {
	if fn, ok := goja.AssertFunction(fv.Handle()); ok {
		return fn, nil
	}
	_ = c.ThrowTypeError("value is not a function")
	return nil, &Error{Kind: KindNotFunction, Op: "call", Cause: &Exception{value: c.exception}}
}

func (c *Context) call(fn goja.Callable, recv *goja.Object, args []*Value) (*Value, error) {
	ret, thrown := c.host.call(fn, recv, handles(args))
	if thrown != nil {
		return nil, c.capture(thrown)
	}
	return c.wrap(ret, TypeUnknown), nil
}

// makeCallback runs a call-out as a host callback: once the outermost one
// returns, queued ticks run.
func (c *Context) makeCallback(fn goja.Callable, recv *goja.Object, args []*Value) (*Value, error) {
	e := c.engine
	e.depth++
	ret, err := c.call(fn, recv, args)
	e.depth--

	if e.depth == 0 {
		if tickErr := e.drainTicks(); tickErr != nil && err == nil {
			err = c.captureError(tickErr)
		}
	}
	return ret, err
}

// CallName calls the method name of self.
func (c *Context) CallName(self *Value, name string, args ...*Value) (*Value, error) {
	recv, err := c.toObject(self)
	if err != nil {
		return nil, err
	}
	fn, err := c.method(recv, nil, name)
	if err != nil {
		return nil, err
	}
	return c.call(fn, recv, args)
}

// CallKey calls the method of self stored under key, a symbol or a value
// converted to a property name.
func (c *Context) CallKey(self, key *Value, args ...*Value) (*Value, error) {
	recv, err := c.toObject(self)
	if err != nil {
		return nil, err
	}
	sym, name, err := c.propertyKey(key)
	if err != nil {
		return nil, err
	}
	fn, err := c.method(recv, sym, name)
	if err != nil {
		return nil, err
	}
	return c.call(fn, recv, args)
}

// CallValue calls fv with self as receiver, or a new empty object when self
// is nil.
func (c *Context) CallValue(self, fv *Value, args ...*Value) (*Value, error) {
	fn, err := c.function(fv)
	if err != nil {
		return nil, err
	}
	recv, err := c.receiver(self)
	if err != nil {
		return nil, err
	}
	return c.call(fn, recv, args)
}

// MakeCallbackName is CallName for calls that re-enter scripts from the
// host, such as completions.
func (c *Context) MakeCallbackName(self *Value, name string, args ...*Value) (*Value, error) {
	recv, err := c.toObject(self)
	if err != nil {
		return nil, err
	}
	fn, err := c.method(recv, nil, name)
	if err != nil {
		return nil, err
	}
	return c.makeCallback(fn, recv, args)
}

// MakeCallbackKey is CallKey for calls that re-enter scripts from the host.
func (c *Context) MakeCallbackKey(self, key *Value, args ...*Value) (*Value, error) {
	recv, err := c.toObject(self)
	if err != nil {
		return nil, err
	}
	sym, name, err := c.propertyKey(key)
	if err != nil {
		return nil, err
	}
	fn, err := c.method(recv, sym, name)
	if err != nil {
		return nil, err
	}
	return c.makeCallback(fn, recv, args)
}

// MakeCallbackValue is CallValue for calls that re-enter scripts from the
// host.
func (c *Context) MakeCallbackValue(self, fv *Value, args ...*Value) (*Value, error) {
	fn, err := c.function(fv)
	if err != nil {
		return nil, err
	}
	recv, err := c.receiver(self)
	if err != nil {
		return nil, err
	}
	return c.makeCallback(fn, recv, args)
}
