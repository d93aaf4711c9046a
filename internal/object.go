package shim

import (
	"errors"
	"strconv"

	"github.com/dop251/goja"
)

func (c *Context) toObject(v *Value) (*goja.Object, error) {
	obj, thrown := c.host.toObject(v.Handle())
	if thrown != nil {
		return nil, c.capture(thrown)
	}
	return obj, nil
}

// NewObject creates an object. A non-nil klass is constructed without
// arguments. A non-nil proto becomes the prototype, Null() gives an object
// without prototype.
func (c *Context) NewObject(klass, proto *Value) (*Value, error) {
	var obj *goja.Object
	if klass != nil && !klass.sentinel {
		inst, err := c.NewInstance(klass)
		if err != nil {
			return nil, err
		}
		obj = inst.handle.(*goja.Object)
	} else {
		obj = c.rt.NewObject()
	}

	if proto != nil && proto != undefinedValue {
		var p *goja.Object
		if proto != nullValue {
			var err error
			if p, err = c.toObject(proto); err != nil {
				return nil, err
			}
		}
		if err := obj.SetPrototype(p); err != nil {
			return nil, c.captureError(err)
		}
	}

	return c.arena.alloc(obj, TypeObject), nil
}

// NewInstance runs klass as a constructor with args.
func (c *Context) NewInstance(klass *Value, args ...*Value) (*Value, error) {
	obj, err := c.rt.New(klass.Handle(), handles(args)...)
	if err != nil {
		return nil, c.captureError(err)
	}
	return c.arena.alloc(obj, TypeObject), nil
}

// NewArray creates an array of length n with holes.
func (c *Context) NewArray(n int) *Value {
	arr := c.rt.NewArray()
	if n > 0 {
		if err := arr.Set("length", n); err != nil {
			c.captureError(err)
		}
	}
	return c.arena.alloc(arr, TypeArray)
}

// ArrayLength returns the length property of arr.
func (c *Context) ArrayLength(arr *Value) (int, error) {
	l, err := c.GetName(arr, "length")
	if err != nil {
		return 0, err
	}
	n, err := c.IntegerValue(l)
	return int(n), err
}

func (c *Context) ArrayGet(arr *Value, idx uint32) (*Value, error) {
	return c.GetIndex(arr, idx)
}

func (c *Context) ArraySet(arr *Value, idx uint32, v *Value) error {
	return c.SetIndex(arr, idx, v)
}

func (c *Context) captureError(err error) error {
	var exc *Exception
	if errors.As(err, &exc) {
		return c.capture(exc.value)
	}
	var hostExc *goja.Exception
	if errors.As(err, &hostExc) {
		return c.capture(hostExc.Value())
	}
	return c.capture(c.host.newError(ErrorKindGeneric, err.Error()))
}

func indexKey(idx uint32) string {
	return strconv.FormatUint(uint64(idx), 10)
}

// propertyKey resolves a value key to either a symbol or a string name.
func (c *Context) propertyKey(key *Value) (*goja.Symbol, string, error) {
	if sym, ok := key.Handle().(*goja.Symbol); ok {
		return sym, "", nil
	}
	name, err := c.StringValue(key)
	return nil, name, err
}

func (c *Context) get(obj *goja.Object, sym *goja.Symbol, name string) (goja.Value, error) {
	var h goja.Value
	thrown := c.host.guard(func() {
		if sym != nil {
			h = obj.GetSymbol(sym)
		} else {
			h = obj.Get(name)
		}
	})
	if thrown != nil {
		return nil, c.capture(thrown)
	}
	return h, nil
}

func (c *Context) set(obj *goja.Object, sym *goja.Symbol, name string, v *Value) error {
	var err error
	thrown := c.host.guard(func() {
		if sym != nil {
			err = obj.SetSymbol(sym, v.Handle())
		} else {
			err = obj.Set(name, v.Handle())
		}
	})
	if thrown != nil {
		return c.capture(thrown)
	}
	if err != nil {
		return c.captureError(err)
	}
	return nil
}

func (c *Context) has(recv *Value, sym *goja.Symbol, name string) (bool, error) {
	obj, err := c.toObject(recv)
	if err != nil {
		return false, err
	}
	var key goja.Value
	if sym != nil {
		key = sym
	} else {
		key = c.rt.ToValue(name)
	}
	ok, thrown := c.host.has(obj, key)
	if thrown != nil {
		return false, c.capture(thrown)
	}
	return ok, nil
}

func (c *Context) lookup(recv *Value, sym *goja.Symbol, name string) (*Value, error) {
	obj, err := c.toObject(recv)
	if err != nil {
		return nil, err
	}
	h, err := c.get(obj, sym, name)
	if err != nil {
		return nil, err
	}
	return c.wrap(h, TypeUnknown), nil
}

func (c *Context) assign(recv *Value, sym *goja.Symbol, name string, v *Value) error {
	obj, err := c.toObject(recv)
	if err != nil {
		return err
	}
	return c.set(obj, sym, name, v)
}

func (c *Context) HasName(obj *Value, name string) (bool, error) {
	return c.has(obj, nil, name)
}

func (c *Context) HasIndex(obj *Value, idx uint32) (bool, error) {
	return c.has(obj, nil, indexKey(idx))
}

func (c *Context) HasKey(obj, key *Value) (bool, error) {
	sym, name, err := c.propertyKey(key)
	if err != nil {
		return false, err
	}
	return c.has(obj, sym, name)
}

// GetName reads a property. Missing properties read as Undefined().
func (c *Context) GetName(obj *Value, name string) (*Value, error) {
	return c.lookup(obj, nil, name)
}

func (c *Context) GetIndex(obj *Value, idx uint32) (*Value, error) {
	return c.lookup(obj, nil, indexKey(idx))
}

func (c *Context) GetKey(obj, key *Value) (*Value, error) {
	sym, name, err := c.propertyKey(key)
	if err != nil {
		return nil, err
	}
	return c.lookup(obj, sym, name)
}

func (c *Context) SetName(obj *Value, name string, v *Value) error {
	return c.assign(obj, nil, name, v)
}

func (c *Context) SetIndex(obj *Value, idx uint32, v *Value) error {
	return c.assign(obj, nil, indexKey(idx), v)
}

func (c *Context) SetKey(obj, key, v *Value) error {
	sym, name, err := c.propertyKey(key)
	if err != nil {
		return err
	}
	return c.assign(obj, sym, name, v)
}

// SetPrivate attaches data to obj under a key scripts cannot enumerate.
func (c *Context) SetPrivate(obj *Value, data any) error {
	o, err := c.toObject(obj)
	if err != nil {
		return err
	}
	holder := c.rt.ToValue(&external{data: data})
	if err := o.DefineDataPropertySymbol(c.engine.private, holder, goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_FALSE); err != nil {
		return c.captureError(err)
	}
	return nil
}

// GetPrivate returns what SetPrivate attached, or nil.
func (c *Context) GetPrivate(obj *Value) (any, error) {
	o, err := c.toObject(obj)
	if err != nil {
		return nil, err
	}
	h, err := c.get(o, c.engine.private, "")
	if err != nil || h == nil {
		return nil, err
	}
	if ext, ok := h.Export().(*external); ok {
		return ext.data, nil
	}
	return nil, nil
}
