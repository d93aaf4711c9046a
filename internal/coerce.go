package shim

// Convert returns a new value holding v coerced to t with the runtime's
// standard rules. Converting to undefined or null yields the sentinel.
// Structured kinds (array, function, external, date, buffer) only convert
// when v already is one. An exception thrown by the runtime is captured and
// returned as *Exception.
func (c *Context) Convert(v *Value, t Type) (*Value, error) {
	if v.tag == t {
		return c.Clone(v), nil
	}

	switch t {
	case TypeUndefined:
		return undefinedValue, nil
	case TypeNull:
		return nullValue, nil
	case TypeArray, TypeFunction, TypeExternal, TypeDate, TypeBuffer:
		if !v.Is(t) {
			return nil, coercionError("convert", v.tag, t)
		}
		return c.arena.alloc(v.handle, t), nil
	case TypeUnknown:
		return nil, coercionError("convert", v.tag, t)
	}

	out, ok, thrown := c.host.convert(v.Handle(), t)
	if thrown != nil {
		return nil, c.capture(thrown)
	}
	if !ok {
		return nil, coercionError("convert", v.tag, t)
	}
	return c.arena.alloc(out, t), nil
}

// BooleanValue returns the truthiness of v.
func (c *Context) BooleanValue(v *Value) bool {
	return v.Handle().ToBoolean()
}

// NumberValue applies ToNumber.
func (c *Context) NumberValue(v *Value) (float64, error) {
	var f float64
	if thrown := c.host.guard(func() { f = v.Handle().ToFloat() }); thrown != nil {
		return 0, c.capture(thrown)
	}
	return f, nil
}

// IntegerValue applies ToNumber and truncates toward zero. NaN yields 0.
func (c *Context) IntegerValue(v *Value) (int64, error) {
	var i int64
	if thrown := c.host.guard(func() { i = v.Handle().ToInteger() }); thrown != nil {
		return 0, c.capture(thrown)
	}
	return i, nil
}

// Int32Value applies ToInt32, wrapping modulo 2^32.
func (c *Context) Int32Value(v *Value) (int32, error) {
	f, err := c.NumberValue(v)
	if err != nil {
		return 0, err
	}
	return toInt32(f), nil
}

// Uint32Value applies ToUint32, wrapping modulo 2^32.
func (c *Context) Uint32Value(v *Value) (uint32, error) {
	f, err := c.NumberValue(v)
	if err != nil {
		return 0, err
	}
	return toUint32(f), nil
}

// NewNumber creates a number value.
func (c *Context) NewNumber(f float64) *Value {
	return c.arena.alloc(c.rt.ToValue(f), TypeNumber)
}

// NewInteger creates a number value from a signed 32-bit integer.
func (c *Context) NewInteger(i int32) *Value {
	return c.arena.alloc(c.rt.ToValue(int64(i)), TypeInt32)
}

// NewUint32 creates a number value from an unsigned 32-bit integer.
func (c *Context) NewUint32(i uint32) *Value {
	return c.arena.alloc(c.rt.ToValue(int64(i)), TypeUint32)
}

// NewBoolean creates a boolean value.
func (c *Context) NewBoolean(b bool) *Value {
	return c.arena.alloc(c.rt.ToValue(b), TypeBool)
}
