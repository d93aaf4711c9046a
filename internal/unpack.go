package shim

// Target pairs an expected type with the destination Unpack writes to.
type Target struct {
	typ  Type
	dest any
}

// Done ends a target list early. Targets after it are ignored.
var Done = Target{typ: TypeUnknown}

func Bool(dst *bool) Target { return Target{typ: TypeBool, dest: dst} }
func Integer(dst *int64) Target { return Target{typ: TypeInteger, dest: dst} }
func Int32(dst *int32) Target { return Target{typ: TypeInt32, dest: dst} }
func Uint32(dst *uint32) Target { return Target{typ: TypeUint32, dest: dst} }
func Number(dst *float64) Target { return Target{typ: TypeNumber, dest: dst} }
func External(dst *any) Target { return Target{typ: TypeExternal, dest: dst} }
func Buffer(dst *[]byte) Target { return Target{typ: TypeBuffer, dest: dst} }
func String(dst **Value) Target { return Target{typ: TypeString, dest: dst} }
func Typed(t Type, dst any) Target { return Target{typ: t, dest: dst} }

// Unpack checks and extracts arguments in order. Unpacking stops
// successfully at Done or when the arguments run out. The first argument
// that does not match throws a TypeError naming its index and expected type;
// destinations already written keep their values.
func (c *Context) Unpack(args *Args, targets ...Target) error {
	for cur := 0; cur < len(targets) && cur < args.Length(); cur++ {
		t := targets[cur]
		if t.typ == TypeUnknown {
			break
		}
		if !c.UnpackOne(args, cur, t.typ, t.dest) {
			_ = c.ThrowTypeError("Argument %d not of type %s", cur, t.typ)
			return &Error{
				Kind:     KindTypeMismatch,
				Op:       "unpack",
				Index:    cur,
				Expected: t.typ,
				Cause:    &Exception{value: c.exception},
			}
		}
	}
	return nil
}

// UnpackOne unpacks argument idx. It does not throw.
func (c *Context) UnpackOne(args *Args, idx int, t Type, dest any) bool {
	return c.UnpackType(args.Get(idx), t, dest)
}

// UnpackType extracts v into dest when v is of type t. A string is
// delivered as a value owned by this context. Undefined, null, date, array,
// object and function never unpack.
func (c *Context) UnpackType(v *Value, t Type, dest any) bool {
	if !v.Is(t) {
		return false
	}

	h := v.Handle()
	switch t {
	case TypeBool:
		if d, ok := dest.(*bool); ok {
			*d = h.ToBoolean()
			return true
		}
	case TypeInteger:
		if d, ok := dest.(*int64); ok {
			*d = h.ToInteger()
			return true
		}
	case TypeInt32:
		if d, ok := dest.(*int32); ok {
			*d = toInt32(h.ToFloat())
			return true
		}
	case TypeUint32:
		if d, ok := dest.(*uint32); ok {
			*d = toUint32(h.ToFloat())
			return true
		}
	case TypeNumber:
		if d, ok := dest.(*float64); ok {
			*d = h.ToFloat()
			return true
		}
	case TypeExternal:
		if d, ok := dest.(*any); ok {
			*d, _ = c.ExternalValue(v)
			return true
		}
	case TypeBuffer:
		if d, ok := dest.(*[]byte); ok {
			*d, _ = c.BufferValue(v)
			return true
		}
	case TypeString:
		if d, ok := dest.(**Value); ok {
			*d = c.arena.alloc(h, TypeString)
			return true
		}
	}
	return false
}
