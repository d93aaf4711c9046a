package shim

import (
	"github.com/dop251/goja"
)

// Value is a runtime handle paired with a lazily computed type tag.
//
// Values are owned by the Context that created them and are released when
// that context exits, unless released earlier with Context.Release. Using a
// value after its release is undefined.
type Value struct {
	handle    goja.Value
	tag       Type
	released  bool
	sentinel  bool
	collected bool
}

var (
	undefinedValue = &Value{tag: TypeUndefined, sentinel: true}
	nullValue      = &Value{tag: TypeNull, sentinel: true}
)

// Undefined returns the process-wide undefined sentinel.
func Undefined() *Value {
	return undefinedValue
}

// Null returns the process-wide null sentinel.
func Null() *Value {
	return nullValue
}

// Type returns the cached tag. It is TypeUnknown until Is succeeded once.
func (v *Value) Type() Type {
	return v.tag
}

// IsSentinel reports whether v is the undefined or null singleton.
func (v *Value) IsSentinel() bool {
	return v.sentinel
}

// Collected reports whether the value was handed to a weak finalizer after
// its target was reclaimed. Such values keep their tag but have no handle.
func (v *Value) Collected() bool {
	return v.collected
}

// Is reports whether v is of type t. A matching cached tag answers without
// consulting the runtime, a successful test replaces the cached tag.
// Sentinels never change.
func (v *Value) Is(t Type) bool {
	if v.tag == t {
		return true
	}
	if v.handle == nil || t == TypeUnknown {
		return false
	}
	if !hostTypeTest(v.handle, t) {
		return false
	}
	v.tag = t
	return true
}

// Handle returns the underlying runtime value. Sentinels map to the
// runtime's own undefined and null.
func (v *Value) Handle() goja.Value {
	if v == nil {
		return goja.Null()
	}
	if v.handle != nil {
		return v.handle
	}
	switch v.tag {
	case TypeNull:
		return goja.Null()
	default:
		return goja.Undefined()
	}
}

func handles(vals []*Value) []goja.Value {
	out := make([]goja.Value, len(vals))
	for i, v := range vals {
		out[i] = v.Handle()
	}
	return out
}
