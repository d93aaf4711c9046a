package shim

import (
	"errors"
	"math"
	"reflect"
	"sync/atomic"

	"github.com/dop251/goja"
)

// Everything that talks to goja about classification and coercion lives
// here. The rest of the package only moves handles around.

var hostTypeTests atomic.Uint64

// HostTypeTests returns how many runtime type tests ran since process start.
func HostTypeTests() uint64 {
	return hostTypeTests.Load()
}

type external struct {
	data any
}

var (
	externalType    = reflect.TypeOf(&external{})
	arrayBufferType = reflect.TypeOf(goja.ArrayBuffer{})
	byteSliceType   = reflect.TypeOf([]byte(nil))
)

func hostTypeTest(h goja.Value, t Type) bool {
	hostTypeTests.Add(1)

	switch t {
	case TypeUndefined:
		return goja.IsUndefined(h)
	case TypeNull:
		return goja.IsNull(h)
	}

	if obj, ok := h.(*goja.Object); ok {
		switch t {
		case TypeObject:
			return true
		case TypeArray:
			return obj.ClassName() == "Array"
		case TypeDate:
			return obj.ClassName() == "Date"
		case TypeFunction:
			_, ok := goja.AssertFunction(obj)
			return ok
		case TypeExternal:
			return obj.ExportType() == externalType
		case TypeBuffer:
			et := obj.ExportType()
			return et == arrayBufferType || et == byteSliceType
		}
		return false
	}

	if goja.IsUndefined(h) || goja.IsNull(h) {
		return false
	}

	et := h.ExportType()
	if et == nil {
		return false
	}

	switch t {
	case TypeBool:
		return et.Kind() == reflect.Bool
	case TypeString:
		return et.Kind() == reflect.String
	case TypeNumber, TypeInteger:
		return isNumberKind(et.Kind())
	case TypeInt32:
		if !isNumberKind(et.Kind()) {
			return false
		}
		f := h.ToFloat()
		return isIntegral(f) && f >= math.MinInt32 && f <= math.MaxInt32
	case TypeUint32:
		if !isNumberKind(et.Kind()) {
			return false
		}
		f := h.ToFloat()
		return isIntegral(f) && f >= 0 && f <= math.MaxUint32
	}
	return false
}

func isNumberKind(k reflect.Kind) bool {
	return k == reflect.Int64 || k == reflect.Float64
}

func isIntegral(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	if f == 0 && math.Signbit(f) {
		return false
	}
	return f == math.Trunc(f)
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Mod(math.Trunc(f), 4294967296)
	if f < 0 {
		f += 4294967296
	}
	return uint32(f)
}

func toInt32(f float64) int32 {
	return int32(toUint32(f))
}

// host runs everything that may execute script code through a goja
// callable, so a throw unwinds the runtime's own stack before it reaches us.
type host struct {
	rt      *goja.Runtime
	trap    goja.Callable
	pending func()
	in      goja.Callable
}

var inProgram = goja.MustCompile("in", "(function (o, k) { return k in o })", true)

func newHost(rt *goja.Runtime) *host {
	h := &host{rt: rt}
	trap, _ := goja.AssertFunction(rt.ToValue(func(goja.FunctionCall) goja.Value {
		fn := h.pending
		h.pending = nil
		fn()
		return goja.Undefined()
	}))
	h.trap = trap
	return h
}

// guard runs fn and returns what it threw, if anything.
func (h *host) guard(fn func()) (thrown goja.Value) {
	h.pending = fn
	_, err := h.trap(goja.Undefined())
	if err == nil {
		return nil
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return exc.Value()
	}
	panic(err)
}

// convert applies the runtime's standard coercion for t. ok is false
// when no coercion is defined or the value does not qualify.
func (h *host) convert(v goja.Value, t Type) (out goja.Value, ok bool, thrown goja.Value) {
	rt := h.rt
	thrown = h.guard(func() {
		switch t {
		case TypeBool:
			out, ok = rt.ToValue(v.ToBoolean()), true
		case TypeNumber:
			out, ok = rt.ToValue(v.ToFloat()), true
		case TypeInteger:
			out, ok = rt.ToValue(v.ToInteger()), true
		case TypeInt32:
			out, ok = rt.ToValue(int64(toInt32(v.ToFloat()))), true
		case TypeUint32:
			out, ok = rt.ToValue(int64(toUint32(v.ToFloat()))), true
		case TypeString:
			out, ok = v.ToString(), true
		case TypeObject:
			out, ok = v.ToObject(rt), true
		}
	})
	return out, ok, thrown
}

func (h *host) newError(kind ErrorKind, msg string) goja.Value {
	rt := h.rt
	var ctor goja.Value
	switch kind {
	case ErrorKindType:
		ctor = rt.Get("TypeError")
	case ErrorKindRange:
		ctor = rt.Get("RangeError")
	default:
		ctor = rt.Get("Error")
	}

	obj, err := rt.New(ctor, rt.ToValue(msg))
	if err != nil || obj == nil {
		return rt.NewGoError(errorString(msg))
	}
	return obj
}

type errorString string

func (e errorString) Error() string { return string(e) }

// call invokes fn and captures what it throws. Go errors that are not
// runtime exceptions are thrown as generic errors.
func (h *host) call(fn goja.Callable, this goja.Value, args []goja.Value) (goja.Value, goja.Value) {
	ret, err := fn(this, args...)
	if err != nil {
		var exc *goja.Exception
		if errors.As(err, &exc) {
			return nil, exc.Value()
		}
		return nil, h.newError(ErrorKindGeneric, err.Error())
	}
	if ret == nil {
		ret = goja.Undefined()
	}
	return ret, nil
}

// has reports whether key is a property of obj or its prototype chain.
// Accessors are not run.
func (h *host) has(obj *goja.Object, key goja.Value) (bool, goja.Value) {
	if h.in == nil {
		fn, err := h.rt.RunProgram(inProgram)
		if err != nil {
			panic(err)
		}
		h.in, _ = goja.AssertFunction(fn)
	}
	ret, thrown := h.call(h.in, goja.Undefined(), []goja.Value{obj, key})
	if thrown != nil {
		return false, thrown
	}
	return ret.ToBoolean(), nil
}

func (h *host) toObject(v goja.Value) (obj *goja.Object, thrown goja.Value) {
	if o, ok := v.(*goja.Object); ok {
		return o, nil
	}
	thrown = h.guard(func() {
		obj = v.ToObject(h.rt)
	})
	return obj, thrown
}
