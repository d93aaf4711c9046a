package shim

import (
	"errors"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Func is a native function callable from scripts.
//
// Returning nil succeeds. Returning ErrCallbackFailed fails without raising
// anything. Any other error is thrown as a generic Error unless an exception
// is already pending, which always takes precedence.
type Func func(ctx *Context, args *Args) error

// FuncFlags are accepted on registration. None of them changes behaviour.
type FuncFlags int32

const (
	// FlagConstructor is accepted for compatibility. Every function can be
	// used with new: the receiver is a fresh object, which is also the result
	// unless the function returns an object.
	FlagConstructor FuncFlags = 1 << iota
)

// FuncSpec describes one entry for SetFuncs.
type FuncSpec struct {
	Name  string
	Func  Func
	Arity int
	Flags FuncFlags
	Data  any
}

type funcRecord struct {
	fn    Func
	data  any
	name  string
	arity int
}

// NewFunction registers fn as a runtime function that can be called and
// used with new. data is handed back through Args.Data on every call and is
// never inspected.
func (c *Context) NewFunction(fn Func, arity int, flags FuncFlags, name string, data any) (*Value, error) {
	rec := &funcRecord{
		fn:    fn,
		data:  data,
		name:  name,
		arity: arity,
	}
	e := c.engine

	// The target only carries name, length and prototype. Calls and
	// construction both go through the traps.
	target := c.rt.ToValue(func(call goja.ConstructorCall) *goja.Object {
		return nil
	}).(*goja.Object)
	if err := target.DefineDataProperty("name", c.rt.ToValue(name), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE); err != nil {
		return nil, c.captureError(err)
	}
	if err := target.DefineDataProperty("length", c.rt.ToValue(arity), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE); err != nil {
		return nil, c.captureError(err)
	}

	proxy := c.rt.NewProxy(target, &goja.ProxyTrapConfig{
		Apply: func(_ *goja.Object, this goja.Value, argv []goja.Value) goja.Value {
			return e.invoke(rec, this, argv)
		},
		Construct: func(_ *goja.Object, argv []goja.Value, newTarget *goja.Object) *goja.Object {
			this := e.newInstance(newTarget)
			if obj, ok := e.invoke(rec, this, argv).(*goja.Object); ok {
				return obj
			}
			return this
		},
	})
	obj := c.rt.ToValue(proxy).(*goja.Object)

	return c.arena.alloc(obj, TypeFunction), nil
}

// SetFuncs registers every entry as a function property of recv. It stops at
// the first failure.
func (c *Context) SetFuncs(recv *Value, specs []FuncSpec) error {
	for i := range specs {
		spec := specs[i]
		fn, err := c.NewFunction(spec.Func, spec.Arity, spec.Flags, spec.Name, spec.Data)
		if err != nil {
			return err
		}
		if err := c.SetName(recv, spec.Name, fn); err != nil {
			return err
		}
	}
	return nil
}

// newInstance creates the receiver for a construct call, taking its
// prototype from newTarget like ordinary constructors do.
func (e *Engine) newInstance(newTarget *goja.Object) *goja.Object {
	if newTarget != nil {
		if proto, ok := newTarget.Get("prototype").(*goja.Object); ok {
			return e.rt.CreateObject(proto)
		}
	}
	return e.rt.NewObject()
}

func (e *Engine) trace(msg string, rec *funcRecord) {
	if ce := e.logger.Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(zap.String("function", rec.name), zap.Int("depth", e.depth))
	}
}

// invoke is the trampoline every registered function runs through.
func (e *Engine) invoke(rec *funcRecord, this goja.Value, argv []goja.Value) goja.Value {
	e.trace("shim enter", rec)

	ctx := e.enter()
	e.depth++
	defer func() {
		e.depth--
		e.exit(ctx)
	}()

	args := ctx.frame(rec, this, argv)

	e.trace("shim call", rec)
	err := e.dispatch(ctx, rec, args)

	var ret goja.Value = goja.Null()
	if args.ret != nil {
		ret = args.ret.Handle()
	}
	args.release(ctx)

	if err != nil && ctx.exception == nil {
		var exc *Exception
		switch {
		case errors.Is(err, ErrCallbackFailed):
			e.trace("shim callback failed", rec)
		case errors.As(err, &exc):
			ctx.capture(exc.value)
		default:
			ctx.capture(e.host.newError(ErrorKindGeneric, err.Error()))
		}
	}

	if exc := ctx.exception; exc != nil {
		e.trace("shim threw", rec)
		panic(exc)
	}

	e.trace("shim leaving", rec)
	return ret
}

func (e *Engine) dispatch(ctx *Context, rec *funcRecord, args *Args) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch x := r.(type) {
			case *goja.Exception:
				ctx.capture(x.Value())
			case goja.Value:
				ctx.capture(x)
			default:
				panic(r)
			}
		}
	}()
	return rec.fn(ctx, args)
}
