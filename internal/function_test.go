package shim

import (
	"errors"

	"github.com/dop251/goja"

	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = g.Describe("Calling native functions", g.Label("trampoline"), func() {
	g.When("the callback succeeds", func() {
		g.It("returns the value from the return slot", func() {
			define("add", 2, func(ctx *Context, args *Args) error {
				var a, b float64
				if err := ctx.Unpack(args, Number(&a), Number(&b)); err != nil {
					return err
				}
				args.SetReturn(ctx.NewNumber(a + b))
				return nil
			}, nil)

			Expect(eval("add(2, 3)").ToInteger()).To(Equal(int64(5)))
			Expect(eval("add.name").String()).To(Equal("add"))
			Expect(eval("add.length").ToInteger()).To(Equal(int64(2)))
		})

		g.It("returns null when the return slot was never set", func() {
			define("noop", 0, func(ctx *Context, args *Args) error {
				return nil
			}, nil)

			Expect(goja.IsNull(eval("noop()"))).To(BeTrue())
			Expect(eval("noop() === undefined").ToBoolean()).To(BeFalse())
		})

		g.It("can return one of its own arguments", func() {
			define("echo", 1, func(ctx *Context, args *Args) error {
				args.SetReturn(args.Get(0))
				return nil
			}, nil)

			Expect(eval("echo(7)").ToInteger()).To(Equal(int64(7)))
			Expect(eval("const o = {}; echo(o) === o").ToBoolean()).To(BeTrue())
		})

		g.It("passes the receiver and the registration data", func() {
			define("self", 0, func(ctx *Context, args *Args) error {
				args.SetReturn(args.This())
				return nil
			}, nil)
			define("payload", 0, func(ctx *Context, args *Args) error {
				data, ok := ArgsData[string](args)
				Expect(ok).To(BeTrue())
				Expect(args.Name()).To(Equal("payload"))
				args.SetReturn(ctx.NewStringCopy(data))
				return nil
			}, "registered data")

			Expect(eval("const obj = { self: self }; obj.self() === obj").ToBoolean()).To(BeTrue())
			Expect(eval("payload()").String()).To(Equal("registered data"))
		})

		g.It("can be used as a constructor", func() {
			Expect(engine.Run(func(ctx *Context) error {
				point, err := ctx.NewFunction(func(ctx *Context, args *Args) error {
					if err := ctx.SetName(args.This(), "x", args.Get(0)); err != nil {
						return err
					}
					return ctx.SetName(args.This(), "y", args.Get(1))
				}, 2, FlagConstructor, "Point", nil)
				if err != nil {
					return err
				}
				return ctx.SetName(global(ctx), "Point", point)
			})).To(Succeed())

			Expect(eval("const p = new Point(1, 2); p.x + p.y").ToInteger()).To(Equal(int64(3)))
			Expect(eval("p instanceof Point").ToBoolean()).To(BeTrue())
		})

		g.It("constructs with any registered function", func() {
			calls := 0
			define("plain", 0, func(ctx *Context, args *Args) error {
				calls++
				args.SetReturn(ctx.NewInteger(int64(calls)))
				return nil
			}, nil)
			define("factory", 0, func(ctx *Context, args *Args) error {
				obj, err := ctx.NewObject(nil, nil)
				if err != nil {
					return err
				}
				args.SetReturn(obj)
				return ctx.SetName(obj, "made", ctx.NewBoolean(true))
			}, nil)

			Expect(eval("plain()").ToInteger()).To(Equal(int64(1)))
			Expect(eval("const q = new plain(); q instanceof plain && typeof q").String()).To(Equal("object"))
			Expect(calls).To(Equal(2))
			Expect(eval("typeof plain").String()).To(Equal("function"))

			Expect(eval("const f = new factory(); f.made && !(f instanceof factory)").ToBoolean()).To(BeTrue())
		})

		g.It("registers a table of functions", func() {
			Expect(engine.Run(func(ctx *Context) error {
				obj, err := ctx.NewObject(nil, nil)
				if err != nil {
					return err
				}
				err = ctx.SetFuncs(obj, []FuncSpec{
					{Name: "one", Func: func(ctx *Context, args *Args) error {
						args.SetReturn(ctx.NewInteger(1))
						return nil
					}},
					{Name: "two", Func: func(ctx *Context, args *Args) error {
						args.SetReturn(ctx.NewInteger(2))
						return nil
					}},
				})
				if err != nil {
					return err
				}
				return ctx.SetName(global(ctx), "lib", obj)
			})).To(Succeed())

			Expect(eval("lib.one() + lib.two()").ToInteger()).To(Equal(int64(3)))
		})
	})

	g.When("the callback fails", func() {
		g.It("does not raise for a quiet failure", func() {
			define("quiet", 0, func(ctx *Context, args *Args) error {
				args.SetReturn(ctx.NewInteger(1))
				return ErrCallbackFailed
			}, nil)

			Expect(eval("quiet()").ToInteger()).To(Equal(int64(1)))
		})

		g.It("throws a generic error for other Go errors", func() {
			define("broken", 0, func(ctx *Context, args *Args) error {
				return errors.New("it broke")
			}, nil)

			Expect(eval(`
				let caught;
				try { broken() } catch (e) { caught = e }
				caught instanceof Error && caught.message === "it broke"
			`).ToBoolean()).To(BeTrue())
		})

		g.It("prefers a pending exception over the return value", func() {
			define("thrower", 0, func(ctx *Context, args *Args) error {
				args.SetReturn(ctx.NewInteger(42))
				return ctx.ThrowRangeError("out of range: %d", 42)
			}, nil)

			Expect(eval(`
				let result = "untouched";
				try { result = thrower() } catch (e) { result = e instanceof RangeError && e.message }
				result
			`).String()).To(Equal("out of range: 42"))
		})

		g.It("prefers a pending exception over a quiet failure", func() {
			define("both", 0, func(ctx *Context, args *Args) error {
				_ = ctx.ThrowTypeError("loud")
				return ErrCallbackFailed
			}, nil)

			_, err := rt.RunString("both()")
			var exc *goja.Exception
			Expect(errors.As(err, &exc)).To(BeTrue())
			Expect(exc.Value().String()).To(Equal("TypeError: loud"))
		})

		g.It("turns a thrown runtime value into an exception", func() {
			define("raw", 0, func(ctx *Context, args *Args) error {
				panic(rt.ToValue("raw value"))
			}, nil)

			Expect(eval(`try { raw() } catch (e) { e }`).String()).To(Equal("raw value"))
		})

		g.It("rethrows a returned exception that was cleared", func() {
			define("rethrow", 0, func(ctx *Context, args *Args) error {
				err := ctx.ThrowError("first")
				ctx.ClearException()
				return err
			}, nil)

			Expect(eval(`try { rethrow() } catch (e) { e.message }`).String()).To(Equal("first"))
		})
	})

	g.When("the call returns", func() {
		g.It("releases every frame value exactly once on every path", func() {
			define("ok", 2, func(ctx *Context, args *Args) error {
				args.SetReturn(args.Get(0))
				return nil
			}, nil)
			define("quiet", 2, func(ctx *Context, args *Args) error {
				return ErrCallbackFailed
			}, nil)
			define("throws", 2, func(ctx *Context, args *Args) error {
				return ctx.ThrowError("nope")
			}, nil)
			define("released", 2, func(ctx *Context, args *Args) error {
				ctx.Release(args.Get(0))
				ctx.Release(args.Get(0))
				return nil
			}, nil)

			eval(`
				ok(1, "two");
				quiet({}, []);
				try { throws(1, 2) } catch (e) {}
				released(1, 2);
				ok(3);
			`)

			stats := engine.Stats()
			Expect(stats.Allocated).To(BeNumerically(">=", uint64(14)))
			Expect(stats.Released).To(Equal(stats.Allocated))
			Expect(stats.Live()).To(BeZero())
		})

		g.It("releases values of nested calls", func() {
			define("inner", 1, func(ctx *Context, args *Args) error {
				args.SetReturn(ctx.NewStringCopy("inner"))
				return nil
			}, nil)
			define("outer", 1, func(ctx *Context, args *Args) error {
				ret, err := ctx.CallValue(nil, args.Get(0))
				if err != nil {
					return err
				}
				args.SetReturn(ret)
				return nil
			}, nil)

			Expect(eval("outer(() => inner())").String()).To(Equal("inner"))
			Expect(engine.Stats().Live()).To(BeZero())
		})

		g.It("reuses contexts", func() {
			define("noop", 0, func(ctx *Context, args *Args) error {
				return nil
			}, nil)

			eval("noop(); noop(); noop();")
			Expect(engine.contexts).To(HaveLen(1))
		})
	})
})
