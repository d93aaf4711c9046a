package shim

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dop251/goja"

	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = g.Describe("Exceptions", g.Label("exception"), func() {
	g.It("tracks the pending exception of a context", func() {
		Expect(engine.Run(func(ctx *Context) error {
			Expect(ctx.ExceptionPending()).To(BeFalse())
			_, ok := ctx.Exception()
			Expect(ok).To(BeFalse())

			err := ctx.ThrowTypeError("bad %s", "input")
			Expect(err).To(HaveOccurred())
			Expect(ctx.ExceptionPending()).To(BeTrue())

			exc, ok := ctx.Exception()
			Expect(ok).To(BeTrue())
			msg, err := ctx.GetName(exc, "message")
			Expect(err).To(BeNil())
			s, err := ctx.StringValue(msg)
			Expect(err).To(BeNil())
			Expect(s).To(Equal("bad input"))

			ctx.ClearException()
			Expect(ctx.ExceptionPending()).To(BeFalse())
			return nil
		})).To(Succeed())
	})

	g.It("reports an uncleared exception from Run", func() {
		err := engine.Run(func(ctx *Context) error {
			_ = ctx.ThrowRangeError("too far")
			return errors.New("ignored")
		})

		var exc *Exception
		Expect(errors.As(err, &exc)).To(BeTrue())
		Expect(exc.Error()).To(Equal("RangeError: too far"))
		Expect(exc.Value().(*goja.Object).ClassName()).To(Equal("Error"))
	})

	g.It("does not leak a pending exception into the next context", func() {
		_ = engine.Run(func(ctx *Context) error {
			return ctx.ThrowError("first")
		})
		Expect(engine.Run(func(ctx *Context) error {
			Expect(ctx.ExceptionPending()).To(BeFalse())
			return nil
		})).To(Succeed())
	})

	g.It("creates errors without throwing them", func() {
		Expect(engine.Run(func(ctx *Context) error {
			generic := ctx.NewError("plain")
			typed := ctx.NewTypeError("typed %d", 1)
			ranged := ctx.NewRangeError("ranged")
			Expect(ctx.ExceptionPending()).To(BeFalse())

			Expect(generic.Is(TypeObject)).To(BeTrue())
			Expect(generic.Handle().String()).To(Equal("Error: plain"))
			Expect(typed.Handle().String()).To(Equal("TypeError: typed 1"))
			Expect(ranged.Handle().String()).To(Equal("RangeError: ranged"))

			return ctx.SetName(global(ctx), "made", typed)
		})).To(Succeed())

		Expect(eval("made instanceof TypeError").ToBoolean()).To(BeTrue())
	})

	g.It("installs arbitrary values as the exception", func() {
		define("throwValue", 1, func(ctx *Context, args *Args) error {
			return ctx.SetException(args.Get(0))
		}, nil)

		Expect(eval(`try { throwValue(17) } catch (e) { e }`).ToInteger()).To(Equal(int64(17)))
	})

	g.It("captures exceptions thrown during call-outs", func() {
		fn := eval(`(function() { throw new RangeError("from script") })`)

		err := engine.Run(func(ctx *Context) error {
			_, err := ctx.CallValue(nil, ctx.Wrap(fn))
			Expect(err).To(HaveOccurred())
			Expect(ctx.ExceptionPending()).To(BeTrue())
			ctx.ClearException()
			return nil
		})
		Expect(err).To(BeNil())
	})

	g.When("the message is too long", func() {
		g.It("truncates to the message buffer without splitting characters", func() {
			long := strings.Repeat("a", 510) + "é" + "tail"

			Expect(engine.Run(func(ctx *Context) error {
				v := ctx.NewError("%s", long)
				msg, err := ctx.GetName(v, "message")
				if err != nil {
					return err
				}
				s, err := ctx.StringValue(msg)
				if err != nil {
					return err
				}
				Expect(len(s)).To(BeNumerically("<=", 511))
				Expect(utf8.ValidString(s)).To(BeTrue())
				Expect(s).To(Equal(strings.Repeat("a", 510)))
				return nil
			})).To(Succeed())
		})

		g.It("honors the configured buffer size", func() {
			engine = New(rt, NewConfig().WithMaxMessageLength(8))

			define("short", 0, func(ctx *Context, args *Args) error {
				return ctx.ThrowError("0123456789")
			}, nil)

			Expect(eval(`try { short() } catch (e) { e.message }`).String()).To(Equal("0123456"))
		})
	})

	g.Describe("formatMessage", func() {
		g.DescribeTable("formats and truncates",
			func(limit int, format string, args []any, expected string) {
				Expect(formatMessage(limit, format, args...)).To(Equal(expected))
			},
			g.Entry("no arguments keeps verbs", 16, "100%", nil, "100%"),
			g.Entry("formats arguments", 16, "n=%d", []any{3}, "n=3"),
			g.Entry("exactly limit-1 bytes", 4, "abc", nil, "abc"),
			g.Entry("cuts at limit-1 bytes", 4, "abcd", nil, "abc"),
			g.Entry("drops a split rune", 4, "abé", nil, "ab"),
			g.Entry("no limit", 0, "abcd", nil, "abcd"),
		)
	})
})
