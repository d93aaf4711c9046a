package shim

import (
	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = g.Describe("Strings", g.Label("strings"), func() {
	g.It("creates strings", func() {
		Expect(engine.Run(func(ctx *Context) error {
			empty, err := ctx.StringValue(ctx.NewString())
			Expect(err).To(BeNil())
			Expect(empty).To(BeEmpty())

			s, _ := ctx.StringValue(ctx.NewStringCopy("héllo"))
			Expect(s).To(Equal("héllo"))

			s, _ = ctx.StringValue(ctx.NewStringCopyN("héllo", 2))
			Expect(s).To(Equal("h�"))

			s, _ = ctx.StringValue(ctx.NewStringCopyN("abc", 10))
			Expect(s).To(Equal("abc"))

			s, _ = ctx.StringValue(ctx.NewStringCopy("bad\xffbyte"))
			Expect(s).To(Equal("bad�byte"))
			return nil
		})).To(Succeed())
	})

	g.It("measures strings in UTF-16 units and UTF-8 bytes", func() {
		Expect(engine.Run(func(ctx *Context) error {
			v := ctx.Wrap(eval(`"a€😀"`))

			n, err := ctx.StringLength(v)
			Expect(err).To(BeNil())
			Expect(n).To(Equal(4))

			n, err = ctx.StringUTF8Length(v)
			Expect(err).To(BeNil())
			Expect(n).To(Equal(8))

			n, _ = ctx.StringLength(ctx.NewNumber(12.5))
			Expect(n).To(Equal(4))
			return nil
		})).To(Succeed())
	})

	g.DescribeTable("writes ASCII",
		func(src string, size, start, length int, options WriteOptions, written int, expected []byte) {
			Expect(engine.Run(func(ctx *Context) error {
				buf := make([]byte, size)
				for i := range buf {
					buf[i] = '#'
				}
				n, err := ctx.StringWriteASCII(ctx.NewStringCopy(src), buf, start, length, options)
				Expect(err).To(BeNil())
				Expect(n).To(Equal(written))
				Expect(buf).To(Equal(expected))
				return nil
			})).To(Succeed())
		},
		g.Entry("whole string with terminator", "abc", 5, 0, -1, WriteNoOptions, 3, []byte("abc\x00#")),
		g.Entry("without terminator", "abc", 5, 0, -1, WriteNoNullTermination, 3, []byte("abc##")),
		g.Entry("truncated by the buffer", "abcdef", 3, 0, -1, WriteNoOptions, 3, []byte("abc")),
		g.Entry("from an offset", "abcdef", 4, 2, 2, WriteNoOptions, 2, []byte("cd##")),
		g.Entry("length past the end of the string", "abcdef", 4, 4, 5, WriteNoOptions, 2, []byte("ef\x00#")),
		g.Entry("start past the end", "abc", 2, 5, -1, WriteNoOptions, 0, []byte("\x00#")),
		g.Entry("non-ASCII characters", "é€", 3, 0, -1, WriteNoNullTermination, 2, []byte{0x69, 0x1a, '#'}),
		g.Entry("one byte per UTF-16 unit", "😀b", 4, 0, -1, WriteNoNullTermination, 3, []byte{0x1a, 0x1a, 'b', '#'}),
		g.Entry("offsets in UTF-16 units", "a😀bc", 4, 3, 1, WriteNoOptions, 1, []byte("b###")),
	)

	g.It("fails for values without a string form", func() {
		Expect(engine.Run(func(ctx *Context) error {
			_, err := ctx.StringValue(ctx.Wrap(eval(`Symbol("s")`)))
			Expect(err).To(HaveOccurred())
			Expect(ctx.ExceptionPending()).To(BeTrue())
			ctx.ClearException()
			return nil
		})).To(Succeed())
	})
})
