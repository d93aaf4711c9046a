package shim

import (
	internal "github.com/jerbob92/goja-shim/internal"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

type (
	Engine         = internal.Engine
	Config         = internal.Config
	Context        = internal.Context
	Value          = internal.Value
	ValueStats     = internal.ValueStats
	Type           = internal.Type
	Args           = internal.Args
	Func           = internal.Func
	FuncFlags      = internal.FuncFlags
	FuncSpec       = internal.FuncSpec
	Target         = internal.Target
	Persistent     = internal.Persistent
	WeakFunc       = internal.WeakFunc
	Work           = internal.Work
	WorkFunc       = internal.WorkFunc
	AfterWorkFunc  = internal.AfterWorkFunc
	BufferFreeFunc = internal.BufferFreeFunc
	WriteOptions   = internal.WriteOptions
	ErrorKind      = internal.ErrorKind
	Exception      = internal.Exception
	Error          = internal.Error
	Kind           = internal.Kind
	Numeric        = internal.Numeric
)

const (
	TypeUnknown   = internal.TypeUnknown
	TypeUndefined = internal.TypeUndefined
	TypeNull      = internal.TypeNull
	TypeBool      = internal.TypeBool
	TypeInteger   = internal.TypeInteger
	TypeInt32     = internal.TypeInt32
	TypeUint32    = internal.TypeUint32
	TypeNumber    = internal.TypeNumber
	TypeString    = internal.TypeString
	TypeArray     = internal.TypeArray
	TypeObject    = internal.TypeObject
	TypeFunction  = internal.TypeFunction
	TypeExternal  = internal.TypeExternal
	TypeDate      = internal.TypeDate
	TypeBuffer    = internal.TypeBuffer
)

const (
	ErrorKindGeneric = internal.ErrorKindGeneric
	ErrorKindType    = internal.ErrorKindType
	ErrorKindRange   = internal.ErrorKindRange
)

const (
	KindTypeMismatch   = internal.KindTypeMismatch
	KindCoercion       = internal.KindCoercion
	KindNotFunction    = internal.KindNotFunction
	KindCallbackFailed = internal.KindCallbackFailed
	KindMemory         = internal.KindMemory
)

const (
	FlagConstructor        = internal.FlagConstructor
	WriteNoOptions         = internal.WriteNoOptions
	WriteNoNullTermination = internal.WriteNoNullTermination
	StatusOK               = internal.StatusOK
	StatusPanicked         = internal.StatusPanicked
)

var (
	ErrCallbackFailed = internal.ErrCallbackFailed
	ErrTypeMismatch   = internal.ErrTypeMismatch
	ErrCoercion       = internal.ErrCoercion
	ErrNotFunction    = internal.ErrNotFunction

	// Done ends an Unpack target list early.
	Done = internal.Done
)

// New creates an engine for rt. A nil config uses the defaults.
func New(rt *goja.Runtime, config Config) *Engine {
	return internal.New(rt, config)
}

// NewConfig returns the default engine configuration.
func NewConfig() Config {
	return internal.NewConfig()
}

// Undefined returns the undefined sentinel.
func Undefined() *Value {
	return internal.Undefined()
}

// Null returns the null sentinel.
func Null() *Value {
	return internal.Null()
}

func TypeName(t Type) string {
	return internal.TypeName(t)
}

func IsKind(err error, kind Kind) bool {
	return internal.IsKind(err, kind)
}

func Bool(dst *bool) Target { return internal.Bool(dst) }
func Integer(dst *int64) Target { return internal.Integer(dst) }
func Int32(dst *int32) Target { return internal.Int32(dst) }
func Uint32(dst *uint32) Target { return internal.Uint32(dst) }
func Number(dst *float64) Target { return internal.Number(dst) }
func External(dst *any) Target { return internal.External(dst) }
func Buffer(dst *[]byte) Target { return internal.Buffer(dst) }
func String(dst **Value) Target { return internal.String(dst) }
func Typed(t Type, dst any) Target { return internal.Typed(t, dst) }

// ArgsData returns the registration data of the called function as T.
func ArgsData[T any](a *Args) (T, bool) {
	return internal.ArgsData[T](a)
}

// BufferView reinterprets the bytes of a buffer as a slice of T.
func BufferView[T Numeric](ctx *Context, v *Value) ([]T, bool) {
	return internal.BufferView[T](ctx, v)
}

// Logger returns the package logger, a no-op logger unless SetLogger was
// called.
func Logger() *zap.Logger {
	return internal.Logger()
}

// SetLogger replaces the package logger used by engines created without
// Config.WithLogger.
func SetLogger(l *zap.Logger) {
	internal.SetLogger(l)
}
