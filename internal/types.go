package shim

// Type is the classification tag carried by every Value.
type Type int

const (
	TypeUnknown Type = iota
	TypeUndefined
	TypeNull
	TypeBool
	TypeInteger
	TypeInt32
	TypeUint32
	TypeNumber
	TypeString
	TypeArray
	TypeObject
	TypeFunction
	TypeExternal
	TypeDate
	TypeBuffer
)

var typeNames = [...]string{
	TypeUnknown:   "unknown",
	TypeUndefined: "undefined",
	TypeNull:      "null",
	TypeBool:      "boolean",
	TypeInteger:   "integer",
	TypeInt32:     "int32",
	TypeUint32:    "uint32",
	TypeNumber:    "number",
	TypeString:    "string",
	TypeArray:     "array",
	TypeObject:    "object",
	TypeFunction:  "function",
	TypeExternal:  "external",
	TypeDate:      "date",
	TypeBuffer:    "buffer",
}

// String returns the name used in type mismatch messages.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// TypeName is the free-function form of Type.String.
func TypeName(t Type) string {
	return t.String()
}
