package types

type TYPE_NAME string

const (
	TYPE_S8   TYPE_NAME = "s8"
	TYPE_S16  TYPE_NAME = "s16"
	TYPE_S32  TYPE_NAME = "s32"
	TYPE_S64  TYPE_NAME = "s64"
	TYPE_U8   TYPE_NAME = "u8"
	TYPE_U16  TYPE_NAME = "u16"
	TYPE_U32  TYPE_NAME = "u32"
	TYPE_U64  TYPE_NAME = "u64"
	TYPE_F32  TYPE_NAME = "f32"
	TYPE_F64  TYPE_NAME = "f64"
	TYPE_BOOL TYPE_NAME = "bool"
	TYPE_CHAR TYPE_NAME = "char"
	TYPE_VOID TYPE_NAME = "void"
	TYPE_ADDR TYPE_NAME = "addr"

	// TYPE_UNKNOWN is given to expressions that failed to type so one error does not cascade.
	TYPE_UNKNOWN TYPE_NAME = "unknown"
)

// DEFAULT_FLOAT_TYPE is the type of a float literal with no expected type.
// The integer default comes from the configuration.
const DEFAULT_FLOAT_TYPE TYPE_NAME = TYPE_F64

var (
	TypeS8      = NewPrimitive(TYPE_S8)
	TypeS16     = NewPrimitive(TYPE_S16)
	TypeS32     = NewPrimitive(TYPE_S32)
	TypeS64     = NewPrimitive(TYPE_S64)
	TypeU8      = NewPrimitive(TYPE_U8)
	TypeU16     = NewPrimitive(TYPE_U16)
	TypeU32     = NewPrimitive(TYPE_U32)
	TypeU64     = NewPrimitive(TYPE_U64)
	TypeF32     = NewPrimitive(TYPE_F32)
	TypeF64     = NewPrimitive(TYPE_F64)
	TypeBool    = NewPrimitive(TYPE_BOOL)
	TypeChar    = NewPrimitive(TYPE_CHAR)
	TypeVoid    = NewPrimitive(TYPE_VOID)
	TypeAddr    = NewPrimitive(TYPE_ADDR)
	TypeUnknown = NewPrimitive(TYPE_UNKNOWN)
)

var primitives = map[TYPE_NAME]*PrimitiveType{
	TYPE_S8:   TypeS8,
	TYPE_S16:  TypeS16,
	TYPE_S32:  TypeS32,
	TYPE_S64:  TypeS64,
	TYPE_U8:   TypeU8,
	TYPE_U16:  TypeU16,
	TYPE_U32:  TypeU32,
	TYPE_U64:  TypeU64,
	TYPE_F32:  TypeF32,
	TYPE_F64:  TypeF64,
	TYPE_BOOL: TypeBool,
	TYPE_CHAR: TypeChar,
	TYPE_VOID: TypeVoid,
	TYPE_ADDR: TypeAddr,
}

// FromName returns the builtin type spelled name. The unknown type has no spelling.
func FromName(name string) (SemType, bool) {
	t, ok := primitives[TYPE_NAME(name)]
	if !ok {
		return nil, false
	}
	return t, true
}

// IsBuiltinName reports whether name is reserved for a builtin type.
func IsBuiltinName(name string) bool {
	_, ok := primitives[TYPE_NAME(name)]
	return ok
}
