package types

// GetPrimitiveName returns the builtin name of t after stripping const and mut.
func GetPrimitiveName(t SemType) (TYPE_NAME, bool) {
	if p, ok := Unwrap(t).(*PrimitiveType); ok {
		return p.name, true
	}
	return "", false
}

// Unwrap strips const and mut qualifiers.
func Unwrap(t SemType) SemType {
	for {
		switch q := t.(type) {
		case *ConstType:
			t = q.Inner
		case *MutType:
			t = q.Inner
		default:
			return t
		}
	}
}

func GetNumberBitSize(kind TYPE_NAME) uint16 {
	switch kind {
	case TYPE_S8, TYPE_U8:
		return 8
	case TYPE_S16, TYPE_U16:
		return 16
	case TYPE_S32, TYPE_U32, TYPE_F32:
		return 32
	case TYPE_S64, TYPE_U64, TYPE_F64:
		return 64
	default:
		return 0
	}
}

func IsSignedName(kind TYPE_NAME) bool {
	switch kind {
	case TYPE_S8, TYPE_S16, TYPE_S32, TYPE_S64:
		return true
	default:
		return false
	}
}

func IsUnsignedName(kind TYPE_NAME) bool {
	switch kind {
	case TYPE_U8, TYPE_U16, TYPE_U32, TYPE_U64:
		return true
	default:
		return false
	}
}

func IsFloatName(kind TYPE_NAME) bool {
	return kind == TYPE_F32 || kind == TYPE_F64
}

func IsInteger(t SemType) bool {
	name, ok := GetPrimitiveName(t)
	return ok && (IsSignedName(name) || IsUnsignedName(name))
}

func IsSigned(t SemType) bool {
	name, ok := GetPrimitiveName(t)
	return ok && IsSignedName(name)
}

func IsUnsigned(t SemType) bool {
	name, ok := GetPrimitiveName(t)
	return ok && IsUnsignedName(name)
}

func IsFloat(t SemType) bool {
	name, ok := GetPrimitiveName(t)
	return ok && IsFloatName(name)
}

func IsNumeric(t SemType) bool {
	return IsInteger(t) || IsFloat(t)
}

func IsBool(t SemType) bool {
	name, ok := GetPrimitiveName(t)
	return ok && name == TYPE_BOOL
}

func IsChar(t SemType) bool {
	name, ok := GetPrimitiveName(t)
	return ok && name == TYPE_CHAR
}

func IsVoid(t SemType) bool {
	name, ok := GetPrimitiveName(t)
	return ok && name == TYPE_VOID
}

func IsAddr(t SemType) bool {
	name, ok := GetPrimitiveName(t)
	return ok && name == TYPE_ADDR
}

// IsUnknown reports whether t is missing or the error recovery type.
func IsUnknown(t SemType) bool {
	if t == nil {
		return true
	}
	name, ok := GetPrimitiveName(t)
	return ok && name == TYPE_UNKNOWN
}

func IsPointer(t SemType) bool {
	_, ok := Unwrap(t).(*PointerType)
	return ok
}

// IsPointerLike covers ptr, ptr[T] and addr.
func IsPointerLike(t SemType) bool {
	return IsPointer(t) || IsAddr(t)
}

// PointeeStruct returns S when t is ptr[S].
func PointeeStruct(t SemType) (*StructType, bool) {
	p, ok := Unwrap(t).(*PointerType)
	if !ok || p.Elem == nil {
		return nil, false
	}
	s, ok := Unwrap(p.Elem).(*StructType)
	return s, ok
}

// SignedCounterpart returns the signed integer of the same width as an unsigned one.
// Other types are returned unchanged.
func SignedCounterpart(t SemType) SemType {
	name, ok := GetPrimitiveName(t)
	if !ok {
		return t
	}
	switch name {
	case TYPE_U8:
		return TypeS8
	case TYPE_U16:
		return TypeS16
	case TYPE_U32:
		return TypeS32
	case TYPE_U64:
		return TypeS64
	}
	return t
}

// Rank orders types in the hierarchy used to pick the element type of an
// untyped array literal: the highest ranked element wins.
func Rank(t SemType) int {
	switch t := Unwrap(t).(type) {
	case *PrimitiveType:
		switch t.name {
		case TYPE_BOOL:
			return 1
		case TYPE_CHAR:
			return 2
		case TYPE_U8:
			return 3
		case TYPE_S8:
			return 4
		case TYPE_U16:
			return 5
		case TYPE_S16:
			return 6
		case TYPE_U32:
			return 7
		case TYPE_S32:
			return 8
		case TYPE_U64:
			return 9
		case TYPE_S64:
			return 10
		case TYPE_F32:
			return 11
		case TYPE_F64:
			return 12
		case TYPE_ADDR:
			return 13
		}
		return 0
	case *PointerType:
		if t.Elem == nil {
			return 14
		}
		if _, ok := Unwrap(t.Elem).(*StructType); ok {
			return 16
		}
		return 15
	case *ArrayType:
		return 17
	case *FixedArrayType:
		return 18
	case *EnumType:
		return 19
	case *StructType:
		return 20
	case *FunctionType:
		return 21
	}
	return 0
}
