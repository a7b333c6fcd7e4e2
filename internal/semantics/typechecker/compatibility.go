package typechecker

import (
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// TypeCompatibility represents the relationship between two types
type TypeCompatibility int

const (
	// Incompatible types cannot be used together
	Incompatible TypeCompatibility = iota

	// Identical types are exactly the same
	Identical

	// Assignable means source can be assigned to target without a conversion
	Assignable

	// LosslessConvertible means an implicit widening that keeps every value
	LosslessConvertible

	// LossyConvertible means a narrowing that needs an explicit cast
	LossyConvertible
)

func (tc TypeCompatibility) String() string {
	switch tc {
	case Incompatible:
		return "incompatible"
	case Identical:
		return "identical"
	case Assignable:
		return "assignable"
	case LosslessConvertible:
		return "lossless convertible"
	case LossyConvertible:
		return "lossy convertible"
	default:
		return "unknown"
	}
}

// IsAllowed reports whether the relationship permits an implicit use.
func (tc TypeCompatibility) IsAllowed() bool {
	return tc == Identical || tc == Assignable || tc == LosslessConvertible
}

// checkTypeCompatibility determines if source type can be used where target type is expected.
// const and mut qualifiers do not take part. The unknown type is compatible
// with everything so that one error does not cascade.
func checkTypeCompatibility(source, target types.SemType) TypeCompatibility {
	if types.IsUnknown(source) || types.IsUnknown(target) {
		return Assignable
	}

	src, dst := types.Unwrap(source), types.Unwrap(target)
	if src.Equals(dst) {
		return Identical
	}

	if types.IsNumeric(src) && types.IsNumeric(dst) {
		if isLosslessNumericConversion(src, dst) {
			return LosslessConvertible
		}
		return LossyConvertible
	}

	switch d := dst.(type) {
	case *types.PointerType:
		// any typed pointer may be passed where an opaque ptr is expected
		if s, ok := src.(*types.PointerType); ok && d.IsUntyped() && !s.IsUntyped() {
			return Assignable
		}
	case *types.ArrayType:
		if s, ok := src.(*types.FixedArrayType); ok && s.Elem.Equals(d.Elem) {
			return Assignable
		}
	}

	return Incompatible
}

// losslessConversions lists the implicit widenings.
var losslessConversions = map[types.TYPE_NAME][]types.TYPE_NAME{
	types.TYPE_S8:  {types.TYPE_S16, types.TYPE_S32, types.TYPE_S64, types.TYPE_F32, types.TYPE_F64},
	types.TYPE_S16: {types.TYPE_S32, types.TYPE_S64, types.TYPE_F32, types.TYPE_F64},
	types.TYPE_S32: {types.TYPE_S64, types.TYPE_F64},
	types.TYPE_S64: {types.TYPE_F64},
	types.TYPE_U8:  {types.TYPE_U16, types.TYPE_U32, types.TYPE_U64, types.TYPE_S16, types.TYPE_S32, types.TYPE_S64, types.TYPE_F32, types.TYPE_F64},
	types.TYPE_U16: {types.TYPE_U32, types.TYPE_U64, types.TYPE_S32, types.TYPE_S64, types.TYPE_F32, types.TYPE_F64},
	types.TYPE_U32: {types.TYPE_U64, types.TYPE_S64, types.TYPE_F64},
	types.TYPE_U64: {types.TYPE_F64},
	types.TYPE_F32: {types.TYPE_F64},
}

// isLosslessNumericConversion checks if converting from source to target is lossless
func isLosslessNumericConversion(source, target types.SemType) bool {
	srcName, srcOk := types.GetPrimitiveName(source)
	tgtName, tgtOk := types.GetPrimitiveName(target)
	if !srcOk || !tgtOk {
		return false
	}
	for _, t := range losslessConversions[srcName] {
		if t == tgtName {
			return true
		}
	}
	return false
}

// widerType returns the type both numeric operands widen to, or nil when
// neither converts losslessly into the other.
func widerType(a, b types.SemType) types.SemType {
	switch {
	case types.IsUnknown(a):
		return b
	case types.IsUnknown(b):
		return a
	}
	ua, ub := types.Unwrap(a), types.Unwrap(b)
	switch {
	case ua.Equals(ub):
		return ua
	case isLosslessNumericConversion(ua, ub):
		return ub
	case isLosslessNumericConversion(ub, ua):
		return ua
	}
	return nil
}

// isValidCast reports whether an explicit cast from source to target is allowed
func isValidCast(source, target types.SemType) bool {
	if types.IsUnknown(source) || types.IsUnknown(target) {
		return true
	}
	src, dst := types.Unwrap(source), types.Unwrap(target)
	if src.Equals(dst) {
		return true
	}

	scalar := func(t types.SemType) bool {
		return types.IsNumeric(t) || types.IsBool(t) || types.IsChar(t)
	}
	switch {
	case scalar(src) && types.IsNumeric(dst), types.IsInteger(src) && types.IsChar(dst):
		return true
	case types.IsPointer(src) && types.IsPointer(dst):
		return true
	case types.IsAddr(src) && (types.IsPointer(dst) || types.IsInteger(dst)):
		return true
	case types.IsAddr(dst) && (types.IsPointer(src) || types.IsInteger(src)):
		return true
	}
	if _, ok := src.(*types.EnumType); ok && types.IsInteger(dst) {
		return true
	}
	return false
}

// getConversionError returns a human-readable error message for type incompatibility
func getConversionError(source, target types.SemType, compatibility TypeCompatibility) string {
	switch compatibility {
	case Incompatible:
		return fmt.Sprintf("cannot use type '%s' as type '%s'", source, target)
	case LossyConvertible:
		return fmt.Sprintf("cannot implicitly convert '%s' to '%s' (may lose precision)", source, target)
	case Identical, Assignable, LosslessConvertible:
		return ""
	default:
		return fmt.Sprintf("type mismatch: '%s' and '%s'", source, target)
	}
}

// getTypeRange returns a human-readable range for integer types
func getTypeRange(t types.SemType) string {
	name, ok := types.GetPrimitiveName(t)
	if !ok {
		return "unknown range"
	}
	switch name {
	case types.TYPE_S8:
		return "-128 to 127"
	case types.TYPE_S16:
		return "-32,768 to 32,767"
	case types.TYPE_S32:
		return "-2,147,483,648 to 2,147,483,647"
	case types.TYPE_S64:
		return "-9,223,372,036,854,775,808 to 9,223,372,036,854,775,807"
	case types.TYPE_U8:
		return "0 to 255"
	case types.TYPE_U16:
		return "0 to 65,535"
	case types.TYPE_U32:
		return "0 to 4,294,967,295"
	case types.TYPE_U64:
		return "0 to 18,446,744,073,709,551,615"
	default:
		return "unknown range"
	}
}
