package typechecker

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/thrushlang/thrushc-sub007/internal/types"
)

func TestCheckTypeCompatibility(t *testing.T) {
	point := types.NewStruct("Point", []types.StructField{{Name: "x", Type: types.TypeS32}})
	tests := []struct {
		source   types.SemType
		target   types.SemType
		expected TypeCompatibility
	}{
		// Identical types
		{types.TypeS32, types.TypeS32, Identical},
		{types.TypeF64, types.TypeF64, Identical},
		{types.NewPointer(types.TypeU8), types.NewPointer(types.TypeU8), Identical},
		{point, types.NewStruct("Point", nil), Identical},

		// Qualifiers do not take part
		{types.NewConst(types.TypeS32), types.TypeS32, Identical},
		{types.TypeS32, types.NewMut(types.TypeS32), Identical},

		// Unknown never cascades
		{types.TypeUnknown, types.TypeBool, Assignable},
		{types.TypeS32, nil, Assignable},

		// Lossless conversions - integers
		{types.TypeS8, types.TypeS16, LosslessConvertible},
		{types.TypeS8, types.TypeS64, LosslessConvertible},
		{types.TypeU8, types.TypeU16, LosslessConvertible},
		{types.TypeU8, types.TypeS16, LosslessConvertible},
		{types.TypeU32, types.TypeS64, LosslessConvertible},

		// Lossless conversions - floats and int to float
		{types.TypeF32, types.TypeF64, LosslessConvertible},
		{types.TypeS8, types.TypeF32, LosslessConvertible},
		{types.TypeS32, types.TypeF64, LosslessConvertible},

		// Lossy conversions
		{types.TypeS32, types.TypeS16, LossyConvertible},
		{types.TypeS8, types.TypeU8, LossyConvertible},
		{types.TypeU64, types.TypeS64, LossyConvertible},
		{types.TypeF64, types.TypeF32, LossyConvertible},
		{types.TypeS64, types.TypeF32, LossyConvertible},

		// Pointers and arrays
		{types.NewPointer(types.TypeU8), types.NewPointer(nil), Assignable},
		{types.NewPointer(nil), types.NewPointer(types.TypeU8), Incompatible},
		{types.NewPointer(types.TypeU8), types.NewPointer(types.TypeS8), Incompatible},
		{types.NewFixedArray(types.TypeS32, 3), types.NewArray(types.TypeS32), Assignable},
		{types.NewFixedArray(types.TypeS32, 3), types.NewFixedArray(types.TypeS32, 4), Incompatible},

		// Incompatible
		{types.TypeS32, types.TypeBool, Incompatible},
		{types.TypeChar, types.TypeU8, Incompatible},
		{types.TypeAddr, types.NewPointer(nil), Incompatible},
		{point, types.NewStruct("Other", nil), Incompatible},
	}

	for _, tt := range tests {
		be.Equal(t, checkTypeCompatibility(tt.source, tt.target), tt.expected)
	}
}

func TestIsLosslessNumericConversion(t *testing.T) {
	tests := []struct {
		source   types.SemType
		target   types.SemType
		expected bool
	}{
		{types.TypeS8, types.TypeS16, true},
		{types.TypeS16, types.TypeS32, true},
		{types.TypeS32, types.TypeS64, true},
		{types.TypeU16, types.TypeU32, true},
		{types.TypeU16, types.TypeS32, true},
		{types.TypeU8, types.TypeF32, true},
		{types.TypeF32, types.TypeF64, true},

		// narrowing or sign change
		{types.TypeS32, types.TypeS16, false},
		{types.TypeS16, types.TypeU16, false},
		{types.TypeU32, types.TypeS32, false},
		{types.TypeF64, types.TypeF32, false},
		{types.TypeS32, types.TypeF32, false},

		// float to int is never lossless
		{types.TypeF32, types.TypeS64, false},

		// not numeric
		{types.TypeBool, types.TypeS32, false},
	}

	for _, tt := range tests {
		be.Equal(t, isLosslessNumericConversion(tt.source, tt.target), tt.expected)
	}
}

func TestWiderType(t *testing.T) {
	tests := []struct {
		a, b types.SemType
		want types.SemType
	}{
		{types.TypeS32, types.TypeS32, types.TypeS32},
		{types.TypeS8, types.TypeS32, types.TypeS32},
		{types.TypeS64, types.TypeU16, types.TypeS64},
		{types.TypeU8, types.TypeF64, types.TypeF64},
		{types.TypeUnknown, types.TypeU8, types.TypeU8},
		{types.NewMut(types.TypeS16), types.TypeS8, types.TypeS16},
		{types.TypeS32, types.TypeU32, nil},
		{types.TypeU64, types.TypeS64, nil},
	}
	for _, tt := range tests {
		be.Equal(t, widerType(tt.a, tt.b), tt.want)
	}
}

func TestIsValidCast(t *testing.T) {
	color := types.NewEnum("Color", types.TypeU8, []string{"Red"})
	tests := []struct {
		source, target types.SemType
		want           bool
	}{
		{types.TypeS64, types.TypeU8, true},
		{types.TypeF64, types.TypeS32, true},
		{types.TypeBool, types.TypeU8, true},
		{types.TypeChar, types.TypeU32, true},
		{types.TypeU8, types.TypeChar, true},
		{types.NewPointer(types.TypeU8), types.NewPointer(nil), true},
		{types.NewPointer(types.TypeU8), types.TypeAddr, true},
		{types.TypeAddr, types.NewPointer(types.TypeS32), true},
		{types.TypeU64, types.TypeAddr, true},
		{color, types.TypeS32, true},
		{types.TypeUnknown, types.TypeBool, true},

		{types.TypeS32, types.TypeBool, false},
		{types.TypeS32, color, false},
		{types.NewPointer(types.TypeU8), types.TypeS64, false},
		{types.NewStruct("P", nil), types.TypeS32, false},
	}
	for _, tt := range tests {
		be.Equal(t, isValidCast(tt.source, tt.target), tt.want)
	}
}

func TestGetConversionError(t *testing.T) {
	tests := []struct {
		source        types.SemType
		target        types.SemType
		compatibility TypeCompatibility
		expectError   bool
	}{
		{types.TypeS32, types.TypeBool, Incompatible, true},
		{types.TypeS64, types.TypeS32, LossyConvertible, true},
		{types.TypeS32, types.TypeS32, Identical, false},
		{types.NewPointer(types.TypeU8), types.NewPointer(nil), Assignable, false},
		{types.TypeS32, types.TypeS64, LosslessConvertible, false},
	}

	for _, tt := range tests {
		result := getConversionError(tt.source, tt.target, tt.compatibility)
		be.Equal(t, result != "", tt.expectError)
	}
}

func TestGetTypeRange(t *testing.T) {
	be.Equal(t, getTypeRange(types.TypeU8), "0 to 255")
	be.Equal(t, getTypeRange(types.TypeS8), "-128 to 127")
	be.Equal(t, getTypeRange(types.TypeF32), "unknown range")
}
