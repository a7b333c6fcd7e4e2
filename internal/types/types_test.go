package types

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestTypeString(t *testing.T) {
	point := NewStruct("Point", []StructField{{"x", TypeS32}, {"y", TypeS32}})

	tests := []struct {
		typ  SemType
		want string
	}{
		{TypeS32, "s32"},
		{TypeAddr, "addr"},
		{NewPointer(nil), "ptr"},
		{NewPointer(TypeU8), "ptr[u8]"},
		{NewFixedArray(TypeChar, 4), "array[char; 4]"},
		{NewArray(point), "array[Point]"},
		{NewConst(NewPointer(TypeChar)), "const ptr[char]"},
		{NewMut(point), "mut Point"},
		{NewFunction([]SemType{TypeS32, TypeF64}, TypeVoid), "fn(s32, f64) -> void"},
		{&FunctionType{Params: []SemType{NewPointer(TypeChar)}, Return: TypeS32, Variadic: true}, "fn(ptr[char], ...) -> s32"},
	}

	for _, tt := range tests {
		be.Equal(t, tt.typ.String(), tt.want)
	}
	be.Equal(t, point.Describe(), "struct Point { x: s32, y: s32 }")
}

func TestEquals(t *testing.T) {
	be.True(t, TypeS32.Equals(NewPrimitive(TYPE_S32)))
	be.True(t, !TypeS32.Equals(TypeU32))
	be.True(t, NewPointer(nil).Equals(NewPointer(nil)))
	be.True(t, !NewPointer(nil).Equals(NewPointer(TypeS8)))
	be.True(t, NewPointer(TypeS8).Equals(NewPointer(TypeS8)))
	be.True(t, !NewFixedArray(TypeS8, 2).Equals(NewFixedArray(TypeS8, 3)))
	be.True(t, !NewArray(TypeS8).Equals(NewFixedArray(TypeS8, 3)))
	be.True(t, !NewConst(TypeS8).Equals(TypeS8))
	be.True(t, NewMut(TypeS8).Equals(NewMut(TypeS8)))

	f1 := NewFunction([]SemType{TypeS32}, TypeVoid)
	f2 := NewFunction([]SemType{TypeS32}, TypeVoid)
	f2.Variadic = true
	be.True(t, f1.Equals(NewFunction([]SemType{TypeS32}, TypeVoid)))
	be.True(t, !f1.Equals(f2))
}

func TestSelfReferentialStructEquality(t *testing.T) {
	node := NewStruct("Node", nil)
	node.Fields = []StructField{{"value", TypeS32}, {"next", NewPointer(node)}}

	other := NewStruct("Node", nil)
	other.Fields = []StructField{{"value", TypeS32}, {"next", NewPointer(other)}}

	be.True(t, node.Equals(node))
	be.True(t, node.Equals(other))
	be.True(t, NewPointer(node).Equals(NewPointer(other)))
	be.True(t, !node.Equals(NewStruct("Leaf", nil)))
}

func TestSize(t *testing.T) {
	mixed := []StructField{{"a", TypeU8}, {"b", TypeS32}, {"c", TypeU8}}
	packed := NewStruct("P", mixed)
	packed.Layout = LayoutPacked

	be.Equal(t, TypeS16.Size(), 2)
	be.Equal(t, TypeVoid.Size(), 0)
	be.Equal(t, TypeUnknown.Size(), -1)
	be.Equal(t, NewFixedArray(TypeS32, 4).Size(), 16)
	be.Equal(t, NewStruct("D", mixed).Size(), 12)
	be.Equal(t, packed.Size(), 6)
	be.Equal(t, NewEnum("Color", TypeU8, nil).Size(), 1)
}

func TestStructField(t *testing.T) {
	point := NewStruct("Point", []StructField{{"x", TypeS32}, {"y", TypeF64}})

	f, idx, ok := point.Field("y")
	be.True(t, ok)
	be.Equal(t, idx, 1)
	be.Equal(t, f.Type, SemType(TypeF64))

	_, _, ok = point.Field("z")
	be.True(t, !ok)
}

func TestFromName(t *testing.T) {
	typ, ok := FromName("u16")
	be.True(t, ok)
	be.True(t, typ.Equals(TypeU16))

	_, ok = FromName("unknown")
	be.True(t, !ok)
	_, ok = FromName("Point")
	be.True(t, !ok)
	be.True(t, IsBuiltinName("addr"))
}
