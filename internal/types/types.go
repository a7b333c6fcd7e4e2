package types

import (
	"fmt"
	"strings"
)

// SemType is the semantic representation of types in the Thrush language.
//
// Types are immutable after creation, except that a struct declared ahead of
// its fields gets them filled in once by the forward declarator.
type SemType interface {
	// String returns the type as it is spelled in source
	String() string

	// Equals checks structural equality. Structs compare by name.
	Equals(other SemType) bool

	// Size returns the size in bytes, -1 when unknown
	Size() int

	// isType is a marker method to prevent external implementation
	isType()
}

// PrimitiveType represents the builtin scalar types (s32, bool, addr, ...)
type PrimitiveType struct {
	name TYPE_NAME
	size int
}

func NewPrimitive(name TYPE_NAME) *PrimitiveType {
	return &PrimitiveType{name: name, size: getPrimitiveSize(name)}
}

func (p *PrimitiveType) String() string { return string(p.name) }
func (p *PrimitiveType) Size() int      { return p.size }
func (p *PrimitiveType) isType()        {}
func (p *PrimitiveType) Equals(other SemType) bool {
	if o, ok := other.(*PrimitiveType); ok {
		return p.name == o.name
	}
	return false
}

func (p *PrimitiveType) Name() TYPE_NAME {
	return p.name
}

func getPrimitiveSize(name TYPE_NAME) int {
	switch name {
	case TYPE_S8, TYPE_U8, TYPE_BOOL, TYPE_CHAR:
		return 1
	case TYPE_S16, TYPE_U16:
		return 2
	case TYPE_S32, TYPE_U32, TYPE_F32:
		return 4
	case TYPE_S64, TYPE_U64, TYPE_F64, TYPE_ADDR:
		return 8
	case TYPE_VOID:
		return 0
	default:
		return -1
	}
}

// PointerType is ptr[T], or the untyped ptr when Elem is nil
type PointerType struct {
	Elem SemType
}

func NewPointer(elem SemType) *PointerType {
	return &PointerType{Elem: elem}
}

func (p *PointerType) String() string {
	if p.Elem == nil {
		return "ptr"
	}
	return fmt.Sprintf("ptr[%s]", p.Elem)
}

func (p *PointerType) Size() int { return 8 }
func (p *PointerType) isType()   {}
func (p *PointerType) Equals(other SemType) bool {
	o, ok := other.(*PointerType)
	if !ok {
		return false
	}
	if p.Elem == nil || o.Elem == nil {
		return p.Elem == nil && o.Elem == nil
	}
	return p.Elem.Equals(o.Elem)
}

// IsUntyped reports whether this is the opaque ptr
func (p *PointerType) IsUntyped() bool {
	return p.Elem == nil
}

// FixedArrayType is array[T; N]
type FixedArrayType struct {
	Elem   SemType
	Length int
}

func NewFixedArray(elem SemType, length int) *FixedArrayType {
	return &FixedArrayType{Elem: elem, Length: length}
}

func (a *FixedArrayType) String() string {
	return fmt.Sprintf("array[%s; %d]", a.Elem, a.Length)
}

func (a *FixedArrayType) Size() int {
	elem := a.Elem.Size()
	if elem < 0 {
		return -1
	}
	return elem * a.Length
}

func (a *FixedArrayType) isType() {}
func (a *FixedArrayType) Equals(other SemType) bool {
	if o, ok := other.(*FixedArrayType); ok {
		return a.Length == o.Length && a.Elem.Equals(o.Elem)
	}
	return false
}

// ArrayType is the growable array[T]
type ArrayType struct {
	Elem SemType
}

func NewArray(elem SemType) *ArrayType {
	return &ArrayType{Elem: elem}
}

func (a *ArrayType) String() string { return fmt.Sprintf("array[%s]", a.Elem) }
func (a *ArrayType) Size() int      { return 16 } // pointer + length
func (a *ArrayType) isType()        {}
func (a *ArrayType) Equals(other SemType) bool {
	if o, ok := other.(*ArrayType); ok {
		return a.Elem.Equals(o.Elem)
	}
	return false
}

// StructLayout is the layout modifier of a struct
type StructLayout int

const (
	LayoutDefault StructLayout = iota
	LayoutPacked
)

func (l StructLayout) String() string {
	if l == LayoutPacked {
		return "packed"
	}
	return "default"
}

type StructField struct {
	Name string
	Type SemType
}

// StructType represents a named struct. Equality is nominal, so a struct
// that points to itself through a pointer field never recurses.
type StructType struct {
	Name   string
	Fields []StructField
	Layout StructLayout
}

func NewStruct(name string, fields []StructField) *StructType {
	return &StructType{Name: name, Fields: fields}
}

func (s *StructType) String() string { return s.Name }

// Describe spells out the fields, one level deep.
func (s *StructType) Describe() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return fmt.Sprintf("struct %s { %s }", s.Name, strings.Join(fields, ", "))
}

func (s *StructType) Size() int {
	size, align := 0, 1
	for _, f := range s.Fields {
		fs := f.Type.Size()
		if fs < 0 {
			return -1
		}
		if s.Layout == LayoutDefault {
			a := alignOf(f.Type)
			if a > align {
				align = a
			}
			size = (size + a - 1) / a * a
		}
		size += fs
	}
	if s.Layout == LayoutDefault {
		size = (size + align - 1) / align * align
	}
	return size
}

func (s *StructType) isType() {}
func (s *StructType) Equals(other SemType) bool {
	if o, ok := other.(*StructType); ok {
		return s == o || s.Name == o.Name
	}
	return false
}

// Field returns the field called name and its index.
func (s *StructType) Field(name string) (StructField, int, bool) {
	for i, f := range s.Fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return StructField{}, -1, false
}

func alignOf(t SemType) int {
	switch t := t.(type) {
	case *FixedArrayType:
		return alignOf(t.Elem)
	case *StructType:
		a := 1
		for _, f := range t.Fields {
			if fa := alignOf(f.Type); fa > a {
				a = fa
			}
		}
		return a
	case *ArrayType:
		return 8
	case *ConstType:
		return alignOf(t.Inner)
	case *MutType:
		return alignOf(t.Inner)
	case *EnumType:
		return alignOf(t.Base)
	}
	if s := t.Size(); s > 0 && s <= 8 {
		return s
	}
	return 1
}

// FunctionType is a function signature. Variadic functions accept extra
// arguments after the declared ones.
type FunctionType struct {
	Params     []SemType
	Return     SemType
	Convention string
	Variadic   bool
}

func NewFunction(params []SemType, ret SemType) *FunctionType {
	return &FunctionType{Params: params, Return: ret}
}

func (f *FunctionType) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	if f.Variadic {
		params = append(params, "...")
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), f.Return)
}

func (f *FunctionType) Size() int { return 8 } // function pointer
func (f *FunctionType) isType()   {}

func (f *FunctionType) Equals(other SemType) bool {
	o, ok := other.(*FunctionType)
	if !ok {
		return false
	}
	if f.Variadic != o.Variadic || len(f.Params) != len(o.Params) {
		return false
	}
	if !f.Return.Equals(o.Return) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equals(o.Params[i]) {
			return false
		}
	}
	return true
}

// ConstType is const T
type ConstType struct {
	Inner SemType
}

func NewConst(inner SemType) *ConstType {
	return &ConstType{Inner: inner}
}

func (c *ConstType) String() string { return "const " + c.Inner.String() }
func (c *ConstType) Size() int      { return c.Inner.Size() }
func (c *ConstType) isType()        {}
func (c *ConstType) Equals(other SemType) bool {
	if o, ok := other.(*ConstType); ok {
		return c.Inner.Equals(o.Inner)
	}
	return false
}

// MutType is mut T
type MutType struct {
	Inner SemType
}

func NewMut(inner SemType) *MutType {
	return &MutType{Inner: inner}
}

func (m *MutType) String() string { return "mut " + m.Inner.String() }
func (m *MutType) Size() int      { return m.Inner.Size() }
func (m *MutType) isType()        {}
func (m *MutType) Equals(other SemType) bool {
	if o, ok := other.(*MutType); ok {
		return m.Inner.Equals(o.Inner)
	}
	return false
}

// EnumType is a named enumeration stored as an integer
type EnumType struct {
	Name     string
	Base     SemType
	Variants []string
}

func NewEnum(name string, base SemType, variants []string) *EnumType {
	return &EnumType{Name: name, Base: base, Variants: variants}
}

func (e *EnumType) String() string { return e.Name }
func (e *EnumType) Size() int      { return e.Base.Size() }
func (e *EnumType) isType()        {}
func (e *EnumType) Equals(other SemType) bool {
	if o, ok := other.(*EnumType); ok {
		return e == o || e.Name == o.Name
	}
	return false
}

// HasVariant reports whether name is one of the enum's variants.
func (e *EnumType) HasVariant(name string) bool {
	for _, v := range e.Variants {
		if v == name {
			return true
		}
	}
	return false
}
