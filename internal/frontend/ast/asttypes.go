package ast

import (
	"github.com/thrushlang/thrushc-sub007/internal/source"
)

// NamedType is a builtin or user type referenced by name
type NamedType struct {
	Name string
	source.Location
}

func (n *NamedType) INode()                {}
func (n *NamedType) TypeExpr()             {}
func (n *NamedType) Loc() *source.Location { return &n.Location }

// PtrType is ptr[T], or the untyped ptr when Elem is nil
type PtrType struct {
	Elem TypeNode
	source.Location
}

func (p *PtrType) INode()                {}
func (p *PtrType) TypeExpr()             {}
func (p *PtrType) Loc() *source.Location { return &p.Location }

// AddrType is the opaque address type
type AddrType struct {
	source.Location
}

func (a *AddrType) INode()                {}
func (a *AddrType) TypeExpr()             {}
func (a *AddrType) Loc() *source.Location { return &a.Location }

// ArrayType is the growable array[T]
type ArrayType struct {
	Elem TypeNode
	source.Location
}

func (a *ArrayType) INode()                {}
func (a *ArrayType) TypeExpr()             {}
func (a *ArrayType) Loc() *source.Location { return &a.Location }

// FixedArrayType is array[T; N]
type FixedArrayType struct {
	Elem   TypeNode
	Length int
	source.Location
}

func (a *FixedArrayType) INode()                {}
func (a *FixedArrayType) TypeExpr()             {}
func (a *FixedArrayType) Loc() *source.Location { return &a.Location }

type ConstType struct {
	Inner TypeNode
	source.Location
}

func (c *ConstType) INode()                {}
func (c *ConstType) TypeExpr()             {}
func (c *ConstType) Loc() *source.Location { return &c.Location }

type MutType struct {
	Inner TypeNode
	source.Location
}

func (m *MutType) INode()                {}
func (m *MutType) TypeExpr()             {}
func (m *MutType) Loc() *source.Location { return &m.Location }

// FnType is a function pointer type
type FnType struct {
	Params   []TypeNode
	Return   TypeNode
	Variadic bool
	source.Location
}

func (f *FnType) INode()                {}
func (f *FnType) TypeExpr()             {}
func (f *FnType) Loc() *source.Location { return &f.Location }
