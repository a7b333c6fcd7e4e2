package ast

import (
	"github.com/thrushlang/thrushc-sub007/internal/source"
)

// Param is a function parameter. Mutable parameters may be assigned in the body.
type Param struct {
	Name    *IdentifierExpr
	Type    TypeNode
	Mutable bool
	source.Location
}

func (p *Param) INode()                {}
func (p *Param) Loc() *source.Location { return &p.Location }

// FuncDecl is a function. Body is nil for external declarations.
type FuncDecl struct {
	Name       *IdentifierExpr
	Params     []*Param
	Return     TypeNode // nil means void
	Body       *Block
	Attributes []Attribute
	source.Location
}

func (f *FuncDecl) INode()                    {}
func (f *FuncDecl) Decl()                     {}
func (f *FuncDecl) DeclName() *IdentifierExpr { return f.Name }
func (f *FuncDecl) Attrs() []Attribute        { return f.Attributes }
func (f *FuncDecl) Loc() *source.Location     { return &f.Location }

// AsmFuncDecl is a function whose body is inline assembly
type AsmFuncDecl struct {
	Name        *IdentifierExpr
	Params      []*Param
	Return      TypeNode
	Assembly    string
	Constraints string
	Attributes  []Attribute
	source.Location
}

func (a *AsmFuncDecl) INode()                    {}
func (a *AsmFuncDecl) Decl()                     {}
func (a *AsmFuncDecl) DeclName() *IdentifierExpr { return a.Name }
func (a *AsmFuncDecl) Attrs() []Attribute        { return a.Attributes }
func (a *AsmFuncDecl) Loc() *source.Location     { return &a.Location }

// EntrypointDecl is the program entry `fn main() {}`. It has no name of its own.
type EntrypointDecl struct {
	Body       *Block
	Attributes []Attribute
	source.Location
}

func (e *EntrypointDecl) INode()                    {}
func (e *EntrypointDecl) Decl()                     {}
func (e *EntrypointDecl) DeclName() *IdentifierExpr { return nil }
func (e *EntrypointDecl) Attrs() []Attribute        { return e.Attributes }
func (e *EntrypointDecl) Loc() *source.Location     { return &e.Location }

// FieldDecl is one struct field
type FieldDecl struct {
	Name *IdentifierExpr
	Type TypeNode
	source.Location
}

// StructDecl declares a struct. It may appear at top level or inside a body.
type StructDecl struct {
	Name       *IdentifierExpr
	Fields     []*FieldDecl
	Attributes []Attribute
	source.Location
}

func (s *StructDecl) INode()                    {}
func (s *StructDecl) Decl()                     {}
func (s *StructDecl) Stmt()                     {}
func (s *StructDecl) DeclName() *IdentifierExpr { return s.Name }
func (s *StructDecl) Attrs() []Attribute        { return s.Attributes }
func (s *StructDecl) Loc() *source.Location     { return &s.Location }

type EnumVariant struct {
	Name  *IdentifierExpr
	Value Expression // nil for an implicit value
	source.Location
}

// EnumDecl declares an enum stored as Base (s32 when nil)
type EnumDecl struct {
	Name       *IdentifierExpr
	Base       TypeNode
	Variants   []*EnumVariant
	Attributes []Attribute
	source.Location
}

func (e *EnumDecl) INode()                    {}
func (e *EnumDecl) Decl()                     {}
func (e *EnumDecl) DeclName() *IdentifierExpr { return e.Name }
func (e *EnumDecl) Attrs() []Attribute        { return e.Attributes }
func (e *EnumDecl) Loc() *source.Location     { return &e.Location }

// ConstDecl declares a compile-time constant. It may appear at top level or inside a body.
type ConstDecl struct {
	Name       *IdentifierExpr
	Type       TypeNode // nil when inferred from Value
	Value      Expression
	Attributes []Attribute
	source.Location
}

func (c *ConstDecl) INode()                    {}
func (c *ConstDecl) Decl()                     {}
func (c *ConstDecl) Stmt()                     {}
func (c *ConstDecl) DeclName() *IdentifierExpr { return c.Name }
func (c *ConstDecl) Attrs() []Attribute        { return c.Attributes }
func (c *ConstDecl) Loc() *source.Location     { return &c.Location }

// StaticDecl declares a global variable
type StaticDecl struct {
	Name        *IdentifierExpr
	Type        TypeNode
	Value       Expression // nil for an external or zeroed static
	Mutable     bool
	Volatile    bool
	ThreadLocal bool
	Atomic      bool
	Attributes  []Attribute
	source.Location
}

func (s *StaticDecl) INode()                    {}
func (s *StaticDecl) Decl()                     {}
func (s *StaticDecl) DeclName() *IdentifierExpr { return s.Name }
func (s *StaticDecl) Attrs() []Attribute        { return s.Attributes }
func (s *StaticDecl) Loc() *source.Location     { return &s.Location }

// TypeAliasDecl is `type Name = T`
type TypeAliasDecl struct {
	Name       *IdentifierExpr
	Type       TypeNode
	Attributes []Attribute
	source.Location
}

func (t *TypeAliasDecl) INode()                    {}
func (t *TypeAliasDecl) Decl()                     {}
func (t *TypeAliasDecl) DeclName() *IdentifierExpr { return t.Name }
func (t *TypeAliasDecl) Attrs() []Attribute        { return t.Attributes }
func (t *TypeAliasDecl) Loc() *source.Location     { return &t.Location }

// DeclKind names the kind of a declaration as used in diagnostics.
func DeclKind(d Decl) string {
	switch d.(type) {
	case *FuncDecl:
		return "function"
	case *AsmFuncDecl:
		return "assembler function"
	case *EntrypointDecl:
		return "entrypoint"
	case *StructDecl:
		return "struct"
	case *EnumDecl:
		return "enum"
	case *ConstDecl:
		return "constant"
	case *StaticDecl:
		return "static"
	case *TypeAliasDecl:
		return "type alias"
	default:
		return "declaration"
	}
}
