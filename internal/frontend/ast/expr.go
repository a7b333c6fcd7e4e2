package ast

import (
	"github.com/thrushlang/thrushc-sub007/internal/source"
)

// LitKind is the spelling class of a literal
type LitKind int

const (
	INT LitKind = iota
	FLOAT
	BOOL
	CHAR
	STRING
	NULL
)

func (k LitKind) String() string {
	switch k {
	case INT:
		return "integer"
	case FLOAT:
		return "float"
	case BOOL:
		return "boolean"
	case CHAR:
		return "char"
	case STRING:
		return "string"
	case NULL:
		return "null"
	default:
		return "unknown"
	}
}

// BasicLit represents a literal of basic type
type BasicLit struct {
	Kind  LitKind
	Value string // raw spelling, without quotes for strings and chars
	source.Location
}

func (b *BasicLit) INode()                {}
func (b *BasicLit) Expr()                 {}
func (b *BasicLit) Loc() *source.Location { return &b.Location }

// IdentifierExpr represents a name reference
type IdentifierExpr struct {
	Name string
	source.Location
}

func (i *IdentifierExpr) INode()                {}
func (i *IdentifierExpr) Expr()                 {}
func (i *IdentifierExpr) Loc() *source.Location { return &i.Location }

// BinaryExpr represents a binary expression like a + b
type BinaryExpr struct {
	X  Expression
	Op string
	Y  Expression
	source.Location
}

func (b *BinaryExpr) INode()                {}
func (b *BinaryExpr) Expr()                 {}
func (b *BinaryExpr) Loc() *source.Location { return &b.Location }

// UnaryExpr represents -x, !x or ~x
type UnaryExpr struct {
	Op string
	X  Expression
	source.Location
}

func (u *UnaryExpr) INode()                {}
func (u *UnaryExpr) Expr()                 {}
func (u *UnaryExpr) Loc() *source.Location { return &u.Location }

// CallExpr represents a direct call by name
type CallExpr struct {
	Callee *IdentifierExpr
	Args   []Expression
	source.Location
}

func (c *CallExpr) INode()                {}
func (c *CallExpr) Expr()                 {}
func (c *CallExpr) Loc() *source.Location { return &c.Location }

// IndirectCallExpr calls through a function pointer value
type IndirectCallExpr struct {
	Fn   Expression
	Args []Expression
	source.Location
}

func (c *IndirectCallExpr) INode()                {}
func (c *IndirectCallExpr) Expr()                 {}
func (c *IndirectCallExpr) Loc() *source.Location { return &c.Location }

// FieldAccessExpr is x.a.b. Numeric path segments select fields by index.
type FieldAccessExpr struct {
	X    Expression
	Path []string
	source.Location
}

func (f *FieldAccessExpr) INode()                {}
func (f *FieldAccessExpr) Expr()                 {}
func (f *FieldAccessExpr) Loc() *source.Location { return &f.Location }

// IndexExpr represents x[i]
type IndexExpr struct {
	X     Expression
	Index Expression
	source.Location
}

func (i *IndexExpr) INode()                {}
func (i *IndexExpr) Expr()                 {}
func (i *IndexExpr) Loc() *source.Location { return &i.Location }

// CastExpr represents x as T
type CastExpr struct {
	X    Expression
	Type TypeNode
	source.Location
}

func (c *CastExpr) INode()                {}
func (c *CastExpr) Expr()                 {}
func (c *CastExpr) Loc() *source.Location { return &c.Location }

// ArrayLit is [a, b, c]. ElemType is nil unless written out.
type ArrayLit struct {
	ElemType TypeNode
	Elems    []Expression
	source.Location
}

func (a *ArrayLit) INode()                {}
func (a *ArrayLit) Expr()                 {}
func (a *ArrayLit) Loc() *source.Location { return &a.Location }

// AddressOfExpr is the low-level `address x` instruction
type AddressOfExpr struct {
	X Expression
	source.Location
}

func (a *AddressOfExpr) INode()                {}
func (a *AddressOfExpr) Expr()                 {}
func (a *AddressOfExpr) Loc() *source.Location { return &a.Location }

// LoadExpr is the low-level `load T, p` instruction
type LoadExpr struct {
	Type TypeNode
	X    Expression
	source.Location
}

func (l *LoadExpr) INode()                {}
func (l *LoadExpr) Expr()                 {}
func (l *LoadExpr) Loc() *source.Location { return &l.Location }

// AllocExpr is the low-level `alloc T` instruction
type AllocExpr struct {
	Type TypeNode
	source.Location
}

func (a *AllocExpr) INode()                {}
func (a *AllocExpr) Expr()                 {}
func (a *AllocExpr) Loc() *source.Location { return &a.Location }

// BadExpr stands in for an expression the parser could not read.
type BadExpr struct {
	source.Location
}

func (b *BadExpr) INode()                {}
func (b *BadExpr) Expr()                 {}
func (b *BadExpr) Loc() *source.Location { return &b.Location }

// IsLowLevel reports whether e is one of the low-level instruction forms.
func IsLowLevel(e Expression) bool {
	switch e.(type) {
	case *AddressOfExpr, *LoadExpr, *AllocExpr:
		return true
	}
	return false
}
