package ast

import (
	"github.com/thrushlang/thrushc-sub007/internal/source"
)

// Node is the base interface for all AST nodes
type Node interface {
	INode()
	Loc() *source.Location
}

// Expression represents any node that produces a value
type Expression interface {
	Node
	Expr()
}

// TypeNode represents a type written in source. Types are not expressions.
type TypeNode interface {
	Node
	TypeExpr()
}

// Statement represents any node that performs an action
type Statement interface {
	Node
	Stmt()
}

// Decl represents a named declaration that may carry attributes
type Decl interface {
	Node
	Decl()
	DeclName() *IdentifierExpr
	Attrs() []Attribute
}

// Attribute is an @name or @name("payload") marker on a declaration.
type Attribute struct {
	Name    string
	Payload *BasicLit // nil when the attribute has no value
	source.Location
}

// Module is one compilation unit as handed over by the parser.
// Nodes keeps the top-level items in source order.
type Module struct {
	FilePath string
	Nodes    []Node
	source.Location
}

func (m *Module) INode()                {}
func (m *Module) Loc() *source.Location { return &m.Location }
