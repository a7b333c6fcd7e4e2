package ast

import (
	"github.com/thrushlang/thrushc-sub007/internal/source"
)

// Block is a braced statement list. It may hold local struct and const declarations.
type Block struct {
	Nodes []Node
	source.Location
}

func (b *Block) INode()                {}
func (b *Block) Stmt()                 {}
func (b *Block) Loc() *source.Location { return &b.Location }

// ExprStmt represents an expression used as a statement
type ExprStmt struct {
	X Expression
	source.Location
}

func (e *ExprStmt) INode()                {}
func (e *ExprStmt) Stmt()                 {}
func (e *ExprStmt) Loc() *source.Location { return &e.Location }

// LocalDecl is `let [mut] name: T = value`. Type is nil when it is inferred.
type LocalDecl struct {
	Name    *IdentifierExpr
	Type    TypeNode
	Value   Expression
	Mutable bool
	source.Location
}

func (l *LocalDecl) INode()                {}
func (l *LocalDecl) Stmt()                 {}
func (l *LocalDecl) Loc() *source.Location { return &l.Location }

// InstrDecl is the low-level `instr name: T = value` binding
type InstrDecl struct {
	Name  *IdentifierExpr
	Type  TypeNode
	Value Expression
	source.Location
}

func (i *InstrDecl) INode()                {}
func (i *InstrDecl) Stmt()                 {}
func (i *InstrDecl) Loc() *source.Location { return &i.Location }

// AssignStmt represents an assignment statement
type AssignStmt struct {
	Lhs Expression
	Rhs Expression
	source.Location
}

func (a *AssignStmt) INode()                {}
func (a *AssignStmt) Stmt()                 {}
func (a *AssignStmt) Loc() *source.Location { return &a.Location }

// IfStmt represents if/elif/else. Else is nil, an *IfStmt (elif) or a *Block.
type IfStmt struct {
	Cond Expression
	Body *Block
	Else Statement
	source.Location
}

func (i *IfStmt) INode()                {}
func (i *IfStmt) Stmt()                 {}
func (i *IfStmt) Loc() *source.Location { return &i.Location }

// ForStmt is the C-style loop. Init, Cond and Post may be nil.
type ForStmt struct {
	Init Statement
	Cond Expression
	Post Statement
	Body *Block
	source.Location
}

func (f *ForStmt) INode()                {}
func (f *ForStmt) Stmt()                 {}
func (f *ForStmt) Loc() *source.Location { return &f.Location }

type WhileStmt struct {
	Cond Expression
	Body *Block
	source.Location
}

func (w *WhileStmt) INode()                {}
func (w *WhileStmt) Stmt()                 {}
func (w *WhileStmt) Loc() *source.Location { return &w.Location }

// LoopStmt is the unconditional loop
type LoopStmt struct {
	Body *Block
	source.Location
}

func (l *LoopStmt) INode()                {}
func (l *LoopStmt) Stmt()                 {}
func (l *LoopStmt) Loc() *source.Location { return &l.Location }

type ReturnStmt struct {
	Result Expression // nil for a bare return
	source.Location
}

func (r *ReturnStmt) INode()                {}
func (r *ReturnStmt) Stmt()                 {}
func (r *ReturnStmt) Loc() *source.Location { return &r.Location }

type BreakStmt struct {
	source.Location
}

func (b *BreakStmt) INode()                {}
func (b *BreakStmt) Stmt()                 {}
func (b *BreakStmt) Loc() *source.Location { return &b.Location }

type ContinueStmt struct {
	source.Location
}

func (c *ContinueStmt) INode()                {}
func (c *ContinueStmt) Stmt()                 {}
func (c *ContinueStmt) Loc() *source.Location { return &c.Location }

// WriteStmt is the low-level `write target, value` instruction
type WriteStmt struct {
	Target Expression
	Value  Expression
	source.Location
}

func (w *WriteStmt) INode()                {}
func (w *WriteStmt) Stmt()                 {}
func (w *WriteStmt) Loc() *source.Location { return &w.Location }

// BadStmt stands in for a statement or declaration the parser could not read.
type BadStmt struct {
	source.Location
}

func (b *BadStmt) INode()                {}
func (b *BadStmt) Stmt()                 {}
func (b *BadStmt) Loc() *source.Location { return &b.Location }
