package compctx

import (
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/table"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// Facts are the side tables the passes attach to AST nodes.
type Facts struct {
	exprTypes map[ast.Expression]types.SemType
	typeNodes map[ast.TypeNode]types.SemType
	refs      map[ast.Node]*symbols.Symbol
	decls     map[ast.Node]*symbols.Symbol
	members   map[*ast.FieldAccessExpr][]table.MemberStep
}

func NewFacts() *Facts {
	return &Facts{
		exprTypes: make(map[ast.Expression]types.SemType),
		typeNodes: make(map[ast.TypeNode]types.SemType),
		refs:      make(map[ast.Node]*symbols.Symbol),
		decls:     make(map[ast.Node]*symbols.Symbol),
		members:   make(map[*ast.FieldAccessExpr][]table.MemberStep),
	}
}

// SetType records the type computed for expr.
func (f *Facts) SetType(expr ast.Expression, t types.SemType) {
	f.exprTypes[expr] = t
}

// TypeOf returns the type recorded for expr. It never computes anything, so
// repeated calls return the same value.
func (f *Facts) TypeOf(expr ast.Expression) (types.SemType, bool) {
	t, ok := f.exprTypes[expr]
	return t, ok
}

// SetTypeNode records the semantic type a written type resolved to.
func (f *Facts) SetTypeNode(tn ast.TypeNode, t types.SemType) {
	f.typeNodes[tn] = t
}

// TypeOfNode returns the semantic type recorded for a written type.
func (f *Facts) TypeOfNode(tn ast.TypeNode) (types.SemType, bool) {
	t, ok := f.typeNodes[tn]
	return t, ok
}

// SetRef binds a reference (identifier or callee) to the symbol it resolved to.
func (f *Facts) SetRef(ref ast.Node, sym *symbols.Symbol) {
	f.refs[ref] = sym
}

func (f *Facts) Ref(ref ast.Node) (*symbols.Symbol, bool) {
	sym, ok := f.refs[ref]
	return sym, ok
}

// SetDecl records the symbol created for a declaring node (declaration,
// parameter or local binding).
func (f *Facts) SetDecl(decl ast.Node, sym *symbols.Symbol) {
	f.decls[decl] = sym
}

func (f *Facts) Decl(decl ast.Node) (*symbols.Symbol, bool) {
	sym, ok := f.decls[decl]
	return sym, ok
}

// SetMembers records the steps a field access walks through.
func (f *Facts) SetMembers(fa *ast.FieldAccessExpr, steps []table.MemberStep) {
	f.members[fa] = steps
}

// Members returns the (struct, index) steps of a field access for codegen.
func (f *Facts) Members(fa *ast.FieldAccessExpr) ([]table.MemberStep, bool) {
	steps, ok := f.members[fa]
	return steps, ok
}

// RefCount is the number of resolved references.
func (f *Facts) RefCount() int {
	return len(f.refs)
}
