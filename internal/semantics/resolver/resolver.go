package resolver

import (
	"errors"
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/table"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// ResolveModule binds every name reference in the unit to its declaration.
//
// Bodies are walked depth first with one local frame per block; parameters
// and locals are declared as they are met, so a local is only visible after
// its declaration. Unresolved names are reported and the walk continues.
// The bindings are recorded in the unit's facts for the later passes.
func ResolveModule(u *compctx.Unit) {
	if !u.Require(phase.PassScope) {
		return
	}

	if u.Module != nil {
		for _, node := range u.Module.Nodes {
			resolveTopLevel(u, node)
		}
	}

	if depth := u.Table.Depth(); depth != 0 {
		u.Report(diagnostics.NewBug(fmt.Sprintf("scoper left %d frame(s) open", depth)).
			WithCode(diagnostics.BugScopeImbalance))
	}
	u.Complete(phase.PassScope)
}

func resolveTopLevel(u *compctx.Unit, node ast.Node) {
	switch n := node.(type) {
	case *ast.FuncDecl:
		resolveFunction(u, n, n.Params, n.Body)
	case *ast.AsmFuncDecl:
		resolveFunction(u, n, n.Params, nil)
	case *ast.EntrypointDecl:
		if n.Body != nil {
			resolveBlock(u, n.Body)
		}
	case *ast.ConstDecl:
		resolveExpr(u, n.Value)
	case *ast.StaticDecl:
		resolveExpr(u, n.Value)
	case *ast.EnumDecl:
		for _, v := range n.Variants {
			resolveExpr(u, v.Value)
		}
	case *ast.StructDecl, *ast.TypeAliasDecl:
		// signatures were resolved by the forward declarator
	case *ast.Block:
		resolveBlock(u, n)
	case *ast.BadStmt, nil:
	default:
		// stray statements were already reported by the forward declarator
		if s, ok := node.(ast.Statement); ok {
			resolveStmt(u, s)
		}
	}
}

// resolveFunction declares the parameters in a frame of their own and walks
// the body's statements in that same frame, so a local cannot silently
// redeclare a parameter.
func resolveFunction(u *compctx.Unit, decl ast.Decl, params []*ast.Param, body *ast.Block) {
	fnSym, _ := u.Facts.Decl(decl)

	beginScope(u)
	for i, p := range params {
		if p.Name == nil {
			continue
		}
		var typ types.SemType
		if fnSym != nil && i < len(fnSym.Params) {
			typ = fnSym.Params[i]
		} else {
			typ = typeOf(u, p.Type)
		}
		sym := &symbols.Symbol{
			Name:     p.Name.Name,
			Kind:     symbols.SymbolParameter,
			Type:     typ,
			Decl:     p,
			Location: p.Name.Loc(),
			Mutable:  p.Mutable,
		}
		if err := u.Table.DeclareLocal(sym); err != nil {
			reportDuplicateParam(u, p, err)
			continue
		}
		u.Facts.SetDecl(p, sym)
	}
	if body != nil {
		for _, node := range body.Nodes {
			resolveNode(u, node)
		}
	}
	endScope(u, decl)
}

func reportDuplicateParam(u *compctx.Unit, p *ast.Param, err error) {
	var dup *table.DuplicateSymbolError
	if !errors.As(err, &dup) {
		u.Report(diagnostics.NewBug(err.Error()))
		return
	}
	u.Report(diagnostics.NewError("duplicate parameter "+p.Name.Name).
		WithCode(diagnostics.ErrDuplicateParameter).
		WithPrimaryLabel(p.Name.Loc(), "parameter declared twice").
		WithSecondaryLabel(dup.Previous.Location, "first declared here"))
}

func beginScope(u *compctx.Unit) {
	u.Table.BeginScope()
}

// endScope closes the innermost frame. Underflow means the walk itself is
// broken, so it is a bug rather than a user error.
func endScope(u *compctx.Unit, at ast.Node) {
	if err := u.Table.EndScope(); err != nil {
		d := diagnostics.NewBug(err.Error()).WithCode(diagnostics.BugScopeImbalance)
		if at != nil {
			d.WithPrimaryLabel(at.Loc(), "while leaving this scope")
		}
		u.Report(d)
	}
}

func resolveBlock(u *compctx.Unit, block *ast.Block) {
	beginScope(u)
	for _, node := range block.Nodes {
		resolveNode(u, node)
	}
	endScope(u, block)
}

// resolveNode handles a node found in a statement list
func resolveNode(u *compctx.Unit, node ast.Node) {
	switch n := node.(type) {
	case nil:
	case ast.Statement:
		resolveStmt(u, n)
	case ast.Expression:
		resolveExpr(u, n)
	default:
		u.Report(diagnostics.NewBug(fmt.Sprintf("scoper reached %T in a block", node)).
			WithPrimaryLabel(node.Loc(), "unexpected node"))
	}
}

// typeOf resolves a type written inside a body and reports unknown names.
func typeOf(u *compctx.Unit, tn ast.TypeNode) types.SemType {
	if tn == nil {
		return nil
	}
	t, missing := u.ResolveType(tn)
	for _, m := range missing {
		u.Report(diagnostics.UnknownType(m.Loc(), m.Name))
	}
	return t
}
