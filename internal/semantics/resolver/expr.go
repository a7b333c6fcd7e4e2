package resolver

import (
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
)

func resolveExpr(u *compctx.Unit, expr ast.Expression) {
	switch e := expr.(type) {
	case nil:
	case *ast.IdentifierExpr:
		if sym := resolveName(u, e); sym != nil && sym.IsType() {
			u.Report(diagnostics.NewError(fmt.Sprintf("%s %s is a type, not a value", sym.Kind, e.Name)).
				WithCode(diagnostics.ErrTypeUsedAsValue).
				WithPrimaryLabel(e.Loc(), "used as a value here"))
		}
	case *ast.BasicLit, *ast.BadExpr:
	case *ast.BinaryExpr:
		resolveExpr(u, e.X)
		resolveExpr(u, e.Y)
	case *ast.UnaryExpr:
		resolveExpr(u, e.X)
	case *ast.CallExpr:
		if e.Callee != nil {
			resolveCallee(u, e.Callee)
		}
		resolveExprs(u, e.Args)
	case *ast.IndirectCallExpr:
		resolveExpr(u, e.Fn)
		resolveExprs(u, e.Args)
	case *ast.FieldAccessExpr:
		// Color.Red names an enum variant
		if id, ok := e.X.(*ast.IdentifierExpr); ok {
			if sym, found := u.Table.Resolve(id.Name); found && sym.Kind == symbols.SymbolEnum {
				u.Facts.SetRef(id, sym)
				return
			}
		}
		resolveExpr(u, e.X)
	case *ast.IndexExpr:
		resolveExpr(u, e.X)
		resolveExpr(u, e.Index)
	case *ast.CastExpr:
		resolveExpr(u, e.X)
		typeOf(u, e.Type)
	case *ast.ArrayLit:
		typeOf(u, e.ElemType)
		resolveExprs(u, e.Elems)
	case *ast.AddressOfExpr:
		resolveExpr(u, e.X)
	case *ast.LoadExpr:
		typeOf(u, e.Type)
		resolveExpr(u, e.X)
	case *ast.AllocExpr:
		typeOf(u, e.Type)
	default:
		u.Report(diagnostics.NewBug(fmt.Sprintf("scoper reached expression %T", expr)).
			WithPrimaryLabel(expr.Loc(), "unexpected expression"))
	}
}

func resolveExprs(u *compctx.Unit, exprs []ast.Expression) {
	for _, e := range exprs {
		resolveExpr(u, e)
	}
}

// resolveName looks id up through the scope chain and records the binding.
// A miss is reported and nil is returned.
// resolveCallee looks up the name of a direct call. Functions are global and
// locals never hide them; calling a struct name constructs it.
func resolveCallee(u *compctx.Unit, id *ast.IdentifierExpr) {
	sym, ok := u.Table.ResolveFunction(id.Name)
	if !ok {
		sym, ok = u.Table.ResolveType(id.Name)
	}
	if !ok {
		resolveName(u, id)
		return
	}
	u.Facts.SetRef(id, sym)
}

func resolveName(u *compctx.Unit, id *ast.IdentifierExpr) *symbols.Symbol {
	sym, ok := u.Table.Resolve(id.Name)
	if !ok {
		u.Report(diagnostics.UndeclaredSymbol(id.Loc(), id.Name))
		return nil
	}
	u.Facts.SetRef(id, sym)
	return sym
}
