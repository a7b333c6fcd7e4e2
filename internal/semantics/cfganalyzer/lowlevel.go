package cfganalyzer

import (
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// checkExpr walks e looking at the low-level instructions in it. Their
// operands were already typed by the type checker; this only checks where
// they appear and what they are applied to.
func checkExpr(u *compctx.Unit, e ast.Expression, ac AnalysisContext) {
	switch x := e.(type) {
	case nil:
	case *ast.AddressOfExpr:
		if !requireFunction(u, x, "address", ac) {
			return
		}
		checkAddressOfAddress(u, x)
		checkExpr(u, x.X, ac)
	case *ast.LoadExpr:
		if !requireFunction(u, x, "load", ac) {
			return
		}
		checkExpr(u, x.X, ac)
	case *ast.AllocExpr:
		requireFunction(u, x, "alloc", ac)

	case *ast.BinaryExpr:
		checkExpr(u, x.X, ac)
		checkExpr(u, x.Y, ac)
	case *ast.UnaryExpr:
		checkExpr(u, x.X, ac)
	case *ast.CallExpr:
		for _, arg := range x.Args {
			checkExpr(u, arg, ac)
		}
	case *ast.IndirectCallExpr:
		checkExpr(u, x.Fn, ac)
		for _, arg := range x.Args {
			checkExpr(u, arg, ac)
		}
	case *ast.FieldAccessExpr:
		checkExpr(u, x.X, ac)
	case *ast.IndexExpr:
		checkExpr(u, x.X, ac)
		checkExpr(u, x.Index, ac)
	case *ast.CastExpr:
		checkExpr(u, x.X, ac)
	case *ast.ArrayLit:
		for _, el := range x.Elems {
			checkExpr(u, el, ac)
		}
	}
}

// checkAddressOfAddress warns about taking the address of a value that is
// itself an opaque address.
func checkAddressOfAddress(u *compctx.Unit, e *ast.AddressOfExpr) {
	t, ok := u.Facts.TypeOf(e.X)
	if !ok || !types.IsAddr(t) {
		return
	}
	u.Report(diagnostics.NewWarning("address of an address is undefined behavior").
		WithCode(diagnostics.WarnAddressOfAddress).
		WithPrimaryLabel(e.Loc(), "double indirection through 'addr' is not checked").
		WithSecondaryLabel(e.X.Loc(), "this is already an 'addr'").
		WithHelp("use the address directly, or cast it to a typed pointer first"))
}

// checkGlobalInitializer rejects low-level instructions in values computed
// outside of any body.
func checkGlobalInitializer(u *compctx.Unit, e ast.Expression) {
	checkExpr(u, e, AnalysisContext{})
}

// requireFunction reports a low-level instruction outside a function body.
// It returns false when one was reported.
func requireFunction(u *compctx.Unit, n ast.Node, name string, ac AnalysisContext) bool {
	if ac.InsideFunction {
		return true
	}
	u.Report(diagnostics.NewError(fmt.Sprintf("low-level instruction '%s' outside of a function", name)).
		WithCode(diagnostics.ErrLowLevelOutsideScope).
		WithPrimaryLabel(n.Loc(), "only allowed inside a function or entrypoint body"))
	return false
}
