package typechecker

import (
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// Low-level instructions work on raw memory and see through the type system
// only as far as the pointer they are given.

func checkAddressOf(c *checker, e *ast.AddressOfExpr) types.SemType {
	checkExpr(c, e.X, nil)
	if !isAddressable(c, e.X) {
		c.unit.Report(diagnostics.NewError("cannot take the address of this expression").
			WithCode(diagnostics.ErrNotAddressable).
			WithPrimaryLabel(e.X.Loc(), "not a memory location").
			WithHelp("bind the value to a local first"))
	}
	return types.TypeAddr
}

func checkLoad(c *checker, e *ast.LoadExpr) types.SemType {
	t := resolveType(c, e.Type)
	src := checkExpr(c, e.X, nil)
	if !types.IsUnknown(src) && !types.IsPointerLike(src) {
		c.unit.Report(diagnostics.NewError(fmt.Sprintf("cannot load from a value of type '%s'", src)).
			WithCode(diagnostics.ErrInvalidLowLevelOperand).
			WithPrimaryLabel(e.X.Loc(), "expected an addr or a pointer"))
	}
	return t
}

func checkWrite(c *checker, s *ast.WriteStmt) {
	target := checkExpr(c, s.Target, nil)
	if p, ok := types.Unwrap(target).(*types.PointerType); ok && !p.IsUntyped() {
		got := checkExpr(c, s.Value, p.Elem)
		checkAssignable(c, s.Value, got, p.Elem)
		return
	}

	checkExpr(c, s.Value, nil)
	if types.IsUnknown(target) || types.IsPointerLike(target) {
		return
	}
	c.unit.Report(diagnostics.NewError(fmt.Sprintf("cannot write through a value of type '%s'", target)).
		WithCode(diagnostics.ErrInvalidLowLevelOperand).
		WithPrimaryLabel(s.Target.Loc(), "expected an addr or a pointer"))
}
