package typechecker

import (
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

type MutabilityResult int

const (
	MutabilityAllowed      MutabilityResult = iota // Mutation is allowed
	MutabilityNotPlace                             // Not a memory location
	MutabilityConstant                             // Constant or const T
	MutabilityImmutable                            // Binding declared without mut
)

// MutabilityInfo says whether an assignment target can be written and, if
// not, which symbol is in the way.
type MutabilityInfo struct {
	Result MutabilityResult
	Symbol *symbols.Symbol
}

func checkAssignStmt(c *checker, s *ast.AssignStmt) {
	lt := checkExpr(c, s.Lhs, nil)
	rt := checkExpr(c, s.Rhs, lt)

	info := checkMutability(c, s.Lhs, lt)
	if reportMutabilityError(c, info, s.Lhs) {
		return
	}
	checkAssignable(c, s.Rhs, rt, lt)
}

// checkMutability finds out whether target may be assigned. Writes that go
// through a pointer (or an implicitly dereferenced mut) only need the place
// itself to be writable, not the binding the path starts from.
func checkMutability(c *checker, target ast.Expression, t types.SemType) MutabilityInfo {
	if !isAddressable(c, target) {
		return MutabilityInfo{Result: MutabilityNotPlace}
	}
	if _, ok := t.(*types.ConstType); ok {
		return MutabilityInfo{Result: MutabilityConstant}
	}

	root, throughPointer := assignRoot(c, target)
	if root == nil {
		return MutabilityInfo{Result: MutabilityAllowed}
	}
	if root.IsConstant() {
		return MutabilityInfo{Result: MutabilityConstant, Symbol: root}
	}
	if throughPointer {
		return MutabilityInfo{Result: MutabilityAllowed}
	}
	switch root.Kind {
	case symbols.SymbolLocal, symbols.SymbolParameter, symbols.SymbolStatic, symbols.SymbolLLI:
		if !root.Mutable {
			return MutabilityInfo{Result: MutabilityImmutable, Symbol: root}
		}
	}
	return MutabilityInfo{Result: MutabilityAllowed}
}

// reportMutabilityError reports why target cannot be assigned. It returns
// true when an error was reported.
func reportMutabilityError(c *checker, info MutabilityInfo, target ast.Expression) bool {
	switch info.Result {
	case MutabilityAllowed:
		return false

	case MutabilityNotPlace:
		c.unit.Report(diagnostics.NewError("cannot assign to this expression").
			WithCode(diagnostics.ErrNotAddressable).
			WithPrimaryLabel(target.Loc(), "not a memory location"))

	case MutabilityConstant:
		if info.Symbol == nil {
			c.unit.Report(diagnostics.NewError("cannot assign to a const value").
				WithCode(diagnostics.ErrConstantReassignment).
				WithPrimaryLabel(target.Loc(), "has a const type"))
			return true
		}
		diag := diagnostics.NewError(fmt.Sprintf("cannot assign to constant '%s'", info.Symbol.Name)).
			WithCode(diagnostics.ErrConstantReassignment).
			WithPrimaryLabel(target.Loc(), "cannot modify constant")
		if info.Symbol.Location != nil {
			diag.WithSecondaryLabel(info.Symbol.Location, "declared as constant here")
		}
		c.unit.Report(diag.WithHelp("constants are immutable; use 'let mut' for a variable"))

	case MutabilityImmutable:
		diag := diagnostics.NewError(fmt.Sprintf("cannot assign twice to immutable %s '%s'", info.Symbol.Kind, info.Symbol.Name)).
			WithCode(diagnostics.ErrImmutableAssignment).
			WithPrimaryLabel(target.Loc(), "cannot assign")
		if info.Symbol.Location != nil {
			diag.WithSecondaryLabel(info.Symbol.Location, "declared here")
		}
		c.unit.Report(diag.WithHelp("declare it with mut to allow assignment"))
	}
	return true
}

// isAddressable reports whether expr denotes a memory location
func isAddressable(c *checker, expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.IdentifierExpr:
		sym, ok := c.unit.Facts.Ref(e)
		if !ok {
			// already reported; do not pile on
			return true
		}
		switch sym.Kind {
		case symbols.SymbolLocal, symbols.SymbolParameter, symbols.SymbolStatic,
			symbols.SymbolLLI, symbols.SymbolConstant:
			return true
		}
		return false
	case *ast.FieldAccessExpr:
		// enum variants have no members recorded
		_, ok := c.unit.Facts.Members(e)
		return ok || isUnknownExpr(c, e)
	case *ast.IndexExpr:
		return true
	case *ast.BadExpr:
		// the parser reported it
		return true
	}
	return false
}

func isUnknownExpr(c *checker, e ast.Expression) bool {
	t, ok := c.unit.Facts.TypeOf(e)
	return !ok || types.IsUnknown(t)
}

// assignRoot returns the binding a place expression starts from and whether
// the path to the place goes through a pointer.
func assignRoot(c *checker, expr ast.Expression) (*symbols.Symbol, bool) {
	switch e := expr.(type) {
	case *ast.IdentifierExpr:
		sym, _ := c.unit.Facts.Ref(e)
		return sym, false
	case *ast.FieldAccessExpr:
		root, through := assignRoot(c, e.X)
		if steps, ok := c.unit.Facts.Members(e); ok {
			for _, step := range steps {
				through = through || step.Deref
			}
		}
		return root, through
	case *ast.IndexExpr:
		root, through := assignRoot(c, e.X)
		if t, ok := c.unit.Facts.TypeOf(e.X); ok && types.IsPointer(t) {
			through = true
		}
		return root, through
	}
	return nil, false
}
