package typechecker

import (
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
	"github.com/thrushlang/thrushc-sub007/internal/source"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

type declState int

const (
	declPending declState = iota
	declChecking
	declDone
)

// checker carries the state of one type checking walk
type checker struct {
	unit       *compctx.Unit
	defaultInt types.SemType

	// fnReturn is the return type of the body being checked, nil outside bodies
	fnReturn types.SemType

	// consts and statics are checked on first use so that a global whose
	// type is inferred can be read before its declaration
	decls map[ast.Node]declState
}

// CheckModule computes the type of every expression in the unit and checks
// it against the context it appears in.
//
// Types flow bottom up with the expected type of the context passed down, so
// that literals take the type of their target. Every computed type is
// recorded with Facts.SetType. Errors are reported and the walk continues
// with the unknown type standing in for the failed expression.
func CheckModule(u *compctx.Unit) {
	if !u.Require(phase.PassTypeCheck) {
		return
	}

	c := &checker{
		unit:       u,
		defaultInt: types.TypeS32,
		decls:      make(map[ast.Node]declState),
	}
	if t, ok := types.FromName(u.Config.DefaultInt); ok {
		c.defaultInt = t
	}

	if u.Module != nil {
		// globals first: bodies read their inferred types
		for _, node := range u.Module.Nodes {
			switch n := node.(type) {
			case *ast.ConstDecl:
				checkConstDecl(c, n)
			case *ast.StaticDecl:
				checkStaticDecl(c, n)
			case *ast.EnumDecl:
				checkEnumDecl(c, n)
			}
		}
		for _, node := range u.Module.Nodes {
			switch n := node.(type) {
			case *ast.FuncDecl:
				checkFunction(c, n, n.Body)
			case *ast.EntrypointDecl:
				checkFunction(c, n, n.Body)
			}
		}
	}

	u.Complete(phase.PassTypeCheck)
}

func checkFunction(c *checker, decl ast.Decl, body *ast.Block) {
	if body == nil {
		return
	}
	ret := types.SemType(types.TypeVoid)
	if sym, ok := c.unit.Facts.Decl(decl); ok {
		if fn, ok := sym.Signature(); ok && fn.Return != nil {
			ret = fn.Return
		}
	}

	prev := c.fnReturn
	c.fnReturn = ret
	checkBlock(c, body)
	c.fnReturn = prev
}

func checkBlock(c *checker, block *ast.Block) {
	if block == nil {
		return
	}
	for _, node := range block.Nodes {
		switch n := node.(type) {
		case nil:
		case ast.Statement:
			checkStmt(c, n)
		case ast.Expression:
			checkExpr(c, n, nil)
		}
	}
}

func checkStmt(c *checker, stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Block:
		checkBlock(c, s)
	case *ast.ExprStmt:
		checkExpr(c, s.X, nil)
	case *ast.LocalDecl:
		checkLocalDecl(c, s)
	case *ast.InstrDecl:
		checkBinding(c, s, s.Name, s.Type, s.Value)
	case *ast.ConstDecl:
		checkConstDecl(c, s)
	case *ast.StructDecl:
		// fields were typed by the scoper
	case *ast.AssignStmt:
		checkAssignStmt(c, s)
	case *ast.IfStmt:
		checkCondition(c, s.Cond)
		checkBlock(c, s.Body)
		if s.Else != nil {
			checkStmt(c, s.Else)
		}
	case *ast.WhileStmt:
		checkCondition(c, s.Cond)
		checkBlock(c, s.Body)
	case *ast.LoopStmt:
		checkBlock(c, s.Body)
	case *ast.ForStmt:
		if s.Init != nil {
			checkStmt(c, s.Init)
		}
		if s.Cond != nil {
			checkCondition(c, s.Cond)
		}
		if s.Post != nil {
			checkStmt(c, s.Post)
		}
		checkBlock(c, s.Body)
	case *ast.ReturnStmt:
		checkReturn(c, s)
	case *ast.WriteStmt:
		checkWrite(c, s)
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.BadStmt:
	default:
		c.unit.Report(diagnostics.NewBug(fmt.Sprintf("type checker reached statement %T", stmt)).
			WithPrimaryLabel(stmt.Loc(), "unexpected statement"))
	}
}

func checkLocalDecl(c *checker, s *ast.LocalDecl) {
	if s.Type == nil && s.Value == nil {
		name := "binding"
		if s.Name != nil {
			name = s.Name.Name
		}
		c.unit.Report(diagnostics.NewError(name+" needs a type or an initializer").
			WithCode(diagnostics.ErrMissingInitializer).
			WithPrimaryLabel(s.Loc(), "type cannot be inferred").
			WithHelp("write the type out or give it an initial value"))
		setDeclType(c, s, types.TypeUnknown)
		return
	}
	checkBinding(c, s, s.Name, s.Type, s.Value)
}

// checkBinding types a local, low-level or constant binding. The declared
// type wins; without one the binding takes the type of its value. A binding
// without a value is left undefined and its value is not checked.
func checkBinding(c *checker, decl ast.Node, name *ast.IdentifierExpr, tn ast.TypeNode, value ast.Expression) types.SemType {
	var declared types.SemType
	if tn != nil {
		declared = resolveType(c, tn)
		if types.IsVoid(declared) {
			reportVoidDeclaration(c, tn.Loc(), name)
			declared = types.TypeUnknown
		}
	}

	if value != nil {
		got := checkExpr(c, value, declared)
		switch {
		case declared != nil:
			checkAssignable(c, value, got, declared)
		case types.IsVoid(got):
			reportVoidDeclaration(c, value.Loc(), name)
			declared = types.TypeUnknown
		default:
			declared = got
		}
	}

	if declared == nil {
		declared = types.TypeUnknown
	}
	setDeclType(c, decl, declared)
	return declared
}

func reportVoidDeclaration(c *checker, loc *source.Location, name *ast.IdentifierExpr) {
	what := "binding"
	if name != nil {
		what = name.Name
	}
	c.unit.Report(diagnostics.NewError(what+" cannot have type void").
		WithCode(diagnostics.ErrVoidDeclaration).
		WithPrimaryLabel(loc, "void has no values"))
}

func setDeclType(c *checker, decl ast.Node, t types.SemType) {
	if sym, ok := c.unit.Facts.Decl(decl); ok {
		sym.Type = t
	}
}

// checkConstDecl checks a constant at most once. It is reached in source
// order and, for globals, also from the first read of the constant.
func checkConstDecl(c *checker, s *ast.ConstDecl) types.SemType {
	if t, done := enterDecl(c, s); done {
		return t
	}
	defer exitDecl(c, s)

	if s.Value == nil {
		c.unit.Report(diagnostics.NewError("constant needs a value").
			WithCode(diagnostics.ErrMissingInitializer).
			WithPrimaryLabel(s.Loc(), "no initializer"))
		if s.Type != nil {
			t := resolveType(c, s.Type)
			setDeclType(c, s, t)
			return t
		}
		setDeclType(c, s, types.TypeUnknown)
		return types.TypeUnknown
	}
	return checkBinding(c, s, s.Name, s.Type, s.Value)
}

func checkStaticDecl(c *checker, s *ast.StaticDecl) types.SemType {
	if t, done := enterDecl(c, s); done {
		return t
	}
	defer exitDecl(c, s)

	if s.Type == nil && s.Value == nil {
		c.unit.Report(diagnostics.NewError("static needs a type or an initializer").
			WithCode(diagnostics.ErrMissingInitializer).
			WithPrimaryLabel(s.Loc(), "type cannot be inferred"))
		setDeclType(c, s, types.TypeUnknown)
		return types.TypeUnknown
	}
	return checkBinding(c, s, s.Name, s.Type, s.Value)
}

// enterDecl marks decl as being checked. It reports true with the known
// type when there is nothing left to do, including for a declaration whose
// initializer reads itself.
func enterDecl(c *checker, decl ast.Node) (types.SemType, bool) {
	switch c.decls[decl] {
	case declDone:
		if sym, ok := c.unit.Facts.Decl(decl); ok && sym.Type != nil {
			return sym.Type, true
		}
		return types.TypeUnknown, true
	case declChecking:
		c.unit.Report(diagnostics.NewError("initializer refers to itself").
			WithCode(diagnostics.ErrInvalidOperation).
			WithPrimaryLabel(decl.Loc(), "the value depends on its own declaration"))
		setDeclType(c, decl, types.TypeUnknown)
		return types.TypeUnknown, true
	}
	c.decls[decl] = declChecking
	return nil, false
}

func exitDecl(c *checker, decl ast.Node) {
	c.decls[decl] = declDone
}

func checkEnumDecl(c *checker, s *ast.EnumDecl) {
	base := types.SemType(types.TypeS32)
	if sym, ok := c.unit.Facts.Decl(s); ok {
		if et, ok := sym.Type.(*types.EnumType); ok && et.Base != nil {
			base = et.Base
		}
	}
	for _, v := range s.Variants {
		if v.Value == nil {
			continue
		}
		got := checkExpr(c, v.Value, base)
		checkAssignable(c, v.Value, got, base)
	}
}

func checkCondition(c *checker, cond ast.Expression) {
	if cond == nil {
		return
	}
	t := checkExpr(c, cond, types.TypeBool)
	if types.IsUnknown(t) || types.IsBool(t) {
		return
	}
	c.unit.Report(diagnostics.NewError("condition must be bool").
		WithCode(diagnostics.ErrNonBoolCondition).
		WithPrimaryLabel(cond.Loc(), fmt.Sprintf("found '%s'", t)).
		WithHelp("compare the value explicitly, for example x != 0"))
}

func checkReturn(c *checker, s *ast.ReturnStmt) {
	// a return outside a body is a control flow error, reported by the linter
	if c.fnReturn == nil {
		checkExpr(c, s.Result, nil)
		return
	}

	switch {
	case s.Result == nil:
		if !types.IsVoid(c.fnReturn) && !types.IsUnknown(c.fnReturn) {
			c.unit.Report(diagnostics.NewError("missing return value").
				WithCode(diagnostics.ErrMissingReturnValue).
				WithPrimaryLabel(s.Loc(), fmt.Sprintf("function returns '%s'", c.fnReturn)))
		}
	case types.IsVoid(c.fnReturn):
		checkExpr(c, s.Result, nil)
		c.unit.Report(diagnostics.NewError("void function cannot return a value").
			WithCode(diagnostics.ErrInvalidReturn).
			WithPrimaryLabel(s.Result.Loc(), "unexpected value").
			WithHelp("remove the value or declare a return type"))
	default:
		got := checkExpr(c, s.Result, c.fnReturn)
		if compat := checkTypeCompatibility(got, c.fnReturn); !compat.IsAllowed() {
			c.unit.Report(diagnostics.NewError("mismatched return type").
				WithCode(diagnostics.ErrInvalidReturn).
				WithPrimaryLabel(s.Result.Loc(), fmt.Sprintf("expected '%s', found '%s'", c.fnReturn, got)).
				WithHelp(getConversionError(got, c.fnReturn, compat)))
		}
	}
}

// checkAssignable reports a mismatch when a value of type got is used where
// want is expected. It returns whether the use is allowed.
func checkAssignable(c *checker, at ast.Expression, got, want types.SemType) bool {
	compat := checkTypeCompatibility(got, want)
	if compat.IsAllowed() {
		return true
	}
	d := diagnostics.TypeMismatch(at.Loc(), want, got)
	if compat == LossyConvertible {
		d.WithHelp(fmt.Sprintf("use an explicit cast: (cast %s ...)", want))
	}
	c.unit.Report(d)
	return false
}

// resolveType returns the semantic type of a type written inside a body.
// Unknown names were already reported by the scoper.
func resolveType(c *checker, tn ast.TypeNode) types.SemType {
	if t, ok := c.unit.Facts.TypeOfNode(tn); ok {
		return t
	}
	t, _ := c.unit.ResolveType(tn)
	return t
}

// symbolType is the value type of a referenced symbol. Global constants and
// statics with an inferred type are checked on demand.
func symbolType(c *checker, sym *symbols.Symbol) types.SemType {
	if sym.Type == nil {
		switch d := sym.Decl.(type) {
		case *ast.ConstDecl:
			return checkConstDecl(c, d)
		case *ast.StaticDecl:
			return checkStaticDecl(c, d)
		}
		return types.TypeUnknown
	}
	return sym.Type
}
