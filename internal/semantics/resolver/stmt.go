package resolver

import (
	"errors"
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/table"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

func resolveStmt(u *compctx.Unit, stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Block:
		resolveBlock(u, s)
	case *ast.ExprStmt:
		resolveExpr(u, s.X)
	case *ast.LocalDecl:
		// the initializer is resolved first: `let x = x` reads the outer x
		resolveExpr(u, s.Value)
		declareLocal(u, s, s.Name, &symbols.Symbol{
			Kind:    symbols.SymbolLocal,
			Type:    typeOf(u, s.Type),
			Mutable: s.Mutable,
		})
	case *ast.InstrDecl:
		resolveExpr(u, s.Value)
		declareLocal(u, s, s.Name, &symbols.Symbol{
			Kind: symbols.SymbolLLI,
			Type: typeOf(u, s.Type),
		})
	case *ast.ConstDecl:
		resolveExpr(u, s.Value)
		declareLocal(u, s, s.Name, &symbols.Symbol{
			Kind:       symbols.SymbolConstant,
			Type:       typeOf(u, s.Type),
			Attributes: s.Attributes,
		})
	case *ast.StructDecl:
		resolveLocalStruct(u, s)
	case *ast.AssignStmt:
		resolveExpr(u, s.Lhs)
		resolveExpr(u, s.Rhs)
	case *ast.IfStmt:
		resolveExpr(u, s.Cond)
		if s.Body != nil {
			resolveBlock(u, s.Body)
		}
		if s.Else != nil {
			resolveStmt(u, s.Else)
		}
	case *ast.ForStmt:
		// the init binding is visible in the condition, post statement and body
		beginScope(u)
		if s.Init != nil {
			resolveStmt(u, s.Init)
		}
		resolveExpr(u, s.Cond)
		if s.Post != nil {
			resolveStmt(u, s.Post)
		}
		if s.Body != nil {
			resolveBlock(u, s.Body)
		}
		endScope(u, s)
	case *ast.WhileStmt:
		resolveExpr(u, s.Cond)
		if s.Body != nil {
			resolveBlock(u, s.Body)
		}
	case *ast.LoopStmt:
		if s.Body != nil {
			resolveBlock(u, s.Body)
		}
	case *ast.ReturnStmt:
		resolveExpr(u, s.Result)
	case *ast.WriteStmt:
		resolveExpr(u, s.Target)
		resolveExpr(u, s.Value)
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.BadStmt:
	default:
		u.Report(diagnostics.NewBug(fmt.Sprintf("scoper reached statement %T", stmt)).
			WithPrimaryLabel(stmt.Loc(), "unexpected statement"))
	}
}

// declareLocal fills in the common fields of sym and binds it in the
// innermost frame.
func declareLocal(u *compctx.Unit, decl ast.Node, name *ast.IdentifierExpr, sym *symbols.Symbol) {
	if name == nil {
		return
	}
	sym.Name = name.Name
	sym.Decl = decl
	sym.Location = name.Loc()

	if err := u.Table.DeclareLocal(sym); err != nil {
		var dup *table.DuplicateSymbolError
		if !errors.As(err, &dup) {
			u.Report(diagnostics.NewBug(err.Error()).WithPrimaryLabel(name.Loc(), "while declaring this"))
			return
		}
		u.Report(diagnostics.NewError(name.Name+" is already declared in this scope").
			WithCode(diagnostics.ErrDuplicateLocal).
			WithPrimaryLabel(name.Loc(), "redeclared here").
			WithSecondaryLabel(dup.Previous.Location, "previously declared here").
			WithHelp("declare it in a nested block to shadow it, or pick another name"))
		return
	}
	u.Facts.SetDecl(decl, sym)
}

// resolveLocalStruct declares a struct inside a body. Its fields may refer to
// the struct itself through a pointer.
func resolveLocalStruct(u *compctx.Unit, s *ast.StructDecl) {
	if s.Name == nil {
		return
	}
	st := types.NewStruct(s.Name.Name, nil)
	sym := &symbols.Symbol{Kind: symbols.SymbolStruct, Type: st, Attributes: s.Attributes}
	declareLocal(u, s, s.Name, sym)

	for i, f := range s.Fields {
		name := fmt.Sprintf("%d", i)
		if f.Name != nil && f.Name.Name != "_" {
			name = f.Name.Name
		}
		ft := typeOf(u, f.Type)
		if ft == nil {
			ft = types.TypeUnknown
		}
		st.Fields = append(st.Fields, types.StructField{Name: name, Type: ft})
	}
	for _, a := range s.Attributes {
		if a.Name == "packed" {
			st.Layout = types.LayoutPacked
		}
	}
}
