package collector

import (
	"errors"
	"fmt"

	"github.com/thrushlang/thrushc-sub007/colors"
	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/table"
	"github.com/thrushlang/thrushc-sub007/internal/source"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// collector is the forward declarator state for one unit.
type collector struct {
	unit *compctx.Unit

	// depth counts the blocks the walk is inside of. Declarations found at
	// depth > 0 are local and are left to the scoper.
	depth int

	entrypoint *ast.EntrypointDecl
	pending    []pendingDecl
}

// pendingDecl is a declared symbol whose signature is filled in step 2.
type pendingDecl struct {
	sym  *symbols.Symbol
	decl ast.Decl
}

// CollectModule declares every top-level symbol of the unit into the global
// tier of its symbol table, then resolves their signatures.
//
// Only top-level items are visited. Function bodies and initializers are
// never entered, so a function may call another one declared later in the
// file. A malformed declaration is reported and skipped; the walk goes on.
func CollectModule(u *compctx.Unit) {
	if !u.Require(phase.PassDeclare) {
		return
	}

	c := &collector{unit: u}
	c.registerIntrinsics()

	if u.Module != nil {
		for _, node := range u.Module.Nodes {
			c.collectNode(node)
		}
	}

	c.resolveSignatures()
	u.Complete(phase.PassDeclare)
}

// registerIntrinsics pre-declares the compiler-provided functions
func (c *collector) registerIntrinsics() {
	for _, in := range Intrinsics {
		fn := types.NewFunction(in.Params, in.Return)
		fn.Variadic = in.Variadic
		sym := &symbols.Symbol{
			Name:     in.Name,
			Kind:     symbols.SymbolIntrinsic,
			Type:     fn,
			Params:   in.Params,
			Variadic: in.Variadic,
		}
		if err := c.unit.Table.DeclareGlobal(sym); err != nil {
			c.unit.Report(diagnostics.NewBug("intrinsic declared twice: " + in.Name))
		}
	}
}

func (c *collector) collectNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Block:
		// a stray block left by parser recovery; nothing inside it is global
		c.depth++
		for _, inner := range n.Nodes {
			c.collectNode(inner)
		}
		c.depth--
	case *ast.EntrypointDecl:
		if c.depth > 0 {
			return
		}
		c.collectEntrypoint(n)
	case ast.Decl:
		if c.depth > 0 {
			c.unit.Debugf("skipping nested declaration at %s\n", n.Loc())
			return
		}
		c.collectDecl(n)
	case *ast.BadStmt:
		if c.depth == 0 {
			c.malformed(n.Loc(), "could not read this declaration")
		}
	default:
		if c.depth == 0 && node != nil {
			c.malformed(node.Loc(), "expected a declaration at top level")
		}
	}
}

func (c *collector) malformed(loc *source.Location, msg string) {
	c.unit.Report(diagnostics.NewError("malformed declaration").
		WithCode(diagnostics.ErrMalformedDeclaration).
		WithPrimaryLabel(loc, msg))
}

func (c *collector) collectEntrypoint(e *ast.EntrypointDecl) {
	if c.entrypoint != nil {
		c.unit.Report(diagnostics.NewError("duplicate entrypoint").
			WithCode(diagnostics.ErrDuplicateEntrypoint).
			WithPrimaryLabel(e.Loc(), "second entrypoint declared here").
			WithSecondaryLabel(c.entrypoint.Loc(), "first entrypoint here").
			WithHelp("a compilation unit has at most one entrypoint"))
		return
	}
	c.entrypoint = e
}

// collectDecl creates the global symbol for decl. Struct and enum symbols get
// their (still empty) type right away so that any signature may refer to them.
func (c *collector) collectDecl(decl ast.Decl) {
	name := decl.DeclName()
	if name == nil || name.Name == "" {
		c.malformed(decl.Loc(), fmt.Sprintf("%s declaration has no name", ast.DeclKind(decl)))
		return
	}

	sym := &symbols.Symbol{
		Name:       name.Name,
		Decl:       decl,
		Location:   name.Loc(),
		Attributes: decl.Attrs(),
	}

	switch d := decl.(type) {
	case *ast.FuncDecl:
		sym.Kind = symbols.SymbolFunction
	case *ast.AsmFuncDecl:
		sym.Kind = symbols.SymbolAsmFunction
	case *ast.StructDecl:
		sym.Kind = symbols.SymbolStruct
		sym.Type = types.NewStruct(name.Name, nil)
	case *ast.EnumDecl:
		sym.Kind = symbols.SymbolEnum
		sym.Type = types.NewEnum(name.Name, types.TypeS32, nil)
	case *ast.ConstDecl:
		sym.Kind = symbols.SymbolConstant
	case *ast.StaticDecl:
		sym.Kind = symbols.SymbolStatic
		sym.Mutable = d.Mutable
		sym.Volatile = d.Volatile
		sym.ThreadLocal = d.ThreadLocal
		sym.Atomic = d.Atomic
	case *ast.TypeAliasDecl:
		sym.Kind = symbols.SymbolCustomType
	default:
		c.unit.Report(diagnostics.NewBug(fmt.Sprintf("forward declarator reached %T", decl)))
		return
	}

	if sym.IsType() && types.IsBuiltinName(sym.Name) {
		c.malformed(name.Loc(), fmt.Sprintf("%s is a builtin type and cannot be redefined", sym.Name))
		return
	}

	if err := c.unit.Table.DeclareGlobal(sym); err != nil {
		var dup *table.DuplicateSymbolError
		if errors.As(err, &dup) {
			c.unit.Report(diagnostics.RedeclaredSymbol(name.Loc(), dup.Previous.Location, sym.Name))
			return
		}
		c.unit.Report(diagnostics.NewBug(err.Error()))
		return
	}

	if c.unit.Config.Debug {
		colors.GREEN.Printf("declared %s %s\n", sym.Kind, sym.Name)
	}
	c.unit.Facts.SetDecl(decl, sym)
	c.pending = append(c.pending, pendingDecl{sym: sym, decl: decl})
}
