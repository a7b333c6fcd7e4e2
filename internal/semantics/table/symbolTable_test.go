package table

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"

	"github.com/thrushlang/thrushc-sub007/internal/config"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

func newTestSymbol(name string, kind symbols.SymbolKind) *symbols.Symbol {
	return &symbols.Symbol{Name: name, Kind: kind}
}

func TestDeclareGlobalNamespaces(t *testing.T) {
	st := NewSymbolTable(config.MutDerefImplicit)

	fn := newTestSymbol("Point", symbols.SymbolFunction)
	strct := newTestSymbol("Point", symbols.SymbolStruct)
	be.Err(t, st.DeclareGlobal(fn), nil)
	be.Err(t, st.DeclareGlobal(strct), nil)

	err := st.DeclareGlobal(newTestSymbol("Point", symbols.SymbolEnum))
	var dup *DuplicateSymbolError
	be.True(t, errors.As(err, &dup))
	be.Equal(t, dup.Previous, strct)

	err = st.DeclareGlobal(newTestSymbol("Point", symbols.SymbolAsmFunction))
	be.Err(t, err, "symbol 'Point' already declared")

	got, ok := st.ResolveFunction("Point")
	be.True(t, ok)
	be.Equal(t, got, fn)
	got, ok = st.ResolveType("Point")
	be.True(t, ok)
	be.Equal(t, got, strct)

	be.Equal(t, len(st.Globals()), 2)
}

func TestScopesShadowAndRestore(t *testing.T) {
	st := NewSymbolTable(config.MutDerefImplicit)
	global := newTestSymbol("x", symbols.SymbolStatic)
	be.Err(t, st.DeclareGlobal(global), nil)

	st.BeginScope()
	outer := newTestSymbol("x", symbols.SymbolLocal)
	be.Err(t, st.DeclareLocal(outer), nil)

	st.BeginScope()
	inner := newTestSymbol("x", symbols.SymbolLocal)
	be.Err(t, st.DeclareLocal(inner), nil)
	be.Equal(t, st.Depth(), 2)

	got, _ := st.Resolve("x")
	be.Equal(t, got, inner)

	be.Err(t, st.EndScope(), nil)
	got, _ = st.Resolve("x")
	be.Equal(t, got, outer)

	be.Err(t, st.EndScope(), nil)
	got, _ = st.Resolve("x")
	be.Equal(t, got, global)
	be.Equal(t, st.Depth(), 0)
}

func TestDeclareLocalSameFrame(t *testing.T) {
	st := NewSymbolTable(config.MutDerefImplicit)
	st.BeginScope()
	be.Err(t, st.DeclareLocal(newTestSymbol("a", symbols.SymbolLocal)), nil)
	err := st.DeclareLocal(newTestSymbol("a", symbols.SymbolParameter))
	var dup *DuplicateSymbolError
	be.True(t, errors.As(err, &dup))
	be.Equal(t, dup.Name, "a")
}

func TestScopeErrors(t *testing.T) {
	st := NewSymbolTable(config.MutDerefImplicit)
	be.Err(t, st.EndScope(), ErrScopeUnderflow)
	be.Err(t, st.DeclareLocal(newTestSymbol("a", symbols.SymbolLocal)), ErrNoScope)
}

func TestResolveOrder(t *testing.T) {
	st := NewSymbolTable(config.MutDerefImplicit)
	fn := newTestSymbol("f", symbols.SymbolFunction)
	typ := newTestSymbol("T", symbols.SymbolStruct)
	be.Err(t, st.DeclareGlobal(fn), nil)
	be.Err(t, st.DeclareGlobal(typ), nil)

	got, ok := st.Resolve("f")
	be.True(t, ok)
	be.Equal(t, got, fn)
	got, ok = st.Resolve("T")
	be.True(t, ok)
	be.Equal(t, got, typ)

	_, ok = st.Resolve("missing")
	be.True(t, !ok)
}

func TestFramesDoNotLeak(t *testing.T) {
	st := NewSymbolTable(config.MutDerefImplicit)
	for i := 0; i < 3; i++ {
		st.BeginScope()
		be.Err(t, st.DeclareLocal(newTestSymbol("tmp", symbols.SymbolLocal)), nil)
		be.Err(t, st.EndScope(), nil)
	}
	_, ok := st.Resolve("tmp")
	be.True(t, !ok)
	be.Equal(t, len(st.locals), 0)
}

func TestNamespaceOf(t *testing.T) {
	be.Equal(t, NamespaceOf(symbols.SymbolIntrinsic), NamespaceFunction)
	be.Equal(t, NamespaceOf(symbols.SymbolCustomType), NamespaceType)
	be.Equal(t, NamespaceOf(symbols.SymbolStatic), NamespaceValue)
	be.Equal(t, NamespaceOf(symbols.SymbolConstant), NamespaceValue)
	be.Equal(t, NamespaceValue.String(), "value")
}

func TestSymbolSignature(t *testing.T) {
	sym := &symbols.Symbol{Name: "f", Kind: symbols.SymbolFunction, Type: types.NewFunction(nil, types.TypeVoid)}
	fn, ok := sym.Signature()
	be.True(t, ok)
	be.True(t, fn.Return.Equals(types.TypeVoid))
	be.True(t, sym.IsCallable())
	be.True(t, !sym.IsType())
}

func TestResolveTypeSeesLocalStructs(t *testing.T) {
	st := NewSymbolTable(config.MutDerefImplicit)
	global := newTestSymbol("P", symbols.SymbolStruct)
	be.Err(t, st.DeclareGlobal(global), nil)

	st.BeginScope()
	local := newTestSymbol("P", symbols.SymbolStruct)
	be.Err(t, st.DeclareLocal(local), nil)
	st.BeginScope()
	be.Err(t, st.DeclareLocal(newTestSymbol("P", symbols.SymbolLocal)), nil)

	got, ok := st.ResolveType("P")
	be.True(t, ok)
	be.Equal(t, got, local)

	be.Err(t, st.EndScope(), nil)
	be.Err(t, st.EndScope(), nil)
	got, _ = st.ResolveType("P")
	be.Equal(t, got, global)
}
