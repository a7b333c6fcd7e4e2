package compctx

import (
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// ResolveType converts a written type into a semantic type and records it in
// the facts. Names that resolve to nothing become the unknown type and are
// returned so the caller can report them where it sees fit.
//
// A named type whose symbol has no type yet (an alias still being resolved)
// also yields unknown, but is not reported as missing.
func (u *Unit) ResolveType(tn ast.TypeNode) (types.SemType, []*ast.NamedType) {
	var missing []*ast.NamedType
	t := u.resolveType(tn, &missing)
	return t, missing
}

func (u *Unit) resolveType(tn ast.TypeNode, missing *[]*ast.NamedType) types.SemType {
	if tn == nil {
		return types.TypeVoid
	}

	var t types.SemType
	switch n := tn.(type) {
	case *ast.NamedType:
		t = u.namedType(n, missing)
	case *ast.PtrType:
		if n.Elem == nil {
			t = types.NewPointer(nil)
		} else {
			t = types.NewPointer(u.resolveType(n.Elem, missing))
		}
	case *ast.AddrType:
		t = types.TypeAddr
	case *ast.ArrayType:
		t = types.NewArray(u.resolveType(n.Elem, missing))
	case *ast.FixedArrayType:
		t = types.NewFixedArray(u.resolveType(n.Elem, missing), n.Length)
	case *ast.ConstType:
		t = types.NewConst(u.resolveType(n.Inner, missing))
	case *ast.MutType:
		t = types.NewMut(u.resolveType(n.Inner, missing))
	case *ast.FnType:
		params := make([]types.SemType, len(n.Params))
		for i, p := range n.Params {
			params[i] = u.resolveType(p, missing)
		}
		fn := types.NewFunction(params, u.resolveType(n.Return, missing))
		fn.Variadic = n.Variadic
		t = fn
	default:
		t = types.TypeUnknown
	}

	u.Facts.SetTypeNode(tn, t)
	return t
}

func (u *Unit) namedType(n *ast.NamedType, missing *[]*ast.NamedType) types.SemType {
	if t, ok := types.FromName(n.Name); ok {
		return t
	}
	sym, ok := u.Table.ResolveType(n.Name)
	if !ok {
		*missing = append(*missing, n)
		return types.TypeUnknown
	}
	u.Facts.SetRef(n, sym)
	if sym.Type == nil {
		return types.TypeUnknown
	}
	return sym.Type
}
