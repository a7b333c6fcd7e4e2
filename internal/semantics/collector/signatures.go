package collector

import (
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// Intrinsic describes a compiler-provided function
type Intrinsic struct {
	Name     string
	Params   []types.SemType
	Return   types.SemType
	Variadic bool
}

// Intrinsics are declared in every unit before any user declaration.
var Intrinsics = []Intrinsic{
	{Name: "memcpy", Params: []types.SemType{types.NewPointer(nil), types.NewPointer(nil), types.TypeU64}, Return: types.TypeVoid},
	{Name: "memmove", Params: []types.SemType{types.NewPointer(nil), types.NewPointer(nil), types.TypeU64}, Return: types.TypeVoid},
	{Name: "memset", Params: []types.SemType{types.NewPointer(nil), types.TypeU8, types.TypeU64}, Return: types.TypeVoid},
	{Name: "abort", Return: types.TypeVoid},
}

// resolveSignatures fills the types of the declared symbols. Aliases come
// first so every other signature sees their target, then struct fields and
// enum bases, and finally functions, constants and statics.
func (c *collector) resolveSignatures() {
	aliases := make(map[*symbols.Symbol]*ast.TypeAliasDecl)
	for _, p := range c.pending {
		if d, ok := p.decl.(*ast.TypeAliasDecl); ok {
			aliases[p.sym] = d
		}
	}
	r := &aliasResolver{c: c, decls: aliases, state: make(map[*symbols.Symbol]int)}
	for _, p := range c.pending {
		if _, ok := aliases[p.sym]; ok {
			r.resolve(p.sym)
		}
	}

	for _, p := range c.pending {
		switch d := p.decl.(type) {
		case *ast.StructDecl:
			c.structFields(p.sym, d)
		case *ast.EnumDecl:
			c.enumBase(p.sym, d)
		}
	}
	c.checkRecursiveStructs()

	for _, p := range c.pending {
		switch d := p.decl.(type) {
		case *ast.FuncDecl:
			c.functionSignature(p.sym, d.Params, d.Return, d.Attributes)
		case *ast.AsmFuncDecl:
			c.functionSignature(p.sym, d.Params, d.Return, d.Attributes)
		case *ast.ConstDecl:
			// an untyped constant or static takes the type of its value in the type checker
			if d.Type != nil {
				p.sym.Type = c.typeOf(d.Type)
			}
		case *ast.StaticDecl:
			if d.Type != nil {
				p.sym.Type = c.typeOf(d.Type)
			}
		}
	}
}

// typeOf resolves a written signature type and reports unknown names.
func (c *collector) typeOf(tn ast.TypeNode) types.SemType {
	if tn == nil {
		return types.TypeUnknown
	}
	t, missing := c.unit.ResolveType(tn)
	for _, m := range missing {
		c.unit.Report(diagnostics.UnknownType(m.Loc(), m.Name))
	}
	return t
}

func (c *collector) structFields(sym *symbols.Symbol, d *ast.StructDecl) {
	st := sym.Type.(*types.StructType)
	seen := make(map[string]*ast.FieldDecl, len(d.Fields))
	fields := make([]types.StructField, 0, len(d.Fields))
	for i, f := range d.Fields {
		name := fmt.Sprintf("%d", i)
		if f.Name != nil && f.Name.Name != "_" {
			name = f.Name.Name
			if prev, dup := seen[name]; dup {
				c.unit.Report(diagnostics.RedeclaredSymbol(f.Name.Loc(), prev.Name.Loc(), "field "+name))
				continue
			}
			seen[name] = f
		}
		fields = append(fields, types.StructField{Name: name, Type: c.typeOf(f.Type)})
	}
	st.Fields = fields
	if hasAttribute(d.Attributes, "packed") {
		st.Layout = types.LayoutPacked
	}
}

func (c *collector) enumBase(sym *symbols.Symbol, d *ast.EnumDecl) {
	et := sym.Type.(*types.EnumType)
	if d.Base != nil {
		base := c.typeOf(d.Base)
		switch {
		case types.IsInteger(base):
			et.Base = base
		case !types.IsUnknown(base):
			c.unit.Report(diagnostics.NewError("invalid enum base type").
				WithCode(diagnostics.ErrInvalidEnumBase).
				WithPrimaryLabel(d.Base.Loc(), fmt.Sprintf("'%s' is not an integer type", base)).
				WithHelp("enums are stored as one of s8..s64 or u8..u64"))
		}
	}

	seen := make(map[string]*ast.EnumVariant, len(d.Variants))
	for _, v := range d.Variants {
		if v.Name == nil {
			continue
		}
		if prev, dup := seen[v.Name.Name]; dup {
			c.unit.Report(diagnostics.RedeclaredSymbol(v.Name.Loc(), prev.Name.Loc(), "variant "+v.Name.Name))
			continue
		}
		seen[v.Name.Name] = v
		et.Variants = append(et.Variants, v.Name.Name)
	}
}

func (c *collector) functionSignature(sym *symbols.Symbol, params []*ast.Param, ret ast.TypeNode, attrs []ast.Attribute) {
	paramTypes := make([]types.SemType, len(params))
	for i, p := range params {
		paramTypes[i] = c.typeOf(p.Type)
	}

	var retType types.SemType = types.TypeVoid
	if ret != nil {
		retType = c.typeOf(ret)
	}

	fn := types.NewFunction(paramTypes, retType)
	fn.Variadic = hasAttribute(attrs, "ignore")
	for _, a := range attrs {
		if a.Name == "convention" && a.Payload != nil {
			fn.Convention = a.Payload.Value
		}
	}

	sym.Type = fn
	sym.Params = paramTypes
	sym.Variadic = fn.Variadic
}

// checkRecursiveStructs rejects structs that contain themselves by value.
// The offending field is given the unknown type so sizes stay computable.
func (c *collector) checkRecursiveStructs() {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*types.StructType]int)

	var visit func(st *types.StructType, decl ast.Node) bool
	visit = func(st *types.StructType, decl ast.Node) bool {
		switch state[st] {
		case visiting:
			return true
		case done:
			return false
		}
		state[st] = visiting
		for i, f := range st.Fields {
			inner, ok := valueStruct(f.Type)
			if !ok || !visit(inner, decl) {
				continue
			}
			if decl != nil {
				c.unit.Report(diagnostics.NewError("recursive struct has infinite size").
					WithCode(diagnostics.ErrMalformedDeclaration).
					WithPrimaryLabel(decl.Loc(), fmt.Sprintf("field %s of %s contains %s by value", f.Name, st.Name, inner.Name)).
					WithHelp("use a ptr[" + inner.Name + "] field instead"))
				decl = nil
			}
			st.Fields[i].Type = types.TypeUnknown
		}
		state[st] = done
		return false
	}

	for _, p := range c.pending {
		if d, ok := p.decl.(*ast.StructDecl); ok {
			visit(p.sym.Type.(*types.StructType), d)
		}
	}
}

// valueStruct returns the struct stored inline by a field of type t.
func valueStruct(t types.SemType) (*types.StructType, bool) {
	switch t := types.Unwrap(t).(type) {
	case *types.StructType:
		return t, true
	case *types.FixedArrayType:
		return valueStruct(t.Elem)
	}
	return nil, false
}

func hasAttribute(attrs []ast.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// aliasResolver resolves type aliases depth first so that an alias may name
// another alias declared later. Revisiting an alias that is still being
// resolved means the aliases form a cycle.
type aliasResolver struct {
	c     *collector
	decls map[*symbols.Symbol]*ast.TypeAliasDecl
	state map[*symbols.Symbol]int // 0 new, 1 resolving, 2 done
}

func (r *aliasResolver) resolve(sym *symbols.Symbol) {
	switch r.state[sym] {
	case 1:
		d := r.decls[sym]
		r.c.unit.Report(diagnostics.NewError("cyclic type alias").
			WithCode(diagnostics.ErrCyclicTypeAlias).
			WithPrimaryLabel(d.Name.Loc(), sym.Name+" refers to itself").
			WithHelp("break the cycle with a struct"))
		sym.Type = types.TypeUnknown
		return
	case 2:
		return
	}

	r.state[sym] = 1
	d := r.decls[sym]
	for _, ref := range namedRefs(d.Type) {
		if dep, ok := r.c.unit.Table.ResolveType(ref.Name); ok {
			if _, isAlias := r.decls[dep]; isAlias {
				r.resolve(dep)
			}
		}
	}
	if sym.Type == nil {
		if d.Type == nil {
			r.c.malformed(d.Loc(), "type alias "+sym.Name+" has no target type")
		}
		sym.Type = r.c.typeOf(d.Type)
	}
	r.state[sym] = 2
}

// namedRefs lists the named types mentioned in tn
func namedRefs(tn ast.TypeNode) []*ast.NamedType {
	switch n := tn.(type) {
	case *ast.NamedType:
		return []*ast.NamedType{n}
	case *ast.PtrType:
		if n.Elem != nil {
			return namedRefs(n.Elem)
		}
	case *ast.ArrayType:
		return namedRefs(n.Elem)
	case *ast.FixedArrayType:
		return namedRefs(n.Elem)
	case *ast.ConstType:
		return namedRefs(n.Inner)
	case *ast.MutType:
		return namedRefs(n.Inner)
	case *ast.FnType:
		var refs []*ast.NamedType
		for _, p := range n.Params {
			refs = append(refs, namedRefs(p)...)
		}
		if n.Return != nil {
			refs = append(refs, namedRefs(n.Return)...)
		}
		return refs
	}
	return nil
}
