package attrcheck

import (
	"slices"
	"strings"

	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
)

// kindSet is a set of declaration kinds an attribute may decorate
type kindSet uint8

const (
	onFunction kindSet = 1 << iota
	onAsmFunction
	onEntrypoint
	onStruct
	onEnum
	onConstant
	onStatic
	onTypeAlias
)

var kindNames = []struct {
	kind kindSet
	name string
}{
	{onFunction, "function"},
	{onAsmFunction, "assembler function"},
	{onEntrypoint, "entrypoint"},
	{onStruct, "struct"},
	{onEnum, "enum"},
	{onConstant, "constant"},
	{onStatic, "static"},
	{onTypeAlias, "type alias"},
}

func kindOf(d ast.Decl) kindSet {
	switch d.(type) {
	case *ast.FuncDecl:
		return onFunction
	case *ast.AsmFuncDecl:
		return onAsmFunction
	case *ast.EntrypointDecl:
		return onEntrypoint
	case *ast.StructDecl:
		return onStruct
	case *ast.EnumDecl:
		return onEnum
	case *ast.ConstDecl:
		return onConstant
	case *ast.StaticDecl:
		return onStatic
	case *ast.TypeAliasDecl:
		return onTypeAlias
	}
	return 0
}

func (k kindSet) String() string {
	var names []string
	for _, kn := range kindNames {
		if k&kn.kind != 0 {
			names = append(names, kn.name)
		}
	}
	return strings.Join(names, ", ")
}

const onCallable = onFunction | onAsmFunction

// attrSpec describes one attribute
type attrSpec struct {
	on kindSet
	// values lists the accepted payloads; nil means the attribute takes none
	values []string
}

func (s attrSpec) takesValue() bool {
	return s.values != nil
}

func (s attrSpec) accepts(v string) bool {
	return slices.Contains(s.values, v)
}

var callingConventions = []string{
	"C", "fast", "tail", "cold", "swift", "preserve_most", "preserve_all", "win64", "sysv64",
}

var linkages = []string{
	"external", "internal", "private", "weak", "weak_odr", "linkonce", "linkonce_odr",
	"common", "appending", "extern_weak", "available_externally",
}

var asmSyntaxes = []string{"Intel", "AT&T"}

// attributes is the fixed compatibility table. It is shared read-only by
// every unit.
var attributes = map[string]attrSpec{
	"extern":       {on: onFunction | onStatic},
	"public":       {on: onCallable | onStruct | onEnum | onConstant | onStatic | onTypeAlias},
	"ignore":       {on: onFunction},
	"hot":          {on: onCallable},
	"noinline":     {on: onCallable},
	"inline":       {on: onCallable},
	"alwaysinline": {on: onCallable},
	"minsize":      {on: onCallable},
	"packed":       {on: onStruct},
	"heap":         {on: onStruct},
	"stack":        {on: onStruct},
	"safestack":    {on: onFunction | onEntrypoint},
	"strongstack":  {on: onFunction | onEntrypoint},
	"weakstack":    {on: onFunction | onEntrypoint},
	"precisefp":    {on: onFunction | onEntrypoint},
	"nounwind":     {on: onCallable},
	"optfuzzing":   {on: onFunction | onEntrypoint},

	"convention": {on: onCallable, values: callingConventions},
	"linkage":    {on: onFunction | onConstant | onStatic, values: linkages},

	"asmsyntax":     {on: onAsmFunction, values: asmSyntaxes},
	"asmthrow":      {on: onAsmFunction},
	"asmeffects":    {on: onAsmFunction},
	"asmalignstack": {on: onAsmFunction},
}

// conflicts lists attribute pairs that cannot decorate the same declaration
var conflicts = [][2]string{
	{"noinline", "alwaysinline"},
	{"noinline", "inline"},
	{"safestack", "strongstack"},
	{"safestack", "weakstack"},
	{"strongstack", "weakstack"},
	{"heap", "stack"},
}
