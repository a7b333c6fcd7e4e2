package symbols

import (
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/source"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// SymbolKind categorizes symbols
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolAsmFunction
	SymbolIntrinsic
	SymbolConstant
	SymbolStatic
	SymbolCustomType
	SymbolEnum
	SymbolStruct
	SymbolLocal
	SymbolLLI
	SymbolParameter
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolAsmFunction:
		return "assembler function"
	case SymbolIntrinsic:
		return "intrinsic"
	case SymbolConstant:
		return "constant"
	case SymbolStatic:
		return "static"
	case SymbolCustomType:
		return "type alias"
	case SymbolEnum:
		return "enum"
	case SymbolStruct:
		return "struct"
	case SymbolLocal:
		return "local"
	case SymbolLLI:
		return "low-level binding"
	case SymbolParameter:
		return "parameter"
	default:
		return "unknown"
	}
}

// Symbol represents a declared entity. Type is nil until the declaration's
// signature has been resolved.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Type     types.SemType
	Decl     ast.Node // AST node that declared this symbol, nil for intrinsics
	Location *source.Location

	Mutable     bool
	Volatile    bool
	Atomic      bool
	ThreadLocal bool
	Variadic    bool // extra call arguments are accepted

	// Functions only
	Params     []types.SemType
	Attributes []ast.Attribute
}

// IsCallable reports whether the symbol names something that can be called by name.
func (s *Symbol) IsCallable() bool {
	switch s.Kind {
	case SymbolFunction, SymbolAsmFunction, SymbolIntrinsic:
		return true
	}
	return false
}

// IsType reports whether the symbol names a type.
func (s *Symbol) IsType() bool {
	switch s.Kind {
	case SymbolStruct, SymbolEnum, SymbolCustomType:
		return true
	}
	return false
}

// IsConstant reports whether the symbol can never be assigned.
func (s *Symbol) IsConstant() bool {
	return s.Kind == SymbolConstant
}

// Signature returns the function type of a callable symbol.
func (s *Symbol) Signature() (*types.FunctionType, bool) {
	fn, ok := s.Type.(*types.FunctionType)
	return fn, ok
}

// HasAttribute reports whether the declaration carries @name.
func (s *Symbol) HasAttribute(name string) bool {
	for _, a := range s.Attributes {
		if a.Name == name {
			return true
		}
	}
	return false
}
