package table

import (
	"errors"
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/config"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/symbols"
)

var (
	// ErrScopeUnderflow is returned when EndScope has no frame to close.
	ErrScopeUnderflow = errors.New("scope stack underflow")
	// ErrNoScope is returned when a local is declared outside of any frame.
	ErrNoScope = errors.New("no open scope for local declaration")
)

// Namespace partitions the global tier. A struct and a function may share a
// name because they live in different namespaces.
type Namespace int

const (
	NamespaceFunction Namespace = iota
	NamespaceType
	NamespaceValue
)

func (ns Namespace) String() string {
	switch ns {
	case NamespaceFunction:
		return "function"
	case NamespaceType:
		return "type"
	default:
		return "value"
	}
}

// NamespaceOf returns the global namespace a symbol kind is declared in.
func NamespaceOf(kind symbols.SymbolKind) Namespace {
	switch kind {
	case symbols.SymbolFunction, symbols.SymbolAsmFunction, symbols.SymbolIntrinsic:
		return NamespaceFunction
	case symbols.SymbolStruct, symbols.SymbolEnum, symbols.SymbolCustomType:
		return NamespaceType
	default:
		return NamespaceValue
	}
}

// DuplicateSymbolError reports a second declaration of a name in the same namespace or frame.
type DuplicateSymbolError struct {
	Name     string
	Previous *symbols.Symbol
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol '%s' already declared", e.Name)
}

// SymbolTable is the two-tier symbol table of one compilation unit: a global
// tier filled by the forward declarator, and a stack of local frames stored
// in a single arena. Entering a frame records the arena length and leaving it
// truncates back, so lookups walk the arena from the innermost binding out.
type SymbolTable struct {
	globals [3]map[string]*symbols.Symbol
	order   []*symbols.Symbol // globals in declaration order

	locals []*symbols.Symbol
	frames []int

	mutDeref config.MutDeref
}

// NewSymbolTable creates an empty table. mutDeref selects whether field
// access looks through `mut Struct` the way it looks through `ptr[Struct]`.
func NewSymbolTable(mutDeref config.MutDeref) *SymbolTable {
	st := &SymbolTable{mutDeref: mutDeref}
	for i := range st.globals {
		st.globals[i] = make(map[string]*symbols.Symbol)
	}
	return st
}

// DeclareGlobal adds a symbol to the namespace of its kind.
func (st *SymbolTable) DeclareGlobal(sym *symbols.Symbol) error {
	ns := st.globals[NamespaceOf(sym.Kind)]
	if prev, exists := ns[sym.Name]; exists {
		return &DuplicateSymbolError{Name: sym.Name, Previous: prev}
	}
	ns[sym.Name] = sym
	st.order = append(st.order, sym)
	return nil
}

// Global looks a name up in a single global namespace.
func (st *SymbolTable) Global(ns Namespace, name string) (*symbols.Symbol, bool) {
	sym, ok := st.globals[ns][name]
	return sym, ok
}

func (st *SymbolTable) ResolveFunction(name string) (*symbols.Symbol, bool) {
	return st.Global(NamespaceFunction, name)
}

// ResolveType finds the innermost type named name: local struct declarations
// first, then the global type namespace. Local values with the same name do
// not hide a type.
func (st *SymbolTable) ResolveType(name string) (*symbols.Symbol, bool) {
	for i := len(st.locals) - 1; i >= 0; i-- {
		if sym := st.locals[i]; sym.Name == name && sym.IsType() {
			return sym, true
		}
	}
	return st.Global(NamespaceType, name)
}

// Globals returns global symbols in declaration order.
func (st *SymbolTable) Globals() []*symbols.Symbol {
	out := make([]*symbols.Symbol, len(st.order))
	copy(out, st.order)
	return out
}

// BeginScope opens a local frame
func (st *SymbolTable) BeginScope() {
	st.frames = append(st.frames, len(st.locals))
}

// EndScope closes the innermost frame and drops its bindings.
func (st *SymbolTable) EndScope() error {
	if len(st.frames) == 0 {
		return ErrScopeUnderflow
	}
	start := st.frames[len(st.frames)-1]
	st.frames = st.frames[:len(st.frames)-1]
	clear(st.locals[start:])
	st.locals = st.locals[:start]
	return nil
}

// Depth returns the number of open frames.
func (st *SymbolTable) Depth() int {
	return len(st.frames)
}

// DeclareLocal binds a symbol in the innermost frame. Shadowing a binding of
// an outer frame is allowed; redeclaring within the same frame is not.
func (st *SymbolTable) DeclareLocal(sym *symbols.Symbol) error {
	if len(st.frames) == 0 {
		return ErrNoScope
	}
	start := st.frames[len(st.frames)-1]
	for _, existing := range st.locals[start:] {
		if existing.Name == sym.Name {
			return &DuplicateSymbolError{Name: sym.Name, Previous: existing}
		}
	}
	st.locals = append(st.locals, sym)
	return nil
}

// Resolve finds a name in the local frames, innermost first, then in the
// global value, function and type namespaces.
func (st *SymbolTable) Resolve(name string) (*symbols.Symbol, bool) {
	for i := len(st.locals) - 1; i >= 0; i-- {
		if st.locals[i].Name == name {
			return st.locals[i], true
		}
	}
	for _, ns := range []Namespace{NamespaceValue, NamespaceFunction, NamespaceType} {
		if sym, ok := st.globals[ns][name]; ok {
			return sym, true
		}
	}
	return nil, false
}
