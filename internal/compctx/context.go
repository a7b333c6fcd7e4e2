// Package compctx holds the state of one compilation unit while the semantic
// passes run over it.
//
// The AST is never mutated. Everything a pass learns about a node is stored in
// the Facts side tables, keyed by node identity, so later passes and the code
// generator can read it back.
//
// A Unit is owned by exactly one goroutine. Units checked in parallel share
// nothing but read-only package-level tables.
package compctx

import (
	"github.com/thrushlang/thrushc-sub007/colors"
	"github.com/thrushlang/thrushc-sub007/internal/config"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/table"
)

// Unit is one compilation unit together with everything computed about it
type Unit struct {
	Module      *ast.Module
	Table       *table.SymbolTable
	Facts       *Facts
	Diagnostics *diagnostics.DiagnosticBag
	Config      *config.Config

	// Passes records which semantic passes have completed
	Passes phase.Tracker
}

// New creates a unit for mod. A nil cfg means config.Default(). A nil mod
// gives an empty unit whose passes have nothing to walk.
func New(mod *ast.Module, cfg *config.Config) *Unit {
	if cfg == nil {
		cfg = config.Default()
	}
	var path string
	if mod != nil {
		path = mod.FilePath
	}
	return &Unit{
		Module:      mod,
		Table:       table.NewSymbolTable(cfg.FieldAccess.MutDeref),
		Facts:       NewFacts(),
		Diagnostics: diagnostics.NewDiagnosticBag(path),
		Config:      cfg,
	}
}

// Report appends a diagnostic to the unit's bag.
func (u *Unit) Report(d *diagnostics.Diagnostic) {
	u.Diagnostics.Add(d)
}

// Require checks that every prerequisite of pass p has completed. A missing
// prerequisite is a compiler bug; it is reported and false is returned so the
// pass can bail out.
func (u *Unit) Require(p phase.Pass) bool {
	missing := u.Passes.Missing(p)
	for _, m := range missing {
		u.Report(diagnostics.PassOrderBug(p.String(), m.String()))
	}
	return len(missing) == 0
}

// Complete records that pass p finished. Completing a pass twice or out of
// order is reported as a bug.
func (u *Unit) Complete(p phase.Pass) {
	if err := u.Passes.Complete(p); err != nil {
		u.Report(diagnostics.NewBug(err.Error()).WithCode(diagnostics.BugPassOrder))
		return
	}
	u.Debugf("[%s] done, %d error(s) so far\n", p, u.Diagnostics.ErrorCount())
}

// Debugf prints a trace line when debug output is enabled
func (u *Unit) Debugf(format string, args ...any) {
	if u.Config.Debug {
		colors.CYAN.Printf(format, args...)
	}
}
