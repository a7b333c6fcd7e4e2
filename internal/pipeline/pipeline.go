// Package pipeline sequences the semantic passes over compilation units and
// decides whether code generation may run.
package pipeline

import (
	"github.com/thrushlang/thrushc-sub007/colors"
	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/table"
)

// Pipeline coordinates the semantic checks of one unit
type Pipeline struct {
	unit *compctx.Unit
}

// Result is the verdict for one unit together with what the passes computed.
// The AST itself is not copied; it stays reachable through the unit.
type Result struct {
	FilePath    string
	HasErrors   bool
	Diagnostics *diagnostics.DiagnosticBag
	Table       *table.SymbolTable
	Facts       *compctx.Facts
	Passes      phase.Tracker
}

// CanGenerate reports whether code generation may run on the unit: every
// pass completed and none of them reported an error or a bug.
func (r *Result) CanGenerate() bool {
	if r.HasErrors {
		return false
	}
	for _, step := range steps {
		if !r.Passes.Done(step.pass) {
			return false
		}
	}
	return true
}

// New creates a pipeline for u
func New(u *compctx.Unit) *Pipeline {
	return &Pipeline{unit: u}
}

// Run executes every semantic pass in order. A pass runs even when an
// earlier one reported errors, so one run reports every independent problem.
func (p *Pipeline) Run() *Result {
	u := p.unit
	for i, step := range steps {
		u.Debugf("\n[Phase %d] %s\n", i+1, step.title)
		step.run(u)
		if u.Config.Debug {
			colors.PURPLE.Printf("  ✓ %s\n", u.Diagnostics.FilePath())
		}
	}

	if u.Config.Debug {
		if u.Diagnostics.HasErrors() {
			colors.RED.Printf("\n✗ %s: %d error(s)\n", u.Diagnostics.FilePath(), u.Diagnostics.ErrorCount()+u.Diagnostics.BugCount())
		} else {
			colors.GREEN.Printf("\n✓ %s checked\n", u.Diagnostics.FilePath())
		}
	}

	return &Result{
		FilePath:    u.Diagnostics.FilePath(),
		HasErrors:   u.Diagnostics.HasErrors(),
		Diagnostics: u.Diagnostics,
		Table:       u.Table,
		Facts:       u.Facts,
		Passes:      u.Passes,
	}
}
