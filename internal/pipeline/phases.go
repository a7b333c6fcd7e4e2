package pipeline

import (
	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/attrcheck"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/cfganalyzer"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/collector"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/resolver"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/typechecker"
)

// step is one semantic pass as the pipeline runs it
type step struct {
	pass  phase.Pass
	title string
	run   func(*compctx.Unit)
}

// steps is the run order. It satisfies phase.PassPrerequisites; each pass
// also checks its own prerequisites when it starts.
var steps = []step{
	{phase.PassDeclare, "Forward declaration", collector.CollectModule},
	{phase.PassScope, "Scope resolution", resolver.ResolveModule},
	{phase.PassTypeCheck, "Type checking", typechecker.CheckModule},
	{phase.PassAttributes, "Attribute checking", attrcheck.CheckModule},
	{phase.PassLint, "Control-flow analysis", cfganalyzer.AnalyzeModule},
}
