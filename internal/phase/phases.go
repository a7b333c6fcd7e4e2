package phase

import "fmt"

// Pass identifies one semantic pass over a compilation unit
//
// Pass ordering is not linear. After the forward declarator and the scoper
// have run, the type checker and the attribute checker only need the scoper;
// the linter needs both of them (plus the scoper) to have run, whether or
// not they succeeded.
//
// Completion is recorded in a Tracker, and Missing() reports which
// prerequisites of a pass have not run yet.
type Pass int

const (
	PassDeclare    Pass = iota // forward declarator
	PassScope                  // scoper
	PassTypeCheck              // type checker
	PassAttributes             // attribute checker
	PassLint                   // control-flow analyzer
	passCount
)

// PassPrerequisites maps each pass to the passes that must have completed first.
// This explicit mapping allows the non-linear ordering above.
var PassPrerequisites = map[Pass][]Pass{
	PassDeclare:    nil,
	PassScope:      {PassDeclare},
	PassTypeCheck:  {PassScope},
	PassAttributes: {PassScope},
	PassLint:       {PassScope, PassTypeCheck, PassAttributes},
}

func (p Pass) String() string {
	switch p {
	case PassDeclare:
		return "Declare"
	case PassScope:
		return "Scope"
	case PassTypeCheck:
		return "TypeCheck"
	case PassAttributes:
		return "Attributes"
	case PassLint:
		return "Lint"
	default:
		return "Unknown"
	}
}

// Tracker records which passes completed for one unit.
type Tracker struct {
	done [passCount]bool
}

// Done reports whether pass p has completed.
func (t *Tracker) Done(p Pass) bool {
	if p < 0 || p >= passCount {
		return false
	}
	return t.done[p]
}

// Missing returns the prerequisites of p that have not completed, in order.
func (t *Tracker) Missing(p Pass) []Pass {
	var missing []Pass
	for _, req := range PassPrerequisites[p] {
		if !t.done[req] {
			missing = append(missing, req)
		}
	}
	return missing
}

// Complete marks p as finished. It fails if a prerequisite is still missing
// or if p already ran.
func (t *Tracker) Complete(p Pass) error {
	if p < 0 || p >= passCount {
		return fmt.Errorf("unknown pass %d", p)
	}
	if missing := t.Missing(p); len(missing) > 0 {
		return fmt.Errorf("pass %s completed before %v", p, missing)
	}
	if t.done[p] {
		return fmt.Errorf("pass %s already completed", p)
	}
	t.done[p] = true
	return nil
}

// Completed lists the finished passes in pipeline order.
func (t *Tracker) Completed() []Pass {
	var out []Pass
	for p := PassDeclare; p < passCount; p++ {
		if t.done[p] {
			out = append(out, p)
		}
	}
	return out
}
