package cfganalyzer

import (
	"fmt"

	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
	"github.com/thrushlang/thrushc-sub007/internal/semantics/controlflow"
	"github.com/thrushlang/thrushc-sub007/internal/types"
)

// AnalysisContext is the control-flow position of the statement being
// analyzed. It is passed by value: entering a loop or a body makes a copy.
type AnalysisContext struct {
	// InsideFunction is set for function and entrypoint bodies, including
	// every block nested in them
	InsideFunction bool
	// LoopDepth counts the loop bodies enclosing the statement
	LoopDepth int
}

func (ac AnalysisContext) enterLoop() AnalysisContext {
	ac.LoopDepth++
	return ac
}

// bodyContext is the context a function or entrypoint body starts in.
// Loop depth does not carry into a body.
var bodyContext = AnalysisContext{InsideFunction: true}

// blockState is where a statement list is after the statements seen so far
type blockState int

const (
	stateOpen blockState = iota
	stateTerminated
	stateBreakSeen
	stateContinueSeen
	stateDead // a duplicate terminator was reported; the rest is unreachable
)

// AnalyzeModule checks terminators, reachability and the placement of
// low-level instructions in every body of the unit.
func AnalyzeModule(u *compctx.Unit) {
	if !u.Require(phase.PassLint) {
		return
	}

	if u.Module != nil {
		var topLevel []ast.Node
		for _, node := range u.Module.Nodes {
			switch n := node.(type) {
			case *ast.FuncDecl:
				analyzeFunction(u, n)
			case *ast.EntrypointDecl:
				analyzeBlock(u, n.Body, bodyContext)
			case *ast.ConstDecl:
				checkGlobalInitializer(u, n.Value)
			case *ast.StaticDecl:
				checkGlobalInitializer(u, n.Value)
			case *ast.EnumDecl:
				for _, v := range n.Variants {
					checkGlobalInitializer(u, v.Value)
				}
			case ast.Decl:
				// no bodies
			default:
				topLevel = append(topLevel, node)
			}
		}
		// stray top-level statements form one list outside any function
		analyzeNodes(u, topLevel, AnalysisContext{})
	}

	u.Complete(phase.PassLint)
}

func analyzeFunction(u *compctx.Unit, decl *ast.FuncDecl) {
	if decl.Body == nil {
		return
	}
	analyzeBlock(u, decl.Body, bodyContext)
	checkMissingReturn(u, decl)
}

func analyzeBlock(u *compctx.Unit, block *ast.Block, ac AnalysisContext) {
	if block == nil {
		return
	}
	analyzeNodes(u, block.Nodes, ac)
}

// analyzeNodes runs the block state machine over one statement list.
// Nested blocks get a fresh state.
func analyzeNodes(u *compctx.Unit, nodes []ast.Node, ac AnalysisContext) {
	state := stateOpen
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if state != stateOpen {
			if state != stateDead && reportDuplicate(u, state, node) {
				state = stateDead
				continue
			}
			reportUnreachable(u, node)
			continue
		}
		state = analyzeNode(u, node, ac)
	}
}

// analyzeNode checks one reachable statement and returns the state of the
// list after it.
func analyzeNode(u *compctx.Unit, node ast.Node, ac AnalysisContext) blockState {
	switch n := node.(type) {
	case *ast.ReturnStmt:
		checkExpr(u, n.Result, ac)
		if !ac.InsideFunction {
			u.Report(diagnostics.NewError("return outside of a function").
				WithCode(diagnostics.ErrReturnOutsideFunction).
				WithPrimaryLabel(n.Loc(), "not inside a function body"))
			return stateOpen
		}
		return stateTerminated

	case *ast.BreakStmt:
		if ac.LoopDepth == 0 {
			u.Report(diagnostics.NewError("break outside of a loop").
				WithCode(diagnostics.ErrBreakOutsideLoop).
				WithPrimaryLabel(n.Loc(), "not inside a loop"))
			return stateOpen
		}
		return stateBreakSeen

	case *ast.ContinueStmt:
		if ac.LoopDepth == 0 {
			u.Report(diagnostics.NewError("continue outside of a loop").
				WithCode(diagnostics.ErrContinueOutsideLoop).
				WithPrimaryLabel(n.Loc(), "not inside a loop"))
			return stateOpen
		}
		return stateContinueSeen

	case *ast.Block:
		analyzeBlock(u, n, ac)
	case *ast.IfStmt:
		analyzeIf(u, n, ac)
	case *ast.WhileStmt:
		checkExpr(u, n.Cond, ac)
		analyzeBlock(u, n.Body, ac.enterLoop())
	case *ast.LoopStmt:
		analyzeBlock(u, n.Body, ac.enterLoop())
	case *ast.ForStmt:
		// init runs once outside the body; post runs as part of each iteration
		if n.Init != nil {
			analyzeNode(u, n.Init, ac)
		}
		checkExpr(u, n.Cond, ac)
		if n.Post != nil {
			analyzeNode(u, n.Post, ac.enterLoop())
		}
		analyzeBlock(u, n.Body, ac.enterLoop())

	case *ast.ExprStmt:
		checkExpr(u, n.X, ac)
	case *ast.LocalDecl:
		checkExpr(u, n.Value, ac)
	case *ast.ConstDecl:
		checkGlobalInitializer(u, n.Value)
	case *ast.AssignStmt:
		checkExpr(u, n.Lhs, ac)
		checkExpr(u, n.Rhs, ac)
	case *ast.InstrDecl:
		requireFunction(u, n, "instr", ac)
		checkExpr(u, n.Value, ac)
	case *ast.WriteStmt:
		requireFunction(u, n, "write", ac)
		checkExpr(u, n.Target, ac)
		checkExpr(u, n.Value, ac)
	case ast.Expression:
		checkExpr(u, n, ac)
	}
	return stateOpen
}

func analyzeIf(u *compctx.Unit, s *ast.IfStmt, ac AnalysisContext) {
	checkExpr(u, s.Cond, ac)
	analyzeBlock(u, s.Body, ac)
	switch e := s.Else.(type) {
	case nil:
	case *ast.IfStmt:
		analyzeIf(u, e, ac)
	case *ast.Block:
		analyzeBlock(u, e, ac)
	default:
		analyzeNode(u, e, ac)
	}
}

// reportDuplicate reports node when it repeats the terminator that closed
// the list. It returns false when node is something else.
func reportDuplicate(u *compctx.Unit, state blockState, node ast.Node) bool {
	var code, what string
	switch {
	case state == stateTerminated && isReturn(node):
		code, what = diagnostics.ErrDuplicateReturn, "return"
	case state == stateBreakSeen && isBreak(node):
		code, what = diagnostics.ErrDuplicateBreak, "break"
	case state == stateContinueSeen && isContinue(node):
		code, what = diagnostics.ErrDuplicateContinue, "continue"
	default:
		return false
	}
	u.Report(diagnostics.NewError(fmt.Sprintf("duplicate %s", what)).
		WithCode(code).
		WithPrimaryLabel(node.Loc(), fmt.Sprintf("previous %s makes this unreachable", what)).
		WithHelp(fmt.Sprintf("remove this %s", what)))
	return true
}

func reportUnreachable(u *compctx.Unit, node ast.Node) {
	var d *diagnostics.Diagnostic
	if u.Config.Strict {
		d = diagnostics.NewError("unreachable code")
	} else {
		d = diagnostics.NewWarning("unreachable code")
	}
	u.Report(d.WithCode(diagnostics.ErrUnreachableCode).
		WithPrimaryLabel(node.Loc(), "this code will never execute").
		WithHelp("remove this code or restructure control flow"))
}

func isReturn(n ast.Node) bool {
	_, ok := n.(*ast.ReturnStmt)
	return ok
}

func isBreak(n ast.Node) bool {
	_, ok := n.(*ast.BreakStmt)
	return ok
}

func isContinue(n ast.Node) bool {
	_, ok := n.(*ast.ContinueStmt)
	return ok
}

// checkMissingReturn reports a function with a result that can reach the end
// of its body without returning.
func checkMissingReturn(u *compctx.Unit, decl *ast.FuncDecl) {
	sym, ok := u.Facts.Decl(decl)
	if !ok {
		return
	}
	fn, ok := sym.Signature()
	if !ok || fn.Return == nil || types.IsVoid(fn.Return) || types.IsUnknown(fn.Return) {
		return
	}

	cfg := controlflow.NewCFGBuilder().BuildFunctionCFG(decl.Body, decl.Loc())
	if controlflow.AllPathsReturn(cfg) {
		return
	}

	at := decl.Loc()
	if decl.Name != nil {
		at = decl.Name.Loc()
	}
	d := diagnostics.NewError(fmt.Sprintf("not all code paths in function '%s' return a value of type '%s'", sym.Name, fn.Return)).
		WithCode(diagnostics.ErrMissingReturn).
		WithPrimaryLabel(at, "missing return on some paths")
	for _, block := range controlflow.MissingReturnBranches(cfg) {
		if block.Location == nil || block.Location.Start == nil {
			continue
		}
		d.WithSecondaryLabel(block.Location, fmt.Sprintf("missing return in %s at line %d", block.BranchKind, block.Location.Start.Line))
	}
	u.Report(d.WithHelp("make sure every branch returns, or add a final return at the end of the function"))
}
