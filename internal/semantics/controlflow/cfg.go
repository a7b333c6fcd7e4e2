package controlflow

import (
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/source"
)

// ControlFlowGraph represents the control flow structure of a function body
type ControlFlowGraph struct {
	Entry *BasicBlock // Entry block
	Exit  *BasicBlock // Virtual exit block
}

// BasicBlock represents a sequence of statements with single entry and exit
type BasicBlock struct {
	ID           int              // Unique identifier
	Nodes        []ast.Node       // Statements in this block
	Successors   []*BasicBlock    // Possible next blocks
	Predecessors []*BasicBlock    // Blocks that can reach this one
	Terminator   ControlFlowKind  // How this block ends
	Location     *source.Location // Location for diagnostics
	Returns      bool             // Whether this block always returns
	CanFallThru  bool             // Whether execution can fall through
	BranchKind   string           // "if", "else", "loop", etc.
}

// ControlFlowKind represents how a basic block terminates
type ControlFlowKind int

const (
	FlowFallthrough ControlFlowKind = iota // Normal flow to next block
	FlowReturn                             // Return statement
	FlowBreak                              // Break statement
	FlowContinue                           // Continue statement
	FlowConditional                        // If branch
	FlowLoop                               // Loop header
)

// CFGBuilder builds control flow graphs from function bodies.
//
// The builder reports nothing. Misplaced terminators and unreachable
// statements are the analyzer's business; here a break outside a loop simply
// ends its block.
type CFGBuilder struct {
	blockCounter int
	currentLoop  *loopContext
}

// loopContext tracks the current loop for break/continue statements
type loopContext struct {
	breakTarget    *BasicBlock
	continueTarget *BasicBlock
	parent         *loopContext
}

func NewCFGBuilder() *CFGBuilder {
	return &CFGBuilder{}
}

func (b *CFGBuilder) newBlock() *BasicBlock {
	b.blockCounter++
	return &BasicBlock{
		ID:          b.blockCounter,
		Terminator:  FlowFallthrough,
		CanFallThru: true,
	}
}

func addEdge(from, to *BasicBlock) {
	if from != nil && to != nil {
		from.Successors = append(from.Successors, to)
		to.Predecessors = append(to.Predecessors, from)
	}
}

// BuildFunctionCFG builds the graph of a function or entrypoint body
func (b *CFGBuilder) BuildFunctionCFG(body *ast.Block, loc *source.Location) *ControlFlowGraph {
	cfg := &ControlFlowGraph{
		Entry: b.newBlock(),
		Exit:  b.newBlock(),
	}
	cfg.Entry.Location = loc

	if body == nil {
		addEdge(cfg.Entry, cfg.Exit)
		return cfg
	}

	current := b.buildBlock(body, cfg.Entry, cfg.Exit)
	if current != nil && current.CanFallThru {
		addEdge(current, cfg.Exit)
	}
	return cfg
}

// buildBlock returns the block control continues in, or nil when the
// statement list never falls through.
func (b *CFGBuilder) buildBlock(block *ast.Block, current, exit *BasicBlock) *BasicBlock {
	if block == nil {
		return current
	}
	for _, node := range block.Nodes {
		if current == nil {
			// the rest is dead
			break
		}
		current = b.buildNode(node, current, exit)
	}
	return current
}

func (b *CFGBuilder) buildNode(node ast.Node, current, exit *BasicBlock) *BasicBlock {
	if node == nil || current == nil {
		return current
	}

	switch n := node.(type) {
	case *ast.ReturnStmt:
		return b.buildReturn(n, current, exit)
	case *ast.BreakStmt:
		return b.buildJump(n, current, FlowBreak)
	case *ast.ContinueStmt:
		return b.buildJump(n, current, FlowContinue)
	case *ast.IfStmt:
		return b.buildIf(n, current, exit)
	case *ast.ForStmt:
		return b.buildLoop(n, n.Body, n.Cond != nil, current, exit)
	case *ast.WhileStmt:
		return b.buildLoop(n, n.Body, true, current, exit)
	case *ast.LoopStmt:
		return b.buildLoop(n, n.Body, false, current, exit)
	case *ast.Block:
		return b.buildBlock(n, current, exit)
	default:
		current.Nodes = append(current.Nodes, node)
		return current
	}
}

func (b *CFGBuilder) buildReturn(stmt *ast.ReturnStmt, current, exit *BasicBlock) *BasicBlock {
	current.Nodes = append(current.Nodes, stmt)
	current.Terminator = FlowReturn
	current.Returns = true
	current.CanFallThru = false
	addEdge(current, exit)
	return nil
}

func (b *CFGBuilder) buildJump(stmt ast.Statement, current *BasicBlock, kind ControlFlowKind) *BasicBlock {
	current.Nodes = append(current.Nodes, stmt)
	current.Terminator = kind
	current.CanFallThru = false
	if b.currentLoop != nil {
		target := b.currentLoop.breakTarget
		if kind == FlowContinue {
			target = b.currentLoop.continueTarget
		}
		addEdge(current, target)
	}
	return nil
}

func (b *CFGBuilder) buildIf(stmt *ast.IfStmt, current, exit *BasicBlock) *BasicBlock {
	current.Nodes = append(current.Nodes, stmt)
	current.Terminator = FlowConditional

	ifBlock := b.newBlock()
	ifBlock.Location = stmt.Body.Loc()
	ifBlock.BranchKind = "if"
	addEdge(current, ifBlock)
	afterIf := b.buildBlock(stmt.Body, ifBlock, exit)

	var afterElse *BasicBlock
	if stmt.Else != nil {
		elseBlock := b.newBlock()
		elseBlock.Location = stmt.Else.Loc()
		elseBlock.BranchKind = "else"
		addEdge(current, elseBlock)

		switch e := stmt.Else.(type) {
		case *ast.IfStmt:
			afterElse = b.buildIf(e, elseBlock, exit)
		case *ast.Block:
			afterElse = b.buildBlock(e, elseBlock, exit)
		default:
			afterElse = b.buildNode(stmt.Else, elseBlock, exit)
		}
	}

	merge := b.newBlock()
	merge.Location = stmt.Loc()
	reachable := false

	if afterIf != nil && afterIf.CanFallThru {
		addEdge(afterIf, merge)
		reachable = true
	}
	if stmt.Else == nil {
		addEdge(current, merge)
		reachable = true
	} else if afterElse != nil && afterElse.CanFallThru {
		addEdge(afterElse, merge)
		reachable = true
	}

	if !reachable {
		return nil
	}
	return merge
}

// buildLoop handles every loop form. A loop without a condition is left
// only through break.
func (b *CFGBuilder) buildLoop(stmt ast.Statement, body *ast.Block, conditional bool, current, exit *BasicBlock) *BasicBlock {
	header := b.newBlock()
	header.Location = stmt.Loc()
	header.Terminator = FlowLoop
	addEdge(current, header)

	bodyBlock := b.newBlock()
	bodyBlock.BranchKind = "loop"
	if body != nil {
		bodyBlock.Location = body.Loc()
	}
	addEdge(header, bodyBlock)

	after := b.newBlock()
	after.Location = stmt.Loc()
	if conditional {
		addEdge(header, after)
	}

	b.currentLoop = &loopContext{
		breakTarget:    after,
		continueTarget: header,
		parent:         b.currentLoop,
	}
	last := b.buildBlock(body, bodyBlock, exit)
	if last != nil && last.CanFallThru {
		addEdge(last, header)
	}
	b.currentLoop = b.currentLoop.parent

	if len(after.Predecessors) == 0 {
		return nil
	}
	return after
}
