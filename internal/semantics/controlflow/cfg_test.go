package controlflow

import (
	"testing"

	"github.com/nalgeon/be"

	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/sexpr"
)

// buildFunction decodes src and builds the graph of its first function
func buildFunction(t *testing.T, src string) *ControlFlowGraph {
	t.Helper()

	mod, err := sexpr.Decode("test.th", src)
	be.Err(t, err, nil)

	for _, node := range mod.Nodes {
		if fn, ok := node.(*ast.FuncDecl); ok {
			return NewCFGBuilder().BuildFunctionCFG(fn.Body, fn.Loc())
		}
	}
	t.Fatal("no function found")
	return nil
}

func TestCFGBasicConstruction(t *testing.T) {
	cfg := buildFunction(t, `(fn f () s32 (block (return 42)))`)

	be.True(t, cfg.Entry != nil)
	be.True(t, cfg.Exit != nil)
	be.True(t, cfg.Entry.Returns)
	be.Equal(t, cfg.Entry.Terminator, FlowReturn)
	be.Equal(t, len(cfg.Exit.Predecessors), 1)
}

func TestStatementsAfterReturnAreDropped(t *testing.T) {
	cfg := buildFunction(t, `(fn f () s32 (block (return 42) (let x s32 10)))`)

	be.Equal(t, len(cfg.Entry.Nodes), 1)
	be.True(t, AllPathsReturn(cfg))
}

func TestAllPathsReturn(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"single return", `(return 1)`, true},
		{"empty body", ``, false},
		{"if without else", `(if (> x 0) (block (return 1)))`, false},
		{"if and else both return", `(if (> x 0) (block (return 1)) (block (return 2)))`, true},
		{"else if chain without final else", `(if (> x 0) (block (return 1)) (if (< x 0) (block (return 2))))`, false},
		{"else if chain with final else", `(if (> x 0) (block (return 1)) (if (< x 0) (block (return 2)) (block (return 3))))`, true},
		{"return after if", `(if (> x 0) (block (return 1))) (return 0)`, true},
		{"nested block returns", `(block (return 1))`, true},
		{"infinite loop", `(loop (block (let y s32 1)))`, true},
		{"infinite loop with return", `(loop (block (return 1)))`, true},
		{"loop left by break", `(loop (block (break)))`, false},
		{"loop with break then return", `(loop (block (break))) (return 1)`, true},
		{"while may not run", `(while (> x 0) (block (return 1)))`, false},
		{"for without condition", `(for _ _ _ (block (return 1)))`, true},
		{"continue keeps looping", `(loop (block (continue)))`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := buildFunction(t, `(fn f ((x s32)) s32 (block `+tt.body+`))`)
			be.Equal(t, AllPathsReturn(cfg), tt.want)
		})
	}
}

func TestMissingReturnBranches(t *testing.T) {
	cfg := buildFunction(t, `(fn f ((x s32)) s32 (block
		(if (> x 0) (block (return 1)) (block (let y s32 2)))))`)

	be.True(t, !AllPathsReturn(cfg))
	missing := MissingReturnBranches(cfg)
	be.Equal(t, len(missing), 1)
	be.Equal(t, missing[0].BranchKind, "else")
}

func TestMissingReturnBranchesStraightLine(t *testing.T) {
	cfg := buildFunction(t, `(fn f ((x s32)) s32 (block (let y s32 2)))`)

	be.True(t, !AllPathsReturn(cfg))
	be.Equal(t, len(MissingReturnBranches(cfg)), 0)
}

func TestBreakOutsideLoopEndsBlock(t *testing.T) {
	cfg := buildFunction(t, `(fn f () s32 (block (break) (return 1)))`)

	be.Equal(t, cfg.Entry.Terminator, FlowBreak)
	be.True(t, !cfg.Entry.CanFallThru)
	be.Equal(t, len(cfg.Entry.Successors), 0)
}
