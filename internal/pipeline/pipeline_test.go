package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/thrushlang/thrushc-sub007/colors"
	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/config"
	"github.com/thrushlang/thrushc-sub007/internal/diagnostics"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/sexpr"
	"github.com/thrushlang/thrushc-sub007/internal/phase"
	"github.com/thrushlang/thrushc-sub007/internal/testcase"
)

func decode(t *testing.T, file, src string) *ast.Module {
	t.Helper()
	mod, err := sexpr.Decode(file, src)
	be.Err(t, err, nil)
	return mod
}

func runWith(t *testing.T, cfg *config.Config, src string) *Result {
	t.Helper()
	return New(compctx.New(decode(t, "test.th", src), cfg)).Run()
}

func TestRunCompletesEveryPass(t *testing.T) {
	r := runWith(t, nil, `(fn f () void (block))`)

	be.Equal(t, r.FilePath, "test.th")
	be.True(t, !r.HasErrors)
	be.Equal(t, r.Passes.Completed(), []phase.Pass{
		phase.PassDeclare, phase.PassScope, phase.PassTypeCheck, phase.PassAttributes, phase.PassLint,
	})
	be.True(t, r.CanGenerate())
}

func TestRunWithoutModule(t *testing.T) {
	r := New(compctx.New(nil, nil)).Run()
	be.Equal(t, r.Diagnostics.Codes(), []string(nil))
	be.True(t, r.CanGenerate())
}

func TestRunKeepsGoingAfterErrors(t *testing.T) {
	// an undeclared name, a type mismatch and a misused attribute are
	// independent problems and all of them are reported in one run
	r := runWith(t, nil, `
		(fn @packed f () void (block (let a s32 missing)))
		(fn g () void (block (let b bool 1)))`)

	be.Equal(t, r.Diagnostics.Codes(), []string{
		diagnostics.ErrUndeclaredSymbol,
		diagnostics.ErrTypeMismatch,
		diagnostics.ErrAttributeMisuse,
	})
	be.True(t, r.HasErrors)
	be.True(t, r.Passes.Done(phase.PassLint))
	be.True(t, !r.CanGenerate())
}

func TestCanGenerate(t *testing.T) {
	lenient := config.Default()
	lenient.Strict = false

	tests := []struct {
		name string
		cfg  *config.Config
		src  string
		want bool
	}{
		{"clean unit", nil, `(fn f () s32 (block (return 1)))`, true},
		{"type error", nil, `(fn f () s32 (block (return true)))`, false},
		{"unreachable code is an error when strict", nil, `(fn f () void (block (return) (let a s32 1)))`, false},
		{"unreachable code is a warning otherwise", lenient, `(fn f () void (block (return) (let a s32 1)))`, true},
		{"address of an address is a warning", nil, `(fn f () void (block (let a s32 1) (let p addr (address a)) (let q addr (address p))))`, true},
		{"missing return", nil, `(fn f ((x s32)) s32 (block (if (> x 0) (block (return 1)))))`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runWith(t, tt.cfg, tt.src)
			be.Equal(t, r.CanGenerate(), tt.want)
		})
	}
}

func TestCanGenerateNeedsEveryPass(t *testing.T) {
	u := compctx.New(decode(t, "test.th", `(fn f () void (block))`), nil)
	for _, step := range steps[:len(steps)-1] {
		step.run(u)
	}
	r := &Result{Diagnostics: u.Diagnostics, HasErrors: u.Diagnostics.HasErrors(), Passes: u.Passes}

	be.True(t, !r.HasErrors)
	be.True(t, !r.CanGenerate())
}

func TestStepsFollowPrerequisites(t *testing.T) {
	var done phase.Tracker
	for _, step := range steps {
		be.Equal(t, done.Missing(step.pass), []phase.Pass(nil))
		be.Err(t, done.Complete(step.pass), nil)
	}
}

func TestPointSum(t *testing.T) {
	mod := decode(t, "point.th", `
		(struct Point (_ s32) (_ s32))
		(fn sum ((p Point)) s32 (block (return (+ (. p 0) (. p 1)))))
		(entry (block (let r _ (call sum (call Point 1 2)))))`)
	r := New(compctx.New(mod, nil)).Run()

	be.Equal(t, r.Diagnostics.Codes(), []string(nil))
	be.True(t, r.CanGenerate())

	ret := mod.Nodes[1].(*ast.FuncDecl).Body.Nodes[0].(*ast.ReturnStmt)
	sumExpr := ret.Result.(*ast.BinaryExpr)
	for i, operand := range []ast.Expression{sumExpr.X, sumExpr.Y} {
		steps, ok := r.Facts.Members(operand.(*ast.FieldAccessExpr))
		be.True(t, ok)
		be.Equal(t, len(steps), 1)
		be.Equal(t, steps[0].Index, i)
	}

	let := mod.Nodes[2].(*ast.EntrypointDecl).Body.Nodes[0].(*ast.LocalDecl)
	callType, ok := r.Facts.TypeOf(let.Value)
	be.True(t, ok)
	be.Equal(t, callType.String(), "s32")

	sym, ok := r.Table.ResolveFunction("sum")
	be.True(t, ok)
	be.Equal(t, sym.Name, "sum")
}

func TestRunAll(t *testing.T) {
	cfg := config.Default()
	cfg.Jobs = 2

	var modules []*ast.Module
	for i := range 6 {
		src := `(fn f () void (block))`
		if i%2 == 1 {
			src = `(fn f () s32 (block (return true)))`
		}
		modules = append(modules, decode(t, fmt.Sprintf("unit%d.th", i), src))
	}

	results, err := RunAll(context.Background(), cfg, modules)
	be.Err(t, err, nil)
	be.Equal(t, len(results), len(modules))
	for i, r := range results {
		be.Equal(t, r.FilePath, fmt.Sprintf("unit%d.th", i))
		be.Equal(t, r.CanGenerate(), i%2 == 0)
	}
}

func TestRunAllUnitsDoNotShareState(t *testing.T) {
	// both units declare the same names; neither sees the other's
	src := `(fn f () void (block)) (static S s32 0)`
	results, err := RunAll(context.Background(), nil, []*ast.Module{
		decode(t, "a.th", src),
		decode(t, "b.th", src),
	})
	be.Err(t, err, nil)
	for _, r := range results {
		be.Equal(t, r.Diagnostics.Codes(), []string(nil))
	}
}

func TestRunAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunAll(ctx, nil, []*ast.Module{decode(t, "a.th", `(fn f () void (block))`)})
	be.Err(t, err, context.Canceled)
}

func TestRunAllNilModule(t *testing.T) {
	_, err := RunAll(context.Background(), nil, []*ast.Module{nil})
	be.Err(t, err, "module 0 is nil")
}

func TestPrintSummary(t *testing.T) {
	ok := runWith(t, nil, `(fn f () void (block))`)
	bad := runWith(t, nil, `(fn f () s32 (block (return true)))`)

	var buf bytes.Buffer
	PrintSummary(&buf, []*Result{ok, bad, nil})
	out := colors.StripANSI(buf.String())

	be.True(t, strings.Contains(out, "✓ test.th (0 error(s), 0 warning(s))"))
	be.True(t, strings.Contains(out, "✗ test.th (1 error(s), 0 warning(s))"))
	be.True(t, strings.Contains(out, "Units: 3, failed: 1"))
}

// TestScenarios runs every test case in testdata/*.md through the whole
// pipeline and compares the reported codes in order.
func TestScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		data, err := os.ReadFile(file)
		be.Err(t, err, nil)
		cases, err := testcase.ExtractTestCases(string(data))
		be.Err(t, err, nil)

		for _, tc := range cases {
			t.Run(filepath.Base(file)+"/"+tc.Name, func(t *testing.T) {
				cfg := config.Default()
				if tc.Config != "" {
					parsed, err := config.Parse([]byte(tc.Config), fmt.Sprintf("%s:%d", file, tc.Line))
					be.Err(t, err, nil)
					cfg = parsed
				}
				r := runWith(t, cfg, tc.Input)
				be.Equal(t, r.Diagnostics.Codes(), tc.Expect)
			})
		}
	}
}
