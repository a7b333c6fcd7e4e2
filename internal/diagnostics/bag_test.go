package diagnostics

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/nalgeon/be"
)

func TestNewDiagnosticBag(t *testing.T) {
	bag := NewDiagnosticBag("main.th")

	be.Equal(t, bag.FilePath(), "main.th")
	be.Equal(t, bag.ErrorCount(), 0)
	be.Equal(t, bag.WarningCount(), 0)
	be.True(t, !bag.HasErrors())
}

func TestDiagnosticBagCounts(t *testing.T) {
	tests := []struct {
		name      string
		diags     []*Diagnostic
		hasErrors bool
		errors    int
		warnings  int
		bugs      int
	}{
		{"warning only", []*Diagnostic{NewWarning("w")}, false, 0, 1, 0},
		{"error", []*Diagnostic{NewError("e")}, true, 1, 0, 0},
		{"bug fails the unit", []*Diagnostic{NewBug("b")}, true, 0, 0, 1},
		{"mixed", []*Diagnostic{NewError("e"), NewWarning("w"), NewError("e2")}, true, 2, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := NewDiagnosticBag("main.th")
			for _, d := range tt.diags {
				bag.Add(d)
			}
			be.Equal(t, bag.HasErrors(), tt.hasErrors)
			be.Equal(t, bag.ErrorCount(), tt.errors)
			be.Equal(t, bag.WarningCount(), tt.warnings)
			be.Equal(t, bag.BugCount(), tt.bugs)
		})
	}
}

func TestDiagnosticBagKeepsOrder(t *testing.T) {
	bag := NewDiagnosticBag("main.th")
	bag.Add(NewError("a").WithCode(ErrTypeMismatch))
	bag.Add(NewWarning("b").WithCode(WarnAddressOfAddress))
	bag.Add(NewError("c").WithCode(ErrUnreachableCode))

	be.Equal(t, bag.Codes(), []string{ErrTypeMismatch, WarnAddressOfAddress, ErrUnreachableCode})
	be.Equal(t, bag.Diagnostics()[1].Message, "b")
}

func TestDiagnosticBagConcurrentAdd(t *testing.T) {
	bag := NewDiagnosticBag("main.th")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bag.Add(NewError("e"))
		}()
	}
	wg.Wait()
	be.Equal(t, bag.ErrorCount(), 50)
}

func TestEmitAllWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewEmitter(&buf, ColorNever)
	emitter.Cache().AddSource("main.th", "fn main() void {\n    let x: s32 = true;\n}")

	bag := NewDiagnosticBag("main.th")
	bag.Add(TypeMismatch(testLoc(2, 18, 22), stringer("s32"), stringer("bool")))
	bag.Add(NewWarning("unreachable code").WithCode(ErrUnreachableCode).WithPrimaryLabel(testLoc(3, 1, 2), "never runs"))
	bag.EmitAll(emitter)

	out := buf.String()
	be.True(t, !strings.Contains(out, "\033["))
	be.True(t, strings.Contains(out, "error[T0001]: mismatched types"))
	be.True(t, strings.Contains(out, "--> main.th:2:18"))
	be.True(t, strings.Contains(out, "    let x: s32 = true;"))
	be.True(t, strings.Contains(out, "^^^^ expected 's32', found 'bool'"))
	be.True(t, strings.Contains(out, "warning[C0004]: unreachable code"))
	be.True(t, strings.Contains(out, "Compilation failed with 1 error(s) and 1 warning(s)"))
}

func TestEmitWithColor(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewEmitter(&buf, ColorAlways)
	emitter.Emit(NewBug("broken invariant"))

	out := buf.String()
	be.True(t, strings.Contains(out, "\033["))
	be.True(t, strings.Contains(out, "raised at: "))
}

func TestAutoColorOffForBuffers(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewEmitter(&buf, ColorAuto)
	emitter.Emit(NewError("plain"))
	be.True(t, !strings.Contains(buf.String(), "\033["))
}

type stringer string

func (s stringer) String() string { return string(s) }
