package diagnostics

import (
	"fmt"
	"io"
	"sync"

	"github.com/thrushlang/thrushc-sub007/colors"
)

const (
	compileFailedMsg          = "\nCompilation failed with %d error(s)"
	andWarningMsg             = " and %d warning(s)"
	compileSuccessWithWarning = "\nCompilation succeeded with %d warning(s)\n"
)

// DiagnosticBag collects diagnostics of one compilation unit in discovery order.
type DiagnosticBag struct {
	filepath    string
	diagnostics []*Diagnostic
	mu          sync.Mutex
	errorCount  int
	warnCount   int
	bugCount    int
}

// NewDiagnosticBag creates a new diagnostic bag for a file
func NewDiagnosticBag(filepath string) *DiagnosticBag {
	return &DiagnosticBag{
		filepath:    filepath,
		diagnostics: make([]*Diagnostic, 0),
	}
}

// FilePath returns the file the bag was created for.
func (db *DiagnosticBag) FilePath() string {
	return db.filepath
}

// Add adds a diagnostic to the bag
func (db *DiagnosticBag) Add(diag *Diagnostic) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.diagnostics = append(db.diagnostics, diag)

	switch diag.Severity {
	case Error:
		db.errorCount++
	case Warning:
		db.warnCount++
	case Bug:
		db.bugCount++
	}
}

// HasErrors reports whether the unit failed: any error or bug.
func (db *DiagnosticBag) HasErrors() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount > 0 || db.bugCount > 0
}

// ErrorCount returns the number of errors
func (db *DiagnosticBag) ErrorCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount
}

// WarningCount returns the number of warnings
func (db *DiagnosticBag) WarningCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.warnCount
}

func (db *DiagnosticBag) BugCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.bugCount
}

// Diagnostics returns a copy of all diagnostics (thread-safe)
func (db *DiagnosticBag) Diagnostics() []*Diagnostic {
	db.mu.Lock()
	defer db.mu.Unlock()
	result := make([]*Diagnostic, len(db.diagnostics))
	copy(result, db.diagnostics)
	return result
}

// Codes lists the diagnostic codes in the order they were reported.
func (db *DiagnosticBag) Codes() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	var codes []string
	for _, d := range db.diagnostics {
		codes = append(codes, d.Code)
	}
	return codes
}

// EmitAll renders every diagnostic followed by the summary line.
func (db *DiagnosticBag) EmitAll(emitter *Emitter) {
	for _, diag := range db.Diagnostics() {
		emitter.Emit(diag)
	}
	db.printSummary(emitter)
}

func (db *DiagnosticBag) printSummary(e *Emitter) {
	db.mu.Lock()
	failed := db.errorCount + db.bugCount
	warned := db.warnCount
	db.mu.Unlock()

	e.write(func(w io.Writer) {
		if failed > 0 {
			colors.RED.Fprintf(w, compileFailedMsg, failed)
			if warned > 0 {
				colors.RED.Fprintf(w, andWarningMsg, warned)
			}
			fmt.Fprintln(w)
		} else if warned > 0 {
			colors.ORANGE.Fprintf(w, compileSuccessWithWarning, warned)
		}
	})
}
