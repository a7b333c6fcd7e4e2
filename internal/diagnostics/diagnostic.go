package diagnostics

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/thrushlang/thrushc-sub007/internal/source"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Error Severity = iota
	Warning
	// Bug marks a broken compiler invariant rather than a user mistake.
	Bug
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Bug:
		return "bug"
	default:
		return "unknown"
	}
}

// Label represents a labeled section of code in a diagnostic
type Label struct {
	Location *source.Location
	Message  string
	Style    LabelStyle
}

type LabelStyle int

const (
	Primary   LabelStyle = iota // The main error location (uses ^^^)
	Secondary                   // Additional context (uses ---)
)

// Note represents additional information attached to a diagnostic
type Note struct {
	Message string
}

// Diagnostic represents a compiler diagnostic. Message is the title line,
// the primary label carries the detail and Help the hint.
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string // Error code like "T0001"
	Labels   []Label
	Notes    []Note
	Help     string
	Origin   string // compiler file:line that raised a Bug
}

func newDiagnostic(severity Severity, message string) *Diagnostic {
	return &Diagnostic{
		Severity: severity,
		Message:  message,
		Labels:   make([]Label, 0),
		Notes:    make([]Note, 0),
	}
}

// NewError creates a new error diagnostic
func NewError(message string) *Diagnostic {
	return newDiagnostic(Error, message)
}

// NewWarning creates a new warning diagnostic
func NewWarning(message string) *Diagnostic {
	return newDiagnostic(Warning, message)
}

// NewBug creates a bug diagnostic and records the caller as its origin.
func NewBug(message string) *Diagnostic {
	return newBug(message)
}

// newBug must be called directly by the exported constructor so that
// skipping two frames lands on the code that detected the problem.
func newBug(message string) *Diagnostic {
	d := newDiagnostic(Bug, message).WithCode(BugInternal)
	if _, file, line, ok := runtime.Caller(2); ok {
		d.Origin = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return d
}

// WithCode sets the error code
func (d *Diagnostic) WithCode(code string) *Diagnostic {
	d.Code = code
	return d
}

// WithPrimaryLabel adds the primary labeled location. Only the first call has an effect.
func (d *Diagnostic) WithPrimaryLabel(loc *source.Location, message string) *Diagnostic {
	for _, label := range d.Labels {
		if label.Style == Primary {
			return d
		}
	}
	// primary label is always first
	d.Labels = append([]Label{{Location: loc, Message: message, Style: Primary}}, d.Labels...)
	return d
}

// WithSecondaryLabel adds a secondary labeled location
// Primary label must exist before adding secondary labels
func (d *Diagnostic) WithSecondaryLabel(loc *source.Location, message string) *Diagnostic {
	if len(d.Labels) == 0 {
		panic("Cannot add secondary label without primary label. Call WithPrimaryLabel first.")
	}
	d.Labels = append(d.Labels, Label{Location: loc, Message: message, Style: Secondary})
	return d
}

// WithNote adds a note to the diagnostic
func (d *Diagnostic) WithNote(message string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Message: message})
	return d
}

// WithHelp sets helpful suggestion for fixing the error
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// Location returns the span of the primary label, or nil.
func (d *Diagnostic) Location() *source.Location {
	for _, label := range d.Labels {
		if label.Style == Primary {
			return label.Location
		}
	}
	return nil
}

// Detail returns the primary label message.
func (d *Diagnostic) Detail() string {
	for _, label := range d.Labels {
		if label.Style == Primary {
			return label.Message
		}
	}
	return ""
}

// IsFatal reports whether the diagnostic fails the compilation unit.
func (d *Diagnostic) IsFatal() bool {
	return d.Severity == Error || d.Severity == Bug
}

func (d *Diagnostic) String() string {
	if d.Code != "" {
		return fmt.Sprintf("%s[%s]: %s at %s", d.Severity, d.Code, d.Message, d.Location())
	}
	return fmt.Sprintf("%s: %s at %s", d.Severity, d.Message, d.Location())
}
