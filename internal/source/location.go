package source

import (
	"fmt"
)

// Location represents a span of source code with start and end positions
type Location struct {
	Start    *Position
	End      *Position
	Filename *string
}

// NewLocation creates a new Location with the given start and end positions
func NewLocation(filename *string, start, end *Position) *Location {
	return &Location{
		Filename: filename,
		Start:    start,
		End:      end,
	}
}

// File returns the file name or "<unknown>" when the span is detached from a file.
func (l *Location) File() string {
	if l == nil || l.Filename == nil {
		return "<unknown>"
	}
	return *l.Filename
}

// Contains checks if the given position is within this location
func (l *Location) Contains(pos *Position) bool {
	if l.Start == nil || l.End == nil || pos == nil {
		return false
	}
	if pos.Before(l.Start) {
		return false
	}
	if l.End.Before(pos) {
		return false
	}
	return true
}

// Merge returns a span covering both l and other. Either side may be nil.
func (l *Location) Merge(other *Location) *Location {
	if l == nil {
		return other
	}
	if other == nil {
		return l
	}
	start, end := l.Start, l.End
	if other.Start != nil && (start == nil || other.Start.Before(start)) {
		start = other.Start
	}
	if other.End != nil && (end == nil || end.Before(other.End)) {
		end = other.End
	}
	return NewLocation(l.Filename, start, end)
}

func (l *Location) String() string {
	if l == nil || l.Start == nil || l.End == nil {
		return "location(unknown)"
	}

	return fmt.Sprintf("%s:%d:%d", l.File(), l.Start.Line, l.Start.Column)
}
