package source

// Position is a point in a source text. Line and Column are 1-based, Index is a byte offset.
type Position struct {
	Line   int
	Column int
	Index  int
}

// NewPosition returns the position of the first byte of a file.
func NewPosition() *Position {
	return &Position{Line: 1, Column: 1}
}

// Advance moves the position past the given text.
// Newlines reset the column, every other rune counts as one column.
func (p *Position) Advance(text string) *Position {
	for _, r := range text {
		if r == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
		p.Index += len(string(r))
	}
	return p
}

// Clone returns a copy so callers can keep a snapshot while the original keeps moving.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// Before reports whether p comes strictly before other.
func (p *Position) Before(other *Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}
