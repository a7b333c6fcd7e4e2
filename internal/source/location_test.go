package source

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestPositionAdvance(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
		col  int
		idx  int
	}{
		{"empty", "", 1, 1, 0},
		{"single line", "abc", 1, 4, 3},
		{"newline", "ab\ncd", 2, 3, 5},
		{"trailing newline", "x\n", 2, 1, 2},
		{"multibyte", "é", 1, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPosition().Advance(tt.text)
			be.Equal(t, p.Line, tt.line)
			be.Equal(t, p.Column, tt.col)
			be.Equal(t, p.Index, tt.idx)
		})
	}
}

func TestLocationContains(t *testing.T) {
	file := "main.th"
	loc := NewLocation(&file, &Position{Line: 2, Column: 3}, &Position{Line: 4, Column: 1})

	be.True(t, loc.Contains(&Position{Line: 2, Column: 3}))
	be.True(t, loc.Contains(&Position{Line: 3, Column: 80}))
	be.True(t, loc.Contains(&Position{Line: 4, Column: 1}))
	be.True(t, !loc.Contains(&Position{Line: 2, Column: 2}))
	be.True(t, !loc.Contains(&Position{Line: 4, Column: 2}))
}

func TestLocationMerge(t *testing.T) {
	file := "main.th"
	a := NewLocation(&file, &Position{Line: 1, Column: 5}, &Position{Line: 1, Column: 9})
	b := NewLocation(&file, &Position{Line: 1, Column: 2}, &Position{Line: 1, Column: 7})

	m := a.Merge(b)
	be.Equal(t, m.Start.Column, 2)
	be.Equal(t, m.End.Column, 9)
	be.Equal(t, m.String(), "main.th:1:2")

	var none *Location
	be.Equal(t, none.Merge(a), a)
	be.Equal(t, none.String(), "location(unknown)")
}
