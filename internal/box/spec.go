package box

import "github.com/mattn/go-runewidth"

// DefaultWidth is the line width used when no profile says otherwise.
const DefaultWidth = 79

// MaxWidth is the largest width settings ingestion accepts.
const MaxWidth = 10000

// BoxSpec is the full description of a box.
type BoxSpec struct {
	Top       BorderSpec
	Bottom    BorderSpec
	LeftWall  string
	RightWall string
	// Width is the total width of every rendered line, walls and borders
	// included.
	Width int
}

// DefaultSpec returns the built-in C-style box:
//
//	/******************
//	 * text           *
//	 ******************/
func DefaultSpec() BoxSpec {
	return BoxSpec{
		Top:       BorderSpec{Begin: "/*", Fill: "*", JustifyLeft: true},
		Bottom:    BorderSpec{Begin: " ", Fill: "*", End: "*/", JustifyLeft: true},
		LeftWall:  " * ",
		RightWall: " *",
		Width:     DefaultWidth,
	}
}

// MinWidth is the smallest width that fits both borders and leaves room for
// at least one column of content between the walls.
func (s BoxSpec) MinWidth() int {
	top := runewidth.StringWidth(s.Top.Begin) + runewidth.StringWidth(s.Top.End)
	mid := runewidth.StringWidth(s.LeftWall) + 1 + runewidth.StringWidth(s.RightWall)
	low := runewidth.StringWidth(s.Bottom.Begin) + runewidth.StringWidth(s.Bottom.End)
	return max(top, mid, low)
}

// Normalize returns a copy of s whose Width has been raised to MinWidth if
// it was smaller.
func (s BoxSpec) Normalize() BoxSpec {
	if m := s.MinWidth(); s.Width < m {
		s.Width = m
	}
	return s
}

// ContentWidth is the number of columns available for text on each framed
// line. It is at least 1 for a normalized spec.
func (s BoxSpec) ContentWidth() int {
	return s.Width - runewidth.StringWidth(s.LeftWall) - runewidth.StringWidth(s.RightWall)
}
