package box

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// BorderSpec describes one horizontal border (the top or the bottom of a box).
type BorderSpec struct {
	// Begin is written at the start of the line.
	Begin string
	// Fill is repeated to cover the space between Begin and End.
	Fill string
	// End is written at the end of the line.
	End string
	// JustifyLeft decides which side of the repeated fill is cut when the
	// fill does not divide the available space evenly: true keeps the fill
	// flush left and cuts its tail, false keeps it flush right and cuts its
	// head.
	JustifyLeft bool
}

// RenderHorizontal builds a border line exactly width columns wide, provided
// width is at least the combined width of Begin and End.
//
// An empty Fill with an empty End yields Begin alone. An empty Fill with a
// non-empty End positions End at the right edge, separated by spaces.
func RenderHorizontal(border BorderSpec, width int) string {
	fill := border.Fill
	if fill == "" {
		if border.End == "" {
			return border.Begin
		}
		fill = " "
	}

	fillSpace := width - (runewidth.StringWidth(border.Begin) + runewidth.StringWidth(border.End))
	if fillSpace <= 0 {
		return border.Begin + border.End
	}

	fillWidth := runewidth.StringWidth(fill)
	if fillWidth == 0 {
		// zero-width fill can never cover anything
		fill, fillWidth = " ", 1
	}

	// Round up so the filler overspills rather than falls short.
	times := (fillSpace + fillWidth - 1) / fillWidth
	filler := strings.Repeat(fill, times)

	if border.JustifyLeft {
		filler = cutTail(filler, fillSpace)
	} else {
		filler = cutHead(filler, fillSpace)
	}

	return border.Begin + filler + border.End
}

// cutTail drops columns from the end of s until it is w columns wide.
func cutTail(s string, w int) string {
	if runewidth.StringWidth(s) <= w {
		return s
	}
	// A wide rune straddling the cut leaves a gap that is padded with spaces.
	return runewidth.FillRight(runewidth.Truncate(s, w, ""), w)
}

// cutHead drops columns from the start of s until it is w columns wide.
func cutHead(s string, w int) string {
	excess := runewidth.StringWidth(s) - w
	for excess > 0 && s != "" {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		excess -= runewidth.RuneWidth(r)
	}
	return runewidth.FillLeft(s, w)
}
