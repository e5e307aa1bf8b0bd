// Package box draws boxed comments.
//
// A box is a top border, a run of framed content lines and a bottom border.
// Borders are built from a begin literal, a repeated fill and an end literal
// (see BorderSpec); content lines are wrapped to the width left between the
// left and right walls and padded so every framed line lines up.
//
// Widths are measured in terminal columns with go-runewidth, which for ASCII
// text is the same as the byte length.
//
// Rendering never fails: a BoxSpec that is too narrow for its own borders and
// walls is widened to the smallest width that fits (see BoxSpec.Normalize).
// The only errors this package reports come from settings ingestion, where an
// unknown setting name or an unparsable value is rejected.
package box
