package box

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultTabWidth is the tab stop distance used by Render unless overridden.
const DefaultTabWidth = 8

type renderOptions struct {
	tabWidth   int
	paragraphs bool
}

// RenderOption tweaks how Render lays out text.
type RenderOption func(*renderOptions)

// WithTabWidth sets the tab stop distance used to expand tabs before
// wrapping.
func WithTabWidth(n int) RenderOption {
	return func(o *renderOptions) {
		o.tabWidth = n
	}
}

// WithParagraphs keeps blank-line separated paragraphs apart: each is
// wrapped on its own and an empty framed line is left between them.
func WithParagraphs() RenderOption {
	return func(o *renderOptions) {
		o.paragraphs = true
	}
}

// Render frames text in the box described by spec. The result is the top
// border, one framed line per wrapped line of text and the bottom border,
// joined with newlines and without a trailing newline.
//
// Framed lines are padded to spec.Width. A word wider than the content area
// is not cut, so its line is the only one that may run past the right edge.
func Render(spec BoxSpec, text string, opts ...RenderOption) string {
	o := renderOptions{tabWidth: DefaultTabWidth}
	for _, opt := range opts {
		opt(&o)
	}

	spec = spec.Normalize()
	text = ExpandTabs(text, o.tabWidth)
	contentWidth := spec.ContentWidth()

	var body []string
	if o.paragraphs {
		for i, para := range paragraphs(text) {
			if i > 0 {
				body = append(body, "")
			}
			body = append(body, Wrap(para, contentWidth)...)
		}
	} else {
		body = Wrap(text, contentWidth)
	}

	lines := make([]string, 0, len(body)+2)
	lines = append(lines, RenderHorizontal(spec.Top, spec.Width))
	for _, line := range body {
		lines = append(lines, spec.LeftWall+runewidth.FillRight(line, contentWidth)+spec.RightWall)
	}
	lines = append(lines, RenderHorizontal(spec.Bottom, spec.Width))

	return strings.Join(lines, "\n")
}
