package box

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// ExpandTabs replaces each tab with enough spaces to reach the next multiple
// of tabWidth columns. The column count restarts after every line break. A
// tabWidth below 1 removes tabs altogether.
func ExpandTabs(text string, tabWidth int) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	column := 0
	for _, r := range text {
		switch r {
		case '\t':
			if tabWidth > 0 {
				n := tabWidth - column%tabWidth
				b.WriteString(strings.Repeat(" ", n))
				column += n
			}
		case '\n', '\r':
			b.WriteRune(r)
			column = 0
		default:
			b.WriteRune(r)
			column += runewidth.RuneWidth(r)
		}
	}
	return b.String()
}

// wrapSpace holds the characters Wrap treats as whitespace. Other Unicode
// spaces, such as U+00A0, belong to words.
const wrapSpace = "\t\n\v\f\r "

// Wrap breaks text into lines no wider than width columns. Every whitespace
// character counts as one space and runs of them are kept between words on
// the same line. A run is dropped where a line breaks, and at the start of
// every line but the first. Words are never split: a word wider than width
// sits alone on a line of its own.
func Wrap(text string, width int) []string {
	pending := chunks(text)

	var lines []string
	for len(pending) > 0 {
		if len(lines) > 0 && pending[0][0] == ' ' {
			pending = pending[1:]
			continue
		}

		var line []string
		lineWidth := 0
		for len(pending) > 0 {
			w := runewidth.StringWidth(pending[0])
			if lineWidth+w > width {
				break
			}
			line = append(line, pending[0])
			lineWidth += w
			pending = pending[1:]
		}
		if len(line) == 0 {
			line = append(line, pending[0])
			pending = pending[1:]
		}

		if line[len(line)-1][0] == ' ' {
			line = line[:len(line)-1]
		}
		if len(line) > 0 {
			lines = append(lines, strings.Join(line, ""))
		}
	}
	return lines
}

// chunks maps whitespace to spaces and splits text into alternating runs of
// spaces and words.
func chunks(text string) []string {
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(wrapSpace, r) {
			return ' '
		}
		return r
	}, text)

	var out []string
	start := 0
	for i := 1; i <= len(text); i++ {
		if i == len(text) || (text[i] == ' ') != (text[start] == ' ') {
			out = append(out, text[start:i])
			start = i
		}
	}
	return out
}

// paragraphs splits text on blank lines. Empty paragraphs are dropped.
func paragraphs(text string) []string {
	var out []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.Join(current, "\n"))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return out
}
