package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// previewMargin covers the document and code block indentation glamour adds.
const previewMargin = 8

// createGlamourRenderer creates a glamour renderer with improved contrast handling
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()

	var styleOption glamour.TermRendererOption
	switch profile {
	case termenv.TrueColor, termenv.ANSI256:
		if lipgloss.HasDarkBackground() {
			styleOption = glamour.WithStandardStyle("dark")
		} else {
			styleOption = glamour.WithStandardStyle("light")
		}
	default:
		// limited color terminals
		styleOption = glamour.WithAutoStyle()
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// PreviewMarkdown wraps a rendered box in a markdown document: a heading
// with the title and the box in a fenced code block.
func PreviewMarkdown(title, block string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "## %s\n\n", title)
	}
	fence := "```"
	for strings.Contains(block, fence) {
		fence += "`"
	}
	fmt.Fprintf(&b, "%s\n%s\n%s\n", fence, block, fence)
	return b.String()
}

// Preview renders block for the terminal through glamour. The wrap width
// leaves room for the code block margin so box lines are never broken.
func Preview(title, block string) (string, error) {
	widest := 0
	for _, line := range strings.Split(block, "\n") {
		widest = max(widest, runewidth.StringWidth(line))
	}
	renderer, err := createGlamourRenderer(max(80, widest+previewMargin))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return renderer.Render(PreviewMarkdown(title, block))
}
