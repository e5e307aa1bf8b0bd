package models

import (
	"sort"
	"strings"
	"time"
)

// License is a license notice stored as text with an optional YAML
// frontmatter. The text may contain <placeholders>.
type License struct {
	// Frontmatter fields
	ID           string            `yaml:"name"`
	Name         string            `yaml:"title,omitempty"`
	Summary      string            `yaml:"description,omitempty"`
	Placeholders map[string]string `yaml:"placeholders,omitempty"`
	CreatedAt    time.Time         `yaml:"created_at,omitempty"`
	UpdatedAt    time.Time         `yaml:"updated_at,omitempty"`

	// Content fields
	Content  string `yaml:"-"` // The license text after frontmatter
	FilePath string `yaml:"-"` // Path relative to the library root
}

// PlaceholderNames returns the names that carry defaults, sorted.
func (l License) PlaceholderNames() []string {
	names := make([]string, 0, len(l.Placeholders))
	for name := range l.Placeholders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Implement list.Item interface for bubbles list component

// FilterValue returns the value used for filtering in lists
func (l License) FilterValue() string {
	return cleanString(l.ID + " " + l.Name)
}

// Title satisfies the list.Item interface
func (l License) Title() string {
	if l.Name != "" {
		return cleanString(l.Name)
	}
	return cleanString(l.ID)
}

// Description satisfies the list.Item interface
func (l License) Description() string {
	var parts []string

	parts = append(parts, l.ID)
	if l.Summary != "" {
		summary := cleanString(l.Summary)
		maxSummaryLength := 60
		if len([]rune(summary)) > maxSummaryLength {
			summary = string([]rune(summary)[:maxSummaryLength-3]) + "..."
		}
		parts = append(parts, summary)
	}
	if !l.UpdatedAt.IsZero() {
		parts = append(parts, "Last edited: "+l.UpdatedAt.Format("2006-01-02 15:04"))
	}

	return cleanString(strings.Join(parts, " • "))
}

// cleanString removes characters that would break single-line rendering
func cleanString(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
		} else if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
