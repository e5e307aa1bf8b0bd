// Package substitute fills <placeholder> tokens in license text.
//
// A placeholder is written <name>. Backslashes escape placeholders pairwise:
// every two consecutive backslashes stand for one literal backslash and
// escape nothing, while an odd backslash left over at the end of a run
// escapes the placeholder right after it.
//
// Text is processed in three steps. It is cut at every doubled backslash.
// Within each piece, placeholders not directly preceded by a backslash are
// replaced. Then a backslash followed by any <...> token (anything up to the
// next '>', line breaks included) loses the backslash. The pieces are joined
// back with single backslashes. Escape removal sees the substituted text, so
// \<<year>> becomes <2013>.
//
//	Copyright <year>      ->  Copyright 2013
//	Copyright \<year>     ->  Copyright <year>
//	Copyright \\<year>    ->  Copyright \2013
//	Copyright \\\<year>   ->  Copyright \<year>
//
// Substitution never fails: tokens that name no known placeholder pass
// through unchanged.
package substitute

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Pair maps one placeholder name to its replacement text.
type Pair struct {
	Name  string
	Value string
}

// escaped matches a backslash followed by a bracketed token.
var escaped = regexp.MustCompile(`\\(<[^>]*>)`)

// Substitute replaces every unescaped <name> in text with the value of the
// first pair carrying that name, removes the backslashes that escape
// bracketed tokens and collapses doubled backslashes. Names match
// case-sensitively and replacement text is never searched for placeholders.
func Substitute(text string, pairs []Pair) string {
	pieces := strings.Split(text, `\\`)
	for i, piece := range pieces {
		piece = replaceUnescaped(piece, func(rest string) (string, int, bool) {
			for _, p := range pairs {
				if p.Name == "" {
					continue
				}
				token := "<" + p.Name + ">"
				if strings.HasPrefix(rest, token) {
					return p.Value, len(token), true
				}
			}
			return "", 0, false
		})
		pieces[i] = escaped.ReplaceAllString(piece, "$1")
	}
	return strings.Join(pieces, `\`)
}

// Placeholders lists the distinct names of unescaped placeholders in text,
// in order of first appearance. Names hold no brackets, backslashes or line
// breaks.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, piece := range strings.Split(text, `\\`) {
		replaceUnescaped(piece, func(rest string) (string, int, bool) {
			if token, ok := bracketed(rest); ok {
				name := token[1 : len(token)-1]
				if name != "" && !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
			return "", 0, false
		})
	}
	return names
}

// replaceUnescaped walks piece once. At every '<' not directly preceded by a
// backslash it asks match whether a placeholder starts there; match returns
// the replacement and how many bytes of input it covers.
func replaceUnescaped(piece string, match func(rest string) (string, int, bool)) string {
	var b strings.Builder
	b.Grow(len(piece))

	for i := 0; i < len(piece); {
		if piece[i] == '<' && (i == 0 || piece[i-1] != '\\') {
			if replacement, n, ok := match(piece[i:]); ok {
				b.WriteString(replacement)
				i += n
				continue
			}
		}
		b.WriteByte(piece[i])
		i++
	}
	return b.String()
}

// bracketed reports whether s starts with a <name> token whose name holds no
// brackets, backslashes or line breaks, and returns that token.
func bracketed(s string) (string, bool) {
	if !strings.HasPrefix(s, "<") {
		return "", false
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '>':
			return s[:i+1], true
		case '<', '\\', '\n':
			return "", false
		}
	}
	return "", false
}

// PairsFromMap turns loosely typed values into pairs sorted by name. Values
// are converted with fmt.Sprint, so a numeric year becomes its decimal text.
func PairsFromMap(values map[string]any) []Pair {
	pairs := make([]Pair, 0, len(values))
	for name, value := range values {
		pairs = append(pairs, Pair{Name: name, Value: stringify(value)})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })
	return pairs
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Merge concatenates layers of pairs, dropping any pair whose name already
// appeared in an earlier layer. Earlier layers therefore take precedence.
func Merge(layers ...[]Pair) []Pair {
	var out []Pair
	seen := make(map[string]bool)
	for _, layer := range layers {
		for _, p := range layer {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			out = append(out, p)
		}
	}
	return out
}

// Defaults returns the owner, company and year pairs every license can use.
// Empty owner or company values are left out.
func Defaults(owner, company string, year int) []Pair {
	var pairs []Pair
	if owner != "" {
		pairs = append(pairs, Pair{Name: "owner", Value: owner})
	}
	if company != "" {
		pairs = append(pairs, Pair{Name: "company", Value: company})
	}
	return append(pairs, Pair{Name: "year", Value: strconv.Itoa(year)})
}
