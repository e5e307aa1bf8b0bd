package box

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Canonical setting names.
const (
	TopBegin    = "top_begin"
	TopFill     = "top_fill"
	TopEnd      = "top_end"
	TopLjust    = "top_ljust"
	LeftWall    = "left_wall"
	RightWall   = "right_wall"
	BottomBegin = "bottom_begin"
	BottomFill  = "bottom_fill"
	BottomEnd   = "bottom_end"
	BottomLjust = "bottom_ljust"
	Width       = "width"
)

var (
	// ErrUnknownSetting is matched by every *UnknownSettingError.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidValue reports a value that does not fit its setting's type.
	ErrInvalidValue = errors.New("invalid setting value")
)

// UnknownSettingError is returned for a name that is neither a canonical
// setting nor one of its aliases.
type UnknownSettingError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownSettingError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown setting %q", e.Name)
	}
	return fmt.Sprintf("unknown setting %q (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

// Is lets errors.Is match ErrUnknownSetting.
func (e *UnknownSettingError) Is(target error) bool {
	return target == ErrUnknownSetting
}

// Kind is the value type of a setting.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "string"
	}
}

// Setting documents one configurable field of a BoxSpec.
type Setting struct {
	Name        string
	Alias       string
	Kind        Kind
	Description string
}

type field struct {
	Setting
	get func(*BoxSpec) any
	set func(*BoxSpec, any)
}

// fields is the only place where setting names meet BoxSpec fields.
var fields = []field{
	{Setting{TopBegin, "tb", KindString, "literal at the start of the top border"},
		func(s *BoxSpec) any { return s.Top.Begin }, func(s *BoxSpec, v any) { s.Top.Begin = v.(string) }},
	{Setting{TopFill, "tf", KindString, "pattern repeated across the top border"},
		func(s *BoxSpec) any { return s.Top.Fill }, func(s *BoxSpec, v any) { s.Top.Fill = v.(string) }},
	{Setting{TopEnd, "te", KindString, "literal at the end of the top border"},
		func(s *BoxSpec) any { return s.Top.End }, func(s *BoxSpec, v any) { s.Top.End = v.(string) }},
	{Setting{TopLjust, "tl", KindBool, "cut the top fill on the right instead of the left"},
		func(s *BoxSpec) any { return s.Top.JustifyLeft }, func(s *BoxSpec, v any) { s.Top.JustifyLeft = v.(bool) }},
	{Setting{LeftWall, "lw", KindString, "literal before every content line"},
		func(s *BoxSpec) any { return s.LeftWall }, func(s *BoxSpec, v any) { s.LeftWall = v.(string) }},
	{Setting{RightWall, "rw", KindString, "literal after every content line"},
		func(s *BoxSpec) any { return s.RightWall }, func(s *BoxSpec, v any) { s.RightWall = v.(string) }},
	{Setting{BottomBegin, "bb", KindString, "literal at the start of the bottom border"},
		func(s *BoxSpec) any { return s.Bottom.Begin }, func(s *BoxSpec, v any) { s.Bottom.Begin = v.(string) }},
	{Setting{BottomFill, "bf", KindString, "pattern repeated across the bottom border"},
		func(s *BoxSpec) any { return s.Bottom.Fill }, func(s *BoxSpec, v any) { s.Bottom.Fill = v.(string) }},
	{Setting{BottomEnd, "be", KindString, "literal at the end of the bottom border"},
		func(s *BoxSpec) any { return s.Bottom.End }, func(s *BoxSpec, v any) { s.Bottom.End = v.(string) }},
	{Setting{BottomLjust, "bl", KindBool, "cut the bottom fill on the right instead of the left"},
		func(s *BoxSpec) any { return s.Bottom.JustifyLeft }, func(s *BoxSpec, v any) { s.Bottom.JustifyLeft = v.(bool) }},
	{Setting{Width, "w", KindInt, "total width of every line"},
		func(s *BoxSpec) any { return s.Width }, func(s *BoxSpec, v any) { s.Width = v.(int) }},
}

var (
	byName  = make(map[string]*field, len(fields))
	aliases = make(map[string]string, len(fields))
)

func init() {
	for i := range fields {
		f := &fields[i]
		byName[f.Name] = f
		aliases[f.Alias] = f.Name
	}
}

// AllSettings lists every setting in display order.
func AllSettings() []Setting {
	out := make([]Setting, len(fields))
	for i, f := range fields {
		out[i] = f.Setting
	}
	return out
}

// Canonical resolves an alias to its canonical name. Canonical names are
// returned unchanged.
func Canonical(name string) (string, error) {
	if _, ok := byName[name]; ok {
		return name, nil
	}
	if canonical, ok := aliases[name]; ok {
		return canonical, nil
	}
	return "", &UnknownSettingError{Name: name, Suggestions: suggest(name)}
}

// suggest returns setting names that fuzzily match name, best first.
func suggest(name string) []string {
	candidates := make([]string, 0, len(fields))
	for _, f := range fields {
		candidates = append(candidates, f.Name)
	}
	matches := fuzzy.Find(name, candidates)
	out := make([]string, 0, min(len(matches), 3))
	for _, m := range matches {
		if len(out) == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// ParseValue parses raw text for the named setting. String values may be
// wrapped in single or double quotes, which are removed; booleans accept
// anything strconv.ParseBool does; width must be a non-negative integer.
func ParseValue(name, raw string) (any, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	f := byName[canonical]
	if f.Kind == KindString {
		return unquote(raw), nil
	}
	return coerce(f, raw)
}

// Apply sets one field of spec. Booleans and integers may be given typed (as
// decoded from YAML) or as text; strings are taken literally, so callers
// holding raw command-line text should go through ParseValue first. Apply
// does not normalize the width; ApplyAll and FromSettings do.
func Apply(spec *BoxSpec, name string, value any) error {
	canonical, err := Canonical(name)
	if err != nil {
		return err
	}
	f := byName[canonical]
	typed, err := coerce(f, value)
	if err != nil {
		return err
	}
	f.set(spec, typed)
	return nil
}

// ApplyAll applies every entry of settings to spec and normalizes the
// result. Entries are applied in name order; the first failure aborts and
// leaves spec untouched.
func ApplyAll(spec *BoxSpec, settings map[string]any) error {
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)

	next := *spec
	for _, name := range names {
		if err := Apply(&next, name, settings[name]); err != nil {
			return err
		}
	}
	*spec = next.Normalize()
	return nil
}

// Settings serializes spec into canonical name/value pairs. Feeding the
// result to FromSettings reproduces an equivalent spec.
func Settings(spec BoxSpec) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Name] = f.get(&spec)
	}
	return out
}

// FromSettings builds a spec from name/value pairs. Absent fields stay empty
// (or false) and the width is normalized.
func FromSettings(settings map[string]any) (BoxSpec, error) {
	var spec BoxSpec
	if err := ApplyAll(&spec, settings); err != nil {
		return BoxSpec{}, err
	}
	return spec, nil
}

func coerce(f *field, value any) (any, error) {
	switch f.Kind {
	case KindBool:
		return coerceBool(f.Name, value)
	case KindInt:
		return coerceInt(f.Name, value)
	default:
		return coerceString(value), nil
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func coerceBool(name string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(unquote(v)))
		if err != nil {
			return false, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidValue, name, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %s=%v is not a boolean", ErrInvalidValue, name, v)
	}
}

func coerceInt(name string, value any) (int, error) {
	var n int64
	switch v := value.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > MaxWidth {
			return 0, tooLarge(name, v)
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s=%v is not a whole number", ErrInvalidValue, name, v)
		}
		if math.Abs(v) > MaxWidth {
			return 0, tooLarge(name, v)
		}
		n = int64(v)
	case nil:
		n = 0
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(unquote(v)), 10, 64)
		if errors.Is(err, strconv.ErrRange) {
			return 0, tooLarge(name, v)
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidValue, name, v)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%w: %s=%v is not an integer", ErrInvalidValue, name, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s=%d must not be negative", ErrInvalidValue, name, n)
	}
	if n > MaxWidth {
		return 0, tooLarge(name, n)
	}
	return int(n), nil
}

func tooLarge(name string, v any) error {
	return fmt.Errorf("%w: %s=%v exceeds %d", ErrInvalidValue, name, v, MaxWidth)
}

// unquote strips one pair of matching surrounding quotes. Double-quoted
// text goes through strconv.Unquote so escapes like \t work; single quotes
// are removed as-is.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	switch {
	case s[0] == '"' && s[len(s)-1] == '"':
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	case s[0] == '\'' && s[len(s)-1] == '\'':
		return s[1 : len(s)-1]
	}
	return s
}
