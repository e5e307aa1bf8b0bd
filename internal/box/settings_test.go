package box

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	for _, s := range AllSettings() {
		got, err := Canonical(s.Alias)
		require.NoError(t, err)
		assert.Equal(t, s.Name, got, "alias %q", s.Alias)

		got, err = Canonical(s.Name)
		require.NoError(t, err)
		assert.Equal(t, s.Name, got)
	}
}

func TestCanonical_Unknown(t *testing.T) {
	_, err := Canonical("topbegin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSetting))

	var unknown *UnknownSettingError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "topbegin", unknown.Name)
	assert.Contains(t, unknown.Suggestions, TopBegin)
	assert.Contains(t, err.Error(), "did you mean")

	_, err = Canonical("zzz")
	require.ErrorIs(t, err, ErrUnknownSetting)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		setting string
		raw     string
		want    any
		wantErr error
	}{
		{"plain string", "tb", "/*", "/*", nil},
		{"single quoted string", "top_begin", "'/*'", "/*", nil},
		{"double quoted escapes", "lw", `"\t* "`, "\t* ", nil},
		{"spaces are kept", "rw", " *", " *", nil},
		{"empty string", "bb", "", "", nil},
		{"quoted empty string", "bb", "''", "", nil},
		{"bool true", "tl", "True", true, nil},
		{"bool false", "bottom_ljust", "false", false, nil},
		{"bool garbage", "tl", "maybe", nil, ErrInvalidValue},
		{"width", "w", "60", 60, nil},
		{"width zero", "width", "0", 0, nil},
		{"negative width", "w", "-1", nil, ErrInvalidValue},
		{"width garbage", "w", "wide", nil, ErrInvalidValue},
		{"width at the limit", "w", "10000", 10000, nil},
		{"width over the limit", "w", "10001", nil, ErrInvalidValue},
		{"width out of range", "w", "99999999999999999999", nil, ErrInvalidValue},
		{"unknown name", "colour", "red", nil, ErrUnknownSetting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.setting, tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_TypedValues(t *testing.T) {
	var spec BoxSpec

	require.NoError(t, Apply(&spec, "width", 42))
	assert.Equal(t, 42, spec.Width)

	require.NoError(t, Apply(&spec, "w", float64(50)))
	assert.Equal(t, 50, spec.Width)

	require.ErrorIs(t, Apply(&spec, "w", 50.5), ErrInvalidValue)
	assert.Equal(t, 50, spec.Width, "a failed Apply leaves the field alone")

	for _, huge := range []any{MaxWidth + 1, int64(1) << 40, uint64(1) << 40, float64(1e12), "99999999999"} {
		require.ErrorIs(t, Apply(&spec, "w", huge), ErrInvalidValue, "%v", huge)
	}
	assert.Equal(t, 50, spec.Width)

	require.NoError(t, Apply(&spec, "tf", 123456))
	assert.Equal(t, "123456", spec.Top.Fill)

	require.NoError(t, Apply(&spec, "bl", "true"))
	assert.True(t, spec.Bottom.JustifyLeft)

	// Strings given directly are literal, quotes included.
	require.NoError(t, Apply(&spec, "lw", "'x'"))
	assert.Equal(t, "'x'", spec.LeftWall)

	require.ErrorIs(t, Apply(&spec, "nope", "x"), ErrUnknownSetting)
}

func TestApplyAll(t *testing.T) {
	spec := DefaultSpec()
	err := ApplyAll(&spec, map[string]any{
		"lw": "// ",
		"rw": "",
		"tb": "",
		"tf": "/",
		"bb": "",
		"bf": "/",
		"be": "",
		"w":  3,
	})
	require.NoError(t, err)

	assert.Equal(t, "// ", spec.LeftWall)
	assert.Equal(t, 4, spec.Width, "width is raised to fit the walls")
	assert.Equal(t, "////\n// x\n////", Render(spec, "x"))
}

func TestApplyAll_FailureLeavesSpecUntouched(t *testing.T) {
	spec := DefaultSpec()
	err := ApplyAll(&spec, map[string]any{
		"left_wall": "# ",
		"wdith":     10,
	})
	require.ErrorIs(t, err, ErrUnknownSetting)
	assert.Equal(t, DefaultSpec(), spec)
}

// A mixed fixture of quoted strings, capitalized booleans and aliases.
func TestSettings_MixedFixture(t *testing.T) {
	raw := [][2]string{
		{"top_begin", "'/*'"},
		{"tf", "'123456'"},
		{"top_end", "'DD'"},
		{"top_ljust", "False"},
		{"w", "60"},
		{"left_wall", "'* '"},
		{"right_wall", "' *'"},
		{"bottom_begin", "''"},
		{"bottom_fill", "'*'"},
		{"bottom_ljust", "False"},
		{"bottom_end", "'*/'"},
	}

	var spec BoxSpec
	for _, kv := range raw {
		value, err := ParseValue(kv[0], kv[1])
		require.NoError(t, err, kv[0])
		require.NoError(t, Apply(&spec, kv[0], value), kv[0])
	}
	spec = spec.Normalize()

	assert.Equal(t, 60, spec.Width)
	lines := strings.Split(Render(spec, "Lorem ipsum dolor sit amet"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "/*56"+strings.Repeat("123456", 9)+"DD", lines[0])
	assert.Equal(t, "* Lorem ipsum dolor sit amet"+strings.Repeat(" ", 30)+" *", lines[1])
	assert.Equal(t, strings.Repeat("*", 58)+"*/", lines[2])
}

func TestSettings_RoundTrip(t *testing.T) {
	specs := []BoxSpec{
		DefaultSpec(),
		{
			Top:       BorderSpec{Begin: "#", Fill: "=-", End: "#", JustifyLeft: true},
			Bottom:    BorderSpec{Begin: "'", Fill: "\"", End: "'"},
			LeftWall:  "# ",
			RightWall: " #",
			Width:     72,
		},
	}

	for _, spec := range specs {
		settings := Settings(spec)
		assert.Len(t, settings, len(AllSettings()))

		got, err := FromSettings(settings)
		require.NoError(t, err)
		assert.Equal(t, spec, got)
	}
}

func TestFromSettings_MissingFields(t *testing.T) {
	spec, err := FromSettings(map[string]any{"left_wall": "; "})
	require.NoError(t, err)

	assert.Equal(t, BorderSpec{}, spec.Top)
	assert.Equal(t, BorderSpec{}, spec.Bottom)
	assert.Equal(t, "", spec.RightWall)
	assert.Equal(t, 3, spec.Width)
}
