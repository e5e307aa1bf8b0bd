package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pombredanne/pycense/internal/box"
	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/models"
	"github.com/pombredanne/pycense/internal/splice"
	"github.com/pombredanne/pycense/internal/substitute"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	t.Setenv("USER", "tester")
	svc, err := New(Options{
		BaseDir: t.TempDir(),
		Now:     func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	require.NoError(t, err)
	require.NoError(t, svc.InitLibrary())
	return svc
}

// frame builds a default-style line for a width-20 box.
func frame(text string) string {
	return " * " + fmt.Sprintf("%-15s", text) + " *"
}

const (
	top20    = "/*******************"
	bottom20 = " ******************/"
)

func TestBuildSpec_Defaults(t *testing.T) {
	svc := newTestService(t)
	spec, err := svc.BuildSpec("", nil)
	require.NoError(t, err)
	assert.Equal(t, box.DefaultSpec(), spec)
}

func TestBuildSpec_Precedence(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SetProfile("hash", []string{"lw=# ", "rw= #", "w=30"})
	require.NoError(t, err)
	require.NoError(t, svc.SetConfig("default_profile", "hash"))

	spec, err := svc.BuildSpec("", []string{"w=40", "top_fill='='"})
	require.NoError(t, err)
	assert.Equal(t, "# ", spec.LeftWall)
	assert.Equal(t, " #", spec.RightWall)
	assert.Equal(t, 40, spec.Width)
	assert.Equal(t, "=", spec.Top.Fill)
	assert.Equal(t, "/*", spec.Top.Begin)

	spec, err = svc.BuildSpec("hash", nil)
	require.NoError(t, err)
	assert.Equal(t, 30, spec.Width)
}

func TestBuildSpec_Errors(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.BuildSpec("missing", nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	_, err = svc.BuildSpec("", []string{"nope=1"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownSetting))

	_, err = svc.BuildSpec("", []string{"w"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))

	_, err = svc.BuildSpec("", []string{"w=-3"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}

func TestBuildSpec_NarrowWidthIsRaised(t *testing.T) {
	svc := newTestService(t)
	spec, err := svc.BuildSpec("", []string{"w=1"})
	require.NoError(t, err)
	assert.Equal(t, spec.MinWidth(), spec.Width)
}

func TestPairs_Precedence(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.SetConfig("company", "ACME"))

	license := &models.License{Placeholders: map[string]string{"owner": "From License", "project": "pycense"}}
	pairs, err := svc.Pairs(license, []string{"owner=Var", "x=1", "x=2"})
	require.NoError(t, err)

	want := []substitute.Pair{
		{Name: "owner", Value: "Var"},
		{Name: "x", Value: "2"},
		{Name: "project", Value: "pycense"},
		{Name: "company", Value: "ACME"},
		{Name: "year", Value: "2024"},
	}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("Pairs() mismatch (-want +got):\n%s", diff)
	}

	pairs, err = svc.Pairs(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []substitute.Pair{
		{Name: "owner", Value: "tester"},
		{Name: "company", Value: "ACME"},
		{Name: "year", Value: "2024"},
	}, pairs)

	_, err = svc.Pairs(nil, []string{"=x"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}

func TestRender_Text(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Render(RenderRequest{Text: "(c) <year> <owner>", Settings: []string{"w=20"}})
	require.NoError(t, err)

	want := strings.Join([]string{top20, frame("(c) 2024 tester"), bottom20}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EscapedPlaceholderAndVars(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Render(RenderRequest{
		Text:     `\<owner> is <owner>`,
		Settings: []string{"w=20"},
		Vars:     []string{"owner=Bo"},
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{top20, frame("<owner> is Bo"), bottom20}, "\n"), got)
}

func TestRender_Paragraphs(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Render(RenderRequest{Text: "a\n\nb", Settings: []string{"w=20"}, Paragraphs: true})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{top20, frame("a"), frame(""), frame("b"), bottom20}, "\n"), got)

	got, err = svc.Render(RenderRequest{Text: "a\n\nb", Settings: []string{"w=20"}})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{top20, frame("a  b"), bottom20}, "\n"), got)
}

func TestRender_TabWidth(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.Render(RenderRequest{Text: "a\tb", Settings: []string{"w=20"}, TabWidth: 4})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{top20, frame("a   b"), bottom20}, "\n"), got)
}

func TestRender_License(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.SetConfig("owner", "Jane Doe"))
	require.NoError(t, svc.SetConfig("default_license", "mit"))

	got, err := svc.Render(RenderRequest{})
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	assert.Equal(t, "/*"+strings.Repeat("*", 77), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], " * Copyright (c) 2024 Jane Doe  Permission is hereby granted"), lines[1])
	assert.Equal(t, " "+strings.Repeat("*", 76)+"*/", lines[len(lines)-1])
	for _, line := range lines {
		assert.Len(t, line, 79)
	}
}

func TestRender_NothingToRender(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Render(RenderRequest{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	_, err = svc.Render(RenderRequest{License: "gpl"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestApply(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.c")
	b := filepath.Join(dir, "b.sh")
	require.NoError(t, os.WriteFile(a, []byte("int x;\n"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("#!/bin/sh\necho\n"), 0755))

	req := RenderRequest{Text: "hi", Settings: []string{"w=20"}}
	block := strings.Join([]string{top20, frame("hi"), bottom20}, "\n")

	results, err := svc.Apply(context.Background(), req, []string{a, b}, splice.Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, block+"\nint x;\n", results[0].Content)
	data, _ := os.ReadFile(a)
	assert.Equal(t, "int x;\n", string(data))

	results, err = svc.Apply(context.Background(), req, []string{a, b}, splice.Options{Replace: true})
	require.NoError(t, err)
	assert.True(t, results[0].Changed)
	assert.True(t, results[1].Changed)
	data, _ = os.ReadFile(b)
	assert.Equal(t, "#!/bin/sh\n"+block+"\necho\n", string(data))

	results, err = svc.Apply(context.Background(), req, []string{a, b}, splice.Options{Replace: true})
	require.NoError(t, err)
	assert.False(t, results[0].Changed)
	assert.False(t, results[1].Changed)
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	svc := newTestService(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(a, []byte("x\n"), 0644))

	results, err := svc.Apply(context.Background(), RenderRequest{Text: "hi"},
		[]string{a, filepath.Join(dir, "missing.c"), a}, splice.Options{DryRun: true})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeFileNotFound))
	assert.Len(t, results, 1)

	_, err = svc.Apply(context.Background(), RenderRequest{Text: "hi"}, nil, splice.Options{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}
