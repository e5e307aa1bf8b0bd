package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	stdout string
	stderr string
	code   int
}

// execute runs one pycense invocation against dir.
func execute(t *testing.T, dir, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append([]string{"--dir", dir}, args...))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	code := run(root, &stderr)
	return result{stdout.String(), stderr.String(), code}
}

func newLibrary(t *testing.T) string {
	t.Helper()
	t.Setenv("USER", "tester")
	dir := t.TempDir()
	res := execute(t, dir, "", "init")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Initialized library in "+dir)
	return dir
}

func frame(text string) string {
	return " * " + fmt.Sprintf("%-15s", text) + " *"
}

const (
	top20    = "/*******************"
	bottom20 = " ******************/"
)

func TestRenderText(t *testing.T) {
	dir := newLibrary(t)

	res := execute(t, dir, "", "render", "--text", "by <owner>", "-s", "w=20", "-v", "owner=Ann")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, strings.Join([]string{top20, frame("by Ann"), bottom20}, "\n")+"\n", res.stdout)
}

func TestRenderStdin(t *testing.T) {
	dir := newLibrary(t)

	res := execute(t, dir, "do not edit\n", "render", "--text", "-", "--set", "width=20")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, strings.Join([]string{top20, frame("do not edit"), bottom20}, "\n")+"\n", res.stdout)

	res = execute(t, dir, "  \n", "render", "--text", "-")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "stdin was empty")
}

func TestRenderLicense(t *testing.T) {
	dir := newLibrary(t)
	require.Equal(t, 0, execute(t, dir, "", "config", "set", "owner", "Jane Doe").code)

	res := execute(t, dir, "", "render", "mit")
	require.Equal(t, 0, res.code, res.stderr)
	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	assert.Equal(t, "/*"+strings.Repeat("*", 77), lines[0])
	assert.Contains(t, lines[1], "Jane Doe")
	assert.NotContains(t, res.stdout, "<owner>")
}

func TestRenderWithProfile(t *testing.T) {
	dir := newLibrary(t)

	res := execute(t, dir, "", "profile", "set", "hash", "tb=#", "tf=#", "te=", "lw=# ", "rw= #", "bb=#", "bf=#", "be=", "w=12")
	require.Equal(t, 0, res.code, res.stderr)

	res = execute(t, dir, "", "render", "--text", "hi", "-p", "hash")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "############\n# hi       #\n############\n", res.stdout)
}

func TestRenderErrors(t *testing.T) {
	dir := newLibrary(t)

	res := execute(t, dir, "", "render")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "nothing to render")

	res = execute(t, dir, "", "render", "mi")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "license 'mi' not found")
	assert.Contains(t, res.stderr, "did you mean mit?")

	res = execute(t, dir, "", "render", "--text", "x", "--set", "widt=3")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Unknown setting 'widt'")

	res = execute(t, dir, "", "render", "--text", "x", "--set", "width=99999999999")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "exceeds 10000")

	res = execute(t, dir, "", "render", "--text", "x", "--var", "novalue")
	assert.Equal(t, 1, res.code)

	res = execute(t, dir, "", "render", "--bogus")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown flag")
}

func TestApply(t *testing.T) {
	dir := newLibrary(t)
	src := filepath.Join(t.TempDir(), "run.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\necho hi\n"), 0o755))
	block := strings.Join([]string{top20, frame("x"), bottom20}, "\n")

	res := execute(t, dir, "", "apply", "--text", "x", "-s", "w=20", "--dry-run", src)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "==> "+src+" <==\n#!/bin/sh\n"+block+"\necho hi\n", res.stdout)

	res = execute(t, dir, "", "apply", "--text", "x", "-s", "w=20", "--replace", src)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "updated "+src+"\n", res.stdout)

	res = execute(t, dir, "", "apply", "--text", "x", "-s", "w=20", "--replace", src)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "unchanged "+src+"\n", res.stdout)

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n"+block+"\necho hi\n", string(data))

	res = execute(t, dir, "", "apply", "--text", "x", filepath.Join(t.TempDir(), "missing.c"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "File not found")
}

func TestLicenseCommands(t *testing.T) {
	dir := newLibrary(t)

	res := execute(t, dir, "", "license", "list", "--format", "ids")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "apache-2.0\nbsd-2-clause\nmit\n", res.stdout)

	res = execute(t, dir, "---\ntitle: Notice\nplaceholders:\n  product: Widget\n---\n<product> by <owner>\n",
		"license", "add", "notice", "--file", "-")
	require.Equal(t, 0, res.code, res.stderr)

	res = execute(t, dir, "", "license", "show", "notice")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "notice (Notice)")
	assert.Contains(t, res.stdout, "placeholders: product, owner")
	assert.Contains(t, res.stdout, "<product> by <owner>")

	res = execute(t, dir, "", "render", "notice", "-s", "w=30")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, " * Widget by tester")

	res = execute(t, dir, "", "license", "list", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"name": "notice"`)
	assert.Contains(t, res.stdout, `"product": "Widget"`)

	res = execute(t, dir, "", "license", "add", "notice", "--file", "-")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "already exists")

	require.Equal(t, 0, execute(t, dir, "", "license", "mv", "notice", "banner").code)
	res = execute(t, dir, "", "license", "show", "banner", "--raw")
	require.Equal(t, 0, res.code, res.stderr)
	assert.True(t, strings.HasPrefix(res.stdout, "---\n"), res.stdout)

	require.Equal(t, 0, execute(t, dir, "", "license", "rm", "banner").code)
	res = execute(t, dir, "", "license", "show", "banner")
	assert.Equal(t, 1, res.code)

	res = execute(t, dir, "", "license", "list", "--format", "xml")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown format")
}

func TestLicenseEdit(t *testing.T) {
	dir := newLibrary(t)
	script := filepath.Join(t.TempDir(), "ed.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf 'Edited by <owner>\\n' > \"$1\"\n"), 0o755))
	require.Equal(t, 0, execute(t, dir, "", "config", "set", "editor", script).code)

	res := execute(t, dir, "", "license", "edit", "mit")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Saved license mit")

	res = execute(t, dir, "", "license", "show", "mit")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Edited by <owner>")

	res = execute(t, dir, "", "license", "add", "fresh")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Added license fresh")
}

func TestProfileCommands(t *testing.T) {
	dir := newLibrary(t)

	res := execute(t, dir, "", "profile", "set", "c", "w=60", "tl=false", "-d", "narrow C")
	require.Equal(t, 0, res.code, res.stderr)

	res = execute(t, dir, "", "profile", "show", "c")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "narrow C")
	assert.Contains(t, res.stdout, "width")
	assert.Contains(t, res.stdout, "60")
	assert.NotContains(t, res.stdout, "left_wall")

	res = execute(t, dir, "", "profile", "show", "c", "--spec")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "left_wall")
	assert.Contains(t, res.stdout, `" * "`)

	res = execute(t, dir, "", "profile", "unset", "c", "tl")
	require.Equal(t, 0, res.code, res.stderr)

	res = execute(t, dir, "", "profile", "list", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, `"width": 60`)
	assert.NotContains(t, res.stdout, "top_ljust")

	settings := filepath.Join(t.TempDir(), "lisp.jsonc")
	require.NoError(t, os.WriteFile(settings, []byte(`{
  // semicolon comments
  "description": "lisp",
  "settings": {"tb": ";;", "lw": ";; ", "rw": "", "bb": ";;", "be": "",},
}`), 0o644))
	res = execute(t, dir, "", "profile", "import", settings)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Imported profile lisp (5 settings)")

	require.Equal(t, 0, execute(t, dir, "", "profile", "mv", "lisp", "scheme").code)
	res = execute(t, dir, "", "profile", "list", "--format", "ids")
	assert.Equal(t, "c\nscheme\n", res.stdout)

	require.Equal(t, 0, execute(t, dir, "", "profile", "rm", "c", "scheme").code)
	res = execute(t, dir, "", "profile", "show", "c")
	assert.Equal(t, 1, res.code)
}

func TestConfigCommands(t *testing.T) {
	dir := newLibrary(t)

	res := execute(t, dir, "", "config", "set", "owner", "Ann")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Set owner = Ann\n", res.stdout)

	res = execute(t, dir, "", "config", "get", "owner")
	assert.Equal(t, "Ann\n", res.stdout)

	res = execute(t, dir, "", "config", "show")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Ann")
	assert.Contains(t, res.stdout, filepath.Join(dir, "config.yaml"))

	res = execute(t, dir, "", "config", "set", "owner")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Unset owner\n", res.stdout)

	res = execute(t, dir, "", "config", "set", "ownr", "x")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "did you mean owner")

	res = execute(t, dir, "", "config", "set", "tab_width", "-2")
	assert.Equal(t, 1, res.code)
}

func TestSettingsCommand(t *testing.T) {
	dir := newLibrary(t)

	res := execute(t, dir, "", "settings")
	require.Equal(t, 0, res.code, res.stderr)
	for _, name := range []string{"top_begin", "tb", "bottom_ljust", "width", "79"} {
		assert.Contains(t, res.stdout, name)
	}
}
