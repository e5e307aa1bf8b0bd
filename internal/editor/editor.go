// Package editor round-trips text through the user's editor.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	apperrors "github.com/pombredanne/pycense/internal/errors"
)

const fallback = "vi"

// Resolve picks the editor command: configured first, then $VISUAL, then
// $EDITOR, then vi.
func Resolve(configured string) string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return fallback
}

// Editor runs an editor command against temp files.
type Editor struct {
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns an Editor attached to the process's terminal.
func New(command string) *Editor {
	return &Editor{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit writes initial to a temp file named *pattern, opens it in the editor
// and returns the saved contents. The command may carry arguments, as in
// "code --wait".
func (e *Editor) Edit(ctx context.Context, initial, pattern string) (string, error) {
	args := strings.Fields(e.Command)
	if len(args) == 0 {
		return "", apperrors.ValidationError("no editor configured")
	}

	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", apperrors.StorageError("create temp file", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(initial); err != nil {
		f.Close()
		return "", apperrors.StorageError("write temp file", err)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.StorageError("write temp file", err)
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return "", apperrors.EditorError(e.Command, err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.StorageError(fmt.Sprintf("read back %s", path), err)
	}
	return string(edited), nil
}
