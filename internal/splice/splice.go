// Package splice inserts a rendered comment block at the top of a source
// file, optionally replacing a block inserted earlier.
//
// Files are rewritten by writing a sibling temp file and renaming it over
// the original, under an advisory lock on path+".lock". The lock file stays
// behind so that every writer locks the same inode.
package splice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/logging"
)

// DefaultLockTimeout bounds how long Insert waits for another writer.
const DefaultLockTimeout = 5 * time.Second

const lockRetryDelay = 50 * time.Millisecond

// Options control a single Insert.
type Options struct {
	// Replace removes a block at the top of the file whose first and last
	// lines match the new block's before inserting.
	Replace bool
	// DryRun computes the new content without touching the file.
	DryRun bool
	// LockTimeout overrides DefaultLockTimeout when positive.
	LockTimeout time.Duration
	Logger      *zap.Logger
}

// Result describes the outcome for one file.
type Result struct {
	Path    string
	Changed bool
	Content string
}

// Insert places block at the top of the file at path, after a leading
// shebang line if there is one.
func Insert(ctx context.Context, path, block string, opts Options) (*Result, error) {
	logger := logging.OrNop(opts.Logger).With(zap.String("path", path))

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, apperrors.FileNotFoundError(path, err)
	}
	if err != nil {
		return nil, apperrors.StorageError("stat "+path, err)
	}
	if info.IsDir() {
		return nil, apperrors.InvalidInputError(fmt.Sprintf("%s is a directory", path))
	}

	if !opts.DryRun {
		unlock, err := lock(ctx, path, opts.LockTimeout)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.StorageError("read "+path, err)
	}

	original := string(data)
	updated := Splice(original, block, opts.Replace)
	result := &Result{Path: path, Changed: updated != original, Content: updated}

	if opts.DryRun || !result.Changed {
		logger.Debug("splice skipped write", zap.Bool("dry_run", opts.DryRun), zap.Bool("changed", result.Changed))
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := swap(path, updated, info.Mode().Perm()); err != nil {
		return nil, err
	}

	logger.Debug("spliced block", zap.Int("bytes", len(updated)))
	return result, nil
}

// Splice returns content with block inserted at the top. A leading "#!"
// line stays first. With replace, an existing block that starts with the
// block's first line and ends at the next line equal to its last line is
// removed first, so splicing the same block twice is stable.
func Splice(content, block string, replace bool) string {
	block = strings.TrimRight(block, "\n")

	shebang, rest := splitShebang(content)
	if replace {
		rest = stripBlock(rest, block)
	}
	return shebang + block + "\n" + rest
}

func splitShebang(content string) (string, string) {
	if !strings.HasPrefix(content, "#!") {
		return "", content
	}
	end := strings.IndexByte(content, '\n')
	if end < 0 {
		return content + "\n", ""
	}
	return content[:end+1], content[end+1:]
}

// stripBlock removes a leading block delimited like block from rest. When
// no complete block is found rest is returned unchanged.
func stripBlock(rest, block string) string {
	blockLines := strings.Split(block, "\n")
	first, last := blockLines[0], blockLines[len(blockLines)-1]

	lines := strings.SplitAfter(rest, "\n")
	if len(lines) == 0 || strings.TrimSuffix(lines[0], "\n") != first {
		return rest
	}

	start := 1
	if len(blockLines) == 1 {
		start = 0
	}
	for i := start; i < len(lines); i++ {
		if strings.TrimSuffix(lines[i], "\n") == last {
			return strings.Join(lines[i+1:], "")
		}
	}
	return rest
}

func lock(ctx context.Context, path string, timeout time.Duration) (func(), error) {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lockPath := path + ".lock"
	fileLock := flock.New(lockPath)
	locked, err := fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !locked {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeFileLocked,
			fmt.Sprintf("%s is being modified by another process", path))
	}

	return func() {
		_ = fileLock.Unlock()
	}, nil
}

// swap writes content to a temp file next to path and renames it into place.
func swap(path, content string, mode os.FileMode) error {
	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return apperrors.StorageError("create temp file for "+path, err)
	}

	cleanup := func(err error) error {
		_ = f.Close()
		_ = os.Remove(tmp)
		return apperrors.StorageError("write "+path, err)
	}

	if _, err := f.WriteString(content); err != nil {
		return cleanup(err)
	}
	if err := f.Sync(); err != nil {
		return cleanup(err)
	}
	if err := f.Chmod(mode); err != nil {
		return cleanup(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return apperrors.StorageError("write "+path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return apperrors.StorageError("replace "+path, err)
	}
	return nil
}
