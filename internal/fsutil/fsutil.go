// Package fsutil holds the small filesystem helpers shared by the converter,
// the batch driver, and watch mode.
package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DirError reports that an output directory could not be created.
type DirError struct {
	Path string
	Err  error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("cannot create directory %s: %v", e.Path, e.Err)
}

func (e *DirError) Unwrap() error { return e.Err }

// ExpandUser replaces a leading "~" with the current user's home directory.
// "~user" forms are returned unchanged.
func ExpandUser(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// EnsureDir creates path and any missing parents. An existing directory is
// not an error; an existing non-directory is.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return &DirError{Path: path, Err: err}
	}
	return nil
}

// Ext returns the extension of the final element of path. Leading dots of
// the name do not start an extension, so ".ts" has none.
func Ext(path string) string {
	return filepath.Ext(strings.TrimLeft(filepath.Base(path), "."))
}

// Exists reports whether anything is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WaitStable polls the size of path every interval until two consecutive
// reads agree, giving up after rounds polls. It returns the last size seen.
func WaitStable(ctx context.Context, path string, interval time.Duration, rounds int) (int64, error) {
	last := int64(-1)
	for i := 0; i < rounds; i++ {
		fi, err := os.Stat(path)
		if err != nil {
			return 0, err
		}
		size := fi.Size()
		if size == last {
			return size, nil
		}
		last = size

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(interval):
		}
	}
	return last, fmt.Errorf("%s still growing after %d checks", filepath.Base(path), rounds)
}
