package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by LookPath when the binary cannot be resolved.
var ErrNotFound = errors.New("ffmpeg not found")

// ExitError describes a failed ffmpeg invocation for one stage of one file.
type ExitError struct {
	Stage    Stage
	ExitCode int // -1 when the process did not exit normally
	TimedOut bool
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	switch {
	case e.TimedOut:
		return fmt.Sprintf("ffmpeg %s stage timed out", e.Stage)
	case e.ExitCode >= 0:
		return fmt.Sprintf("ffmpeg %s stage exited with status %d", e.Stage, e.ExitCode)
	default:
		return fmt.Sprintf("ffmpeg %s stage failed: %v", e.Stage, e.Err)
	}
}

func (e *ExitError) Unwrap() error { return e.Err }

// StderrTail returns at most n trailing non-empty lines of captured stderr.
func (e *ExitError) StderrTail(n int) []string {
	trimmed := strings.TrimSpace(e.Stderr)
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
