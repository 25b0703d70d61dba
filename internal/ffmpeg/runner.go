package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const partSuffix = ".part"

// Runner invokes one ffmpeg binary. The zero Timeout means no limit.
type Runner struct {
	Binary  string
	Timeout time.Duration
}

// NewRunner returns a Runner for binary ("ffmpeg" when empty).
func NewRunner(binary string, timeout time.Duration) *Runner {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Runner{Binary: binary, Timeout: timeout}
}

// LookPath resolves binary on PATH, or checks it directly when it contains a
// path separator.
func LookPath(binary string) (string, error) {
	p, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotFound, binary, err)
	}
	return p, nil
}

// Remux stream-copies src into an MP4 at dst.
func (r *Runner) Remux(ctx context.Context, src, dst string) error {
	return r.run(ctx, StageVideo, src, dst, VideoArgs)
}

// ExtractAudio writes the audio of src as an MP3 at dst.
func (r *Runner) ExtractAudio(ctx context.Context, src, dst string) error {
	return r.run(ctx, StageAudio, src, dst, AudioArgs)
}

func (r *Runner) run(ctx context.Context, stage Stage, src, dst string, build func(src, dst string) []string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	part := dst + partSuffix
	cmd := exec.CommandContext(ctx, r.Binary, build(src, part)...)
	cmd.WaitDelay = 5 * time.Second

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		os.Remove(part)
		exitErr := &ExitError{Stage: stage, ExitCode: -1, Stderr: stderrBuf.String(), Err: err}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			exitErr.ExitCode = ee.ExitCode()
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			exitErr.TimedOut = true
		}
		return exitErr
	}

	if err := os.Rename(part, dst); err != nil {
		os.Remove(part)
		return &ExitError{Stage: stage, ExitCode: -1, Stderr: stderrBuf.String(),
			Err: fmt.Errorf("finalize output: %w", err)}
	}
	return nil
}
