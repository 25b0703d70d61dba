// Package converter turns one legacy container file into an MP4, plus an
// optional MP3, through an external transcoder.
//
// Existing outputs are treated as done, so re-running a batch over a partly
// populated output directory only converts what is missing. The source file
// is deleted only after every requested stage is satisfied.
package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"vconv/internal/ffmpeg"
	"vconv/internal/fsutil"
)

// Converter runs single-file conversions with an injected transcoder and logger.
type Converter struct {
	tool Transcoder
	log  Logger
}

// New returns a Converter. Both arguments are required.
func New(tool Transcoder, log Logger) *Converter {
	return &Converter{tool: tool, log: log}
}

// Convert processes req. The only error returned is a failure to create the
// output directory; everything else is recorded in the Outcome.
func (c *Converter) Convert(ctx context.Context, req Request) (Outcome, error) {
	var out Outcome

	src, err := fsutil.ExpandUser(req.SourcePath)
	if err != nil {
		return out, err
	}
	outDir, err := fsutil.ExpandUser(req.OutputDir)
	if err != nil {
		return out, err
	}
	if err := fsutil.EnsureDir(outDir); err != nil {
		c.log.Error("Cannot create output directory", "dir", outDir, "err", err)
		return out, err
	}

	name := filepath.Base(src)
	out.VideoPath = VideoPath(src, outDir)

	out.VideoProduced, out.VideoExisted, out.VideoErr = c.stage(ctx, ffmpeg.StageVideo, name, src, out.VideoPath, c.tool.Remux)

	if req.Audio {
		out.AudioPath = AudioPath(src, outDir)
		if out.VideoProduced {
			out.AudioProduced, out.AudioExisted, out.AudioErr = c.stage(ctx, ffmpeg.StageAudio, name, src, out.AudioPath, c.tool.ExtractAudio)
		} else {
			c.log.Warn("Audio extraction not attempted, video stage failed", "file", name)
		}
	}

	out.Success = out.VideoProduced && (!req.Audio || out.AudioProduced)

	if req.DeleteSource {
		if out.Success {
			if err := os.Remove(src); err != nil {
				out.DeleteErr = err
				c.log.Warn("Could not delete source", "file", src, "err", err)
			} else {
				out.SourceDeleted = true
				c.log.Info("Deleted source", "file", src)
			}
		} else {
			c.log.Warn("Source kept, conversion incomplete", "file", src)
		}
	}

	return out, nil
}

// stage runs one transcoder operation unless dst already exists. It reports
// whether dst is satisfied and whether it was already present.
func (c *Converter) stage(
	ctx context.Context,
	stage ffmpeg.Stage,
	name, src, dst string,
	run func(ctx context.Context, src, dst string) error,
) (produced, existed bool, err error) {
	if fsutil.Exists(dst) {
		c.log.Info("Output exists, skipping", "stage", stage, "file", name, "output", dst)
		return true, true, nil
	}

	c.log.Info("Converting", "stage", stage, "file", name, "output", dst)
	start := time.Now()
	if err := run(ctx, src, dst); err != nil {
		c.log.Error("Conversion failed", "stage", stage, "file", name, "err", err)
		var exitErr *ffmpeg.ExitError
		if errors.As(err, &exitErr) {
			for _, line := range exitErr.StderrTail(20) {
				c.log.Error("  " + line)
			}
		}
		return false, false, err
	}
	c.log.Info("Conversion complete", "stage", stage, "file", name, "output", dst,
		"took", time.Since(start).Round(time.Millisecond))
	return true, false, nil
}
