package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"vconv/internal/config"
	"vconv/internal/converter"
	"vconv/internal/ffmpeg"
	"vconv/internal/fsutil"
	"vconv/internal/logging"
)

const completedMessage = "All conversion processes completed."

// run sets up logging and dispatches on the kind of input path.
func run(ctx context.Context, cfg config.Config, input, outputDir string, stdout io.Writer) error {
	log, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Color: stderrIsTerminal(),
	})
	if err != nil {
		return err
	}
	defer log.Close()
	log.Debug("Run started", "run", log.RunID(), "log_file", cfg.LogFile)

	return dispatch(ctx, cfg, log, input, outputDir, stdout)
}

func dispatch(ctx context.Context, cfg config.Config, log *logging.Logger, input, outputDir string, stdout io.Writer) error {
	pol, err := cfg.Policy()
	if err != nil {
		return err
	}

	bin, err := ffmpeg.LookPath(cfg.FFmpeg)
	if err != nil {
		log.Error("Transcoder not available", "binary", cfg.FFmpeg, "err", err)
		return err
	}
	log.Debug("Using transcoder", "path", bin, "timeout", cfg.Timeout)

	if input, err = fsutil.ExpandUser(input); err != nil {
		return err
	}
	if outputDir, err = fsutil.ExpandUser(outputDir); err != nil {
		return err
	}

	fi, err := os.Stat(input)
	if err != nil {
		log.Error("Input path not found", "path", input)
		return fmt.Errorf("input path %s: %w", input, err)
	}

	conv := converter.New(ffmpeg.NewRunner(bin, cfg.Timeout), log)
	if fi.IsDir() {
		return runBatch(ctx, cfg, pol, conv, log, input, outputDir, stdout)
	}
	return runSingle(ctx, cfg, pol, conv, log, input, fi.Size(), outputDir, stdout)
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
