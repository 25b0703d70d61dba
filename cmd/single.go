package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"vconv/internal/config"
	"vconv/internal/converter"
	"vconv/internal/logging"
	"vconv/internal/policy"
	"vconv/internal/report"
	"vconv/internal/tui"
)

// runSingle converts one explicitly named file. Unlike directory mode, a
// wrong extension or an undersized file is an error. A failed transcode is
// reported in the outcome table but does not fail the command.
func runSingle(
	ctx context.Context,
	cfg config.Config,
	pol policy.Policy,
	conv *converter.Converter,
	log *logging.Logger,
	input string,
	size int64,
	outputDir string,
	stdout io.Writer,
) error {
	if err := pol.CheckFile(input, size); err != nil {
		log.Error("File not converted", "err", err)
		return err
	}

	log.Info("Converting file",
		"input", input,
		"size", humanize.IBytes(uint64(size)),
		"output_dir", outputDir,
		"mp3", cfg.Audio,
		"delete", cfg.DeleteSource)

	out, err := conv.Convert(ctx, converter.Request{
		SourcePath:   input,
		OutputDir:    outputDir,
		Audio:        cfg.Audio,
		DeleteSource: cfg.DeleteSource,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, tui.RenderSummary(report.OutcomeRows(out)))
	fmt.Fprintln(stdout, tui.RenderDone(completedMessage))
	return nil
}
