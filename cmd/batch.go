package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vconv/internal/config"
	"vconv/internal/converter"
	"vconv/internal/logging"
	"vconv/internal/policy"
	"vconv/internal/processor"
	"vconv/internal/tui"
	"vconv/internal/watcher"
)

// runBatch converts every accepted file in inputDir and, with --watch, keeps
// converting new arrivals until interrupted. Per-file failures only show up
// in the summary.
func runBatch(
	ctx context.Context,
	cfg config.Config,
	pol policy.Policy,
	conv *converter.Converter,
	log *logging.Logger,
	inputDir string,
	outputDir string,
	stdout io.Writer,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Starting batch",
		"input", inputDir,
		"output", outputDir,
		"extensions", pol.ExtensionList(),
		"mp3", cfg.Audio,
		"delete", cfg.DeleteSource,
		"watch", cfg.Watch)

	var updates chan processor.ProgressUpdate
	var uiDone chan struct{}
	if cfg.Progress && stderrIsTerminal() {
		updates = make(chan processor.ProgressUpdate, 64)
		uiDone = make(chan struct{})
		program := tea.NewProgram(tui.NewModel(updates, cancel),
			tea.WithOutput(os.Stderr),
			tea.WithoutSignalHandler())
		restore := log.RouteConsole(tui.LineWriter{Program: program})

		go func() {
			_, err := program.Run()
			restore()
			if err != nil {
				log.Warn("Progress display stopped", "err", err)
			}
			// Keep the driver from blocking if the display exits early.
			for range updates {
			}
			close(uiDone)
		}()
	}

	var follow <-chan string
	if cfg.Watch {
		w, err := watcher.New(inputDir, cfg.Settle, pol.IsCandidate, log)
		if err != nil {
			log.Error("Cannot watch input directory", "dir", inputDir, "err", err)
			stopUI(updates, uiDone)
			return err
		}
		follow = w.Run(ctx)
	}

	opts := processor.Options{
		OutputDir:    outputDir,
		Audio:        cfg.Audio,
		DeleteSource: cfg.DeleteSource,
		Policy:       pol,
	}
	if cfg.Watch {
		// Files still being written are left to the watcher.
		opts.StableInterval = cfg.Settle
	}
	runner := processor.New(conv, opts, log.With("mode", "batch"), updates)

	stats, err := runner.Run(ctx, inputDir)
	if err == nil && follow != nil && ctx.Err() == nil {
		log.Info("Watching for new files", "dir", inputDir, "settle", cfg.Settle)
		runner.Follow(ctx, follow, &stats)
		stats.Elapsed = time.Since(stats.Start)
		runner.LogSummary(stats)
	}
	stopUI(updates, uiDone)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, tui.RenderSummary(stats.Summary().Rows()))
	fmt.Fprintln(stdout, tui.RenderDone(completedMessage))
	return nil
}

func stopUI(updates chan processor.ProgressUpdate, done chan struct{}) {
	if updates == nil {
		return
	}
	close(updates)
	<-done
}
