// Package processor drives the converter over a directory of source files,
// one file at a time, and keeps the batch counters.
package processor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"vconv/internal/converter"
	"vconv/internal/fsutil"
	"vconv/pkg/mediautil"
)

// Converter is the single-file operation the runner drives.
type Converter interface {
	Convert(ctx context.Context, req converter.Request) (converter.Outcome, error)
}

// Runner processes accepted files strictly in order.
type Runner struct {
	conv    Converter
	opts    Options
	log     converter.Logger
	updates chan<- ProgressUpdate

	handled  map[string]time.Time // path -> mod time when it was counted
	deferred map[string]bool
}

// New returns a Runner. updates may be nil when no progress display is attached.
func New(conv Converter, opts Options, log converter.Logger, updates chan<- ProgressUpdate) *Runner {
	return &Runner{
		conv:     conv,
		opts:     opts,
		log:      log,
		updates:  updates,
		handled:  make(map[string]time.Time),
		deferred: make(map[string]bool),
	}
}

// Run converts every accepted file in inputDir and returns the batch counters.
// Only a failure to list the directory is returned as an error; per-file
// failures are counted and logged. Cancelling ctx stops the batch between
// files, never in the middle of one.
func (r *Runner) Run(ctx context.Context, inputDir string) (Stats, error) {
	stats := Stats{Start: time.Now()}

	dir, err := fsutil.ExpandUser(inputDir)
	if err != nil {
		return stats, err
	}

	found, err := Discover(dir, r.opts.Policy)
	if err != nil {
		r.log.Error("Cannot list input directory", "dir", dir, "err", err)
		return stats, err
	}
	stats.Ignored = found.Ignored
	found = r.holdBackGrowing(ctx, found, &stats)

	r.log.Info("Scanned input directory", "dir", dir, "entries", found.Entries,
		"accepted", len(found.Jobs), "skipped", len(found.Skipped), "deferred", stats.Deferred)
	r.send(ProgressUpdate{TotalDelta: len(found.Jobs)})

	for _, job := range found.Skipped {
		r.skip(job, &stats)
	}

	for i, job := range found.Jobs {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted, remaining files left untouched", "remaining", len(found.Jobs)-i)
			break
		}
		r.log.Info("Processing", "n", i+1, "of", len(found.Jobs), "file", job.Name,
			"size", humanize.IBytes(uint64(job.Size)))
		r.Process(ctx, job, &stats)
	}

	stats.Elapsed = time.Since(stats.Start)
	r.LogSummary(stats)
	return stats, nil
}

// Process converts one accepted job and updates stats. The conversion itself
// is detached from ctx cancellation so an interrupt never cuts a file short.
func (r *Runner) Process(ctx context.Context, job Job, stats *Stats) {
	r.handled[job.Path] = job.ModTime
	r.send(ProgressUpdate{Current: job.Name})
	r.checkContainer(job)

	out, err := r.conv.Convert(context.WithoutCancel(ctx), converter.Request{
		SourcePath:   job.Path,
		OutputDir:    r.opts.OutputDir,
		Audio:        r.opts.Audio,
		DeleteSource: r.opts.DeleteSource,
	})

	stats.Processed++
	failed := err != nil || !out.Success
	switch {
	case err != nil:
		r.log.Error("File aborted", "file", job.Name, "err", err)
	case out.Success:
		r.log.Info("Done", "file", job.Name)
	default:
		r.log.Warn("Finished with errors", "file", job.Name)
	}
	if failed {
		stats.Failed++
	}
	if out.SourceDeleted {
		stats.Deleted++
	}

	update := ProgressUpdate{ProcessedDelta: 1}
	if failed {
		update.FailedDelta = 1
	}
	r.send(update)
}

// LogSummary emits the end-of-run report as one structured event.
func (r *Runner) LogSummary(stats Stats) {
	kv := stats.Summary().KeyVals()
	if stats.Deferred > 0 {
		kv = append(kv, "deferred", stats.Deferred)
	}
	r.log.Info("Conversion summary", kv...)
}

// holdBackGrowing waits one StableInterval and drops every candidate whose
// size or mod time moved in the meantime. Those files are still being
// written; the watcher reports them once they settle.
func (r *Runner) holdBackGrowing(ctx context.Context, d Discovery, stats *Stats) Discovery {
	if r.opts.StableInterval <= 0 || len(d.Jobs)+len(d.Skipped) == 0 {
		return d
	}
	select {
	case <-ctx.Done():
		return d
	case <-time.After(r.opts.StableInterval):
	}

	keep := func(jobs []Job) []Job {
		kept := jobs[:0]
		for _, job := range jobs {
			if job.Err == nil {
				now, _ := inspect(job.Path, r.opts.Policy)
				if now.Err != nil || now.Size != job.Size || !now.ModTime.Equal(job.ModTime) {
					r.log.Info("Still being written, leaving to the watcher", "file", job.Name)
					r.deferred[job.Path] = true
					stats.Deferred++
					continue
				}
			}
			kept = append(kept, job)
		}
		return kept
	}
	d.Jobs = keep(d.Jobs)
	d.Skipped = keep(d.Skipped)
	return d
}

func (r *Runner) skip(job Job, stats *Stats) {
	if job.Err == nil {
		r.handled[job.Path] = job.ModTime
	}
	r.logSkip(job)
	stats.Skipped++
	r.send(ProgressUpdate{SkippedDelta: 1})
}

func (r *Runner) logSkip(job Job) {
	if errors.Is(job.Err, ErrNotRegular) {
		r.log.Info("Skipping, not a regular file", "file", job.Name)
		return
	}
	if job.Err != nil {
		r.log.Warn("Skipping unreadable file", "file", job.Name, "err", job.Err)
		return
	}
	r.log.Info("Skipping, smaller than minimum size", "file", job.Name,
		"size", humanize.IBytes(uint64(job.Size)),
		"min", humanize.IBytes(uint64(r.opts.Policy.MinSize)))
}

// checkContainer warns when a file's leading bytes do not match its
// extension. The file is converted either way.
func (r *Runner) checkContainer(job Job) {
	want := mediautil.ExtensionKind(strings.ToLower(fsutil.Ext(job.Name)))
	if want == mediautil.KindUnknown {
		return
	}
	got, err := mediautil.SniffFile(job.Path)
	if err != nil {
		r.log.Debug("Container sniff failed", "file", job.Name, "err", err)
		return
	}
	if got != want {
		r.log.Warn("Content does not match extension", "file", job.Name, "expected", want, "detected", got)
	}
}

func (r *Runner) send(u ProgressUpdate) {
	if r.updates != nil {
		r.updates <- u
	}
}
