package processor

import (
	"context"
	"errors"
	"os"

	"github.com/dustin/go-humanize"
)

// Follow handles paths arriving after the initial batch (watch mode) with the
// same filtering and counting rules as Run. A path Run already counted is
// not counted again unless its mod time changed since. It returns when paths
// is closed or ctx is cancelled.
func (r *Runner) Follow(ctx context.Context, paths <-chan string, stats *Stats) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			r.handleArrival(ctx, path, stats)
		}
	}
}

func (r *Runner) handleArrival(ctx context.Context, path string, stats *Stats) {
	job, v := inspect(path, r.opts.Policy)
	if v == ignore {
		stats.Ignored++
		return
	}
	if errors.Is(job.Err, os.ErrNotExist) {
		r.log.Debug("File vanished before conversion", "file", job.Name)
		return
	}
	if seen, ok := r.handled[path]; ok && job.Err == nil && seen.Equal(job.ModTime) {
		r.log.Debug("Already handled", "file", job.Name)
		return
	}
	if r.deferred[path] {
		delete(r.deferred, path)
		stats.Deferred--
	}

	if v == skip {
		r.skip(job, stats)
		return
	}

	r.log.Info("New file", "file", job.Name, "size", humanize.IBytes(uint64(job.Size)))
	r.send(ProgressUpdate{TotalDelta: 1})
	r.Process(ctx, job, stats)
}
