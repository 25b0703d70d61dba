// Package watcher reports files that appear in a directory once they have
// stopped changing. Only the directory itself is watched, not its children.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"vconv/internal/converter"
	"vconv/internal/fsutil"
)

// Watcher turns create and write events into settled file paths.
type Watcher struct {
	dir    string
	settle time.Duration
	accept func(name string) bool
	log    converter.Logger
	fs     *fsnotify.Watcher
}

// New starts watching dir. accept filters base names; settle is how long a
// file must go without events before it is reported.
func New(dir string, settle time.Duration, accept func(name string) bool, log converter.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{dir: dir, settle: settle, accept: accept, log: log, fs: fw}, nil
}

// Run emits each settled path on the returned channel at most once per
// appearance. A path that is removed and created again is reported again.
// The channel is closed and the watch released when ctx is done.
func (w *Watcher) Run(ctx context.Context) <-chan string {
	out := make(chan string)
	go w.loop(ctx, out)
	return out
}

func (w *Watcher) loop(ctx context.Context, out chan<- string) {
	defer close(out)
	defer w.fs.Close()

	tick := w.settle / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time) // path -> last event
	emitted := make(map[string]bool)
	var ready []string

	for {
		// Only offer a send while something is queued.
		var send chan<- string
		var next string
		if len(ready) > 0 {
			send = out
			next = ready[0]
		}

		select {
		case <-ctx.Done():
			return

		case send <- next:
			ready = ready[1:]

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if !w.accept(name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
				delete(pending, ev.Name)
				delete(emitted, ev.Name)
			case ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write):
				if emitted[ev.Name] {
					continue
				}
				if _, seen := pending[ev.Name]; !seen {
					w.log.Debug("Detected new file", "file", name)
				}
				pending[ev.Name] = time.Now()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("Watch error", "dir", w.dir, "err", err)

		case <-ticker.C:
			for path, last := range pending {
				if time.Since(last) < w.settle {
					continue
				}
				_, err := fsutil.WaitStable(ctx, path, tick, 3)
				switch {
				case err == nil:
					delete(pending, path)
					emitted[path] = true
					ready = append(ready, path)
				case errors.Is(err, os.ErrNotExist):
					delete(pending, path)
				case ctx.Err() != nil:
					return
				default:
					pending[path] = time.Now()
				}
			}
		}
	}
}
