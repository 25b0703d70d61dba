// Package logging provides the leveled logger shared by every command.
//
// Console output goes to stderr (or any writer) through a switch, so a
// terminal UI can take over the console for a while and hand it back. When a
// log file is configured, every event is also appended to it in logfmt.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/muesli/termenv"

	"vconv/internal/fsutil"
)

// Options configures New.
type Options struct {
	Level   string    // debug, info, warn or error; empty means info
	File    string    // optional log file, appended to
	Console io.Writer // defaults to os.Stderr
	Color   bool
}

// Logger fans each event out to the console and, optionally, a log file.
type Logger struct {
	console *log.Logger
	file    *log.Logger
	out     *switchWriter
	closer  io.Closer
	runID   string
}

// New builds a Logger. The returned Logger must be closed to flush the file.
func New(opts Options) (*Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		lv, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = lv
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	out := &switchWriter{w: console}

	l := &Logger{out: out, runID: uuid.NewString()}
	l.console = log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if opts.Color {
		l.console.SetColorProfile(termenv.ANSI256)
	} else {
		l.console.SetColorProfile(termenv.Ascii)
	}

	if opts.File != "" {
		if err := fsutil.EnsureDir(filepath.Dir(opts.File)); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		l.closer = f
		l.file = log.NewWithOptions(f, log.Options{
			Level:           level,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Formatter:       log.LogfmtFormatter,
			Fields:          []interface{}{"run", l.runID},
		})
	}
	return l, nil
}

// ParseLevel validates a level name.
func ParseLevel(s string) error {
	_, err := log.ParseLevel(s)
	return err
}

// RunID identifies this process in the log file.
func (l *Logger) RunID() string { return l.runID }

// RouteConsole sends console output to w until restore is called.
func (l *Logger) RouteConsole(w io.Writer) (restore func()) {
	prev := l.out.swap(w)
	return func() { l.out.swap(prev) }
}

// With returns a Logger that adds keyvals to every event. Closing it is a no-op.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	child := &Logger{console: l.console.With(keyvals...), out: l.out, runID: l.runID}
	if l.file != nil {
		child.file = l.file.With(keyvals...)
	}
	return child
}

func (l *Logger) Debug(msg interface{}, keyvals ...interface{}) {
	l.console.Debug(msg, keyvals...)
	if l.file != nil {
		l.file.Debug(msg, keyvals...)
	}
}

func (l *Logger) Info(msg interface{}, keyvals ...interface{}) {
	l.console.Info(msg, keyvals...)
	if l.file != nil {
		l.file.Info(msg, keyvals...)
	}
}

func (l *Logger) Warn(msg interface{}, keyvals ...interface{}) {
	l.console.Warn(msg, keyvals...)
	if l.file != nil {
		l.file.Warn(msg, keyvals...)
	}
}

func (l *Logger) Error(msg interface{}, keyvals ...interface{}) {
	l.console.Error(msg, keyvals...)
	if l.file != nil {
		l.file.Error(msg, keyvals...)
	}
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *switchWriter) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.w
	s.w = w
	return prev
}
