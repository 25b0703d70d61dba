// Package config resolves the run settings from defaults, an optional .env
// file, CONVERT_* environment variables and, last, command-line flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"vconv/internal/logging"
	"vconv/internal/policy"
)

// DotEnvFile is read from the working directory when present.
const DotEnvFile = ".env"

// Config holds every tunable of a run.
type Config struct {
	Extensions []string
	MinSize    int64
	FFmpeg     string
	Timeout    time.Duration // 0 disables the per-stage limit
	LogLevel   string
	LogFile    string
	Settle     time.Duration
	Progress   bool

	Audio        bool
	DeleteSource bool
	Watch        bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Extensions: []string{".flv", ".ts"},
		MinSize:    policy.DefaultMinSize,
		FFmpeg:     "ffmpeg",
		LogLevel:   "info",
		Settle:     2 * time.Second,
		Progress:   true,
	}
}

// LoadDotEnv exports the variables of path into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays CONVERT_* variables read through lookup, usually
// os.LookupEnv. Malformed values are reported together.
func (c *Config) LoadEnv(lookup func(string) (string, bool)) error {
	e := env{lookup: lookup}

	if v, ok := e.get("CONVERT_EXTENSIONS"); ok {
		c.Extensions = SplitList(v)
	}
	c.MinSize = e.size("CONVERT_MIN_SIZE", c.MinSize)
	if v, ok := e.get("CONVERT_FFMPEG"); ok {
		c.FFmpeg = v
	}
	c.Timeout = e.duration("CONVERT_TIMEOUT", c.Timeout)
	if v, ok := e.get("CONVERT_LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := e.get("CONVERT_LOG_FILE"); ok {
		c.LogFile = v
	}
	c.Settle = e.duration("CONVERT_SETTLE", c.Settle)
	c.Progress = e.boolean("CONVERT_PROGRESS", c.Progress)

	return errors.Join(e.errs...)
}

// Validate checks the combined settings.
func (c Config) Validate() error {
	var errs []error
	if _, err := policy.ParseExtensions(c.Extensions); err != nil {
		errs = append(errs, err)
	}
	if c.MinSize < 0 {
		errs = append(errs, fmt.Errorf("minimum size must not be negative, got %d", c.MinSize))
	}
	if strings.TrimSpace(c.FFmpeg) == "" {
		errs = append(errs, errors.New("ffmpeg binary must not be empty"))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if c.Settle <= 0 {
		errs = append(errs, fmt.Errorf("settle delay must be positive, got %s", c.Settle))
	}
	if err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level %q: %w", c.LogLevel, err))
	}
	return errors.Join(errs...)
}

// Policy builds the file acceptance policy.
func (c Config) Policy() (policy.Policy, error) {
	exts, err := policy.ParseExtensions(c.Extensions)
	if err != nil {
		return policy.Policy{}, err
	}
	return policy.Policy{Extensions: exts, MinSize: c.MinSize}, nil
}

// ParseSize accepts plain byte counts and humanized sizes such as "100MiB".
func ParseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return int64(n), nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e *env) size(key string, def int64) int64 {
	v, ok := e.get(key)
	if !ok {
		return def
	}
	n, err := ParseSize(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v, ok := e.get(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (e *env) boolean(key string, def bool) bool {
	v, ok := e.get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}
