package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"vconv/internal/config"
	"vconv/internal/ffmpeg"
	"vconv/internal/fsutil"
	"vconv/internal/logging"
	"vconv/internal/policy"
)

func TestDispatch_Directory(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	writeFile(t, in, "a.flv", 50)
	writeFile(t, in, "b.ts", 200)
	writeFile(t, in, "c.mkv", 500)

	cfg := testConfig(t, okFFmpeg)
	var stdout bytes.Buffer
	if err := dispatch(context.Background(), cfg, testLogger(t), in, out, &stdout); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if !fsutil.Exists(filepath.Join(out, "b.mp4")) {
		t.Error("b.mp4 not produced")
	}
	if fsutil.Exists(filepath.Join(out, "a.mp4")) || fsutil.Exists(filepath.Join(out, "c.mp4")) {
		t.Error("skipped or ignored files were converted")
	}
	got := stdout.String()
	for _, want := range []string{"Total files processed | 1", "Total files skipped   | 1", completedMessage} {
		if !strings.Contains(got, want) {
			t.Errorf("stdout missing %q:\n%s", want, got)
		}
	}
}

func TestDispatch_DirectoryFailuresExitCleanly(t *testing.T) {
	in := t.TempDir()
	writeFile(t, in, "b.ts", 200)

	cfg := testConfig(t, failFFmpeg)
	var stdout bytes.Buffer
	if err := dispatch(context.Background(), cfg, testLogger(t), in, t.TempDir(), &stdout); err != nil {
		t.Fatalf("per-file failures must not fail the batch: %v", err)
	}
	if !strings.Contains(stdout.String(), "Failed conversions    | 1") {
		t.Errorf("summary:\n%s", stdout.String())
	}
}

func TestDispatch_SingleFile(t *testing.T) {
	src := writeFile(t, t.TempDir(), "show.flv", 200)
	out := filepath.Join(t.TempDir(), "out")

	cfg := testConfig(t, okFFmpeg)
	cfg.Audio = true
	cfg.DeleteSource = true
	var stdout bytes.Buffer
	if err := dispatch(context.Background(), cfg, testLogger(t), src, out, &stdout); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	for _, name := range []string{"show.mp4", "show.mp3"} {
		if !fsutil.Exists(filepath.Join(out, name)) {
			t.Errorf("%s not produced", name)
		}
	}
	if fsutil.Exists(src) {
		t.Error("source should be deleted")
	}
	if !strings.Contains(stdout.String(), "ok") || !strings.Contains(stdout.String(), completedMessage) {
		t.Errorf("stdout:\n%s", stdout.String())
	}
}

func TestDispatch_SingleFileRejected(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		file string
		size int
		want error
	}{
		{"wrong extension", "clip.mkv", 500, policy.ErrUnsupportedFormat},
		{"too small", "tiny.ts", 10, policy.ErrBelowThreshold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeFile(t, dir, tt.file, tt.size)
			out := filepath.Join(t.TempDir(), "out")
			err := dispatch(context.Background(), testConfig(t, okFFmpeg), testLogger(t), src, out, &bytes.Buffer{})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if fsutil.Exists(out) {
				t.Error("rejected file must not create outputs")
			}
		})
	}
}

func TestDispatch_SingleFileTranscodeFailure(t *testing.T) {
	src := writeFile(t, t.TempDir(), "show.ts", 200)
	var stdout bytes.Buffer
	err := dispatch(context.Background(), testConfig(t, failFFmpeg), testLogger(t), src, t.TempDir(), &stdout)
	if err != nil {
		t.Fatalf("transcode failure should still exit cleanly: %v", err)
	}
	if !strings.Contains(stdout.String(), "failed") {
		t.Errorf("stdout:\n%s", stdout.String())
	}
	if !fsutil.Exists(src) {
		t.Error("source must be kept")
	}
}

func TestDispatch_OutputDirBlocked(t *testing.T) {
	src := writeFile(t, t.TempDir(), "show.ts", 200)
	blocker := writeFile(t, t.TempDir(), "out", 1)

	err := dispatch(context.Background(), testConfig(t, okFFmpeg), testLogger(t), src, blocker, &bytes.Buffer{})
	var dirErr *fsutil.DirError
	if !errors.As(err, &dirErr) {
		t.Errorf("err = %v, want DirError", err)
	}
}

func TestDispatch_MissingInput(t *testing.T) {
	err := dispatch(context.Background(), testConfig(t, okFFmpeg), testLogger(t),
		filepath.Join(t.TempDir(), "nope"), t.TempDir(), &bytes.Buffer{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestDispatch_MissingTranscoder(t *testing.T) {
	cfg := config.Default()
	cfg.FFmpeg = filepath.Join(t.TempDir(), "no-such-ffmpeg")
	err := dispatch(context.Background(), cfg, testLogger(t), t.TempDir(), t.TempDir(), &bytes.Buffer{})
	if !errors.Is(err, ffmpeg.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRootCommand_RequiresTwoArgs(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"only-one"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected argument error")
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Errorf("usage not printed:\n%s", out.String())
	}
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CONVERT_MIN_SIZE", "1MiB")
	t.Setenv("CONVERT_FFMPEG", "/env/ffmpeg")
	t.Setenv("CONVERT_LOG_LEVEL", "warn")

	if err := rootCmd.ParseFlags([]string{"--min-size", "2MiB", "--mp3", "-v"}); err != nil {
		t.Fatal(err)
	}
	defer func() {
		flagMP3, flagVerbose, flagMinSize = false, false, "100MiB"
	}()

	cfg, err := loadConfig(rootCmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinSize != 2*1024*1024 {
		t.Errorf("MinSize = %d, flag should win", cfg.MinSize)
	}
	if cfg.FFmpeg != "/env/ffmpeg" {
		t.Errorf("FFmpeg = %q, env should apply when the flag is unset", cfg.FFmpeg)
	}
	if cfg.LogLevel != "debug" || !cfg.Audio {
		t.Errorf("cfg = %+v", cfg)
	}
}

const (
	okFFmpeg   = `printf data > "$last"`
	failFFmpeg = "echo 'Invalid data found when processing input' >&2\nexit 1"
)

func testConfig(t *testing.T, body string) config.Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.FFmpeg = path
	cfg.MinSize = 100
	cfg.Progress = false
	return cfg
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	l, err := logging.New(logging.Options{Console: &bytes.Buffer{}, Level: "debug"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMinSizeFlagDescribesBothModes(t *testing.T) {
	usage := rootCmd.Flags().Lookup("min-size").Usage
	for _, want := range []string{"directory mode", "single input"} {
		if !strings.Contains(usage, want) {
			t.Errorf("--min-size usage %q does not mention %q", usage, want)
		}
	}
}
