package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_NoFile(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Console: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.Info("test message", "file", "a.ts")
	if !strings.Contains(buf.String(), "test message") || !strings.Contains(buf.String(), "a.ts") {
		t.Errorf("console output: %q", buf.String())
	}
}

func TestNew_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vconv.log")
	var buf bytes.Buffer
	l, err := New(Options{Console: &buf, File: path})
	if err != nil {
		t.Fatal(err)
	}
	l.Warn("to file", "size", 42)
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"level=warn", "to file", "size=42", "run=" + l.RunID()} {
		if !bytes.Contains(b, []byte(want)) {
			t.Errorf("log file missing %q: %s", want, b)
		}
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Console: &buf, Level: "warn"})
	if err != nil {
		t.Fatal(err)
	}
	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Error("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level events written: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("error event missing: %q", out)
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := ParseLevel("debug"); err != nil {
		t.Errorf("ParseLevel(debug) = %v", err)
	}
}

func TestRouteConsole(t *testing.T) {
	var stderr, routed bytes.Buffer
	l, err := New(Options{Console: &stderr})
	if err != nil {
		t.Fatal(err)
	}

	restore := l.RouteConsole(&routed)
	l.With("file", "b.ts").Info("while routed")
	restore()
	l.Info("after restore")

	if !strings.Contains(routed.String(), "while routed") || !strings.Contains(routed.String(), "b.ts") {
		t.Errorf("routed output: %q", routed.String())
	}
	if strings.Contains(stderr.String(), "while routed") {
		t.Error("routed event leaked to the original console")
	}
	if !strings.Contains(stderr.String(), "after restore") {
		t.Errorf("console not restored: %q", stderr.String())
	}
}
