package mediautil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectHeader(t *testing.T) {
	flv := append([]byte{'F', 'L', 'V', 0x01, 0x05, 0, 0, 0, 9}, make([]byte, 32)...)

	ts := make([]byte, 2*tsPacketSize)
	ts[0], ts[tsPacketSize] = tsSyncByte, tsSyncByte

	m2ts := make([]byte, 2*m2tsPacketSize)
	m2ts[4], m2ts[4+m2tsPacketSize] = tsSyncByte, tsSyncByte

	loneSync := make([]byte, 2*tsPacketSize)
	loneSync[0] = tsSyncByte

	tests := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"flv", flv, KindFLV},
		{"mpegts", ts, KindMPEGTS},
		{"m2ts", m2ts, KindM2TS},
		{"single sync byte", loneSync, KindUnknown},
		{"zeros", make([]byte, 64), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHeader(tt.header)
			if err != nil {
				t.Fatalf("DetectHeader: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectHeader_TooShort(t *testing.T) {
	if _, err := DetectHeader([]byte("FLV")); err == nil {
		t.Error("expected error for short header")
	}
}

func TestSniffReader_ShortStream(t *testing.T) {
	got, err := SniffReader(bytes.NewReader([]byte{'F', 'L', 'V', 0x01, 0, 0, 0, 0, 0, 0}))
	if err != nil {
		t.Fatalf("SniffReader: %v", err)
	}
	if got != KindFLV {
		t.Errorf("got %v, want flv", got)
	}

	if _, err := SniffReader(bytes.NewReader(nil)); err != io.EOF {
		t.Errorf("empty stream: got %v, want io.EOF", err)
	}
}

func TestSniffFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.ts")
	data := make([]byte, 3*tsPacketSize)
	for i := 0; i < 3; i++ {
		data[i*tsPacketSize] = tsSyncByte
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := SniffFile(path)
	if err != nil {
		t.Fatalf("SniffFile: %v", err)
	}
	if got != ExtensionKind(".ts") {
		t.Errorf("got %v, want %v", got, ExtensionKind(".ts"))
	}
}
