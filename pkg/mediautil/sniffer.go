package mediautil

import (
	"errors"
	"io"
	"os"
)

// Kind identifies a container recognized by its leading bytes.
type Kind int

const (
	KindUnknown Kind = iota
	KindFLV
	KindMPEGTS
	KindM2TS
)

func (k Kind) String() string {
	switch k {
	case KindFLV:
		return "flv"
	case KindMPEGTS:
		return "mpegts"
	case KindM2TS:
		return "m2ts"
	default:
		return "unknown"
	}
}

const (
	tsPacketSize   = 188
	m2tsPacketSize = 192
	tsSyncByte     = 0x47
	// Two M2TS packets plus the sync byte of a third.
	headerSize = 2*m2tsPacketSize + 5
)

var flvSig = []byte{'F', 'L', 'V', 0x01}

// DetectHeader inspects the leading bytes of a file for known signatures.
// Transport streams are only recognized when two consecutive sync bytes fit
// in header.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 8 {
		return KindUnknown, errors.New("header too short")
	}

	if hasPrefix(header, flvSig) {
		return KindFLV, nil
	}
	if syncAt(header, 0, tsPacketSize) {
		return KindMPEGTS, nil
	}
	if syncAt(header, 4, m2tsPacketSize) {
		return KindM2TS, nil
	}

	return KindUnknown, nil
}

// SniffFile reads the leading bytes of a file to determine its container.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to headerSize bytes from r and determines its container.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return KindUnknown, err
	}

	return DetectHeader(header[:n])
}

// ExtensionKind maps a lowercase extension to the container it should hold.
func ExtensionKind(ext string) Kind {
	switch ext {
	case ".flv":
		return KindFLV
	case ".ts":
		return KindMPEGTS
	case ".m2ts", ".mts":
		return KindM2TS
	default:
		return KindUnknown
	}
}

func syncAt(buf []byte, offset, stride int) bool {
	if len(buf) <= offset+stride {
		return false
	}
	return buf[offset] == tsSyncByte && buf[offset+stride] == tsSyncByte
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
