// Package compress provides a uniform streaming read/write interface
// over the compression codecs a MAR payload may use: none, bzip2 or
// xz. A MAR file does not record per-member compression, so the
// decompressing side auto-detects the codec from the first bytes of
// each member.
package compress

import (
	"bytes"
	stdbzip2 "compress/bzip2"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// Codec selects the compression scheme applied to member payloads. A
// single Codec applies uniformly to every member of one archive.
type Codec int

const (
	CodecNone Codec = iota
	CodecBzip2
	CodecXZ
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecBzip2:
		return "bzip2"
	case CodecXZ:
		return "xz"
	default:
		return "unknown"
	}
}

var (
	bzip2Magic = []byte("BZh")
	xzMagic    = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
)

// Detect inspects the first bytes of a member's compressed payload and
// returns the codec used to produce it. Unrecognized input is treated
// as CodecNone (passthrough).
func Detect(magic []byte) Codec {
	if bytes.HasPrefix(magic, bzip2Magic) {
		return CodecBzip2
	}
	if bytes.HasPrefix(magic, xzMagic) {
		return CodecXZ
	}
	return CodecNone
}

// Writer returns a compressing sink over w for this codec. The
// returned WriteCloser must be closed to flush trailing codec state;
// closing it does not close w.
func (c Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CodecNone:
		return nopWriteCloser{w}, nil
	case CodecBzip2:
		bw, err := bzip2.NewWriter(w, nil)
		if err != nil {
			return nil, errors.Wrapf(ErrUnsupportedCompression, "%v", err)
		}
		return bw, nil
	case CodecXZ:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, errors.Wrapf(ErrUnsupportedCompression, "%v", err)
		}
		return xw, nil
	default:
		return nil, ErrUnsupportedCompression
	}
}

// Reader returns a decompressing source over r for this codec.
func (c Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case CodecNone:
		return io.NopCloser(r), nil
	case CodecBzip2:
		return io.NopCloser(stdbzip2.NewReader(r)), nil
	case CodecXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(ErrCorruptCompressedStream, "%v", err)
		}
		return io.NopCloser(xr), nil
	default:
		return nil, ErrUnsupportedCompression
	}
}

// ErrUnsupportedCompression is returned when a codec can't be
// instantiated (e.g. its underlying library rejected the stream
// parameters).
var ErrUnsupportedCompression = errors.New("compress: unsupported compression codec")

// ErrCorruptCompressedStream is returned by Reader when a decoder
// rejects the start of its input as malformed. Errors found later,
// while the stream is being read, are the decoder's own.
var ErrCorruptCompressedStream = errors.New("compress: corrupt compressed stream")

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
