package compress

import (
	"bytes"
	"io"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 200)

	codecs := []Codec{CodecNone, CodecBzip2, CodecXZ}
	for _, codec := range codecs {
		codec := codec
		t.Run(codec.String(), func(t *testing.T) {
			t.Parallel()

			var compressed bytes.Buffer
			wc, err := codec.Writer(&compressed)
			if err != nil {
				t.Fatalf("Writer: %v", err)
			}
			if _, err := wc.Write(payload); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := wc.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			rc, err := codec.Reader(bytes.NewReader(compressed.Bytes()))
			if err != nil {
				t.Fatalf("Reader: %v", err)
			}
			defer rc.Close()

			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("round trip through %s produced different bytes", codec)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	var bz bytes.Buffer
	bw, _ := CodecBzip2.Writer(&bz)
	bw.Write([]byte("data"))
	bw.Close()

	var xzb bytes.Buffer
	xw, _ := CodecXZ.Writer(&xzb)
	xw.Write([]byte("data"))
	xw.Close()

	cases := []struct {
		name string
		data []byte
		want Codec
	}{
		{"bzip2", bz.Bytes(), CodecBzip2},
		{"xz", xzb.Bytes(), CodecXZ},
		{"plain", []byte("plain text payload"), CodecNone},
		{"empty", nil, CodecNone},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			magic := c.data
			if len(magic) > 6 {
				magic = magic[:6]
			}
			if got := Detect(magic); got != c.want {
				t.Errorf("Detect(%q) = %v, want %v", magic, got, c.want)
			}
		})
	}
}

func TestCodecStringUnknown(t *testing.T) {
	t.Parallel()
	if s := Codec(99).String(); s != "unknown" {
		t.Errorf("String() of an invalid codec = %q, want \"unknown\"", s)
	}
}
