package mar

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"testing"

	"github.com/mozilla-services/margo/mar/compress"
	"github.com/mozilla-services/margo/mar/sign"
)

// memFile is a minimal in-memory stand-in for *os.File: it implements
// Write, Seek and ReadAt, which is everything Writer and Reader need.
type memFile struct {
	buf []byte
	pos int64
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = m.pos + offset
	case io.SeekEnd:
		next = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("memFile: invalid whence")
	}
	if next < 0 {
		return 0, errors.New("memFile: negative position")
	}
	m.pos = next
	return next, nil
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("memFile: negative offset")
	}
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

type member struct {
	name string
	mode uint32
	data []byte
}

func buildArchive(t *testing.T, members []member, codec compress.Codec, info *ProductInfo, signers map[uint32]*rsa.PrivateKey) *memFile {
	t.Helper()
	f := &memFile{}
	w := NewWriter(f, codec)
	if info != nil {
		if err := w.SetProductInfo(info.Channel, info.Version); err != nil {
			t.Fatalf("SetProductInfo: %v", err)
		}
	}
	for algo, key := range signers {
		if err := w.AddSigner(algo, key); err != nil {
			t.Fatalf("AddSigner(%d): %v", algo, err)
		}
	}
	for _, m := range members {
		if err := w.AddMember(m.name, m.mode, bytes.NewReader(m.data)); err != nil {
			t.Fatalf("AddMember(%s): %v", m.name, err)
		}
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return f
}

func genKey(t *testing.T, bits int) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		t.Fatalf("GenerateKey(%d): %v", bits, err)
	}
	return key
}

func sampleMembers() []member {
	rangeBytes := make([]byte, 256)
	for i := range rangeBytes {
		rangeBytes[i] = byte(i)
	}
	return []member{
		{name: "a.txt", mode: 0644, data: []byte("hello")},
		{name: "dir/b.bin", mode: 0755, data: rangeBytes},
	}
}

func TestRoundTripListAndExtract(t *testing.T) {
	t.Parallel()

	codecs := []compress.Codec{compress.CodecNone, compress.CodecBzip2, compress.CodecXZ}
	for _, codec := range codecs {
		codec := codec
		t.Run(codec.String(), func(t *testing.T) {
			t.Parallel()

			members := sampleMembers()
			f := buildArchive(t, members, codec, nil, nil)

			r, err := Open(f)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}

			entries := r.List()
			if len(entries) != len(members) {
				t.Fatalf("List returned %d entries, want %d", len(entries), len(members))
			}
			for i, e := range entries {
				if e.Name != members[i].name {
					t.Errorf("entry %d name = %q, want %q", i, e.Name, members[i].name)
				}
				if e.Mode != members[i].mode {
					t.Errorf("entry %d mode = %o, want %o", i, e.Mode, members[i].mode)
				}
				if e.Offset < HeaderLen {
					t.Errorf("entry %d offset %d is inside the header", i, e.Offset)
				}
				if int64(e.Offset)+int64(e.Size) > int64(r.IndexOffset()) {
					t.Errorf("entry %d payload runs past the index offset", i)
				}

				var out bytes.Buffer
				if err := r.Extract(e, &out); err != nil {
					t.Fatalf("Extract(%s): %v", e.Name, err)
				}
				if !bytes.Equal(out.Bytes(), members[i].data) {
					t.Errorf("extracted payload for %s does not match the original", e.Name)
				}
			}
		})
	}
}

func TestIndexOffsetMatchesPayloadLayout(t *testing.T) {
	t.Parallel()

	members := sampleMembers()
	f := buildArchive(t, members, compress.CodecNone, nil, nil)

	r, err := Open(f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var want uint32 = HeaderLen
	for _, m := range members {
		want += uint32(len(m.data))
	}
	if got := r.IndexOffset(); got != want {
		t.Errorf("IndexOffset() = %d, want %d (header + uncompressed payload sizes)", got, want)
	}
}

func TestEmptyArchive(t *testing.T) {
	t.Parallel()

	f := buildArchive(t, nil, compress.CodecNone, nil, nil)
	r, err := Open(f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(r.List()) != 0 {
		t.Error("expected no members in an empty archive")
	}
	if r.IndexOffset() != HeaderLen {
		t.Errorf("IndexOffset() = %d, want %d for an archive with no payload", r.IndexOffset(), HeaderLen)
	}
	outcome, err := r.Verify(nil)
	if err != nil || outcome.Kind != OutcomeNoSignatures {
		t.Errorf("Verify on an unsigned archive = %v, %v; want OutcomeNoSignatures", outcome, err)
	}
}

func TestProductInfoRoundTrip(t *testing.T) {
	t.Parallel()

	info := &ProductInfo{Channel: "release", Version: "99.0"}
	f := buildArchive(t, sampleMembers(), compress.CodecNone, info, nil)

	r, err := Open(f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, ok := r.ProductInfo()
	if !ok {
		t.Fatal("expected a ProductInfo entry")
	}
	if got != *info {
		t.Errorf("ProductInfo() = %+v, want %+v", got, *info)
	}
}

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	key := genKey(t, 2048)
	f := buildArchive(t, sampleMembers(), compress.CodecNone, nil, map[uint32]*rsa.PrivateKey{1: key})

	r, err := Open(f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	totalFileSize := int64(len(f.buf))
	outcome, err := r.Verify(map[uint32][]*rsa.PublicKey{1: {&key.PublicKey}})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if outcome.Kind != OutcomeVerified || outcome.N != 1 {
		t.Errorf("Verify() = %+v, want OutcomeVerified with N=1", outcome)
	}

	// Flipping a byte outside the signature slot must break verification.
	flipped := append([]byte(nil), f.buf...)
	flipIndex := int64(r.List()[0].Offset)
	if flipIndex >= totalFileSize {
		flipIndex = totalFileSize - 1
	}
	flipped[flipIndex] ^= 0xFF
	f2 := &memFile{buf: flipped}
	r2, err := Open(f2)
	if err != nil {
		t.Fatalf("Open(tampered): %v", err)
	}
	outcome2, err := r2.Verify(map[uint32][]*rsa.PublicKey{1: {&key.PublicKey}})
	if outcome2.Kind != OutcomeFailedSignature || err == nil {
		t.Errorf("Verify(tampered) = %+v, %v; want OutcomeFailedSignature", outcome2, err)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	t.Parallel()

	signingKey := genKey(t, 2048)
	otherKey := genKey(t, 2048)
	f := buildArchive(t, sampleMembers(), compress.CodecNone, nil, map[uint32]*rsa.PrivateKey{1: signingKey})

	r, err := Open(f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	outcome, err := r.Verify(map[uint32][]*rsa.PublicKey{1: {&otherKey.PublicKey}})
	if outcome.Kind != OutcomeFailedSignature || err == nil {
		t.Errorf("Verify with the wrong key = %+v, %v; want OutcomeFailedSignature", outcome, err)
	}
}

func TestVerifyMultipleSignaturesUnknownAlgorithm(t *testing.T) {
	t.Parallel()

	key1 := genKey(t, 2048)
	key2 := genKey(t, 4096)
	f := buildArchive(t, sampleMembers(), compress.CodecNone, nil, map[uint32]*rsa.PrivateKey{
		1: key1,
		2: key2,
	})

	r, err := Open(f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if sigs := r.Signatures(); len(sigs) != 2 {
		t.Fatalf("Signatures() = %v, want 2 entries", sigs)
	}

	// Only a key for algorithm 2 is supplied: whichever signature is
	// declared first with no matching candidate key reports
	// OutcomeUnknownAlgorithm, not OutcomeFailedSignature.
	partial, err := r.Verify(map[uint32][]*rsa.PublicKey{2: {&key2.PublicKey}})
	if err != nil {
		t.Fatalf("Verify(partial keys): %v", err)
	}
	if partial.Kind != OutcomeUnknownAlgorithm {
		t.Errorf("Verify(partial keys) = %+v, want OutcomeUnknownAlgorithm", partial)
	}

	full, err := r.Verify(map[uint32][]*rsa.PublicKey{
		1: {&key1.PublicKey},
		2: {&key2.PublicKey},
	})
	if err != nil {
		t.Fatalf("Verify(full keys): %v", err)
	}
	if full.Kind != OutcomeVerified || full.N != 2 {
		t.Errorf("Verify(full keys) = %+v, want OutcomeVerified with N=2", full)
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	t.Parallel()

	f := buildArchive(t, sampleMembers(), compress.CodecNone, nil, nil)
	f.buf[0] = 'X'
	if _, err := Open(f); !errors.Is(err, ErrBadMagic) {
		t.Errorf("Open with corrupted magic = %v, want ErrBadMagic", err)
	}
}

func TestOpenRejectsTruncation(t *testing.T) {
	t.Parallel()

	f := buildArchive(t, sampleMembers(), compress.CodecNone, nil, nil)
	truncated := &memFile{buf: f.buf[:len(f.buf)-1]}
	if _, err := Open(truncated); err == nil {
		t.Error("Open on a truncated archive should fail")
	}
}

func TestWriterRejectsDuplicateName(t *testing.T) {
	t.Parallel()

	f := &memFile{}
	w := NewWriter(f, compress.CodecNone)
	if err := w.AddMember("a.txt", 0644, bytes.NewReader([]byte("1"))); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := w.AddMember("a.txt", 0644, bytes.NewReader([]byte("2"))); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("AddMember with a duplicate name = %v, want ErrDuplicateName", err)
	}
}

func TestExtractDoesNotReadPastMemberBoundary(t *testing.T) {
	t.Parallel()

	members := []member{
		// Shorter than the 6-byte codec-detection probe.
		{name: "short.bin", mode: 0644, data: []byte("hi")},
		// Starts with the bzip2 magic; a probe that reads past
		// short.bin's own bytes would misdetect short.bin as bzip2.
		{name: "next.bin", mode: 0644, data: []byte("BZh91AY&SY")},
	}
	f := buildArchive(t, members, compress.CodecNone, nil, nil)

	r, err := Open(f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	entries := r.List()

	var out bytes.Buffer
	if err := r.Extract(entries[0], &out); err != nil {
		t.Fatalf("Extract(%s): %v", entries[0].Name, err)
	}
	if !bytes.Equal(out.Bytes(), members[0].data) {
		t.Errorf("Extract(%s) = %q, want %q; must not read into the next member's bytes", entries[0].Name, out.Bytes(), members[0].data)
	}
}

func TestWriterRejectsLegacy1024BitSigningKey(t *testing.T) {
	t.Parallel()

	key := genKey(t, 1024)
	f := &memFile{}
	w := NewWriter(f, compress.CodecNone)
	if err := w.AddSigner(sign.SigAlgRsaPkcs1Sha1, key); !errors.Is(err, sign.ErrLegacyKeyRejected) {
		t.Errorf("AddSigner(algorithm 1, 1024-bit key) = %v, want ErrLegacyKeyRejected", err)
	}
}
