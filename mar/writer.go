package mar

import (
	"bytes"
	"crypto/rsa"
	"encoding/binary"
	"fmt"
	"hash"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/mozilla-services/margo/mar/compress"
	"github.com/mozilla-services/margo/mar/holehash"
	"github.com/mozilla-services/margo/mar/sign"
)

// WriteSeekerAt is the access pattern Writer needs: sequential writes
// with random seeks to back-patch earlier fields, plus random reads to
// recompute a signature digest over the finished file. *os.File
// satisfies this directly.
type WriteSeekerAt interface {
	io.Writer
	io.Seeker
	io.ReaderAt
}

type signerConfig struct {
	algorithmID uint32
	key         *rsa.PrivateKey
}

// sigSlot records where one signature's data bytes live on disk, so
// Finalize can mask them out of the digest and then patch the real
// signature back in.
type sigSlot struct {
	algorithmID uint32
	dataStart   int64
	dataEnd     int64
}

// Writer builds a MAR archive across two passes: AddMember streams
// each member's payload through its compressor as it's added, and
// Finalize backfills the header, index and (if any signers were
// configured) the real signatures, which can only be computed once
// the whole archive's bytes are known.
type Writer struct {
	dst   WriteSeekerAt
	codec compress.Codec

	productInfo *ProductInfo
	signers     []signerConfig

	sigBlockOffset int64
	sigSlots       []sigSlot

	entries    []IndexEntry
	lastOffset int64

	committed bool
	finalized bool
}

// NewWriter returns a Writer that will build an archive in dst,
// compressing every member's payload with codec.
func NewWriter(dst WriteSeekerAt, codec compress.Codec) *Writer {
	return &Writer{dst: dst, codec: codec, lastOffset: HeaderLen}
}

// SetProductInfo configures the ProductInformation entry written to
// the additional block. It must be called before the first AddMember.
func (w *Writer) SetProductInfo(channel, version string) error {
	if w.committed {
		return fmt.Errorf("mar: SetProductInfo called after the first AddMember")
	}
	w.productInfo = &ProductInfo{Channel: channel, Version: version}
	return nil
}

// AddSigner registers a private key that Finalize will use to produce
// one signature over the finished archive. It must be called before
// the first AddMember, since the signature block's shape (and thus
// every later offset) depends on how many signers there are and the
// size of their keys.
func (w *Writer) AddSigner(algorithmID uint32, key *rsa.PrivateKey) error {
	if w.committed {
		return fmt.Errorf("mar: AddSigner called after the first AddMember")
	}
	if _, _, err := sign.NewHasher(algorithmID); err != nil {
		return err
	}
	if algorithmID == sign.SigAlgRsaPkcs1Sha1 && key.N.BitLen() <= 1024 {
		return sign.ErrLegacyKeyRejected
	}
	w.signers = append(w.signers, signerConfig{algorithmID: algorithmID, key: key})
	return nil
}

// commit writes the header placeholder and the fixed-shape signature
// and additional blocks, freezing the offset at which member payloads
// begin. It runs once, on the first AddMember or on Finalize if no
// members were ever added.
func (w *Writer) commit() error {
	if w.committed {
		return nil
	}
	w.committed = true

	if err := w.writeHeader(0); err != nil {
		return err
	}

	pos := int64(HeaderLen)
	if len(w.signers) > 0 {
		next, err := w.writeDummySignatureBlock(pos)
		if err != nil {
			return err
		}
		pos = next
	}
	if w.productInfo != nil {
		block, err := encodeAdditionalBlock(*w.productInfo)
		if err != nil {
			return err
		}
		if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
			return ErrIo
		}
		if _, err := w.dst.Write(block); err != nil {
			return ErrIo
		}
		pos += int64(len(block))
	}
	w.lastOffset = pos
	return nil
}

func (w *Writer) writeHeader(indexOffset uint32) error {
	var buf [HeaderLen]byte
	copy(buf[:MagicLen], magicString)
	binary.BigEndian.PutUint32(buf[MagicLen:], indexOffset)
	if _, err := w.dst.Seek(0, io.SeekStart); err != nil {
		return ErrIo
	}
	if _, err := w.dst.Write(buf[:]); err != nil {
		return ErrIo
	}
	return nil
}

// writeDummySignatureBlock writes a signature block with every
// signature's size field set correctly (from its key's modulus size)
// but its data bytes zeroed, and records where those data bytes land
// so Finalize can patch them in later without changing the file's
// layout.
func (w *Writer) writeDummySignatureBlock(pos int64) (int64, error) {
	w.sigBlockOffset = pos

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint64(0)) // total_file_size, patched in Finalize
	binary.Write(&buf, binary.BigEndian, uint32(len(w.signers)))

	cursor := pos + SignatureBlockHeaderLen
	w.sigSlots = make([]sigSlot, 0, len(w.signers))
	for _, s := range w.signers {
		sigSize := uint32(s.key.Size())
		binary.Write(&buf, binary.BigEndian, s.algorithmID)
		binary.Write(&buf, binary.BigEndian, sigSize)
		buf.Write(make([]byte, sigSize))

		dataStart := cursor + SignatureEntryHeaderLen
		dataEnd := dataStart + int64(sigSize)
		w.sigSlots = append(w.sigSlots, sigSlot{algorithmID: s.algorithmID, dataStart: dataStart, dataEnd: dataEnd})
		cursor = dataEnd
	}

	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return 0, ErrIo
	}
	if _, err := w.dst.Write(buf.Bytes()); err != nil {
		return 0, ErrIo
	}
	return cursor, nil
}

// AddMember streams r's contents through the writer's compression
// codec into the archive as a new member named name, with the given
// POSIX permission bits.
func (w *Writer) AddMember(name string, mode uint32, r io.Reader) error {
	if w.finalized {
		return fmt.Errorf("mar: AddMember called after Finalize")
	}
	if len(name)+1 > maxNameLength {
		return ErrNameTooLong
	}
	for _, e := range w.entries {
		if e.Name == name {
			return ErrDuplicateName
		}
	}
	if err := w.commit(); err != nil {
		return err
	}

	if _, err := w.dst.Seek(w.lastOffset, io.SeekStart); err != nil {
		return ErrIo
	}
	cw := &countingWriter{w: w.dst}
	cc, err := w.codec.Writer(cw)
	if err != nil {
		return err
	}
	if _, err := io.Copy(cc, r); err != nil {
		cc.Close()
		return ErrIo
	}
	if err := cc.Close(); err != nil {
		return ErrIo
	}

	if w.lastOffset > math.MaxUint32 || cw.n > math.MaxUint32 {
		return ErrMemberTooLarge
	}
	w.entries = append(w.entries, IndexEntry{
		Offset: uint32(w.lastOffset),
		Size:   uint32(cw.n),
		Mode:   mode,
		Name:   name,
	})
	w.lastOffset += cw.n
	return nil
}

// buildIndex serializes the accumulated member entries into the
// trailing index block.
func (w *Writer) buildIndex() ([]byte, error) {
	var entriesBuf bytes.Buffer
	for _, e := range w.entries {
		binary.Write(&entriesBuf, binary.BigEndian, e.Offset)
		binary.Write(&entriesBuf, binary.BigEndian, e.Size)
		binary.Write(&entriesBuf, binary.BigEndian, e.Mode)
		if err := encodeCString(&entriesBuf, e.Name, maxNameLength); err != nil {
			return nil, err
		}
	}
	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(entriesBuf.Len()))
	out.Write(entriesBuf.Bytes())
	return out.Bytes(), nil
}

// Finalize writes the index, back-patches the header's index offset,
// and, if any signers were configured, recomputes and writes the real
// signatures. The Writer must not be used afterward.
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	if err := w.commit(); err != nil {
		return err
	}
	w.finalized = true

	indexOffset := w.lastOffset
	indexBytes, err := w.buildIndex()
	if err != nil {
		return err
	}
	if _, err := w.dst.Seek(indexOffset, io.SeekStart); err != nil {
		return ErrIo
	}
	if _, err := w.dst.Write(indexBytes); err != nil {
		return ErrIo
	}
	fileSize := indexOffset + int64(len(indexBytes))

	if indexOffset > math.MaxUint32 {
		return ErrMemberTooLarge
	}
	if err := w.patchIndexOffset(uint32(indexOffset)); err != nil {
		return err
	}

	if len(w.signers) == 0 {
		return nil
	}
	return w.signArchive(fileSize)
}

func (w *Writer) patchIndexOffset(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	if _, err := w.dst.Seek(MagicLen, io.SeekStart); err != nil {
		return ErrIo
	}
	if _, err := w.dst.Write(buf[:]); err != nil {
		return ErrIo
	}
	return nil
}

func (w *Writer) patchTotalFileSize(v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	if _, err := w.dst.Seek(w.sigBlockOffset, io.SeekStart); err != nil {
		return ErrIo
	}
	if _, err := w.dst.Write(buf[:]); err != nil {
		return ErrIo
	}
	return nil
}

// signArchive recomputes each signer's digest with every signature
// slot masked to zero, signs it, and patches the real signature bytes
// back into their already-allocated slots.
func (w *Writer) signArchive(fileSize int64) error {
	if err := w.patchTotalFileSize(uint64(fileSize)); err != nil {
		return err
	}

	holes := make([]holehash.Range, len(w.sigSlots))
	for i, s := range w.sigSlots {
		holes[i] = holehash.Range{Start: s.dataStart, End: s.dataEnd}
	}

	algos := make([]uint32, 0, len(w.signers))
	hashers := make([]hash.Hash, 0, len(w.signers))
	seen := make(map[uint32]bool)
	for _, s := range w.signers {
		if seen[s.algorithmID] {
			continue
		}
		h, _, err := sign.NewHasher(s.algorithmID)
		if err != nil {
			return err
		}
		seen[s.algorithmID] = true
		algos = append(algos, s.algorithmID)
		hashers = append(hashers, h)
	}

	section := io.NewSectionReader(w.dst, 0, fileSize)
	if _, err := holehash.CopyMasked(io.Discard, section, holes, hashers...); err != nil {
		return ErrIo
	}

	digests := make(map[uint32][]byte, len(algos))
	for i, algo := range algos {
		digests[algo] = hashers[i].Sum(nil)
	}

	for i, s := range w.signers {
		digest, ok := digests[s.algorithmID]
		if !ok {
			return sign.ErrUnknownAlgorithm
		}
		sigData, err := sign.Sign(s.key, s.algorithmID, digest)
		if err != nil {
			return errors.Wrap(err, "mar: signing failed")
		}
		slot := w.sigSlots[i]
		if int64(len(sigData)) != slot.dataEnd-slot.dataStart {
			return ErrSigningFailed
		}
		if _, err := w.dst.Seek(slot.dataStart, io.SeekStart); err != nil {
			return ErrIo
		}
		if _, err := w.dst.Write(sigData); err != nil {
			return ErrIo
		}
	}
	return nil
}

// countingWriter wraps an io.Writer to track how many bytes have
// passed through it, so AddMember can record a member's compressed
// size without a second pass over the data.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
