package mar

import (
	"crypto/rsa"
	"encoding/binary"
	"hash"
	"io"

	"github.com/mozilla-services/margo/mar/compress"
	"github.com/mozilla-services/margo/mar/holehash"
	"github.com/mozilla-services/margo/mar/sign"
)

// ReadAtSeeker is the access pattern Open requires: random-access reads
// plus the ability to find the file's length with Seek.
type ReadAtSeeker interface {
	io.ReaderAt
	io.Seeker
}

// Reader gives structured, read-only access to a parsed MAR archive:
// its member index, optional product information, and declared
// signatures.
type Reader struct {
	src      ReadAtSeeker
	fileSize int64

	header      Header
	signatures  []signatureEntry
	productInfo *ProductInfo
	index       []IndexEntry
}

type signatureEntry struct {
	Signature
	dataRange holehash.Range
}

// Open parses src as a MAR archive. It reads the header, the optional
// signature and additional blocks, and the trailing index, validating
// every offset and length along the way; it does not read member
// payloads, which Extract streams on demand.
func Open(src ReadAtSeeker) (*Reader, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ErrIo
	}
	if size < HeaderLen {
		return nil, ErrTruncatedFile
	}
	if size > limitMaxFileSize {
		return nil, ErrFileTooLarge
	}

	c := newCursor(src, size)

	magic, err := c.readAt(MagicLen)
	if err != nil {
		return nil, err
	}
	var hdr Header
	copy(hdr.Magic[:], magic)
	if string(hdr.Magic[:]) != magicString {
		return nil, ErrBadMagic
	}
	hdr.IndexOffset, err = c.readUint32()
	if err != nil {
		return nil, err
	}
	if int64(hdr.IndexOffset) >= size || int64(hdr.IndexOffset) < HeaderLen {
		return nil, ErrOffsetOutOfRange
	}

	index, indexBlockEnd, err := parseIndexBlock(src, int64(hdr.IndexOffset), size)
	if err != nil {
		return nil, err
	}

	firstPayloadOffset := int64(hdr.IndexOffset)
	for _, e := range index {
		if int64(e.Offset) < firstPayloadOffset {
			firstPayloadOffset = int64(e.Offset)
		}
	}

	r := &Reader{src: src, fileSize: size, header: hdr, index: index}

	pos := int64(HeaderLen)
	sigEnd, sigs, err := r.tryParseSignatureBlock(c, pos, firstPayloadOffset)
	if err != nil {
		return nil, err
	}
	if sigEnd > pos {
		pos = sigEnd
		r.signatures = sigs
	}

	addEnd, info, err := r.tryParseAdditionalBlock(c, pos, firstPayloadOffset)
	if err != nil {
		return nil, err
	}
	if addEnd > pos {
		pos = addEnd
		r.productInfo = info
	}

	if pos != firstPayloadOffset {
		return nil, ErrMalformedIndex
	}

	for _, e := range index {
		if int64(e.Offset)+int64(e.Size) > int64(hdr.IndexOffset) {
			return nil, ErrOffsetOutOfRange
		}
		if err := c.registerRange(int64(e.Offset), int64(e.Offset)+int64(e.Size)); err != nil {
			return nil, err
		}
	}
	if err := c.registerRange(int64(hdr.IndexOffset), indexBlockEnd); err != nil {
		return nil, err
	}

	return r, nil
}

// tryParseSignatureBlock speculatively parses a signature block at
// offset. It accepts the parse only if the block's declared
// total_file_size matches the real file size exactly and its
// signature count is within bound; a file with no signature block
// reads as an additional block or a member payload instead, neither
// of which produces that exact combination except by pathological
// coincidence. On acceptance it returns the offset just past the
// block and the parsed signatures; on rejection it returns offset
// unchanged and a nil slice.
func (r *Reader) tryParseSignatureBlock(c *cursor, offset, firstPayloadOffset int64) (int64, []signatureEntry, error) {
	if offset+SignatureBlockHeaderLen > r.fileSize {
		return offset, nil, nil
	}
	var hdr [SignatureBlockHeaderLen]byte
	if _, err := r.src.ReadAt(hdr[:], offset); err != nil {
		return offset, nil, nil
	}
	totalFileSize := binary.BigEndian.Uint64(hdr[0:8])
	numSignatures := binary.BigEndian.Uint32(hdr[8:12])
	if totalFileSize != uint64(r.fileSize) {
		return offset, nil, nil
	}
	if numSignatures > maxSignaturesPerArchive {
		return offset, nil, nil
	}

	pos := offset + SignatureBlockHeaderLen
	sigs := make([]signatureEntry, 0, numSignatures)
	for i := uint32(0); i < numSignatures; i++ {
		if pos+SignatureEntryHeaderLen > firstPayloadOffset {
			return offset, nil, nil
		}
		var entryHdr [SignatureEntryHeaderLen]byte
		if _, err := r.src.ReadAt(entryHdr[:], pos); err != nil {
			return offset, nil, nil
		}
		algID := binary.BigEndian.Uint32(entryHdr[0:4])
		sigSize := binary.BigEndian.Uint32(entryHdr[4:8])
		if sigSize > limitMaxSignatureSize {
			return offset, nil, nil
		}
		dataStart := pos + SignatureEntryHeaderLen
		dataEnd := dataStart + int64(sigSize)
		if dataEnd > firstPayloadOffset {
			return offset, nil, nil
		}
		data := make([]byte, sigSize)
		if _, err := r.src.ReadAt(data, dataStart); err != nil {
			return offset, nil, nil
		}
		sigs = append(sigs, signatureEntry{
			Signature: Signature{AlgorithmID: algID, Data: data},
			dataRange: holehash.Range{Start: dataStart, End: dataEnd},
		})
		pos = dataEnd
	}

	if err := c.registerRange(offset, pos); err != nil {
		return offset, nil, err
	}
	return pos, sigs, nil
}

// tryParseAdditionalBlock speculatively parses an additional block at
// offset, accepting it only if its declared block_size lands the
// cursor exactly on firstPayloadOffset. Only info_type=1
// (ProductInformation) is understood; any other entry is skipped by
// size without being decoded. The returned info is nil when the block
// holds no decodable ProductInformation entry.
func (r *Reader) tryParseAdditionalBlock(c *cursor, offset, firstPayloadOffset int64) (int64, *ProductInfo, error) {
	if offset == firstPayloadOffset {
		return offset, nil, nil
	}
	if offset+AdditionalBlockHeaderLen > r.fileSize {
		return offset, nil, nil
	}
	var hdr [AdditionalBlockHeaderLen]byte
	if _, err := r.src.ReadAt(hdr[:], offset); err != nil {
		return offset, nil, nil
	}
	blockSize := binary.BigEndian.Uint32(hdr[0:4])
	numEntries := binary.BigEndian.Uint32(hdr[4:8])
	if offset+int64(blockSize) != firstPayloadOffset {
		return offset, nil, nil
	}
	if numEntries > maxAdditionalEntries {
		return offset, nil, nil
	}

	pos := offset + AdditionalBlockHeaderLen
	end := offset + int64(blockSize)
	var info ProductInfo
	haveInfo := false
	for i := uint32(0); i < numEntries; i++ {
		if pos+AdditionalEntryHeaderLen > end {
			return offset, nil, nil
		}
		var entryHdr [AdditionalEntryHeaderLen]byte
		if _, err := r.src.ReadAt(entryHdr[:], pos); err != nil {
			return offset, nil, nil
		}
		entrySize := binary.BigEndian.Uint32(entryHdr[0:4])
		infoType := binary.BigEndian.Uint32(entryHdr[4:8])
		if int64(entrySize) < AdditionalEntryHeaderLen || pos+int64(entrySize) > end {
			return offset, nil, nil
		}
		payloadLen := int64(entrySize) - AdditionalEntryHeaderLen
		if infoType == InfoTypeProductInformation && !haveInfo {
			payload := make([]byte, payloadLen)
			if _, err := r.src.ReadAt(payload, pos+AdditionalEntryHeaderLen); err != nil {
				return offset, nil, nil
			}
			if parsed, ok := decodeProductInfo(payload); ok {
				info = parsed
				haveInfo = true
			}
		}
		pos += int64(entrySize)
	}
	if pos != end {
		return offset, nil, nil
	}

	if err := c.registerRange(offset, end); err != nil {
		return offset, nil, err
	}
	if !haveInfo {
		return end, nil, nil
	}
	return end, &info, nil
}

// parseIndexBlock reads and validates the trailing index: entries must
// be sorted by ascending offset, names must be unique and within
// length, and every payload range must fit inside the file.
func parseIndexBlock(src ReadAtSeeker, indexOffset, fileSize int64) ([]IndexEntry, int64, error) {
	c := newCursor(src, fileSize)
	c.seek(indexOffset)
	indexSize, err := c.readUint32()
	if err != nil {
		return nil, 0, err
	}
	end := indexOffset + IndexBlockHeaderLen + int64(indexSize)
	if end > fileSize {
		return nil, 0, ErrTruncatedFile
	}

	var entries []IndexEntry
	seen := make(map[string]bool)
	var lastOffset uint32
	for c.tell() < end {
		offset, err := c.readUint32()
		if err != nil {
			return nil, 0, err
		}
		size, err := c.readUint32()
		if err != nil {
			return nil, 0, err
		}
		mode, err := c.readUint32()
		if err != nil {
			return nil, 0, err
		}
		name, err := c.readCString(maxNameLength)
		if err != nil {
			return nil, 0, err
		}
		if len(entries) > 0 && offset < lastOffset {
			return nil, 0, ErrIndexNotSorted
		}
		if seen[name] {
			return nil, 0, ErrDuplicateName
		}
		if int64(offset)+int64(size) > fileSize || int64(offset) < HeaderLen {
			return nil, 0, ErrOffsetOutOfRange
		}
		seen[name] = true
		lastOffset = offset
		entries = append(entries, IndexEntry{Offset: offset, Size: size, Mode: mode, Name: name})
	}
	if c.tell() != end {
		return nil, 0, ErrMalformedIndex
	}
	return entries, end, nil
}

// IndexOffset returns the byte offset of the archive's trailing index
// block, as declared in its header.
func (r *Reader) IndexOffset() uint32 {
	return r.header.IndexOffset
}

// List returns the archive's member entries in index order.
func (r *Reader) List() []IndexEntry {
	out := make([]IndexEntry, len(r.index))
	copy(out, r.index)
	return out
}

// ProductInfo returns the archive's ProductInformation entry, if one
// was present in its additional block.
func (r *Reader) ProductInfo() (ProductInfo, bool) {
	if r.productInfo == nil {
		return ProductInfo{}, false
	}
	return *r.productInfo, true
}

// Signatures returns the declared signature algorithm ids, in
// declaration order, without exposing the raw signature bytes.
func (r *Reader) Signatures() []uint32 {
	ids := make([]uint32, len(r.signatures))
	for i, s := range r.signatures {
		ids[i] = s.AlgorithmID
	}
	return ids
}

// Extract streams one member's decompressed payload to dst,
// auto-detecting the compression codec from the payload's own magic
// bytes.
func (r *Reader) Extract(entry IndexEntry, dst io.Writer) error {
	section := io.NewSectionReader(r.src, int64(entry.Offset), int64(entry.Size))

	magicLen := int64(6)
	if int64(entry.Size) < magicLen {
		magicLen = int64(entry.Size)
	}
	magic := make([]byte, magicLen)
	if magicLen > 0 {
		if _, err := section.ReadAt(magic, 0); err != nil && err != io.EOF {
			return ErrIo
		}
	}
	codec := compress.Detect(magic)

	rc, err := codec.Reader(section)
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := io.Copy(dst, rc); err != nil {
		return ErrCorruptCompressedStream
	}
	return nil
}

// VerifyKind classifies the result of Verify.
type VerifyKind int

const (
	// OutcomeNoSignatures means the archive carries no signature block
	// at all; Verify never fails for this, since an unsigned archive is
	// a valid archive, just not an attested one.
	OutcomeNoSignatures VerifyKind = iota

	// OutcomeVerified means every declared signature verified against a
	// supplied key.
	OutcomeVerified

	// OutcomeFailedSignature means a declared signature did not verify
	// against any supplied key for its algorithm. Index names the
	// failing signature's position.
	OutcomeFailedSignature

	// OutcomeUnknownAlgorithm means a declared signature's algorithm id
	// is either not one this library can evaluate, or is one for which
	// the caller supplied no candidate keys at all. Index names its
	// position. This is distinct from OutcomeFailedSignature, which
	// means keys were supplied but none of them matched.
	OutcomeUnknownAlgorithm
)

func (k VerifyKind) String() string {
	switch k {
	case OutcomeNoSignatures:
		return "no signatures"
	case OutcomeVerified:
		return "verified"
	case OutcomeFailedSignature:
		return "signature failed"
	case OutcomeUnknownAlgorithm:
		return "unknown algorithm"
	default:
		return "unknown outcome"
	}
}

// VerifyOutcome is the result of Reader.Verify.
type VerifyOutcome struct {
	Kind VerifyKind
	// Index is the position of the signature the outcome applies to,
	// meaningful only for OutcomeFailedSignature and
	// OutcomeUnknownAlgorithm.
	Index int
	// N is the number of signatures checked, meaningful only for
	// OutcomeVerified.
	N int
}

// Verify recomputes the archive's digest with every signature's data
// bytes masked to zero, then checks each declared signature against
// the candidate public keys registered for its algorithm id. All
// declared signatures must verify for the overall result to be
// OutcomeVerified; the first one that doesn't short-circuits the
// check and is reported via Index.
func (r *Reader) Verify(candidates map[uint32][]*rsa.PublicKey) (VerifyOutcome, error) {
	if len(r.signatures) == 0 {
		return VerifyOutcome{Kind: OutcomeNoSignatures}, nil
	}

	holes := make([]holehash.Range, len(r.signatures))
	for i, s := range r.signatures {
		holes[i] = s.dataRange
	}

	algos := make([]uint32, 0, 2)
	hashers := make([]hash.Hash, 0, 2)
	seen := make(map[uint32]bool)
	for _, s := range r.signatures {
		if seen[s.AlgorithmID] {
			continue
		}
		h, _, err := sign.NewHasher(s.AlgorithmID)
		if err != nil {
			continue
		}
		seen[s.AlgorithmID] = true
		algos = append(algos, s.AlgorithmID)
		hashers = append(hashers, h)
	}

	section := io.NewSectionReader(r.src, 0, r.fileSize)
	if _, err := holehash.CopyMasked(io.Discard, section, holes, hashers...); err != nil {
		return VerifyOutcome{}, ErrIo
	}

	digests := make(map[uint32][]byte, len(algos))
	for i, algo := range algos {
		digests[algo] = hashers[i].Sum(nil)
	}

	for i, s := range r.signatures {
		digest, ok := digests[s.AlgorithmID]
		if !ok {
			return VerifyOutcome{Kind: OutcomeUnknownAlgorithm, Index: i}, nil
		}
		pubKeys := candidates[s.AlgorithmID]
		if len(pubKeys) == 0 {
			return VerifyOutcome{Kind: OutcomeUnknownAlgorithm, Index: i}, nil
		}
		if !sign.AnyKeyMatches(s.AlgorithmID, digest, s.Data, pubKeys) {
			return VerifyOutcome{Kind: OutcomeFailedSignature, Index: i}, ErrFailedSignature
		}
	}
	return VerifyOutcome{Kind: OutcomeVerified, N: len(r.signatures)}, nil
}
