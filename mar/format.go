package mar

import (
	"bytes"
	"encoding/binary"
)

// Field and header sizes, in bytes. All multi-byte integers in a MAR
// file are big-endian.
const (
	// MagicLen is the length of the leading "MAR1" identifier.
	MagicLen = 4

	// HeaderLen is the length of the fixed header: the magic plus the
	// offset to the index.
	HeaderLen = MagicLen + 4

	// SignatureBlockHeaderLen is the length of the signature block's own
	// header: the total file size plus the signature count.
	SignatureBlockHeaderLen = 8 + 4

	// SignatureEntryHeaderLen is the length of each signature entry's
	// header: algorithm id plus signature size.
	SignatureEntryHeaderLen = 4 + 4

	// AdditionalBlockHeaderLen is the length of the additional block's
	// own header: block size plus entry count.
	AdditionalBlockHeaderLen = 4 + 4

	// AdditionalEntryHeaderLen is the length of each additional entry's
	// header: entry size plus info type.
	AdditionalEntryHeaderLen = 4 + 4

	// IndexBlockHeaderLen is the length of the index block's own header:
	// the size, in bytes, of the entries that follow.
	IndexBlockHeaderLen = 4

	// IndexEntryHeaderLen is the length of each index entry's header:
	// offset, size and mode.
	IndexEntryHeaderLen = 4 + 4 + 4

	// InfoTypeProductInformation is the only defined additional-entry
	// info type.
	InfoTypeProductInformation = 1

	magicString = "MAR1"

	maxNameLength             = 256
	maxProductInfoFieldLength = 64

	// maxSignaturesPerArchive bounds how many signature entries the
	// speculative signature-block probe (see reader.go) will accept
	// before giving up and treating the file as unsigned.
	maxSignaturesPerArchive = 8

	// maxAdditionalEntries is a sanity bound on the number of entries in
	// an additional block; only info type 1 is defined, so archives in
	// practice carry at most one.
	maxAdditionalEntries = 64
)

// Header is the fixed 8-byte prefix of every MAR file.
type Header struct {
	Magic       [MagicLen]byte
	IndexOffset uint32
}

// Signature is one entry of the signature block: a declared algorithm
// id and the raw signature bytes, whose length must equal the signing
// key's modulus size.
type Signature struct {
	AlgorithmID uint32
	Data        []byte
}

// ProductInfo is the decoded payload of an info_type=1 additional
// entry: the update channel and product version, each a short
// NUL-terminated ASCII string.
type ProductInfo struct {
	Channel string
	Version string
}

// IndexEntry describes one member payload: where it lives in the
// archive, how large it is (after compression), its POSIX permission
// bits, and its archive-relative name.
type IndexEntry struct {
	Offset uint32
	Size   uint32
	Mode   uint32
	Name   string
}

// encodeCString appends s followed by a NUL terminator to buf. It
// fails if the encoded form, including the terminator, would exceed
// maxLen bytes.
func encodeCString(buf *bytes.Buffer, s string, maxLen int) error {
	if len(s)+1 > maxLen {
		return ErrMalformedString
	}
	buf.WriteString(s)
	return buf.WriteByte(0)
}

// encodeAdditionalBlock builds the full additional block (header plus
// a single ProductInformation entry) for info.
func encodeAdditionalBlock(info ProductInfo) ([]byte, error) {
	var payload bytes.Buffer
	if err := encodeCString(&payload, info.Channel, maxProductInfoFieldLength); err != nil {
		return nil, err
	}
	if err := encodeCString(&payload, info.Version, maxProductInfoFieldLength); err != nil {
		return nil, err
	}
	entrySize := uint32(AdditionalEntryHeaderLen + payload.Len())

	var out bytes.Buffer
	blockSize := uint32(AdditionalBlockHeaderLen) + entrySize
	binary.Write(&out, binary.BigEndian, blockSize)
	binary.Write(&out, binary.BigEndian, uint32(1)) // num_entries
	binary.Write(&out, binary.BigEndian, entrySize)
	binary.Write(&out, binary.BigEndian, uint32(InfoTypeProductInformation))
	out.Write(payload.Bytes())
	return out.Bytes(), nil
}

// decodeProductInfo parses the two NUL-terminated fields of a
// ProductInformation payload. It returns ok=false if either field is
// missing its terminator or exceeds the field length bound.
func decodeProductInfo(payload []byte) (info ProductInfo, ok bool) {
	nul := bytes.IndexByte(payload, 0)
	if nul < 0 || nul+1 > maxProductInfoFieldLength {
		return ProductInfo{}, false
	}
	channel := string(payload[:nul])
	rest := payload[nul+1:]

	nul = bytes.IndexByte(rest, 0)
	if nul < 0 || nul+1 > maxProductInfoFieldLength {
		return ProductInfo{}, false
	}
	version := string(rest[:nul])
	return ProductInfo{Channel: channel, Version: version}, true
}
