package mar

import "errors"

// Size limits enforced while parsing, mirroring the sanity bounds
// go.mozilla.org/mar applies to untrusted input.
var (
	// limitMaxFileSize is the largest archive Open will agree to parse.
	limitMaxFileSize int64 = 524288000

	// limitMaxSignatureSize bounds an individual signature's byte length
	// during the speculative signature-block probe. 512 bytes covers a
	// 4096-bit RSA modulus (algorithm id 2); anything larger is treated
	// as "not a signature block" rather than parsed.
	limitMaxSignatureSize uint32 = 512
)

// Sentinel errors for the fatal, format-level failure modes listed in
// spec §7. Verification outcomes that are not errors (NoSignatures,
// UnknownSignatureAlgorithm) are represented as VerifyOutcome values,
// not as errors.
var (
	ErrIo                      = errors.New("mar: I/O error")
	ErrBadMagic                = errors.New("mar: bad magic, expected \"MAR1\"")
	ErrTruncatedFile           = errors.New("mar: truncated file")
	ErrMalformedIndex          = errors.New("mar: malformed index")
	ErrMalformedString         = errors.New("mar: string exceeds its maximum length or is missing its NUL terminator")
	ErrOffsetOutOfRange        = errors.New("mar: offset is out of range")
	ErrIndexNotSorted          = errors.New("mar: index entries are not sorted by offset")
	ErrDuplicateName           = errors.New("mar: duplicate member name")
	ErrNameTooLong             = errors.New("mar: member name exceeds the maximum length")
	ErrOverlappingRead         = errors.New("mar: index references an already-read byte range")
	ErrUnsupportedCompression  = errors.New("mar: unsupported compression codec")
	ErrCorruptCompressedStream = errors.New("mar: corrupt compressed stream")
	ErrFailedSignature         = errors.New("mar: signature failed to verify")
	ErrMemberTooLarge          = errors.New("mar: member payload exceeds the maximum size of a uint32")
	ErrSigningFailed           = errors.New("mar: signing failed")
	ErrFileTooLarge            = errors.New("mar: file exceeds the configured maximum size")
)
