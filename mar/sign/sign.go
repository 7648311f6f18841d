// Package sign implements the RSA-PKCS#1v1.5 signature engine used to
// sign and verify MAR archives: algorithm dispatch by declared id,
// hashing, and key loading.
package sign

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha512"
	"errors"
	"hash"
)

// Declared signature algorithm ids, per the MAR format.
const (
	// SigAlgRsaPkcs1Sha1 is RSA-PKCS#1v1.5 with SHA-1, historically
	// paired with a 2048-bit key (and, on legacy archives, a 1024-bit
	// one). Implementations should verify but must never produce a
	// 1024-bit signature under this id.
	SigAlgRsaPkcs1Sha1 = 1

	// SigAlgRsaPkcs1Sha384 is RSA-PKCS#1v1.5 with SHA-384, paired with a
	// 4096-bit key.
	SigAlgRsaPkcs1Sha384 = 2
)

// legacySha1KeyBits is the modulus size of the historical 1024-bit
// SigAlgRsaPkcs1Sha1 signatures some old archives carry. Verify accepts
// them; Sign refuses to produce them.
const legacySha1KeyBits = 1024

// ErrUnknownAlgorithm is returned by NewHasher, Sign and Verify for any
// algorithm id other than the two declared above.
var ErrUnknownAlgorithm = errors.New("sign: unknown signature algorithm")

// ErrLegacyKeyRejected is returned by Sign when asked to produce a
// SigAlgRsaPkcs1Sha1 signature with a 1024-bit key. Such signatures
// exist in old archives and must still verify, but must never be
// produced.
var ErrLegacyKeyRejected = errors.New("sign: refusing to produce a legacy 1024-bit SHA-1 signature")

// NewHasher returns a fresh hash.Hash and the corresponding
// crypto.Hash identifier for the given declared algorithm id.
func NewHasher(algorithmID uint32) (hash.Hash, crypto.Hash, error) {
	switch algorithmID {
	case SigAlgRsaPkcs1Sha1:
		return sha1.New(), crypto.SHA1, nil
	case SigAlgRsaPkcs1Sha384:
		return sha512.New384(), crypto.SHA384, nil
	default:
		return nil, 0, ErrUnknownAlgorithm
	}
}

// Sign produces a PKCS#1v1.5 signature over digest with key, using the
// hash algorithm that algorithmID declares. digest must already be the
// output of that hash algorithm.
func Sign(key *rsa.PrivateKey, algorithmID uint32, digest []byte) ([]byte, error) {
	_, hashAlg, err := NewHasher(algorithmID)
	if err != nil {
		return nil, err
	}
	if algorithmID == SigAlgRsaPkcs1Sha1 && key.N.BitLen() <= legacySha1KeyBits {
		return nil, ErrLegacyKeyRejected
	}
	return rsa.SignPKCS1v15(rand.Reader, key, hashAlg, digest)
}

// Verify reports whether signature is a valid PKCS#1v1.5 signature
// over digest under pub, for the hash algorithm algorithmID declares.
// Per spec it does not distinguish a padding failure from a digest
// mismatch; both surface as a non-nil error.
func Verify(pub *rsa.PublicKey, algorithmID uint32, digest, signature []byte) error {
	_, hashAlg, err := NewHasher(algorithmID)
	if err != nil {
		return err
	}
	return rsa.VerifyPKCS1v15(pub, hashAlg, digest, signature)
}
