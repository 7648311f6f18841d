package sign

import "crypto/rsa"

// AnyKeyMatches reports whether any key in candidates produces a valid
// signature over digest for the declared algorithm. It implements the
// "any-key-matches" policy a caller can apply per signature slot, as
// opposed to Reader.Verify's default "all declared signatures must
// verify" policy.
func AnyKeyMatches(algorithmID uint32, digest, signature []byte, candidates []*rsa.PublicKey) bool {
	for _, pub := range candidates {
		if Verify(pub, algorithmID, digest, signature) == nil {
			return true
		}
	}
	return false
}
