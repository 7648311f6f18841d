// Package keys provides the built-in public keys for MAR signature
// verification, plus helpers that parse them into the shapes
// mar.Reader.Verify expects.
package keys

import (
	"crypto/rsa"
	"fmt"
	"sort"

	"github.com/mozilla-services/margo/mar/sign"
)

// Names lists the known key set names, sorted for stable output.
func Names() []string {
	names := make([]string, 0, len(KnownKeySets))
	for name := range KnownKeySets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup parses and returns the public keys in a named built-in key
// set. It fails closed: an unknown name is an error, never an empty
// result.
func Lookup(name string) ([]*rsa.PublicKey, error) {
	pemBlocks, ok := KnownKeySets[name]
	if !ok {
		return nil, fmt.Errorf("keys: unknown key set %q", name)
	}
	return parseAll(pemBlocks)
}

// AnyAlgorithm builds a candidate-key map covering both signature
// algorithms declared by the MAR format, suitable for
// mar.Reader.Verify, from the named built-in key set.
func AnyAlgorithm(name string) (map[uint32][]*rsa.PublicKey, error) {
	pubKeys, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return map[uint32][]*rsa.PublicKey{
		sign.SigAlgRsaPkcs1Sha1:   pubKeys,
		sign.SigAlgRsaPkcs1Sha384: pubKeys,
	}, nil
}

func parseAll(pemBlocks []string) ([]*rsa.PublicKey, error) {
	pubKeys := make([]*rsa.PublicKey, 0, len(pemBlocks))
	for _, block := range pemBlocks {
		pub, err := sign.ParsePublicKey([]byte(block))
		if err != nil {
			return nil, err
		}
		pubKeys = append(pubKeys, pub)
	}
	return pubKeys, nil
}
