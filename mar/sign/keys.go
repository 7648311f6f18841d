package sign

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"
)

// ParsePrivateKey loads an RSA private key from a PEM block or raw
// DER, trying PKCS#1 then PKCS#8 before giving up, the way
// autograph's signer.ParsePrivateKey does for OpenSSL's two common
// output formats.
func ParsePrivateKey(keyBytes []byte) (*rsa.PrivateKey, error) {
	der := keyBytes
	if block, _ := pem.Decode(keyBytes); block != nil {
		if !strings.HasSuffix(block.Type, "PRIVATE KEY") {
			return nil, fmt.Errorf("sign: PEM block type %q is not a private key", block.Type)
		}
		der = block.Bytes
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("sign: failed to parse private key as PKCS1 or PKCS8: %w", err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("sign: unsupported private key type %T", key)
	}
	return rsaKey, nil
}

// ParsePublicKey loads an RSA public key from a PEM block or raw
// SubjectPublicKeyInfo DER.
func ParsePublicKey(keyBytes []byte) (*rsa.PublicKey, error) {
	der := keyBytes
	if block, _ := pem.Decode(keyBytes); block != nil {
		der = block.Bytes
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("sign: failed to parse public key: %w", err)
	}
	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("sign: unsupported public key type %T", pub)
	}
	return rsaKey, nil
}
