package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// Sign computes an ES256 signature over message: the message is hashed
// with SHA-256 and the digest signed with ECDSA P-256. The signature is
// ASN.1/DER encoded. Signing failures are fatal and propagate.
func Sign(priv *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("signing failed: nil private key")
	}
	digest := sha256.Sum256(message)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}
	return sig, nil
}

// Sign signs message with the pair's private key.
func (kp *KeyPair) Sign(message []byte) ([]byte, error) {
	return Sign(kp.Private, message)
}
