package crypto

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
)

// VerifySignature reports whether sig is a valid ES256 signature over
// message by the base64 PKIX-encoded public key.
//
// Verification is tolerant: malformed base64, non-parseable DER, a key of
// the wrong type, or corrupt signature bytes all yield false. It never
// returns an error — integrity failures are outcomes, not exceptions.
func VerifySignature(pubKeyB64 string, message, sig []byte) bool {
	der, err := base64.StdEncoding.DecodeString(pubKeyB64)
	if err != nil {
		return false
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return false
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return false
	}
	digest := sha256.Sum256(message)
	return ecdsa.VerifyASN1(ecPub, digest[:], sig)
}
