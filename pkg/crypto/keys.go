// Package crypto provides the signing primitives for provenance claims:
// ECDSA P-256 keypairs, hash-then-sign signatures, and tolerant
// verification that never panics or errors on malformed input.
package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"

	"github.com/google/uuid"
)

// AlgES256 identifies the signature scheme: ECDSA over P-256 with SHA-256.
const AlgES256 = "ES256"

// KeyPair holds an ECDSA P-256 signing key and its identifier.
//
// A KeyPair is a value owned by the caller. Nothing in this module keeps
// global key state; builders and verifiers take the key (or its exported
// public half) as an explicit argument.
type KeyPair struct {
	Private *ecdsa.PrivateKey
	KeyID   string
}

// GenerateKeyPair creates a fresh P-256 keypair with a random key id.
// Every call produces new key material.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("key generation failed: %w", err)
	}
	return &KeyPair{
		Private: priv,
		KeyID:   "key-" + uuid.NewString(),
	}, nil
}

// NewKeyPairFromKey wraps an existing private key under the given key id.
func NewKeyPairFromKey(priv *ecdsa.PrivateKey, keyID string) *KeyPair {
	return &KeyPair{Private: priv, KeyID: keyID}
}

// PublicKeyB64 exports the public key as base64-encoded PKIX (SPKI) DER.
// This is the form embedded in signatures and handed to verifiers.
func (kp *KeyPair) PublicKeyB64() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(&kp.Private.PublicKey)
	if err != nil {
		return "", fmt.Errorf("public key export failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// EncodePEM renders the keypair as a PKCS#8 private key PEM block and a
// PKIX public key PEM block, for file storage by the CLI.
func (kp *KeyPair) EncodePEM() (privPEM, pubPEM []byte, err error) {
	privDER, err := x509.MarshalPKCS8PrivateKey(kp.Private)
	if err != nil {
		return nil, nil, fmt.Errorf("private key export failed: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&kp.Private.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("public key export failed: %w", err)
	}
	privPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privPEM, pubPEM, nil
}

// DecodePrivateKeyPEM parses a PKCS#8 PEM private key produced by EncodePEM.
func DecodePrivateKeyPEM(data []byte, keyID string) (*KeyPair, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("private key parse failed: %w", err)
	}
	ecKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported key type %T, want ECDSA", key)
	}
	return &KeyPair{Private: ecKey, KeyID: keyID}, nil
}
