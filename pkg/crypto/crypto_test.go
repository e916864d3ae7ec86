package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify_RoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	pub, err := kp.PublicKeyB64()
	require.NoError(t, err)

	msg := []byte("protected.payload")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	assert.True(t, VerifySignature(pub, msg, sig))
}

func TestGenerateKeyPair_FreshEachCall(t *testing.T) {
	kp1, err := GenerateKeyPair()
	require.NoError(t, err)
	kp2, err := GenerateKeyPair()
	require.NoError(t, err)

	pub1, _ := kp1.PublicKeyB64()
	pub2, _ := kp2.PublicKeyB64()
	assert.NotEqual(t, pub1, pub2)
	assert.NotEqual(t, kp1.KeyID, kp2.KeyID)
}

func TestVerifySignature_TamperedMessage(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	pub, _ := kp.PublicKeyB64()

	sig, err := kp.Sign([]byte("original"))
	require.NoError(t, err)

	assert.False(t, VerifySignature(pub, []byte("original "), sig))
}

func TestVerifySignature_WrongKey(t *testing.T) {
	kp1, _ := GenerateKeyPair()
	kp2, _ := GenerateKeyPair()
	otherPub, _ := kp2.PublicKeyB64()

	sig, err := kp1.Sign([]byte("message"))
	require.NoError(t, err)

	assert.False(t, VerifySignature(otherPub, []byte("message"), sig))
}

// VerifySignature must return false, never panic or error, on garbage input.
func TestVerifySignature_MalformedInputs(t *testing.T) {
	kp, _ := GenerateKeyPair()
	pub, _ := kp.PublicKeyB64()
	sig, _ := kp.Sign([]byte("msg"))

	assert.False(t, VerifySignature("not base64 !!!", []byte("msg"), sig))
	assert.False(t, VerifySignature("aGVsbG8=", []byte("msg"), sig)) // valid base64, not DER
	assert.False(t, VerifySignature(pub, []byte("msg"), []byte("junk signature")))
	assert.False(t, VerifySignature(pub, []byte("msg"), nil))
	assert.False(t, VerifySignature("", []byte("msg"), sig))
}

func TestPEM_RoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	privPEM, pubPEM, err := kp.EncodePEM()
	require.NoError(t, err)
	assert.Contains(t, string(privPEM), "PRIVATE KEY")
	assert.Contains(t, string(pubPEM), "PUBLIC KEY")

	restored, err := DecodePrivateKeyPEM(privPEM, kp.KeyID)
	require.NoError(t, err)

	// The restored key must produce signatures the original public key accepts.
	pub, _ := kp.PublicKeyB64()
	sig, err := restored.Sign([]byte("payload"))
	require.NoError(t, err)
	assert.True(t, VerifySignature(pub, []byte("payload"), sig))
}

func TestDecodePrivateKeyPEM_Errors(t *testing.T) {
	_, err := DecodePrivateKeyPEM([]byte("not pem"), "k")
	assert.Error(t, err)
}
