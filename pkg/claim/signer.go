package claim

import (
	"encoding/base64"
	"fmt"

	"github.com/tracemark-io/tracemark/pkg/canonicalize"
	"github.com/tracemark-io/tracemark/pkg/crypto"
)

// SignClaim produces the COSE-style signature for a claim.
//
// The protected header {alg, kid} and the claim (signature field absent)
// are each canonically encoded and base64'd independently; the signature
// covers the concatenation protected + "." + payload. Any key or encoding
// failure is fatal — there is no partial state.
func SignClaim(c *Claim, kp *crypto.KeyPair) (*Signature, error) {
	header := ProtectedHeader{Alg: crypto.AlgES256, Kid: kp.KeyID}
	headerJSON, err := canonicalize.JCS(header)
	if err != nil {
		return nil, fmt.Errorf("protected header encoding failed: %w", err)
	}
	protected := base64.StdEncoding.EncodeToString(headerJSON)

	payloadJSON, err := canonicalize.JCS(c.WithoutSignature())
	if err != nil {
		return nil, fmt.Errorf("claim payload encoding failed: %w", err)
	}
	payload := base64.StdEncoding.EncodeToString(payloadJSON)

	sigBytes, err := kp.Sign([]byte(protected + "." + payload))
	if err != nil {
		return nil, err
	}

	pubKey, err := kp.PublicKeyB64()
	if err != nil {
		return nil, err
	}

	return &Signature{
		Protected: protected,
		Payload:   payload,
		Signature: base64.StdEncoding.EncodeToString(sigBytes),
		PublicKey: pubKey,
	}, nil
}

// Sign builds the signature and attaches it to the claim.
func (c *Claim) Sign(kp *crypto.KeyPair) error {
	sig, err := SignClaim(c, kp)
	if err != nil {
		return err
	}
	c.Signature = sig
	return nil
}
