// Package claim models the core provenance statement: a claim binds exact
// content bytes (hash assertion) and an ordered edit history (actions
// assertion) under a COSE-style signature.
package claim

import (
	"encoding/json"
	"fmt"
)

// Controlled action-type vocabulary.
const (
	ActionCreated = "c2pa.created"
	ActionEdited  = "c2pa.edited"
	ActionOpened  = "c2pa.opened"
)

// Digital source type vocabulary (IPTC). Exactly two values are recognized:
// human-originated capture and machine-assisted generation.
const (
	DigitalSourceHuman   = "http://cv.iptc.org/newscodes/digitalsourcetype/digitalCapture"
	DigitalSourceMachine = "http://cv.iptc.org/newscodes/digitalsourcetype/trainedAlgorithmicMedia"
)

// Assertion labels.
const (
	LabelHashData = "c2pa.hash.data"
	LabelActions  = "c2pa.actions"
)

// Claim generator identity.
const (
	GeneratorName    = "tracemark"
	GeneratorVersion = "1.0.0"
)

// HashAlgorithm is the only digest algorithm emitted in hash assertions.
const HashAlgorithm = "sha256"

// Claim is the core provenance statement.
//
// Invariant: once signed, the canonical encoding of the claim with the
// signature field absent equals the canonically encoded payload inside
// the signature.
type Claim struct {
	Format             string          `json:"dc:format"`
	InstanceID         string          `json:"instanceId"`
	ClaimGenerator     string          `json:"claimGenerator"`
	ClaimGeneratorInfo []GeneratorInfo `json:"claimGeneratorInfo,omitempty"`
	Assertions         []Assertion     `json:"assertions"`
	Signature          *Signature      `json:"signature,omitempty"`
}

// GeneratorInfo names the software that produced the claim.
type GeneratorInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Assertion is a labeled, typed fact attached to a claim. Data is opaque
// to the envelope; its shape is determined by Label.
type Assertion struct {
	Label string `json:"label"`
	Data  any    `json:"data"`
}

// HashAssertionData hard-binds the claim to exact content bytes.
type HashAssertionData struct {
	Algorithm string `json:"algorithm"`
	Hash      string `json:"hash"`
}

// ActionsAssertionData carries the ordered edit history.
type ActionsAssertionData struct {
	Actions []Action `json:"actions"`
}

// Action records one edit event.
type Action struct {
	Action            string        `json:"action"`
	When              string        `json:"when"`
	SoftwareAgent     string        `json:"softwareAgent,omitempty"`
	DigitalSourceType string        `json:"digitalSourceType,omitempty"`
	Parameters        *ActionParams `json:"parameters,omitempty"`
}

// ActionParams holds the optional detail of an edit event.
type ActionParams struct {
	Description  string     `json:"description,omitempty"`
	Model        string     `json:"model,omitempty"`
	PromptHash   string     `json:"promptHash,omitempty"`
	ResponseHash string     `json:"responseHash,omitempty"`
	BeforeHash   string     `json:"beforeHash,omitempty"`
	AfterHash    string     `json:"afterHash,omitempty"`
	Range        *TextRange `json:"range,omitempty"`
}

// TextRange is a half-open character range [Start, End) in the edited text.
type TextRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Signature is the COSE-style signature structure: protected header,
// payload (the claim, signature field absent), raw signature bytes, and
// the signer's exported public key — all base64 except the key id inside
// the header.
type Signature struct {
	Protected string `json:"protected"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

// ProtectedHeader is the integrity-protected signature header.
type ProtectedHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
}

// WithoutSignature returns a shallow copy of the claim with the signature
// field absent, the form that is canonically encoded for signing.
func (c *Claim) WithoutSignature() *Claim {
	cp := *c
	cp.Signature = nil
	return &cp
}

// FindAssertion returns the first assertion with the given label.
func (c *Claim) FindAssertion(label string) (*Assertion, bool) {
	for i := range c.Assertions {
		if c.Assertions[i].Label == label {
			return &c.Assertions[i], true
		}
	}
	return nil, false
}

// DecodeData unmarshals the assertion's opaque data into v. Assertions
// decoded from wire JSON carry generic maps; this re-marshals them into
// the label's typed shape.
func (a *Assertion) DecodeData(v any) error {
	raw, err := json.Marshal(a.Data)
	if err != nil {
		return fmt.Errorf("assertion data encode failed: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("assertion data decode failed: %w", err)
	}
	return nil
}
