// Package manifest defines the external provenance envelope — the signed
// claim plus an optional transparency receipt — and the embedded
// single-file codec that carries a manifest inside its own content.
package manifest

import (
	"github.com/tracemark-io/tracemark/pkg/claim"
	"github.com/tracemark-io/tracemark/pkg/crypto"
)

// ContextV1 is the current envelope context/version tag.
const ContextV1 = "https://tracemark.io/provenance/v1.0"

// Manifest is the external envelope around a signed claim.
// A manifest is created once per accepted edit and never mutated; the next
// accepted edit supersedes it with a fresh manifest.
type Manifest struct {
	Context string       `json:"@context"`
	Claim   *claim.Claim `json:"claim"`
	Receipt *Receipt     `json:"scitt,omitempty"`
}

// Receipt is a transparency-log commitment binding this manifest to a log
// entry. The blob is opaque here; pkg/transparency produces and checks it.
type Receipt struct {
	Receipt    string `json:"receipt"`
	ServiceURL string `json:"serviceUrl"`
	LogID      string `json:"logId"`
	Timestamp  string `json:"timestamp"`
	EntryID    string `json:"entryId,omitempty"`
}

// Create builds and signs a manifest for a content snapshot.
// No receipt is attached — anchoring is a separate, optional step.
// All-or-nothing: any key or encoding failure propagates with no partial
// state left behind.
func Create(content string, actions []claim.Action, kp *crypto.KeyPair) (*Manifest, error) {
	c := claim.Build(content, actions, "text/plain")
	if err := c.Sign(kp); err != nil {
		return nil, err
	}
	return &Manifest{Context: ContextV1, Claim: c}, nil
}

// WithoutReceipt returns a shallow copy with the receipt field absent —
// the form over which transparency commitments are computed.
func (m *Manifest) WithoutReceipt() *Manifest {
	cp := *m
	cp.Receipt = nil
	return &cp
}
