// Package transparency anchors manifests in a transparency log and checks
// the resulting receipts. The default service simulates a log with a local
// hash commitment; a delegated service can submit to a real endpoint and
// falls back to simulation on any failure, so anchoring never blocks the
// acceptance of an edit.
package transparency

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tracemark-io/tracemark/pkg/canonicalize"
	"github.com/tracemark-io/tracemark/pkg/manifest"
)

// Service is the capability boundary for transparency logs. A real
// network-backed log client can replace the simulated one without touching
// the verification engine.
type Service interface {
	Submit(ctx context.Context, m *manifest.Manifest) (*manifest.Receipt, error)
	VerifyReceipt(ctx context.Context, m *manifest.Manifest, r *manifest.Receipt) bool
}

// ReceiptPayload is the decoded body of a simulated receipt blob.
type ReceiptPayload struct {
	Version    string `json:"version"`
	Commitment string `json:"commitment"`
	Timestamp  string `json:"timestamp"`
	LogID      string `json:"logId"`
	Note       string `json:"note"`
}

// ReceiptVersion is the simulated receipt payload version.
const ReceiptVersion = "1"

const simulatedNote = "simulated transparency receipt; no external log was contacted"

// Commitment computes the log commitment for a manifest: the canonical
// digest of the manifest with its own receipt field excluded. Excluding
// the receipt keeps the commitment stable whether it is computed before or
// after anchoring.
func Commitment(m *manifest.Manifest) (string, error) {
	return canonicalize.CanonicalHash(m.WithoutReceipt())
}

// SimulatedService produces local hash-commitment receipts. When a Store
// is attached, each submission is also recorded as a log entry; store
// failures degrade to a receipt without an entry id rather than failing
// the submission.
type SimulatedService struct {
	ServiceURL string
	LogID      string
	Store      *LogStore
}

// NewSimulatedService creates a simulated service for the given (opaque)
// service and log identifiers.
func NewSimulatedService(serviceURL, logID string) *SimulatedService {
	return &SimulatedService{ServiceURL: serviceURL, LogID: logID}
}

// Submit wraps the manifest's commitment in a receipt blob.
func (s *SimulatedService) Submit(ctx context.Context, m *manifest.Manifest) (*manifest.Receipt, error) {
	commitment, err := Commitment(m)
	if err != nil {
		return nil, fmt.Errorf("commitment computation failed: %w", err)
	}

	ts := time.Now().UTC().Format(time.RFC3339)
	payload := ReceiptPayload{
		Version:    ReceiptVersion,
		Commitment: commitment,
		Timestamp:  ts,
		LogID:      s.LogID,
		Note:       simulatedNote,
	}
	blob, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("receipt encoding failed: %w", err)
	}

	receipt := &manifest.Receipt{
		Receipt:    base64.StdEncoding.EncodeToString(blob),
		ServiceURL: s.ServiceURL,
		LogID:      s.LogID,
		Timestamp:  ts,
	}

	if s.Store != nil {
		if entryID, err := s.Store.Append(ctx, s.LogID, commitment, ts); err == nil {
			receipt.EntryID = entryID
		}
	}

	return receipt, nil
}

// VerifyReceipt recomputes the commitment over the manifest (receipt
// excluded) and requires an exact match with the decoded receipt's
// commitment. Any decoding failure is a verification failure, not an error.
func (s *SimulatedService) VerifyReceipt(ctx context.Context, m *manifest.Manifest, r *manifest.Receipt) bool {
	payload, ok := DecodeReceipt(r)
	if !ok {
		return false
	}
	want, err := Commitment(m)
	if err != nil {
		return false
	}
	return payload.Commitment == want
}

// DecodeReceipt decodes a simulated receipt blob. ok is false for a nil
// receipt, a malformed blob, or a payload that is not receipt-shaped.
func DecodeReceipt(r *manifest.Receipt) (*ReceiptPayload, bool) {
	if r == nil || r.Receipt == "" {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(r.Receipt)
	if err != nil {
		return nil, false
	}
	var payload ReceiptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	if payload.Commitment == "" {
		return nil, false
	}
	return &payload, true
}
