// Package verify recomputes every binding of a provenance manifest against
// content and reports a per-check breakdown.
//
// The verifier trusts only the cryptographic primitives (ECDSA P-256,
// SHA-256, JCS) and the manifest format. It does NOT trust the outer claim
// field of the manifest: content and action bindings are read from the
// claim embedded inside the signature payload, and a separate check
// requires the outer claim to canonically equal that payload — so neither
// half can be swapped while keeping an old valid signature attached.
package verify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tracemark-io/tracemark/pkg/canonicalize"
	"github.com/tracemark-io/tracemark/pkg/claim"
	"github.com/tracemark-io/tracemark/pkg/crypto"
	"github.com/tracemark-io/tracemark/pkg/manifest"
	"github.com/tracemark-io/tracemark/pkg/transparency"
)

// Check identifiers, in fixed report order.
const (
	CheckContentHash = "content_hash"
	CheckSignature   = "signature"
	CheckReceipt     = "receipt"
)

// CheckResult is the outcome of a single verification check. Failures are
// first-class outcomes, never errors.
type CheckResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// Result is the aggregate verification verdict.
type Result struct {
	Valid  bool          `json:"valid"`
	Checks []CheckResult `json:"checks"`
	Errors []string      `json:"errors"`
}

// Engine runs the verification checks. The transparency service is
// injected so a network-backed log client can replace the simulated one
// without touching the checks themselves.
type Engine struct {
	transparency transparency.Service
}

// NewEngine creates an engine. A nil service defaults to the local
// simulated transparency service.
func NewEngine(svc transparency.Service) *Engine {
	if svc == nil {
		svc = transparency.NewSimulatedService("local://simulated", "tracemark-log")
	}
	return &Engine{transparency: svc}
}

// Verify parses the manifest JSON and runs the three checks. The checks
// read only their immutable arguments, so they run concurrently; results
// land in fixed slots and the aggregate is a pure reduction, independent
// of completion order. Malformed manifest JSON short-circuits to an
// all-failed result instead of escaping the call boundary.
func (e *Engine) Verify(ctx context.Context, content string, manifestJSON []byte) *Result {
	m, err := manifest.Parse(manifestJSON)
	if err != nil {
		return allFailed(fmt.Sprintf("manifest parse failed: %v", err))
	}

	checks := make([]CheckResult, 3)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); checks[0] = checkContentHash(content, m) }()
	go func() { defer wg.Done(); checks[1] = checkSignature(m) }()
	go func() { defer wg.Done(); checks[2] = e.checkReceipt(ctx, m) }()
	wg.Wait()

	return reduce(checks)
}

func reduce(checks []CheckResult) *Result {
	r := &Result{Valid: true, Checks: checks, Errors: []string{}}
	for _, c := range checks {
		if !c.Passed {
			r.Valid = false
			r.Errors = append(r.Errors, c.Name+": "+c.Message)
		}
	}
	return r
}

func allFailed(message string) *Result {
	checks := []CheckResult{
		{Name: CheckContentHash, Passed: false, Message: message},
		{Name: CheckSignature, Passed: false, Message: message},
		{Name: CheckReceipt, Passed: false, Message: message},
	}
	return reduce(checks)
}

// signedPayloadClaim decodes the claim embedded in the signature payload.
func signedPayloadClaim(sig *claim.Signature) (*claim.Claim, error) {
	payloadJSON, err := base64.StdEncoding.DecodeString(sig.Payload)
	if err != nil {
		return nil, fmt.Errorf("signature payload decoding failed: %v", err)
	}
	var c claim.Claim
	if err := json.Unmarshal(payloadJSON, &c); err != nil {
		return nil, fmt.Errorf("signature payload is not a claim: %v", err)
	}
	return &c, nil
}

// checkContentHash recomputes the content digest and compares it to the
// hash assertion inside the signature payload — not the outer claim, which
// an attacker could replace while leaving an old signature attached.
func checkContentHash(content string, m *manifest.Manifest) CheckResult {
	fail := func(msg string) CheckResult {
		return CheckResult{Name: CheckContentHash, Passed: false, Message: msg}
	}

	if m.Claim == nil || m.Claim.Signature == nil {
		return fail("claim is unsigned, content binding cannot be trusted")
	}

	payloadClaim, err := signedPayloadClaim(m.Claim.Signature)
	if err != nil {
		return fail(err.Error())
	}

	assertion, ok := payloadClaim.FindAssertion(claim.LabelHashData)
	if !ok {
		return fail("signed claim carries no hash assertion")
	}
	var data claim.HashAssertionData
	if err := assertion.DecodeData(&data); err != nil {
		return fail("hash assertion is malformed: " + err.Error())
	}
	if data.Algorithm != claim.HashAlgorithm {
		return fail(fmt.Sprintf("unsupported hash algorithm %q", data.Algorithm))
	}

	got := canonicalize.HashBytes([]byte(content))
	if got != data.Hash {
		return fail(fmt.Sprintf("content hash mismatch: claim binds %s, content digests to %s", data.Hash, got))
	}
	return CheckResult{Name: CheckContentHash, Passed: true, Message: "content hash matches the signed hash assertion"}
}

// checkSignature verifies the raw signature over protected + "." + payload
// and then requires the outer claim (signature stripped) to canonically
// equal the claim inside the payload. The second half is the
// anti-substitution check: it fails even when the raw signature alone
// would verify.
func checkSignature(m *manifest.Manifest) CheckResult {
	fail := func(msg string) CheckResult {
		return CheckResult{Name: CheckSignature, Passed: false, Message: msg}
	}

	if m.Claim == nil || m.Claim.Signature == nil {
		return fail("claim is unsigned")
	}
	sig := m.Claim.Signature

	sigBytes, err := base64.StdEncoding.DecodeString(sig.Signature)
	if err != nil {
		return fail("signature bytes decoding failed: " + err.Error())
	}

	message := []byte(sig.Protected + "." + sig.Payload)
	if !crypto.VerifySignature(sig.PublicKey, message, sigBytes) {
		return fail("cryptographic signature is invalid for the embedded public key")
	}

	payloadClaim, err := signedPayloadClaim(sig)
	if err != nil {
		return fail(err.Error())
	}

	signedCanonical, err := canonicalize.JCS(payloadClaim.WithoutSignature())
	if err != nil {
		return fail("signed payload canonicalization failed: " + err.Error())
	}
	outerCanonical, err := canonicalize.JCS(m.Claim.WithoutSignature())
	if err != nil {
		return fail("outer claim canonicalization failed: " + err.Error())
	}
	if string(signedCanonical) != string(outerCanonical) {
		return fail("claim does not match signed payload: the manifest claim was modified after signing")
	}

	return CheckResult{Name: CheckSignature, Passed: true, Message: "signature valid and claim matches signed payload"}
}

// checkReceipt passes when no receipt is present — anchoring is optional —
// and otherwise delegates to the transparency service.
func (e *Engine) checkReceipt(ctx context.Context, m *manifest.Manifest) CheckResult {
	if m.Receipt == nil {
		return CheckResult{Name: CheckReceipt, Passed: true, Message: "no transparency receipt present (receipt is optional)"}
	}
	if e.transparency.VerifyReceipt(ctx, m, m.Receipt) {
		return CheckResult{Name: CheckReceipt, Passed: true, Message: "transparency receipt commitment matches the manifest"}
	}
	return CheckResult{Name: CheckReceipt, Passed: false, Message: "transparency receipt does not match the manifest"}
}
