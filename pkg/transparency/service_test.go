package transparency

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracemark-io/tracemark/pkg/claim"
	"github.com/tracemark-io/tracemark/pkg/crypto"
	"github.com/tracemark-io/tracemark/pkg/manifest"
)

func testManifest(t *testing.T, content string) *manifest.Manifest {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	m, err := manifest.Create(content, []claim.Action{claim.NewCreatedAction("editor/1.0")}, kp)
	require.NoError(t, err)
	return m
}

func TestSimulated_SubmitVerify(t *testing.T) {
	svc := NewSimulatedService("local://simulated", "text-provenance-log")
	m := testManifest(t, "Hello")

	receipt, err := svc.Submit(context.Background(), m)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.Receipt)
	assert.Equal(t, "text-provenance-log", receipt.LogID)
	assert.NotEmpty(t, receipt.Timestamp)

	assert.True(t, svc.VerifyReceipt(context.Background(), m, receipt))
}

func TestSimulated_VerifyFailsForDifferentManifest(t *testing.T) {
	svc := NewSimulatedService("local://simulated", "log")
	m := testManifest(t, "Hello")
	other := testManifest(t, "Hello") // same content, different instance id

	receipt, err := svc.Submit(context.Background(), m)
	require.NoError(t, err)

	assert.False(t, svc.VerifyReceipt(context.Background(), other, receipt))
}

func TestSimulated_VerifyIgnoresAttachedReceipt(t *testing.T) {
	svc := NewSimulatedService("local://simulated", "log")
	m := testManifest(t, "Hello")

	receipt, err := svc.Submit(context.Background(), m)
	require.NoError(t, err)

	// Attaching the receipt to the manifest must not change the commitment.
	m.Receipt = receipt
	assert.True(t, svc.VerifyReceipt(context.Background(), m, receipt))
}

func TestSimulated_VerifyMalformedReceipts(t *testing.T) {
	svc := NewSimulatedService("local://simulated", "log")
	m := testManifest(t, "Hello")
	ctx := context.Background()

	assert.False(t, svc.VerifyReceipt(ctx, m, nil))
	assert.False(t, svc.VerifyReceipt(ctx, m, &manifest.Receipt{}))
	assert.False(t, svc.VerifyReceipt(ctx, m, &manifest.Receipt{Receipt: "not base64 !!"}))
	assert.False(t, svc.VerifyReceipt(ctx, m, &manifest.Receipt{Receipt: "aGVsbG8="})) // base64 of "hello"
}

func TestSimulated_StoreAssignsEntryID(t *testing.T) {
	store, err := OpenLogStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	svc := NewSimulatedService("local://simulated", "log")
	svc.Store = store

	m := testManifest(t, "Hello")
	receipt, err := svc.Submit(context.Background(), m)
	require.NoError(t, err)
	require.NotEmpty(t, receipt.EntryID)

	entry, err := store.Get(context.Background(), receipt.EntryID)
	require.NoError(t, err)

	commitment, err := Commitment(m)
	require.NoError(t, err)
	assert.Equal(t, commitment, entry.Commitment)
	assert.Equal(t, "log", entry.LogID)
}

func TestDelegated_FallsBackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "log unavailable", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewDelegatedService(server.URL, "log", nil)
	m := testManifest(t, "Hello")

	receipt, err := svc.Submit(context.Background(), m)
	require.NoError(t, err, "submission is best-effort and must not propagate failures")

	// The fallback receipt is a valid simulated one.
	sim := NewSimulatedService(server.URL, "log")
	assert.True(t, sim.VerifyReceipt(context.Background(), m, receipt))
}

func TestDelegated_RemoteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "log", req.LogID)
		require.NotNil(t, req.Manifest)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(submitResponse{
			Receipt:   "cmVtb3RlLXJlY2VpcHQ=",
			Timestamp: "2026-01-02T03:04:05Z",
			EntryID:   "entry-42",
		})
	}))
	defer server.Close()

	svc := NewDelegatedService(server.URL, "log", nil)
	m := testManifest(t, "Hello")

	receipt, err := svc.Submit(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "cmVtb3RlLXJlY2VpcHQ=", receipt.Receipt)
	assert.Equal(t, "entry-42", receipt.EntryID)

	// Delegated verification is well-formedness only.
	assert.True(t, svc.VerifyReceipt(context.Background(), m, receipt))
	assert.False(t, svc.VerifyReceipt(context.Background(), m, &manifest.Receipt{Receipt: "x"}))
	assert.False(t, svc.VerifyReceipt(context.Background(), m, nil))
}
