package transparency

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/tracemark-io/tracemark/pkg/manifest"
	"golang.org/x/time/rate"
)

// DelegatedService submits manifests to a real transparency endpoint.
// Submission is best-effort: rate limited, retried with backoff, and on
// any persistent failure the service falls back to a simulated receipt so
// the edit-accept flow is never blocked by log availability.
type DelegatedService struct {
	serviceURL string
	logID      string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	fallback   *SimulatedService
}

// NewDelegatedService creates a delegated service. store may be nil; when
// present it records fallback submissions locally.
func NewDelegatedService(serviceURL, logID string, store *LogStore) *DelegatedService {
	return &DelegatedService{
		serviceURL: serviceURL,
		logID:      logID,
		client:     &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second/2), 5), // 2 requests per second, burst of 5
		maxRetries: 2,
		fallback:   &SimulatedService{ServiceURL: serviceURL, LogID: logID, Store: store},
	}
}

type submitRequest struct {
	LogID    string             `json:"logId"`
	Manifest *manifest.Manifest `json:"manifest"`
}

type submitResponse struct {
	Receipt   string `json:"receipt"`
	Timestamp string `json:"timestamp"`
	EntryID   string `json:"entryId,omitempty"`
}

// Submit attempts a real submission; any failure degrades to a simulated
// receipt rather than propagating.
func (s *DelegatedService) Submit(ctx context.Context, m *manifest.Manifest) (*manifest.Receipt, error) {
	receipt, err := s.submitRemote(ctx, m)
	if err != nil {
		slog.Debug("transparency submission failed, falling back to simulated receipt",
			"service_url", s.serviceURL, "error", err)
		return s.fallback.Submit(ctx, m)
	}
	return receipt, nil
}

func (s *DelegatedService) submitRemote(ctx context.Context, m *manifest.Manifest) (*manifest.Receipt, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(submitRequest{LogID: s.logID, Manifest: m.WithoutReceipt()})
	if err != nil {
		return nil, fmt.Errorf("submission encoding failed: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter.
			backoff := time.Duration(math.Pow(2, float64(attempt))) * 100 * time.Millisecond
			backoff += time.Duration(rand.Int63n(int64(50 * time.Millisecond)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serviceURL+"/entries", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("transparency service returned %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			resp.Body.Close()
			return nil, fmt.Errorf("transparency service rejected submission: %d", resp.StatusCode)
		}

		var sr submitResponse
		err = json.NewDecoder(resp.Body).Decode(&sr)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("transparency response decode failed: %w", err)
		}
		if sr.Receipt == "" {
			return nil, fmt.Errorf("transparency response missing receipt")
		}

		ts := sr.Timestamp
		if ts == "" {
			ts = time.Now().UTC().Format(time.RFC3339)
		}
		return &manifest.Receipt{
			Receipt:    sr.Receipt,
			ServiceURL: s.serviceURL,
			LogID:      s.logID,
			Timestamp:  ts,
			EntryID:    sr.EntryID,
		}, nil
	}

	return nil, lastErr
}

// VerifyReceipt without a live log query is a well-formedness check only:
// the receipt blob and timestamp must be non-empty. This is a stated
// limitation of delegated mode, not full verification.
func (s *DelegatedService) VerifyReceipt(ctx context.Context, m *manifest.Manifest, r *manifest.Receipt) bool {
	return r != nil && r.Receipt != "" && r.Timestamp != ""
}
