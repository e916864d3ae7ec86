// Package audit records provenance pipeline events as structured JSON
// lines. The log is operational telemetry for the tool; it is not part of
// the signed provenance record.
package audit

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of the audit event.
type EventType string

const (
	EventEditAccepted    EventType = "EDIT_ACCEPTED"
	EventManifestCreated EventType = "MANIFEST_CREATED"
	EventReceiptAnchored EventType = "RECEIPT_ANCHORED"
	EventVerificationRun EventType = "VERIFICATION_RUN"
)

// Event represents a structured audit record.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Subject   string                 `json:"subject"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Logger defines the interface for recording audit events.
type Logger interface {
	Record(ctx context.Context, eventType EventType, subject string, metadata map[string]interface{}) error
}

// logger implements Logger, writing structured JSON to a configurable Writer.
type logger struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewLogger creates a Logger writing to os.Stdout.
func NewLogger() Logger {
	return NewLoggerWithWriter(os.Stdout)
}

// NewLoggerWithWriter creates a Logger writing to the given writer.
// This allows injection for testing and custom sinks.
func NewLoggerWithWriter(w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}
	return &logger{writer: w}
}

func (l *logger) Record(ctx context.Context, eventType EventType, subject string, metadata map[string]interface{}) error {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.writer.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
