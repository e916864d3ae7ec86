package transparency

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// LogStore persists simulated log entries in sqlite, giving the local log
// a durable, queryable history of everything that was anchored.
type LogStore struct {
	db *sql.DB
}

// LogEntry is one anchored manifest commitment.
type LogEntry struct {
	EntryID     string
	LogID       string
	Commitment  string
	SubmittedAt string
}

// OpenLogStore opens (or creates) a sqlite-backed log store at path.
// Use ":memory:" for an ephemeral store.
func OpenLogStore(path string) (*LogStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("log store open failed: %w", err)
	}
	return NewLogStore(db)
}

// NewLogStore wraps an existing database handle and runs migrations.
func NewLogStore(db *sql.DB) (*LogStore, error) {
	s := &LogStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LogStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS log_entries (
		entry_id TEXT PRIMARY KEY,
		log_id TEXT NOT NULL,
		commitment TEXT NOT NULL,
		submitted_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_log_entries_log_id ON log_entries(log_id);`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Append records a submission and returns the fresh entry id.
func (s *LogStore) Append(ctx context.Context, logID, commitment, submittedAt string) (string, error) {
	entryID := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO log_entries (entry_id, log_id, commitment, submitted_at) VALUES (?, ?, ?, ?)`,
		entryID, logID, commitment, submittedAt)
	if err != nil {
		return "", fmt.Errorf("log append failed: %w", err)
	}
	return entryID, nil
}

// Get returns the entry with the given id, or sql.ErrNoRows.
func (s *LogStore) Get(ctx context.Context, entryID string) (*LogEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT entry_id, log_id, commitment, submitted_at FROM log_entries WHERE entry_id = ?`, entryID)
	var e LogEntry
	if err := row.Scan(&e.EntryID, &e.LogID, &e.Commitment, &e.SubmittedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns the most recent entries for a log.
func (s *LogStore) List(ctx context.Context, logID string, limit int) ([]*LogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, log_id, commitment, submitted_at FROM log_entries
		 WHERE log_id = ? ORDER BY submitted_at DESC LIMIT ?`, logID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []*LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.EntryID, &e.LogID, &e.Commitment, &e.SubmittedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database handle.
func (s *LogStore) Close() error {
	return s.db.Close()
}
