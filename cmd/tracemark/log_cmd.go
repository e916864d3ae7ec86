package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/tracemark-io/tracemark/pkg/transparency"
)

// runLogCmd implements `tracemark log`: list the most recent anchored
// entries from a local transparency log database.
func runLogCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("log", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		db    string
		logID string
		limit int
	)
	cmd.StringVar(&db, "db", "", "Transparency log database file (REQUIRED)")
	cmd.StringVar(&logID, "log-id", "tracemark-log", "Log id to list entries for")
	cmd.IntVar(&limit, "limit", 20, "Maximum number of entries")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if db == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -db is required")
		return 2
	}

	store, err := transparency.OpenLogStore(db)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(context.Background(), logID, limit)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintf(stdout, "No entries for log %q\n", logID)
		return 0
	}

	for _, e := range entries {
		_, _ = fmt.Fprintf(stdout, "%s  %s  %s\n", e.SubmittedAt, e.EntryID, e.Commitment)
	}
	return 0
}
