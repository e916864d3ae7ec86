package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tracemark-io/tracemark/pkg/diff"
)

// runDiffCmd implements `tracemark diff`: a word-level diff between two
// drafts, rendered as unified text or as the raw token stream.
func runDiffCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("diff", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		a       string
		b       string
		jsonOut bool
	)
	cmd.StringVar(&a, "a", "", "Old draft (REQUIRED)")
	cmd.StringVar(&b, "b", "", "New draft (REQUIRED)")
	cmd.BoolVar(&jsonOut, "json", false, "Emit the token stream as JSON")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if a == "" || b == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -a and -b are required")
		return 2
	}

	oldData, err := os.ReadFile(a)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read %s: %v\n", a, err)
		return 2
	}
	newData, err := os.ReadFile(b)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read %s: %v\n", b, err)
		return 2
	}

	d := diff.Compute(string(oldData), string(newData))

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		return 0
	}

	_, _ = fmt.Fprintln(stdout, d.UnifiedText)
	return 0
}
