package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tracemark-io/tracemark/pkg/manifest"
)

// runExtractCmd implements `tracemark extract`: split an embedded file back
// into its clean content and manifest JSON.
func runExtractCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("extract", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		in          string
		contentOut  string
		manifestOut string
	)
	cmd.StringVar(&in, "in", "", "Embedded file to split (REQUIRED)")
	cmd.StringVar(&contentOut, "content-out", "", "Write the clean content to this file")
	cmd.StringVar(&manifestOut, "manifest-out", "", "Write the manifest JSON to this file")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if in == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -in is required")
		return 2
	}

	data, err := os.ReadFile(in)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read input: %v\n", err)
		return 2
	}

	ex, err := manifest.Extract(string(data))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if contentOut != "" {
		if err := os.WriteFile(contentOut, []byte(ex.Content), 0o644); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: cannot write content: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintf(stdout, "Wrote content to %s\n", contentOut)
	}
	if manifestOut != "" {
		if err := os.WriteFile(manifestOut, ex.ManifestJSON, 0o644); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: cannot write manifest: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintf(stdout, "Wrote manifest to %s\n", manifestOut)
	}

	// With no output flags, the manifest goes to stdout so the command is
	// useful in a pipe.
	if contentOut == "" && manifestOut == "" {
		_, _ = stdout.Write(ex.ManifestJSON)
		_, _ = fmt.Fprintln(stdout)
	}
	return 0
}
