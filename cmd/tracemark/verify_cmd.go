package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tracemark-io/tracemark/pkg/audit"
	"github.com/tracemark-io/tracemark/pkg/manifest"
	"github.com/tracemark-io/tracemark/pkg/verify"
)

// runVerifyCmd implements `tracemark verify`: run the full check suite on
// either a single embedded file or a detached content/manifest pair, and
// print the per-check breakdown. Exit code 0 means all checks passed,
// 1 means at least one failed, 2 means the command itself could not run.
func runVerifyCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("verify", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		in           string
		contentFile  string
		manifestFile string
		jsonOut      bool
		profile      string
		auditPath    string
	)
	cmd.StringVar(&in, "in", "", "Embedded file to verify")
	cmd.StringVar(&contentFile, "content", "", "Detached content file")
	cmd.StringVar(&manifestFile, "manifest", "", "Detached manifest JSON file")
	cmd.BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	cmd.StringVar(&profile, "profile", "", "YAML config profile")
	cmd.StringVar(&auditPath, "audit", "", "Append audit events to this file")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	var content string
	var manifestJSON []byte
	var subject string

	switch {
	case in != "":
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
		content = ex.Content
		manifestJSON = ex.ManifestJSON
		subject = in
	case contentFile != "" && manifestFile != "":
		c, err := os.ReadFile(contentFile)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: cannot read content: %v\n", err)
			return 2
		}
		m, err := os.ReadFile(manifestFile)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: cannot read manifest: %v\n", err)
			return 2
		}
		content = string(c)
		manifestJSON = m
		subject = contentFile
	default:
		_, _ = fmt.Fprintln(stderr, "Error: provide -in, or both -content and -manifest")
		return 2
	}

	cfg, err := loadConfig(profile)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	svc, cleanup, err := newService(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer cleanup()

	result := verify.NewEngine(svc).Verify(context.Background(), content, manifestJSON)

	auditLog, closeAudit, err := openAudit(auditPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer closeAudit()
	recordEvent(auditLog, audit.EventVerificationRun, subject, map[string]interface{}{"valid": result.Valid})

	if jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	} else {
		printResult(stdout, result)
	}

	if result.Valid {
		return 0
	}
	return 1
}

func printResult(w io.Writer, r *verify.Result) {
	for _, c := range r.Checks {
		status := "PASS"
		if !c.Passed {
			status = "FAIL"
		}
		_, _ = fmt.Fprintf(w, "[%s] %-13s %s\n", status, c.Name, c.Message)
	}
	if r.Valid {
		_, _ = fmt.Fprintln(w, "Verification PASSED")
	} else {
		_, _ = fmt.Fprintln(w, "Verification FAILED")
	}
}
