package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tracemark-io/tracemark/pkg/audit"
	"github.com/tracemark-io/tracemark/pkg/claim"
	"github.com/tracemark-io/tracemark/pkg/crypto"
	"github.com/tracemark-io/tracemark/pkg/manifest"
)

// runSignCmd implements `tracemark sign`: build and sign a manifest for a
// content file, optionally anchor it in the transparency log, and write
// either the manifest JSON or a single embedded file.
func runSignCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("sign", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		in        string
		keyFile   string
		note      string
		embed     bool
		anchor    bool
		out       string
		profile   string
		auditPath string
	)
	cmd.StringVar(&in, "in", "", "Content file to sign (REQUIRED)")
	cmd.StringVar(&keyFile, "key", "", "PEM private key file (REQUIRED)")
	cmd.StringVar(&note, "note", "", "Free-text description recorded in the edit action")
	cmd.BoolVar(&embed, "embed", false, "Write a single file with the manifest embedded")
	cmd.BoolVar(&anchor, "anchor", false, "Anchor the manifest in the transparency log")
	cmd.StringVar(&out, "out", "", "Output file (default stdout)")
	cmd.StringVar(&profile, "profile", "", "YAML config profile")
	cmd.StringVar(&auditPath, "audit", "", "Append audit events to this file")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if in == "" || keyFile == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -in and -key are required")
		return 2
	}

	content, err := os.ReadFile(in)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read content: %v\n", err)
		return 2
	}
	keyPEM, err := os.ReadFile(keyFile)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot read key: %v\n", err)
		return 2
	}
	kp, err := crypto.DecodePrivateKeyPEM(keyPEM, "key-"+filepath.Base(keyFile))
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	var actions []claim.Action
	if note != "" {
		actions = append(actions, claim.NewHumanEditAction(note, "", "", nil))
	} else {
		actions = append(actions, claim.NewCreatedAction(claim.GeneratorName+"/"+claim.GeneratorVersion))
	}

	m, err := manifest.Create(string(content), actions, kp)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	auditLog, closeAudit, err := openAudit(auditPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer closeAudit()
	if note != "" {
		recordEvent(auditLog, audit.EventEditAccepted, m.Claim.InstanceID, map[string]interface{}{"description": note})
	}
	recordEvent(auditLog, audit.EventManifestCreated, m.Claim.InstanceID, map[string]interface{}{"file": in})

	if anchor {
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

		receipt, err := svc.Submit(context.Background(), m)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: anchoring failed: %v\n", err)
			return 2
		}
		m.Receipt = receipt
		recordEvent(auditLog, audit.EventReceiptAnchored, receipt.EntryID, map[string]interface{}{"log_id": receipt.LogID})
	}

	var output []byte
	if embed {
		embedded, err := manifest.Embed(string(content), m)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		output = []byte(embedded)
	} else {
		output, err = json.MarshalIndent(m, "", "  ")
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		output = append(output, '\n')
	}

	if out == "" {
		_, _ = stdout.Write(output)
		return 0
	}
	if err := os.WriteFile(out, output, 0o644); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot write output: %v\n", err)
		return 2
	}
	_, _ = fmt.Fprintf(stdout, "Wrote %s\n", out)
	return 0
}

func openAudit(path string) (audit.Logger, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open audit log: %w", err)
	}
	return audit.NewLoggerWithWriter(f), func() { _ = f.Close() }, nil
}

func recordEvent(l audit.Logger, t audit.EventType, subject string, md map[string]interface{}) {
	if l == nil {
		return
	}
	_ = l.Record(context.Background(), t, subject, md)
}
