package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tracemark-io/tracemark/pkg/crypto"
)

// runKeygenCmd implements `tracemark keygen`: a fresh P-256 keypair
// written as <prefix>.key (private, 0600) and <prefix>.pub.
func runKeygenCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("keygen", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var out string
	cmd.StringVar(&out, "out", "tracemark", "Output path prefix for the key files")

	if err := cmd.Parse(args); err != nil {
		return 2
	}

	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	privPEM, pubPEM, err := kp.EncodePEM()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if err := os.WriteFile(out+".key", privPEM, 0o600); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot write private key: %v\n", err)
		return 2
	}
	if err := os.WriteFile(out+".pub", pubPEM, 0o644); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: cannot write public key: %v\n", err)
		return 2
	}

	_, _ = fmt.Fprintf(stdout, "Wrote %s.key and %s.pub (key id %s)\n", out, out, kp.KeyID)
	return 0
}
