// Command tracemark signs, embeds, extracts, and verifies provenance
// manifests for text content, and renders word-level diffs between drafts.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tracemark-io/tracemark/pkg/config"
	"github.com/tracemark-io/tracemark/pkg/transparency"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	switch args[1] {
	case "keygen":
		return runKeygenCmd(args[2:], stdout, stderr)
	case "sign":
		return runSignCmd(args[2:], stdout, stderr)
	case "extract":
		return runExtractCmd(args[2:], stdout, stderr)
	case "verify":
		return runVerifyCmd(args[2:], stdout, stderr)
	case "diff":
		return runDiffCmd(args[2:], stdout, stderr)
	case "log":
		return runLogCmd(args[2:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `tracemark - tamper-evident provenance for edited text

Usage:
  tracemark keygen  [-out PREFIX]
  tracemark sign    -in FILE -key KEYFILE [-note TEXT] [-embed] [-anchor] [-out FILE]
  tracemark extract -in FILE [-content-out FILE] [-manifest-out FILE]
  tracemark verify  (-in FILE | -content FILE -manifest FILE) [-json]
  tracemark diff    -a FILE -b FILE [-json]
  tracemark log     -db FILE [-log-id ID] [-limit N]

Exit codes:
  0 = success / verification passed
  1 = verification failed
  2 = runtime error
`)
}

// loadConfig merges the environment config with an optional profile file.
func loadConfig(profilePath string) (*config.Config, error) {
	cfg := config.Load()
	if profilePath != "" {
		p, err := config.LoadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		p.Apply(cfg)
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	var l slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		l = slog.LevelDebug
	case "WARN":
		l = slog.LevelWarn
	case "ERROR":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

// newService builds the transparency service described by cfg. The
// returned cleanup closes the log store, when one is configured.
func newService(cfg *config.Config) (transparency.Service, func(), error) {
	var store *transparency.LogStore
	cleanup := func() {}

	if cfg.LogDB != "" {
		s, err := transparency.OpenLogStore(cfg.LogDB)
		if err != nil {
			return nil, nil, err
		}
		store = s
		cleanup = func() { _ = s.Close() }
	}

	if cfg.Delegated {
		return transparency.NewDelegatedService(cfg.ServiceURL, cfg.LogID, store), cleanup, nil
	}

	svc := transparency.NewSimulatedService(cfg.ServiceURL, cfg.LogID)
	svc.Store = store
	return svc, cleanup, nil
}
