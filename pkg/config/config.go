// Package config loads tool configuration from environment variables with
// safe defaults, optionally overridden by a YAML profile file.
package config

import "os"

// Config holds CLI and transparency-service configuration.
type Config struct {
	LogLevel   string
	ServiceURL string
	LogID      string
	LogDB      string
	Delegated  bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	logLevel := os.Getenv("TRACEMARK_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	serviceURL := os.Getenv("TRACEMARK_SERVICE_URL")
	if serviceURL == "" {
		// Default to the local simulated log
		serviceURL = "local://simulated"
	}

	logID := os.Getenv("TRACEMARK_LOG_ID")
	if logID == "" {
		logID = "tracemark-log"
	}

	// Empty means no persistent log store.
	logDB := os.Getenv("TRACEMARK_LOG_DB")

	delegated := os.Getenv("TRACEMARK_DELEGATED") == "true"

	return &Config{
		LogLevel:   logLevel,
		ServiceURL: serviceURL,
		LogID:      logID,
		LogDB:      logDB,
		Delegated:  delegated,
	}
}
