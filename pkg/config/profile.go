package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is an optional YAML configuration file. Set fields override the
// environment-derived config; zero values leave it untouched.
type Profile struct {
	LogLevel   string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	ServiceURL string `yaml:"service_url,omitempty" json:"service_url,omitempty"`
	LogID      string `yaml:"log_id,omitempty" json:"log_id,omitempty"`
	LogDB      string `yaml:"log_db,omitempty" json:"log_db,omitempty"`
	Delegated  *bool  `yaml:"delegated,omitempty" json:"delegated,omitempty"`
}

// LoadProfile reads and parses a YAML profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile read failed: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile parse failed: %w", err)
	}
	return &p, nil
}

// Apply overlays the profile onto a config.
func (p *Profile) Apply(c *Config) {
	if p.LogLevel != "" {
		c.LogLevel = p.LogLevel
	}
	if p.ServiceURL != "" {
		c.ServiceURL = p.ServiceURL
	}
	if p.LogID != "" {
		c.LogID = p.LogID
	}
	if p.LogDB != "" {
		c.LogDB = p.LogDB
	}
	if p.Delegated != nil {
		c.Delegated = *p.Delegated
	}
}
