// Package config defines the crawler's runtime configuration:
// networking timeouts, politeness defaults, duplicate sensitivity,
// logging, and sink locations.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the values that shape one crawl session. Fields are
// plain and yaml-tagged so the same struct serves both the in-code
// Default() constructor and an optional file overlay.
type Config struct {
	// UserAgent, if set, overrides the agent label used to select
	// robots.txt rule blocks (the request's User-Agent header itself
	// is fixed per spec.md §6 regardless of this value).
	UserAgent string `yaml:"user_agent"`
	// AgentName is the robots.txt agent label; "" means "*".
	AgentName string `yaml:"agent_name"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
	DefaultDelay   time.Duration `yaml:"default_delay"`

	// DuplicateSensibility: 0 disabled, 1 exact, >1 near-duplicate with
	// this Hamming-distance threshold (spec.md §4.4).
	DuplicateSensibility int `yaml:"duplicate_sensibility"`

	RespectRobots bool `yaml:"respect_robots"`
	CanonicalURL  bool `yaml:"canonical_url"`
	VisitSitemaps bool `yaml:"visit_sitemaps"`

	Verbose    bool   `yaml:"verbose"`
	VerboseLog bool   `yaml:"verbose_log"`
	LogPath    string `yaml:"log_path"`

	DocumentStorePath string `yaml:"document_store_path"`
}

// Default returns a Config with the crawler's standard defaults:
// polite by construction (robots respected, canonical URLs followed,
// sitemaps visited, duplicate suppression off).
func Default() *Config {
	c := &Config{
		RespectRobots: true,
		CanonicalURL:  true,
		VisitSitemaps: true,
	}
	applyDefaults(c)
	c.DuplicateSensibility = defaultDuplicateSensibility
	return c
}

// LoadYAML overlays the file at path onto Default(), matching the
// corpus-wide convention of a struct/defaults pair supplemented by an
// optional YAML config file.
func LoadYAML(path string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	applyDefaults(c)
	return c, nil
}
