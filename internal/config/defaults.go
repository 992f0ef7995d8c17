// internal/config/defaults.go
//
// Centralizes the crawler's baseline configuration constants, kept
// separate from Config so the defaults can be reviewed at a glance.
package config

import "time"

const (
	// defaultRequestTimeout is the per-request HTTP timeout (spec.md §5).
	defaultRequestTimeout = 10 * time.Second

	// defaultDelay is the fallback politeness delay used when an
	// origin's robots.txt carries no Crawl-delay (spec.md §4.7).
	defaultDelay = 5 * time.Second

	// defaultDuplicateSensibility disables duplicate suppression.
	defaultDuplicateSensibility = 0

	// defaultLogPath is the structured log file name (spec.md §7).
	defaultLogPath = "dysdera.log"

	// defaultDocumentStorePath is where the bundled DocumentSink keeps
	// its embedded database when no override is given.
	defaultDocumentStorePath = "dysdera.sqlite"
)

// applyDefaults fills zero-valued fields of c with the package defaults.
func applyDefaults(c *Config) {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.DefaultDelay <= 0 {
		c.DefaultDelay = defaultDelay
	}
	if c.LogPath == "" {
		c.LogPath = defaultLogPath
	}
	if c.DocumentStorePath == "" {
		c.DocumentStorePath = defaultDocumentStorePath
	}
}
