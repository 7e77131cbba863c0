// Package config provides configuration management for fswhy.
package config

// Default configuration values for fswhy.
const (
	// DefaultPath is the path scanned when none is given.
	DefaultPath = "."

	// DefaultSort is the initial sort mode ("name" or "size").
	DefaultSort = "name"

	// DefaultExpandDepth expands only the root on startup.
	DefaultExpandDepth = 1

	// DefaultLogMaxSize is the log size that triggers rotation.
	DefaultLogMaxSize = "10MB"

	// DefaultLogMaxBackups is the number of rotated logs kept.
	DefaultLogMaxBackups = 3

	// EnvPrefix prefixes environment overrides, e.g. FSWHY_SORT=size.
	EnvPrefix = "FSWHY"
)

// DefaultExclusions are pseudo filesystems that have no meaningful size.
var DefaultExclusions = []string{
	"/proc",
	"/sys",
	"/dev",
}

// DefaultComponentLevels are the per-component log levels.
func DefaultComponentLevels() map[string]string {
	return map[string]string{
		"scanner": "info",
		"view":    "info",
		"tui":     "info",
		"history": "info",
		"output":  "info",
		"cli":     "info",
	}
}
