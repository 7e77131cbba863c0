// Package types provides core data types shared across fswhy packages,
// along with helpers for parsing and formatting byte sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// ScanError records an entry that could not be read during a scan.
// The scan skips the entry and keeps going; these are reported afterwards.
type ScanError struct {
	// Path is the file or directory path where the error occurred.
	Path string `json:"path" yaml:"path"`

	// Error is the error message describing what went wrong.
	Error string `json:"error" yaml:"error"`
}

// String renders the error as "path: message".
func (e ScanError) String() string {
	return e.Path + ": " + e.Error
}

// ScanStats summarizes a completed scan.
type ScanStats struct {
	// Dirs is the number of directories in the tree (root included).
	Dirs int64 `json:"dirs" yaml:"dirs"`

	// Files is the number of files in the tree.
	Files int64 `json:"files" yaml:"files"`

	// Bytes is the total size of all files in the tree.
	Bytes int64 `json:"bytes" yaml:"bytes"`

	// Skipped is the number of entries that could not be read.
	Skipped int64 `json:"skipped" yaml:"skipped"`

	// Elapsed is the wall time the scan took.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in bytes.
// Accepted suffixes are B, K, M, G and T, optionally followed by B or iB,
// in any case. Decimal values are truncated to the nearest byte.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string
// using binary (IEC) units, e.g. "1.5 MiB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
