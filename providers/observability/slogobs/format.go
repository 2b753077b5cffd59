package slogobs

import (
	"os"
	"strings"
)

// Format selects how log records are rendered.
type Format string

const (
	// FormatCompact is a single-line format with JSON attributes
	// (default for development).
	// Example: 2025-11-03 10:40:35 DEBUG Message -> {"key":"value"}
	FormatCompact Format = "compact"

	// FormatPretty is a multi-line format that lists attributes in an
	// indented tree, for interactive debugging.
	FormatPretty Format = "pretty"

	// FormatJSON is one JSON object per line, for production and log
	// aggregation.
	FormatJSON Format = "json"
)

// ParseFormat maps a string to a Format, case-insensitively.
// Unknown values fall back to FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// FormatFromEnv reads the log format from FORGE_LOG_FORMAT, falling
// back to LOG_FORMAT and then to FormatCompact.
func FormatFromEnv() Format {
	if format := os.Getenv("FORGE_LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return ParseFormat(format)
	}
	return FormatCompact
}

// String returns the string representation of the Format.
func (f Format) String() string {
	return string(f)
}
