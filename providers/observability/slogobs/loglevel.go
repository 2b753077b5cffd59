package slogobs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below slog.LevelDebug so TRACE output stays hidden
// unless explicitly requested.
const LevelTrace = slog.LevelDebug - 4

// LevelFromEnv reads the log level from FORGE_LOG_LEVEL, falling back
// to LOG_LEVEL and then to INFO.
func LevelFromEnv() slog.Level {
	level := os.Getenv("FORGE_LOG_LEVEL")
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		return slog.LevelInfo
	}
	return ParseLogLevel(level)
}

// ParseLogLevel parses a level name into a slog.Level.
// Supported values: TRACE, DEBUG, INFO, WARN, WARNING, ERROR
// (case-insensitive). Unknown values log a warning to stderr and
// return INFO.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, using INFO\n", level)
		return slog.LevelInfo
	}
}
