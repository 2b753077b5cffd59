// Package slogobs provides an observability.Provider backed by the
// standard library's log/slog.
// Spans, metrics, and log messages are all routed through a single
// slog.Logger, which keeps lightweight deployments free of external
// telemetry dependencies.
// The entry point is [New]; output format and log level can be tuned
// with [WithFormat], [WithLevel], [WithOutput], [WithColors], and
// [WithLogger], or via the FORGE_LOG_FORMAT and FORGE_LOG_LEVEL
// environment variables.
package slogobs
