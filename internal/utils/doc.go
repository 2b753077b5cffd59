// Package utils provides shared low-level helpers used throughout the
// forgeai internals. It covers HTTP request helpers for both synchronous and
// streaming (SSE) communication with AI provider APIs, plus generic pointer
// and string utilities.
//
// Key entry points: [DoPostSync] for synchronous JSON round-trips,
// [DoPostStream] together with [SSEScanner] for Server-Sent Events streaming,
// and [Ptr] for converting values to pointers. Upstream non-2xx responses are
// reported as [*StatusError] so adapters can classify them uniformly.
package utils
