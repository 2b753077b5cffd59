// Package client provides the orchestration layer between raw adapter calls
// and application code. A Client wraps any [ai.ChatAdapter] behind a
// configurable middleware chain and drives the tool-call loop: repeated
// generation, sequential tool execution, and conversation growth until the
// model produces a terminal answer or the iteration budget runs out.
//
// The primary entry point is [New], which accepts an [ai.ChatAdapter] and a
// set of functional options such as [WithMiddleware] and [WithObserver].
package client
