// Package observability defines the tracing, metrics, and logging
// abstraction used throughout the library.
//
// Components never log or trace directly; they report through a
// [Provider] carried in the context (see [ContextWithObserver]) or a
// [Span] attached by an enclosing operation (see [SpanFromContext]).
// When nothing is attached, reporting is a no-op, so instrumented code
// needs no nil checks.
//
// The slogobs subpackage ships a Provider backed by log/slog; other
// backends only need to satisfy the interfaces here.
package observability
