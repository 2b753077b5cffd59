// Package ai defines the shared, provider-agnostic types and interfaces used
// across all LLM backend adapters (OpenAI, Anthropic, Gemini, etc.). Each
// adapter's conversion layer is responsible for mapping these types to its own
// wire format, keeping the rest of the codebase decoupled from provider-specific
// details.
//
// The central interface is [ChatAdapter]: a single blocking round trip via Chat,
// an incremental delta sequence via ChatStream, and static capability
// introspection via Info. Request data flows through [ChatRequest] and responses
// are returned as [ChatResponse]. For streaming, [ChatStream] and [StreamEvent]
// carry incremental deltas to the caller.
//
// Failures carry exactly one [ErrorKind]; the kind decides whether a failover
// router may retry the call against another adapter (see [IsRetryable]).
package ai
