// Package anthropic adapts Anthropic's Messages API to the generic
// [ai.ChatAdapter] contract.
//
// The Messages API differs from OpenAI-style chat completions in three ways
// this package papers over: the system prompt travels in a dedicated request
// field rather than as a message, tool results are sent as tool_result content
// blocks inside user messages, and max_tokens is mandatory on every request
// (a default is applied when the caller leaves it unset).
package anthropic
