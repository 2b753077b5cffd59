// Package openai adapts OpenAI's Chat Completions API to the generic
// [ai.ChatAdapter] contract. Construct an adapter with [New]; credentials are
// read from OPENAI_API_KEY unless overridden with [Adapter.WithAPIKey].
package openai
