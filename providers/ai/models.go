package ai

import (
	"encoding/json"

	"github.com/forgeai/forgeai-go/internal/jsonschema"
)

/*
	##### ADAPTER INPUT #####
*/

// ChatRequest represents a single chat completion request. It is treated as a
// value: adapters must never mutate it, and the tool loop builds a fresh request
// for every iteration instead of editing one in place.
type ChatRequest struct {
	Model       string           `json:"model"`                 // Model name or identifier; required
	Messages    []Message        `json:"messages"`              // Full conversation in chronological order; required, order is meaningful
	Temperature *float32         `json:"temperature,omitempty"` // Optional sampling temperature
	MaxTokens   *int             `json:"max_tokens,omitempty"`  // Optional output token cap
	Tools       []ToolDefinition `json:"tools,omitempty"`       // Tool definitions advertised to the model, if any
	Metadata    map[string]any   `json:"metadata,omitempty"`    // Open key-value map passed through untouched
}

// ToolDefinition describes one tool the model may request during a turn.
// Names must be unique within a request.
type ToolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"input_schema,omitempty"`
}

// Message represents a single turn in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`

	// Tool calling fields
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // For role=assistant requesting tools
	ToolCallID string     `json:"tool_call_id,omitempty"` // For role=tool, links to the tool call being answered
	Name       string     `json:"name,omitempty"`         // For role=tool, name of the tool that produced this content
}

// Role identifies who produced a message; compatible with string.
type Role string

const (
	RoleSystem    Role = "system"    // System instructions/configuration
	RoleUser      Role = "user"      // End-user message
	RoleAssistant Role = "assistant" // Model response
	RoleTool      Role = "tool"      // Tool/function output
)

/*
	##### ADAPTER OUTPUT #####
*/

// ChatResponse represents the completed result of a chat request.
// A response carrying one or more ToolCalls is non-terminal in tool-loop mode:
// the caller is expected to execute the calls and continue the conversation.
type ChatResponse struct {
	ID         string         `json:"id,omitempty"`
	Model      string         `json:"model,omitempty"`
	OutputText string         `json:"output_text"`
	ToolCalls  []ToolCall     `json:"tool_calls,omitempty"`
	Usage      *Usage         `json:"usage,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"` // Provider-specific extras (finish reason, raw ids, ...)
}

// ToolCall is a structured request, emitted by a model response, to invoke an
// external function by name. IDs are unique within one response and are used
// to correlate tool results back to the call that requested them.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"` // JSON-encoded argument object
}

// Usage summarizes token accounting for one request/response pair.
type Usage struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
	TotalTokens  int `json:"total_tokens,omitempty"`
}

/*
	##### CAPABILITIES #####
*/

// CapabilityMatrix is a static declaration of which optional features an
// adapter supports. Callers consult it before dispatch to decide whether an
// operation is supported; adapters reject unsupported operations with
// [ErrUnsupported]-kind errors rather than forwarding them upstream.
type CapabilityMatrix struct {
	Streaming        bool `json:"streaming"`
	Tools            bool `json:"tools"`
	StructuredOutput bool `json:"structured_output"`
	MultimodalInput  bool `json:"multimodal_input"`
	Citations        bool `json:"citations"`
}

// Intersect returns the capability set supported by both matrices.
// A failover router uses this to advertise only what every fallback provides.
func (m CapabilityMatrix) Intersect(other CapabilityMatrix) CapabilityMatrix {
	return CapabilityMatrix{
		Streaming:        m.Streaming && other.Streaming,
		Tools:            m.Tools && other.Tools,
		StructuredOutput: m.StructuredOutput && other.StructuredOutput,
		MultimodalInput:  m.MultimodalInput && other.MultimodalInput,
		Citations:        m.Citations && other.Citations,
	}
}

// AdapterInfo is the static, read-only descriptor of one adapter.
type AdapterInfo struct {
	Name         string           `json:"name"`
	BaseURL      string           `json:"base_url,omitempty"`
	Capabilities CapabilityMatrix `json:"capabilities"`
}
