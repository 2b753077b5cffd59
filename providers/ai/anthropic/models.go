package anthropic

import (
	"encoding/json"

	"github.com/forgeai/forgeai-go/internal/jsonschema"
)

/*
	MESSAGES API - REQUEST TYPES
*/

// messagesRequest is the request body for the Messages API.
type messagesRequest struct {
	Model       string         `json:"model"`
	Messages    []wireMessage  `json:"messages"`
	System      string         `json:"system,omitempty"`
	MaxTokens   int            `json:"max_tokens"` // required by the API
	Temperature *float32       `json:"temperature,omitempty"`
	Tools       []wireTool     `json:"tools,omitempty"`
	Stream      bool           `json:"stream,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// wireMessage is one conversation turn. Anthropic only knows user and
// assistant roles; system prompts and tool results are mapped elsewhere.
type wireMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// contentBlock is a discriminated union via the Type field:
//   - "text": Text
//   - "tool_use": ID, Name, Input
//   - "tool_result": ToolUseID, Content
type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

// wireTool describes one callable tool.
type wireTool struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

/*
	MESSAGES API - RESPONSE TYPES
*/

// messagesResponse is the body of a successful non-streaming response.
type messagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"` // "message"
	Role       string         `json:"role"` // "assistant"
	Content    []contentBlock `json:"content"`
	Model      string         `json:"model"`
	StopReason string         `json:"stop_reason"`
	Usage      wireUsage      `json:"usage"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

/*
	MESSAGES API - STREAMING TYPES
*/

// streamEventPayload is one SSE data payload. The Type field discriminates:
// message_start, content_block_start, content_block_delta,
// content_block_stop, message_delta, message_stop, ping, error.
type streamEventPayload struct {
	Type         string            `json:"type"`
	Index        int               `json:"index,omitempty"`
	Message      *messagesResponse `json:"message,omitempty"`       // message_start
	ContentBlock *contentBlock     `json:"content_block,omitempty"` // content_block_start
	Delta        *streamBlockDelta `json:"delta,omitempty"`         // content_block_delta, message_delta
	Usage        *wireUsage        `json:"usage,omitempty"`         // message_delta
	Error        *streamWireError  `json:"error,omitempty"`         // error
}

// streamBlockDelta carries either a text fragment, a partial tool input, or
// the final stop reason depending on its own Type field.
type streamBlockDelta struct {
	Type        string `json:"type"` // "text_delta", "input_json_delta", or absent for message_delta
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
	StopReason  string `json:"stop_reason,omitempty"`
}

type streamWireError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func unmarshalStreamEvent(payload string) (*streamEventPayload, error) {
	var event streamEventPayload
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, err
	}
	return &event, nil
}
