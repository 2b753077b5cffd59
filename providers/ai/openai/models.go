package openai

import (
	"encoding/json"

	"github.com/forgeai/forgeai-go/internal/jsonschema"
)

/*
	CHAT COMPLETIONS API - REQUEST TYPES
*/

// chatCompletionRequest is the request body for /chat/completions.
type chatCompletionRequest struct {
	Model         string                  `json:"model"`
	Messages      []chatCompletionMessage `json:"messages"`
	Temperature   *float32                `json:"temperature,omitempty"`
	MaxTokens     *int                    `json:"max_completion_tokens,omitempty"`
	Tools         []chatCompletionTool    `json:"tools,omitempty"`
	Stream        bool                    `json:"stream,omitempty"`
	StreamOptions *streamOptions          `json:"stream_options,omitempty"`
	Metadata      map[string]any          `json:"metadata,omitempty"`
}

// streamOptions requests the usage chunk at the end of a stream.
type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// chatCompletionMessage is one conversation turn in OpenAI's wire format.
type chatCompletionMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

// wireToolCall is a tool invocation embedded in an assistant message or a
// response choice.
type wireToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"` // always "function"
	Function wireFunctionCall `json:"function"`
}

type wireFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON-encoded argument object as a string
}

// chatCompletionTool advertises one callable function to the model.
type chatCompletionTool struct {
	Type     string               `json:"type"` // always "function"
	Function chatCompletionFnSpec `json:"function"`
}

type chatCompletionFnSpec struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

/*
	CHAT COMPLETIONS API - RESPONSE TYPES
*/

// chatCompletionResponse is the body of a successful non-streaming response.
type chatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
	Usage   *wireUsage             `json:"usage,omitempty"`
}

type chatCompletionChoice struct {
	Index        int                   `json:"index"`
	Message      chatCompletionMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

type wireUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	CHAT COMPLETIONS API - STREAMING TYPES
*/

// chatCompletionStreamChunk is a single SSE payload during streaming.
type chatCompletionStreamChunk struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []streamChoice `json:"choices"`
	Usage   *wireUsage     `json:"usage,omitempty"`
}

type streamChoice struct {
	Index        int         `json:"index"`
	Delta        streamDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

type streamDelta struct {
	Role      string               `json:"role,omitempty"`
	Content   *string              `json:"content,omitempty"`
	ToolCalls []streamToolCallPart `json:"tool_calls,omitempty"`
}

// streamToolCallPart is an incremental tool-call fragment. The id and name
// arrive on the first fragment for an index; later fragments carry only
// argument text.
type streamToolCallPart struct {
	Index    int              `json:"index"`
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type,omitempty"`
	Function wireFunctionCall `json:"function"`
}

func unmarshalStreamChunk(payload string) (*chatCompletionStreamChunk, error) {
	var chunk chatCompletionStreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}
