package anthropic

import (
	"strings"

	"github.com/forgeai/forgeai-go/providers/ai"
)

// requestToWire converts a generic request into Messages API format.
// System-role messages are lifted into the dedicated system field (multiple
// system messages concatenate in order), tool-result messages become
// tool_result blocks inside user messages, and assistant tool calls become
// tool_use blocks.
func requestToWire(request ai.ChatRequest, stream bool) messagesRequest {
	maxTokens := defaultMaxTokens
	if request.MaxTokens != nil {
		maxTokens = *request.MaxTokens
	}

	wire := messagesRequest{
		Model:       request.Model,
		MaxTokens:   maxTokens,
		Temperature: request.Temperature,
		Metadata:    request.Metadata,
		Stream:      stream,
	}

	var systemParts []string
	for _, message := range request.Messages {
		switch message.Role {
		case ai.RoleSystem:
			systemParts = append(systemParts, message.Content)
		case ai.RoleTool:
			wire.Messages = append(wire.Messages, wireMessage{
				Role: "user",
				Content: []contentBlock{{
					Type:      "tool_result",
					ToolUseID: message.ToolCallID,
					Content:   message.Content,
				}},
			})
		case ai.RoleAssistant:
			wire.Messages = append(wire.Messages, assistantToWire(message))
		default:
			wire.Messages = append(wire.Messages, wireMessage{
				Role:    "user",
				Content: []contentBlock{{Type: "text", Text: message.Content}},
			})
		}
	}
	wire.System = strings.Join(systemParts, "\n\n")

	for _, tool := range request.Tools {
		wire.Tools = append(wire.Tools, wireTool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}

	return wire
}

func assistantToWire(message ai.Message) wireMessage {
	wire := wireMessage{Role: "assistant"}

	if message.Content != "" {
		wire.Content = append(wire.Content, contentBlock{Type: "text", Text: message.Content})
	}

	for _, call := range message.ToolCalls {
		input := call.Arguments
		if len(input) == 0 {
			// tool_use input must be a JSON object, never absent.
			input = []byte("{}")
		}
		wire.Content = append(wire.Content, contentBlock{
			Type:  "tool_use",
			ID:    call.ID,
			Name:  call.Name,
			Input: input,
		})
	}

	return wire
}

// responseFromWire flattens the response content blocks into the generic
// format: text blocks concatenate, tool_use blocks become tool calls, and
// unknown block types are skipped for forward compatibility.
func responseFromWire(wire *messagesResponse) *ai.ChatResponse {
	response := &ai.ChatResponse{
		ID:    wire.ID,
		Model: wire.Model,
	}

	var text strings.Builder
	for _, block := range wire.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			response.ToolCalls = append(response.ToolCalls, ai.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	response.OutputText = text.String()

	response.Usage = &ai.Usage{
		InputTokens:  wire.Usage.InputTokens,
		OutputTokens: wire.Usage.OutputTokens,
		TotalTokens:  wire.Usage.InputTokens + wire.Usage.OutputTokens,
	}

	if wire.StopReason != "" {
		response.Metadata = map[string]any{"stop_reason": wire.StopReason}
	}

	return response
}
