package openai

import (
	"github.com/forgeai/forgeai-go/providers/ai"
)

// requestToWire converts a generic request into OpenAI's chat completions
// format. The caller's request is never mutated.
func requestToWire(request ai.ChatRequest, stream bool) chatCompletionRequest {
	wire := chatCompletionRequest{
		Model:       request.Model,
		Messages:    make([]chatCompletionMessage, 0, len(request.Messages)),
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
		Metadata:    request.Metadata,
		Stream:      stream,
	}

	if stream {
		wire.StreamOptions = &streamOptions{IncludeUsage: true}
	}

	for _, message := range request.Messages {
		wire.Messages = append(wire.Messages, messageToWire(message))
	}

	for _, tool := range request.Tools {
		wire.Tools = append(wire.Tools, chatCompletionTool{
			Type: "function",
			Function: chatCompletionFnSpec{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			},
		})
	}

	return wire
}

func messageToWire(message ai.Message) chatCompletionMessage {
	wire := chatCompletionMessage{
		Role:       string(message.Role),
		Content:    message.Content,
		ToolCallID: message.ToolCallID,
		Name:       message.Name,
	}

	for _, call := range message.ToolCalls {
		wire.ToolCalls = append(wire.ToolCalls, wireToolCall{
			ID:   call.ID,
			Type: "function",
			Function: wireFunctionCall{
				Name:      call.Name,
				Arguments: string(call.Arguments),
			},
		})
	}

	return wire
}

// responseFromWire converts a decoded chat completions response to the
// generic format. The first choice wins; OpenAI only returns more when n > 1,
// which this adapter never requests.
func responseFromWire(wire *chatCompletionResponse) (*ai.ChatResponse, error) {
	if wire == nil || len(wire.Choices) == 0 {
		return nil, ai.Errorf(ai.ErrProvider, "openai response contained no choices")
	}

	choice := wire.Choices[0]
	response := &ai.ChatResponse{
		ID:         wire.ID,
		Model:      wire.Model,
		OutputText: choice.Message.Content,
	}

	for _, call := range choice.Message.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, ai.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: []byte(call.Function.Arguments),
		})
	}

	if wire.Usage != nil {
		response.Usage = usageFromWire(wire.Usage)
	}

	if choice.FinishReason != "" {
		response.Metadata = map[string]any{"finish_reason": choice.FinishReason}
	}

	return response, nil
}

func usageFromWire(wire *wireUsage) *ai.Usage {
	return &ai.Usage{
		InputTokens:  wire.PromptTokens,
		OutputTokens: wire.CompletionTokens,
		TotalTokens:  wire.TotalTokens,
	}
}
