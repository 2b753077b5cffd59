package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/forgeai/forgeai-go/providers/ai"
)

// requestToWire converts a generic request into generateContent format.
// System messages are lifted into systemInstruction, assistant turns become
// "model" turns, and tool results become functionResponse parts keyed by the
// tool name (Gemini has no call ids on the wire).
func requestToWire(request ai.ChatRequest) generateContentRequest {
	wire := generateContentRequest{}

	if request.Temperature != nil || request.MaxTokens != nil {
		wire.GenerationConfig = &generationConfig{
			Temperature:     request.Temperature,
			MaxOutputTokens: request.MaxTokens,
		}
	}

	var systemParts []part
	for _, message := range request.Messages {
		switch message.Role {
		case ai.RoleSystem:
			systemParts = append(systemParts, part{Text: message.Content})
		case ai.RoleAssistant:
			wire.Contents = append(wire.Contents, assistantToWire(message))
		case ai.RoleTool:
			wire.Contents = append(wire.Contents, content{
				Role: "user",
				Parts: []part{{FunctionResponse: &functionResponse{
					Name:     message.Name,
					Response: wrapFunctionResult(message.Content),
				}}},
			})
		default:
			wire.Contents = append(wire.Contents, content{
				Role:  "user",
				Parts: []part{{Text: message.Content}},
			})
		}
	}
	if len(systemParts) > 0 {
		wire.SystemInstruction = &content{Parts: systemParts}
	}

	if len(request.Tools) > 0 {
		declarations := make([]functionDeclaration, 0, len(request.Tools))
		for _, tool := range request.Tools {
			declarations = append(declarations, functionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			})
		}
		wire.Tools = []wireTools{{FunctionDeclarations: declarations}}
	}

	return wire
}

func assistantToWire(message ai.Message) content {
	turn := content{Role: "model"}

	if message.Content != "" {
		turn.Parts = append(turn.Parts, part{Text: message.Content})
	}
	for _, call := range message.ToolCalls {
		turn.Parts = append(turn.Parts, part{FunctionCall: &functionCall{
			Name: call.Name,
			Args: call.Arguments,
		}})
	}

	return turn
}

// wrapFunctionResult coerces a tool output into the JSON object Gemini
// requires. Output that is already an object passes through; anything else is
// wrapped under a "result" key.
func wrapFunctionResult(output string) []byte {
	trimmed := strings.TrimSpace(output)
	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed)
	}

	wrapped, err := json.Marshal(map[string]string{"result": output})
	if err != nil {
		return []byte(`{"result":""}`)
	}
	return wrapped
}

// responseFromWire converts the first candidate into the generic format and
// synthesizes call_N ids for function calls.
func responseFromWire(wire *generateContentResponse, model string) (*ai.ChatResponse, error) {
	if wire == nil || len(wire.Candidates) == 0 {
		return nil, ai.Errorf(ai.ErrProvider, "gemini response contained no candidates")
	}

	first := wire.Candidates[0]
	response := &ai.ChatResponse{
		ID:    wire.ResponseID,
		Model: model,
	}
	if wire.ModelVersion != "" {
		response.Model = wire.ModelVersion
	}

	var text strings.Builder
	for _, p := range first.Content.Parts {
		if p.Text != "" {
			text.WriteString(p.Text)
		}
		if p.FunctionCall != nil {
			response.ToolCalls = append(response.ToolCalls, ai.ToolCall{
				ID:        fmt.Sprintf("call_%d", len(response.ToolCalls)),
				Name:      p.FunctionCall.Name,
				Arguments: p.FunctionCall.Args,
			})
		}
	}
	response.OutputText = text.String()

	if wire.UsageMetadata != nil {
		response.Usage = usageFromWire(wire.UsageMetadata)
	}
	if first.FinishReason != "" {
		response.Metadata = map[string]any{"finish_reason": first.FinishReason}
	}

	return response, nil
}

func usageFromWire(wire *usageMetadata) *ai.Usage {
	return &ai.Usage{
		InputTokens:  wire.PromptTokenCount,
		OutputTokens: wire.CandidatesTokenCount,
		TotalTokens:  wire.TotalTokenCount,
	}
}
