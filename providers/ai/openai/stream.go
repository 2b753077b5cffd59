package openai

import (
	"context"
	"io"

	"github.com/forgeai/forgeai-go/internal/utils"
	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
)

// ChatStream implements [ai.ChatAdapter] by sending a stream=true request and
// translating the SSE chunk flow into generic stream events. The terminal
// done event is emitted exactly once, after the usage chunk, when the SSE
// stream reaches its [DONE] sentinel.
func (a *Adapter) ChatStream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	if err := ai.ValidateRequest(a.Info(), request, true); err != nil {
		return nil, err
	}
	if a.apiKey == "" {
		return nil, ai.Errorf(ai.ErrAuth, "OPENAI_API_KEY is not set")
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, adapterName),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Bool("llm.streaming", true),
		)
	}

	url := a.baseURL + chatCompletionsEndpoint
	httpResponse, err := utils.DoPostStream(ctx, a.client, url, a.apiKey, requestToWire(request, true))
	if err != nil {
		return nil, classifyError(err)
	}

	scanner := utils.NewSSEScanner(httpResponse.Body)

	// OpenAI identifies tool-call fragments by choice index after the first
	// fragment; the generic protocol correlates by id, so remember the
	// mapping as fragments arrive.
	toolCallIDs := make(map[int]string)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ai.Errorf(ai.ErrTransport, "stream cancelled: %w", ctx.Err()))
				return
			}

			payload, sseErr := scanner.Next()
			if sseErr == io.EOF {
				yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
				return
			}
			if sseErr != nil {
				yield(ai.StreamEvent{}, ai.Errorf(ai.ErrTransport, "stream read failed: %w", sseErr))
				return
			}

			chunk, parseErr := unmarshalStreamChunk(payload)
			if parseErr != nil {
				yield(ai.StreamEvent{}, ai.Errorf(ai.ErrProvider, "malformed stream chunk %q: %w", utils.TruncateString(payload, 200), parseErr))
				return
			}

			for _, event := range chunkToEvents(chunk, toolCallIDs) {
				if !yield(event, nil) {
					return
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// chunkToEvents converts one SSE chunk into zero or more stream events. The
// finish_reason marker is not forwarded; the done event is synthesized at the
// [DONE] sentinel instead so usage chunks sent after the final choice still
// precede it.
func chunkToEvents(chunk *chatCompletionStreamChunk, toolCallIDs map[int]string) []ai.StreamEvent {
	var events []ai.StreamEvent

	if chunk.Usage != nil {
		events = append(events, ai.StreamEvent{
			Type:  ai.StreamEventUsage,
			Usage: usageFromWire(chunk.Usage),
		})
	}

	for _, choice := range chunk.Choices {
		delta := choice.Delta

		if delta.Content != nil && *delta.Content != "" {
			events = append(events, ai.StreamEvent{
				Type:  ai.StreamEventTextDelta,
				Delta: *delta.Content,
			})
		}

		for _, part := range delta.ToolCalls {
			id := part.ID
			if id == "" {
				id = toolCallIDs[part.Index]
			} else {
				toolCallIDs[part.Index] = id
			}

			events = append(events, ai.StreamEvent{
				Type: ai.StreamEventToolCallDelta,
				ToolCall: &ai.ToolCallDelta{
					ID:        id,
					Name:      part.Function.Name,
					Arguments: part.Function.Arguments,
				},
			})
		}
	}

	return events
}
