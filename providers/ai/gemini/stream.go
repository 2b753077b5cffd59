package gemini

import (
	"context"
	"fmt"
	"io"

	"github.com/forgeai/forgeai-go/internal/utils"
	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
)

// ChatStream implements [ai.ChatAdapter] against :streamGenerateContent with
// alt=sse. Each SSE chunk is a complete generateContentResponse carrying
// incremental candidate parts; the stream has no end sentinel, so the single
// terminal done event is synthesized at EOF.
func (a *Adapter) ChatStream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	if err := ai.ValidateRequest(a.Info(), request, true); err != nil {
		return nil, err
	}
	if a.apiKey == "" {
		return nil, ai.Errorf(ai.ErrAuth, "GEMINI_API_KEY is not set")
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

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", a.baseURL, request.Model)
	httpResponse, err := utils.DoPostStream(ctx, a.client, url, "", requestToWire(request), a.buildHeaders()...)
	if err != nil {
		return nil, classifyError(err)
	}

	scanner := utils.NewSSEScanner(httpResponse.Body)

	// Function calls carry no wire id; number them across the whole stream so
	// each synthesized id stays unique within the response.
	callCount := 0

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		var usage *ai.Usage

		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ai.Errorf(ai.ErrTransport, "stream cancelled: %w", ctx.Err()))
				return
			}

			payload, sseErr := scanner.Next()
			if sseErr == io.EOF {
				if usage != nil {
					if !yield(ai.StreamEvent{Type: ai.StreamEventUsage, Usage: usage}, nil) {
						return
					}
				}
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

			// Usage metadata repeats with growing totals; keep the latest and
			// emit it once, just before done.
			if chunk.UsageMetadata != nil {
				usage = usageFromWire(chunk.UsageMetadata)
			}

			for _, event := range chunkToEvents(chunk, &callCount) {
				if !yield(event, nil) {
					return
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// chunkToEvents converts one streaming chunk's candidate parts into events.
// Gemini delivers a function call's complete arguments in one part, so each
// becomes a single self-contained tool-call delta.
func chunkToEvents(chunk *generateContentResponse, callCount *int) []ai.StreamEvent {
	var events []ai.StreamEvent

	for _, cand := range chunk.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				events = append(events, ai.StreamEvent{
					Type:  ai.StreamEventTextDelta,
					Delta: p.Text,
				})
			}
			if p.FunctionCall != nil {
				events = append(events, ai.StreamEvent{
					Type: ai.StreamEventToolCallDelta,
					ToolCall: &ai.ToolCallDelta{
						ID:        fmt.Sprintf("call_%d", *callCount),
						Name:      p.FunctionCall.Name,
						Arguments: string(p.FunctionCall.Args),
					},
				})
				*callCount++
			}
		}
	}

	return events
}
