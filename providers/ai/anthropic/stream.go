package anthropic

import (
	"context"
	"io"

	"github.com/forgeai/forgeai-go/internal/utils"
	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
)

// ChatStream implements [ai.ChatAdapter] by sending a stream=true request and
// translating Anthropic's block-oriented SSE protocol into generic events.
//
// Tool-use blocks announce their id and name in a content_block_start event
// and then stream argument fragments as input_json_delta events addressed by
// block index; the adapter re-attaches the id to every fragment so downstream
// assembly can correlate purely by id. Usage is reported once, combining the
// input count from message_start with the output count from message_delta,
// before the single terminal done event at message_stop.
func (a *Adapter) ChatStream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	if err := ai.ValidateRequest(a.Info(), request, true); err != nil {
		return nil, err
	}
	if a.apiKey == "" {
		return nil, ai.Errorf(ai.ErrAuth, "ANTHROPIC_API_KEY is not set")
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

	url := a.baseURL + messagesEndpoint
	httpResponse, err := utils.DoPostStream(ctx, a.client, url, "", requestToWire(request, true), a.buildHeaders()...)
	if err != nil {
		return nil, classifyError(err)
	}

	scanner := utils.NewSSEScanner(httpResponse.Body)
	translator := newStreamTranslator()

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ai.Errorf(ai.ErrTransport, "stream cancelled: %w", ctx.Err()))
				return
			}

			payload, sseErr := scanner.Next()
			if sseErr == io.EOF {
				// Normally message_stop arrives first; a silent EOF still
				// terminates the stream cleanly.
				if !translator.doneSent {
					yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
				}
				return
			}
			if sseErr != nil {
				yield(ai.StreamEvent{}, ai.Errorf(ai.ErrTransport, "stream read failed: %w", sseErr))
				return
			}

			wireEvent, parseErr := unmarshalStreamEvent(payload)
			if parseErr != nil {
				yield(ai.StreamEvent{}, ai.Errorf(ai.ErrProvider, "malformed stream event %q: %w", utils.TruncateString(payload, 200), parseErr))
				return
			}

			events, translateErr := translator.translate(wireEvent)
			if translateErr != nil {
				yield(ai.StreamEvent{}, translateErr)
				return
			}
			for _, event := range events {
				if !yield(event, nil) {
					return
				}
			}
			if translator.doneSent {
				return
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// streamTranslator holds the per-stream state needed to flatten Anthropic's
// indexed block protocol: which block index maps to which tool-use id, and
// the input token count announced at message_start.
type streamTranslator struct {
	blockIDs    map[int]string
	inputTokens int
	doneSent    bool
}

func newStreamTranslator() *streamTranslator {
	return &streamTranslator{blockIDs: make(map[int]string)}
}

func (t *streamTranslator) translate(wireEvent *streamEventPayload) ([]ai.StreamEvent, error) {
	switch wireEvent.Type {
	case "error":
		detail := "upstream stream error"
		if wireEvent.Error != nil {
			detail = wireEvent.Error.Message
		}
		return nil, ai.Errorf(ai.ErrProvider, "anthropic stream error: %s", detail)

	case "message_start":
		if wireEvent.Message != nil {
			t.inputTokens = wireEvent.Message.Usage.InputTokens
		}
		return nil, nil

	case "content_block_start":
		if wireEvent.ContentBlock != nil && wireEvent.ContentBlock.Type == "tool_use" {
			t.blockIDs[wireEvent.Index] = wireEvent.ContentBlock.ID
			return []ai.StreamEvent{{
				Type: ai.StreamEventToolCallDelta,
				ToolCall: &ai.ToolCallDelta{
					ID:   wireEvent.ContentBlock.ID,
					Name: wireEvent.ContentBlock.Name,
				},
			}}, nil
		}
		return nil, nil

	case "content_block_delta":
		if wireEvent.Delta == nil {
			return nil, nil
		}
		switch wireEvent.Delta.Type {
		case "text_delta":
			return []ai.StreamEvent{{
				Type:  ai.StreamEventTextDelta,
				Delta: wireEvent.Delta.Text,
			}}, nil
		case "input_json_delta":
			return []ai.StreamEvent{{
				Type: ai.StreamEventToolCallDelta,
				ToolCall: &ai.ToolCallDelta{
					ID:        t.blockIDs[wireEvent.Index],
					Arguments: wireEvent.Delta.PartialJSON,
				},
			}}, nil
		}
		return nil, nil

	case "message_delta":
		if wireEvent.Usage != nil {
			return []ai.StreamEvent{{
				Type: ai.StreamEventUsage,
				Usage: &ai.Usage{
					InputTokens:  t.inputTokens,
					OutputTokens: wireEvent.Usage.OutputTokens,
					TotalTokens:  t.inputTokens + wireEvent.Usage.OutputTokens,
				},
			}}, nil
		}
		return nil, nil

	case "message_stop":
		t.doneSent = true
		return []ai.StreamEvent{{Type: ai.StreamEventDone}}, nil
	}

	// ping and unknown future event types are skipped.
	return nil, nil
}
