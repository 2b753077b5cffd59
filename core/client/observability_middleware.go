package client

import (
	"context"

	"github.com/forgeai/forgeai-go/internal/utils"
	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
)

// NewObservabilityMiddleware creates a MiddlewareConfig that records a
// tracing span, metrics, and log events for every request.
//
// The send middleware spans the request from chain entry to response (or
// error). The stream middleware spans the same way but defers completion
// metrics until the stream is fully consumed or fails.
//
// Both the span and the observer are injected into the context before calling
// next, so adapters and tools can retrieve them via
// [observability.SpanFromContext] and [observability.ObserverFromContext].
//
// [New] prepends this middleware when [WithObserver] is supplied, making it
// the outermost wrapper: it sees the final outcome after any retry or timeout
// middleware, which is what end-to-end metrics should measure.
func NewObservabilityMiddleware(observer observability.Provider) MiddlewareConfig {
	return MiddlewareConfig{
		Send:   buildObsSend(observer),
		Stream: buildObsStream(observer),
	}
}

func buildObsSend(observer observability.Provider) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, span := observer.StartSpan(ctx, observability.SpanClientSendMessage,
				observability.String(observability.AttrLLMModel, request.Model),
			)
			ctx = observability.ContextWithSpan(ctx, span)
			ctx = observability.ContextWithObserver(ctx, observer)

			observer.Debug(ctx, "llm send",
				observability.String(observability.AttrLLMModel, request.Model),
				observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
				observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
			)

			timer := utils.NewTimer()
			response, err := next(ctx, request)
			timer.Stop()

			if err != nil {
				recordObsFailure(ctx, span, observer, err, timer, request.Model, "llm send failed")
				return nil, err
			}

			recordObsSuccess(ctx, span, observer, response, timer, request.Model)
			return response, nil
		}
	}
}

func buildObsStream(observer observability.Provider) StreamMiddleware {
	return func(next StreamFunc) StreamFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
			ctx, span := observer.StartSpan(ctx, observability.SpanClientSendMessage,
				observability.String(observability.AttrLLMModel, request.Model),
			)
			ctx = observability.ContextWithSpan(ctx, span)
			ctx = observability.ContextWithObserver(ctx, observer)

			observer.Debug(ctx, "llm stream",
				observability.String(observability.AttrLLMModel, request.Model),
				observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
				observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
			)

			timer := utils.NewTimer()
			stream, err := next(ctx, request)
			if err != nil {
				timer.Stop()
				recordObsFailure(ctx, span, observer, err, timer, request.Model, "llm stream failed")
				return nil, err
			}

			return wrapStreamWithObservability(ctx, stream, span, observer, timer, request.Model), nil
		}
	}
}

// wrapStreamWithObservability passes every event through unchanged and records
// completion data when the stream ends normally, fails, or is abandoned by the
// caller breaking out of the loop.
func wrapStreamWithObservability(
	ctx context.Context,
	stream *ai.ChatStream,
	span observability.Span,
	observer observability.Provider,
	timer *utils.Timer,
	model string,
) *ai.ChatStream {
	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		var usage *ai.Usage

		for event, err := range stream.Iter() {
			if err != nil {
				timer.Stop()
				recordObsFailure(ctx, span, observer, err, timer, model, "llm stream failed")
				yield(event, err)
				return
			}

			if event.Type == ai.StreamEventUsage && event.Usage != nil {
				usage = event.Usage
			}

			if !yield(event, nil) {
				timer.Stop()
				span.SetStatus(observability.StatusOK, "llm stream abandoned")
				span.End()

				observer.Info(ctx, "llm stream abandoned",
					observability.String(observability.AttrLLMModel, model),
					observability.Duration(observability.AttrDuration, timer.GetDuration()),
				)
				return
			}

			if event.Type == ai.StreamEventDone {
				break
			}
		}

		timer.Stop()

		// Synthetic response so the success path is shared with sends.
		recordObsSuccess(ctx, span, observer, &ai.ChatResponse{Model: model, Usage: usage}, timer, model)
	}

	return ai.NewChatStream(iteratorFunc)
}

func recordObsFailure(
	ctx context.Context,
	span observability.Span,
	observer observability.Provider,
	err error,
	timer *utils.Timer,
	model string,
	message string,
) {
	span.RecordError(err)
	span.SetStatus(observability.StatusError, message)
	span.End()

	observer.Error(ctx, message,
		observability.Error(err),
		observability.String(observability.AttrErrorType, string(ai.KindOf(err))),
		observability.Duration(observability.AttrDuration, timer.GetDuration()),
		observability.String(observability.AttrLLMModel, model),
	)

	observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, "error"),
		observability.String(observability.AttrLLMModel, model),
	)
}

// recordObsSuccess writes the success-path data: duration histogram, request
// counter, token counters, span attributes, an INFO log, then ends the span.
func recordObsSuccess(
	ctx context.Context,
	span observability.Span,
	observer observability.Provider,
	response *ai.ChatResponse,
	timer *utils.Timer,
	model string,
) {
	elapsed := timer.GetDuration()

	observer.Histogram(observability.MetricClientRequestDuration).Record(ctx, elapsed.Seconds(),
		observability.String(observability.AttrLLMModel, model),
	)

	observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, "success"),
		observability.String(observability.AttrLLMModel, model),
	)

	logAttrs := []observability.Attribute{
		observability.String(observability.AttrLLMModel, model),
		observability.Duration(observability.AttrDuration, elapsed),
		observability.Int(observability.AttrClientToolCalls, len(response.ToolCalls)),
	}

	if response.Usage != nil {
		observer.Counter(observability.MetricClientTokensTotal).Add(ctx, int64(response.Usage.TotalTokens),
			observability.String(observability.AttrLLMModel, model),
		)
		observer.Counter(observability.MetricClientTokensPrompt).Add(ctx, int64(response.Usage.InputTokens),
			observability.String(observability.AttrLLMModel, model),
		)
		observer.Counter(observability.MetricClientTokensCompletion).Add(ctx, int64(response.Usage.OutputTokens),
			observability.String(observability.AttrLLMModel, model),
		)

		span.SetAttributes(
			observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
			observability.Int(observability.AttrLLMTokensPrompt, response.Usage.InputTokens),
			observability.Int(observability.AttrLLMTokensCompletion, response.Usage.OutputTokens),
		)

		logAttrs = append(logAttrs,
			observability.Int(observability.AttrLLMTokensPrompt, response.Usage.InputTokens),
			observability.Int(observability.AttrLLMTokensCompletion, response.Usage.OutputTokens),
			observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
		)
	}

	if len(response.ToolCalls) > 0 {
		toolNames := make([]string, len(response.ToolCalls))
		for i, toolCall := range response.ToolCalls {
			toolNames[i] = toolCall.Name
		}
		logAttrs = append(logAttrs, observability.StringSlice("tool_calls", toolNames))
	}

	if response.OutputText != "" {
		logAttrs = append(logAttrs,
			observability.String(observability.AttrResponseContent, utils.TruncateString(response.OutputText, 100)),
		)
	}

	observer.Info(ctx, "llm send completed", logAttrs...)

	span.SetStatus(observability.StatusOK, "success")
	span.End()
}
