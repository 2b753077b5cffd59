package client

import (
	"context"
	"fmt"

	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/tool"
)

// ChatWithToolsStream drives the same loop as [Client.ChatWithTools] but
// streams the model's output to the caller as it arrives.
//
// Text deltas are forwarded immediately, without buffering. Tool-call deltas
// are not forwarded: they are assembled per call id until the turn's done
// boundary, at which point the batch is executed sequentially and the next
// generation begins. Usage events pass through as they arrive. Exactly one
// done event reaches the caller, at the terminal turn.
//
// Errors — adapter failures on any generation, tool failures, and the
// iteration limit — terminate the returned stream with that error. Only the
// first generation's initiation failure is returned directly from this
// method; everything later surfaces on the stream.
func (c *Client) ChatWithToolsStream(ctx context.Context, request ai.ChatRequest, executor tool.Executor, options ...ToolLoopOption) (*ai.ChatStream, error) {
	if executor == nil {
		return nil, fmt.Errorf("client: executor cannot be nil")
	}
	cfg := applyToolLoopOptions(options)

	messages := append([]ai.Message(nil), request.Messages...)

	// Initiate the first generation eagerly so construction-time failures
	// (validation, auth, connectivity) come back as a plain error.
	first, err := c.stream(ctx, requestWithMessages(request, messages))
	if err != nil {
		return nil, err
	}

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		stream := first

		for iteration := 1; iteration <= cfg.maxIterations; iteration++ {
			outcome := c.forwardGeneration(stream, yield)
			if outcome.stopped {
				return
			}

			messages = append(messages, ai.Message{
				Role:      ai.RoleAssistant,
				Content:   outcome.text,
				ToolCalls: outcome.toolCalls,
			})

			if len(outcome.toolCalls) == 0 {
				// Terminal turn: the single done event the caller sees.
				yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
				return
			}

			toolMessages, _, err := c.executeToolCalls(ctx, executor, outcome.toolCalls)
			if err != nil {
				yield(ai.StreamEvent{}, err)
				return
			}
			messages = append(messages, toolMessages...)

			if iteration == cfg.maxIterations {
				break
			}

			stream, err = c.stream(ctx, requestWithMessages(request, messages))
			if err != nil {
				yield(ai.StreamEvent{}, err)
				return
			}
		}

		yield(ai.StreamEvent{}, fmt.Errorf("%w after %d iterations", ErrIterationLimit, cfg.maxIterations))
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// generationOutcome is what one drained generation produced.
type generationOutcome struct {
	text      string
	toolCalls []ai.ToolCall
	stopped   bool // the caller broke out or a yielded error ended the stream
}

// forwardGeneration drains one adapter stream up to its done boundary,
// forwarding text and usage events to the caller and assembling tool-call
// fragments by id. Intermediate done events are swallowed; they mark the
// assembly boundary, not the end of the loop.
func (c *Client) forwardGeneration(stream *ai.ChatStream, yield func(ai.StreamEvent, error) bool) generationOutcome {
	assembler := ai.NewToolCallAssembler()
	var text string

	for event, err := range stream.Iter() {
		if err != nil {
			yield(event, err)
			return generationOutcome{stopped: true}
		}

		switch event.Type {
		case ai.StreamEventTextDelta:
			text += event.Delta
			if !yield(event, nil) {
				return generationOutcome{stopped: true}
			}

		case ai.StreamEventToolCallDelta:
			if event.ToolCall != nil {
				assembler.Add(event.ToolCall)
			}

		case ai.StreamEventUsage:
			if !yield(event, nil) {
				return generationOutcome{stopped: true}
			}

		case ai.StreamEventDone:
			return generationOutcome{text: text, toolCalls: assembler.Calls()}
		}
	}

	// The adapter stream ended without a done event; treat what arrived as
	// the complete turn.
	return generationOutcome{text: text, toolCalls: assembler.Calls()}
}
