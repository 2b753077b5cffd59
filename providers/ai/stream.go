package ai

import (
	"iter"
	"strings"
)

// StreamEventType identifies the kind of delta carried by a StreamEvent.
type StreamEventType string

const (
	// StreamEventTextDelta indicates an incremental text fragment.
	StreamEventTextDelta StreamEventType = "text_delta"
	// StreamEventToolCallDelta indicates an incremental tool call fragment
	// (id/name on the first fragment, argument chunks afterwards).
	StreamEventToolCallDelta StreamEventType = "tool_call_delta"
	// StreamEventUsage carries token usage metadata (typically near the end).
	StreamEventUsage StreamEventType = "usage"
	// StreamEventDone signals that the stream has finished normally. It is
	// always the terminal event, appears at most once, and no further events
	// may be produced after it.
	StreamEventDone StreamEventType = "done"
)

// ToolCallDelta represents an incremental update to a tool call being
// streamed. ID identifies which call the fragment belongs to; concurrent calls
// interleave their fragments freely and are reassembled independently per id.
// Name is only present on the first fragment for a given id; later fragments
// carry only Arguments pieces, concatenated in arrival order.
type ToolCallDelta struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"` // Incremental JSON argument fragment
}

// StreamEvent represents a single delta yielded during response streaming.
// Each event carries exactly one type of payload, identified by the Type field.
type StreamEvent struct {
	Type     StreamEventType `json:"type"`
	Delta    string          `json:"delta,omitempty"`     // Text fragment (Type == StreamEventTextDelta)
	ToolCall *ToolCallDelta  `json:"tool_call,omitempty"` // Tool call fragment (Type == StreamEventToolCallDelta)
	Usage    *Usage          `json:"usage,omitempty"`     // Token usage (Type == StreamEventUsage)
}

// ChatStream wraps a streaming iterator and provides automatic accumulation of
// deltas into a final ChatResponse. It is a lazy, finite, non-restartable
// sequence: consumption is pull-based, so a slow consumer never forces the
// producer to buffer unboundedly.
//
// Callers must consume the stream, either by iterating with Iter() (breaking
// out of the loop early is fine) or by calling Collect(). The underlying
// adapter may hold open resources (such as an HTTP response body) that are only
// released when the iterator completes or is abandoned via a loop break.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewChatStream creates a ChatStream from a raw streaming iterator. The
// iterator yields StreamEvent values (with nil error) for normal deltas and a
// non-nil error to signal a mid-stream failure, after which it must stop.
func NewChatStream(iterator iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{iterator: iterator}
}

// NewSingleEventStream wraps a completed ChatResponse as a short synthetic
// stream: the text as one delta, each tool call as one fragment, usage if
// present, then done. Used by replay playback and as a test convenience.
func NewSingleEventStream(response *ChatResponse) *ChatStream {
	iteratorFunc := func(yield func(StreamEvent, error) bool) {
		if response.OutputText != "" {
			if !yield(StreamEvent{Type: StreamEventTextDelta, Delta: response.OutputText}, nil) {
				return
			}
		}

		for _, toolCall := range response.ToolCalls {
			if !yield(StreamEvent{
				Type: StreamEventToolCallDelta,
				ToolCall: &ToolCallDelta{
					ID:        toolCall.ID,
					Name:      toolCall.Name,
					Arguments: string(toolCall.Arguments),
				},
			}, nil) {
				return
			}
		}

		if response.Usage != nil {
			if !yield(StreamEvent{Type: StreamEventUsage, Usage: response.Usage}, nil) {
				return
			}
		}

		yield(StreamEvent{Type: StreamEventDone}, nil)
	}

	return NewChatStream(iteratorFunc)
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
// Example:
//
//	for event, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(event.Delta)
//	}
func (stream *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return stream.iterator
}

// Collect consumes the entire stream and returns the accumulated ChatResponse.
// Text fragments concatenate in arrival order; tool call fragments concatenate
// per id, preserving the order in which each id first appeared; the done event
// is the assembly boundary for the turn. A mid-stream error terminates
// collection and returns the partial response alongside the error.
func (stream *ChatStream) Collect() (*ChatResponse, error) {
	accumulated := &ChatResponse{}
	assembler := NewToolCallAssembler()

	for event, err := range stream.iterator {
		if err != nil {
			accumulated.ToolCalls = assembler.Calls()
			return accumulated, err
		}

		switch event.Type {
		case StreamEventTextDelta:
			accumulated.OutputText += event.Delta

		case StreamEventToolCallDelta:
			if event.ToolCall != nil {
				assembler.Add(event.ToolCall)
			}

		case StreamEventUsage:
			if event.Usage != nil {
				accumulated.Usage = event.Usage
			}

		case StreamEventDone:
			accumulated.ToolCalls = assembler.Calls()
			return accumulated, nil
		}
	}

	// Stream ended without a done event (cancelled or truncated upstream).
	accumulated.ToolCalls = assembler.Calls()
	return accumulated, nil
}

// ToolCallAssembler merges interleaved tool call fragments into complete
// ToolCall values. Fragments are grouped by id; argument pieces for one id
// concatenate in arrival order, and completed calls come back in the order
// their ids first appeared.
type ToolCallAssembler struct {
	order    []string
	builders map[string]*toolCallBuilder
}

type toolCallBuilder struct {
	name      string
	arguments strings.Builder
}

// NewToolCallAssembler returns an empty assembler.
func NewToolCallAssembler() *ToolCallAssembler {
	return &ToolCallAssembler{builders: make(map[string]*toolCallBuilder)}
}

// Add merges one fragment into the assembler.
func (a *ToolCallAssembler) Add(delta *ToolCallDelta) {
	builder, exists := a.builders[delta.ID]
	if !exists {
		builder = &toolCallBuilder{}
		a.builders[delta.ID] = builder
		a.order = append(a.order, delta.ID)
	}

	if delta.Name != "" {
		builder.name = delta.Name
	}
	if delta.Arguments != "" {
		builder.arguments.WriteString(delta.Arguments)
	}
}

// Len returns the number of distinct call ids seen so far.
func (a *ToolCallAssembler) Len() int {
	return len(a.order)
}

// Calls finalizes and returns the assembled tool calls in first-seen id order.
// Returns nil when no fragments were added.
func (a *ToolCallAssembler) Calls() []ToolCall {
	if len(a.order) == 0 {
		return nil
	}

	calls := make([]ToolCall, 0, len(a.order))
	for _, id := range a.order {
		builder := a.builders[id]
		calls = append(calls, ToolCall{
			ID:        id,
			Name:      builder.name,
			Arguments: []byte(builder.arguments.String()),
		})
	}
	return calls
}
