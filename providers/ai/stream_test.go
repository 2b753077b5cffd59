package ai

import (
	"errors"
	"iter"
	"testing"
)

// makeStream is a test helper that builds a ChatStream from a hand-crafted
// event slice. If midErr is non-nil and errAtIndex is a valid index, the error
// is injected at that position instead of a normal yield.
func makeStream(events []StreamEvent, midErr error, errAtIndex int) *ChatStream {
	iteratorFunc := func(yield func(StreamEvent, error) bool) {
		for i, event := range events {
			if midErr != nil && i == errAtIndex {
				yield(StreamEvent{}, midErr)
				return
			}
			if !yield(event, nil) {
				return
			}
		}
	}
	return NewChatStream(iter.Seq2[StreamEvent, error](iteratorFunc))
}

// TestCollect_TextDeltas verifies that text fragments concatenate in arrival
// order and that collection stops at the done event.
func TestCollect_TextDeltas(t *testing.T) {
	stream := makeStream([]StreamEvent{
		{Type: StreamEventTextDelta, Delta: "Hel"},
		{Type: StreamEventTextDelta, Delta: "lo"},
		{Type: StreamEventDone},
	}, nil, -1)

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.OutputText != "Hello" {
		t.Errorf("expected output %q, got %q", "Hello", response.OutputText)
	}
}

// TestCollect_NoEventAfterDone verifies that events placed after done are
// never observed: done is the terminal event of the sequence.
func TestCollect_NoEventAfterDone(t *testing.T) {
	stream := makeStream([]StreamEvent{
		{Type: StreamEventTextDelta, Delta: "Hello"},
		{Type: StreamEventDone},
		{Type: StreamEventTextDelta, Delta: " IGNORED"},
	}, nil, -1)

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.OutputText != "Hello" {
		t.Errorf("text after done leaked into the response: %q", response.OutputText)
	}
}

// TestCollect_InterleavedToolCallDeltas verifies that fragments for two ids
// reassemble independently regardless of arrival interleaving, and that calls
// come back in first-seen id order.
func TestCollect_InterleavedToolCallDeltas(t *testing.T) {
	stream := makeStream([]StreamEvent{
		{Type: StreamEventToolCallDelta, ToolCall: &ToolCallDelta{ID: "a", Name: "lookup", Arguments: `{"city":`}},
		{Type: StreamEventToolCallDelta, ToolCall: &ToolCallDelta{ID: "b", Name: "time", Arguments: `{"zone"`}},
		{Type: StreamEventToolCallDelta, ToolCall: &ToolCallDelta{ID: "a", Arguments: `"Rome"}`}},
		{Type: StreamEventToolCallDelta, ToolCall: &ToolCallDelta{ID: "b", Arguments: `:"UTC"}`}},
		{Type: StreamEventDone},
	}, nil, -1)

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.ToolCalls) != 2 {
		t.Fatalf("expected 2 assembled tool calls, got %d", len(response.ToolCalls))
	}

	first, second := response.ToolCalls[0], response.ToolCalls[1]
	if first.ID != "a" || first.Name != "lookup" || string(first.Arguments) != `{"city":"Rome"}` {
		t.Errorf("call %q assembled wrong: name=%q args=%s", first.ID, first.Name, first.Arguments)
	}
	if second.ID != "b" || second.Name != "time" || string(second.Arguments) != `{"zone":"UTC"}` {
		t.Errorf("call %q assembled wrong: name=%q args=%s", second.ID, second.Name, second.Arguments)
	}
}

// TestCollect_MidStreamError verifies that a mid-stream failure returns the
// partial response alongside the error.
func TestCollect_MidStreamError(t *testing.T) {
	streamErr := errors.New("connection reset")
	stream := makeStream([]StreamEvent{
		{Type: StreamEventTextDelta, Delta: "partial"},
		{Type: StreamEventTextDelta, Delta: " never seen"},
	}, streamErr, 1)

	response, err := stream.Collect()
	if !errors.Is(err, streamErr) {
		t.Fatalf("expected the injected stream error, got %v", err)
	}
	if response.OutputText != "partial" {
		t.Errorf("expected partial text %q, got %q", "partial", response.OutputText)
	}
}

// TestCollect_UsageEvent verifies that a usage event lands on the response.
func TestCollect_UsageEvent(t *testing.T) {
	stream := makeStream([]StreamEvent{
		{Type: StreamEventTextDelta, Delta: "ok"},
		{Type: StreamEventUsage, Usage: &Usage{InputTokens: 10, OutputTokens: 2, TotalTokens: 12}},
		{Type: StreamEventDone},
	}, nil, -1)

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 12 {
		t.Errorf("expected usage with 12 total tokens, got %+v", response.Usage)
	}
}

// TestNewSingleEventStream roundtrips a completed response through the
// synthetic stream and back via Collect.
func TestNewSingleEventStream(t *testing.T) {
	original := &ChatResponse{
		OutputText: "hello world",
		ToolCalls: []ToolCall{
			{ID: "call-1", Name: "calc", Arguments: []byte(`{"a":1}`)},
		},
		Usage: &Usage{TotalTokens: 5},
	}

	response, err := NewSingleEventStream(original).Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.OutputText != original.OutputText {
		t.Errorf("expected text %q, got %q", original.OutputText, response.OutputText)
	}
	if len(response.ToolCalls) != 1 || response.ToolCalls[0].ID != "call-1" {
		t.Errorf("tool calls did not roundtrip: %+v", response.ToolCalls)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 5 {
		t.Errorf("usage did not roundtrip: %+v", response.Usage)
	}
}

// TestChatStream_ConsumerPacedBreak verifies that breaking out of the range
// loop stops the producer (yield returns false, no further events produced).
func TestChatStream_ConsumerPacedBreak(t *testing.T) {
	produced := 0
	stream := NewChatStream(func(yield func(StreamEvent, error) bool) {
		for range 100 {
			produced++
			if !yield(StreamEvent{Type: StreamEventTextDelta, Delta: "x"}, nil) {
				return
			}
		}
	})

	consumed := 0
	for range stream.Iter() {
		consumed++
		if consumed == 3 {
			break
		}
	}

	if produced != 3 {
		t.Errorf("expected producer to stop after 3 events, produced %d", produced)
	}
}

func TestToolCallAssembler(t *testing.T) {
	assembler := NewToolCallAssembler()
	if assembler.Len() != 0 {
		t.Errorf("Len() = %d, want 0 before any fragment", assembler.Len())
	}

	assembler.Add(&ToolCallDelta{ID: "call-a", Name: "lookup"})
	assembler.Add(&ToolCallDelta{ID: "call-b", Name: "fetch", Arguments: `{"u`})
	assembler.Add(&ToolCallDelta{ID: "call-a", Arguments: `{"q":1}`})
	assembler.Add(&ToolCallDelta{ID: "call-b", Arguments: `rl":2}`})

	if assembler.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 distinct ids", assembler.Len())
	}

	calls := assembler.Calls()
	if len(calls) != 2 {
		t.Fatalf("Calls() = %d entries, want 2", len(calls))
	}
	if calls[0].ID != "call-a" || calls[0].Name != "lookup" || string(calls[0].Arguments) != `{"q":1}` {
		t.Errorf("first call = %+v", calls[0])
	}
	if calls[1].ID != "call-b" || calls[1].Name != "fetch" || string(calls[1].Arguments) != `{"url":2}` {
		t.Errorf("second call = %+v", calls[1])
	}
}
