package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/forgeai/forgeai-go/providers/ai"
)

// sseServer streams the given payloads as SSE data lines followed by the
// [DONE] sentinel.
func sseServer(t *testing.T, payloads ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, payload := range payloads {
			if _, err := w.Write([]byte("data: " + payload + "\n\n")); err != nil {
				return
			}
		}
		w.Write([]byte("data: [DONE]\n\n"))
	}))
}

func TestChatStream_TextDeltas(t *testing.T) {
	server := sseServer(t,
		`{"id":"c1","choices":[{"index":0,"delta":{"content":"Hel"}}]}`,
		`{"id":"c1","choices":[{"index":0,"delta":{"content":"lo"}}]}`,
		`{"id":"c1","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		`{"id":"c1","choices":[],"usage":{"prompt_tokens":4,"completion_tokens":2,"total_tokens":6}}`,
	)
	defer server.Close()

	stream, err := newTestAdapter(server.URL).ChatStream(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	var text string
	var doneCount int
	var usage *ai.Usage
	var usageBeforeDone bool
	for event, err := range stream.Iter() {
		if err != nil {
			t.Fatalf("stream error: %v", err)
		}
		switch event.Type {
		case ai.StreamEventTextDelta:
			text += event.Delta
		case ai.StreamEventUsage:
			usage = event.Usage
			usageBeforeDone = doneCount == 0
		case ai.StreamEventDone:
			doneCount++
		}
	}

	if text != "Hello" {
		t.Errorf("text = %q, want %q", text, "Hello")
	}
	if doneCount != 1 {
		t.Errorf("done events = %d, want exactly 1", doneCount)
	}
	if usage == nil || usage.TotalTokens != 6 {
		t.Errorf("usage = %+v, want total 6", usage)
	}
	if !usageBeforeDone {
		t.Error("usage must arrive before the done event")
	}
}

func TestChatStream_ToolCallFragmentsCarryID(t *testing.T) {
	// OpenAI sends the id only on the first fragment per index; the adapter
	// must restore it on later fragments so assembly can correlate by id.
	server := sseServer(t,
		`{"id":"c2","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call-1","function":{"name":"lookup","arguments":"{\"q\":"}}]}}]}`,
		`{"id":"c2","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"\"x\"}"}}]}}]}`,
		`{"id":"c2","choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`,
	)
	defer server.Close()

	stream, err := newTestAdapter(server.URL).ChatStream(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	assembler := ai.NewToolCallAssembler()
	for event, err := range stream.Iter() {
		if err != nil {
			t.Fatalf("stream error: %v", err)
		}
		if event.Type == ai.StreamEventToolCallDelta {
			if event.ToolCall.ID == "" {
				t.Error("fragment with empty id reached the caller")
			}
			assembler.Add(event.ToolCall)
		}
	}

	calls := assembler.Calls()
	if len(calls) != 1 {
		t.Fatalf("assembled calls = %d, want 1", len(calls))
	}
	if calls[0].ID != "call-1" || calls[0].Name != "lookup" {
		t.Errorf("call = %+v", calls[0])
	}
	if string(calls[0].Arguments) != `{"q":"x"}` {
		t.Errorf("arguments = %s", calls[0].Arguments)
	}
}

func TestChatStream_InitiationErrorClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestAdapter(server.URL).ChatStream(context.Background(), testRequest())
	if ai.KindOf(err) != ai.ErrAuth {
		t.Fatalf("KindOf = %v, want auth", ai.KindOf(err))
	}
}

func TestChatStream_MalformedChunk(t *testing.T) {
	server := sseServer(t, `{not json`)
	defer server.Close()

	stream, err := newTestAdapter(server.URL).ChatStream(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	_, err = stream.Collect()
	if ai.KindOf(err) != ai.ErrProvider {
		t.Fatalf("KindOf = %v, want provider", ai.KindOf(err))
	}
	if !strings.Contains(err.Error(), "malformed stream chunk") {
		t.Errorf("err = %v", err)
	}
}

func TestChatStream_Collect(t *testing.T) {
	server := sseServer(t,
		`{"id":"c3","choices":[{"index":0,"delta":{"content":"whole"}}]}`,
		`{"id":"c3","choices":[],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`,
	)
	defer server.Close()

	stream, err := newTestAdapter(server.URL).ChatStream(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if response.OutputText != "whole" {
		t.Errorf("OutputText = %q", response.OutputText)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 2 {
		t.Errorf("Usage = %+v", response.Usage)
	}
}
