package client

import (
	"context"
	"testing"

	"github.com/forgeai/forgeai-go/providers/ai"
)

// ========== Mock Types ==========

// mockAdapter is a scriptable ai.ChatAdapter. Each Chat call consumes the
// next entry from responses; when the script runs out the last entry repeats.
type mockAdapter struct {
	name      string
	responses []scriptedTurn
	calls     int
	requests  []ai.ChatRequest
}

type scriptedTurn struct {
	response *ai.ChatResponse
	err      error
}

func (m *mockAdapter) Info() ai.AdapterInfo {
	name := m.name
	if name == "" {
		name = "mock"
	}
	return ai.AdapterInfo{
		Name: name,
		Capabilities: ai.CapabilityMatrix{
			Streaming: true,
			Tools:     true,
		},
	}
}

func (m *mockAdapter) Chat(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	m.requests = append(m.requests, request)
	turn := m.next()
	return turn.response, turn.err
}

func (m *mockAdapter) ChatStream(_ context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	m.requests = append(m.requests, request)
	turn := m.next()
	if turn.err != nil {
		return nil, turn.err
	}
	return ai.NewSingleEventStream(turn.response), nil
}

func (m *mockAdapter) next() scriptedTurn {
	index := m.calls
	if index >= len(m.responses) {
		index = len(m.responses) - 1
	}
	m.calls++
	return m.responses[index]
}

func textResponse(text string) *ai.ChatResponse {
	return &ai.ChatResponse{Model: "test-model", OutputText: text}
}

func toolCallResponse(calls ...ai.ToolCall) *ai.ChatResponse {
	return &ai.ChatResponse{Model: "test-model", ToolCalls: calls}
}

func userRequest(content string) ai.ChatRequest {
	return ai.ChatRequest{
		Model:    "test-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: content}},
	}
}

// ========== Construction ==========

func TestNew_NilAdapter(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil adapter")
	}
}

func TestNew_NilSendMiddleware(t *testing.T) {
	adapter := &mockAdapter{responses: []scriptedTurn{{response: textResponse("ok")}}}

	_, err := New(adapter, WithMiddleware(MiddlewareConfig{Send: nil}))
	if err == nil {
		t.Fatal("expected error for middleware with nil Send")
	}
}

// ========== Chat ==========

func TestChat_PassesThrough(t *testing.T) {
	adapter := &mockAdapter{responses: []scriptedTurn{{response: textResponse("hello")}}}
	c, err := New(adapter)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	response, err := c.Chat(context.Background(), userRequest("hi"))
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if response.OutputText != "hello" {
		t.Errorf("OutputText = %q, want %q", response.OutputText, "hello")
	}
	if adapter.calls != 1 {
		t.Errorf("adapter calls = %d, want 1", adapter.calls)
	}
}

func TestChat_AdapterErrorSurfacesUnchanged(t *testing.T) {
	wantErr := ai.Errorf(ai.ErrRateLimited, "slow down")
	adapter := &mockAdapter{responses: []scriptedTurn{{err: wantErr}}}
	c, _ := New(adapter)

	_, err := c.Chat(context.Background(), userRequest("hi"))
	if ai.KindOf(err) != ai.ErrRateLimited {
		t.Errorf("KindOf(err) = %v, want %v", ai.KindOf(err), ai.ErrRateLimited)
	}
}

// ========== Middleware ordering ==========

// The first entry passed to WithMiddleware must be the outermost wrapper:
// first to run on the way in, last on the way out.
func TestMiddleware_OutermostFirst(t *testing.T) {
	adapter := &mockAdapter{responses: []scriptedTurn{{response: textResponse("ok")}}}

	var order []string
	tag := func(name string) MiddlewareConfig {
		return MiddlewareConfig{
			Send: func(next SendFunc) SendFunc {
				return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
					order = append(order, name+"-in")
					response, err := next(ctx, request)
					order = append(order, name+"-out")
					return response, err
				}
			},
		}
	}

	c, err := New(adapter, WithMiddleware(tag("outer"), tag("inner")))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := c.Chat(context.Background(), userRequest("hi")); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	want := []string{"outer-in", "inner-in", "inner-out", "outer-out"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

// An entry with a nil Stream field must be skipped in the stream chain
// without disturbing the send chain.
func TestMiddleware_NilStreamSkipped(t *testing.T) {
	adapter := &mockAdapter{responses: []scriptedTurn{{response: textResponse("ok")}}}

	sendOnly := MiddlewareConfig{
		Send: func(next SendFunc) SendFunc {
			return next
		},
		Stream: nil,
	}

	c, err := New(adapter, WithMiddleware(sendOnly))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	stream, err := c.ChatStream(context.Background(), userRequest("hi"))
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if response.OutputText != "ok" {
		t.Errorf("OutputText = %q, want %q", response.OutputText, "ok")
	}
}

func TestInfo_ReflectsAdapter(t *testing.T) {
	adapter := &mockAdapter{name: "backend-a", responses: []scriptedTurn{{response: textResponse("ok")}}}
	c, _ := New(adapter)

	if got := c.Info().Name; got != "backend-a" {
		t.Errorf("Info().Name = %q, want %q", got, "backend-a")
	}
}
