package failover

import (
	"context"
	"errors"
	"testing"

	"github.com/forgeai/forgeai-go/providers/ai"
)

// scriptedAdapter is a test double that returns a fixed outcome and counts
// invocations.
type scriptedAdapter struct {
	name     string
	response *ai.ChatResponse
	err      error
	caps     ai.CapabilityMatrix
	calls    int
}

func (a *scriptedAdapter) Info() ai.AdapterInfo {
	return ai.AdapterInfo{Name: a.name, Capabilities: a.caps}
}

func (a *scriptedAdapter) Chat(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.response, nil
}

func (a *scriptedAdapter) ChatStream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return ai.NewSingleEventStream(a.response), nil
}

func succeeding(name, text string) *scriptedAdapter {
	return &scriptedAdapter{
		name:     name,
		response: &ai.ChatResponse{OutputText: text},
		caps:     ai.CapabilityMatrix{Streaming: true, Tools: true},
	}
}

func failing(name string, kind ai.ErrorKind) *scriptedAdapter {
	return &scriptedAdapter{
		name: name,
		err:  ai.Errorf(kind, "%s is down", name),
		caps: ai.CapabilityMatrix{Streaming: true, Tools: true},
	}
}

func request() ai.ChatRequest {
	return ai.ChatRequest{
		Model:    "mock-model",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hello"}},
	}
}

// TestNew_EmptyList verifies that construction fails on an empty adapter list.
func TestNew_EmptyList(t *testing.T) {
	_, err := New(nil)
	if err == nil {
		t.Fatal("expected an error for an empty adapter list")
	}
	if ai.KindOf(err) != ai.ErrInvalidRequest {
		t.Errorf("expected invalid_request, got %q", ai.KindOf(err))
	}
}

// TestChat_FirstSuccessWins verifies that a succeeding first adapter means no
// subsequent adapter is ever invoked.
func TestChat_FirstSuccessWins(t *testing.T) {
	first := succeeding("a", "from a")
	second := succeeding("b", "from b")
	router, err := New([]ai.ChatAdapter{first, second})
	if err != nil {
		t.Fatal(err)
	}

	response, err := router.Chat(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.OutputText != "from a" {
		t.Errorf("expected the first adapter's response, got %q", response.OutputText)
	}
	if second.calls != 0 {
		t.Errorf("second adapter was invoked %d times, want 0", second.calls)
	}
}

// TestChat_FailoverOnTransport verifies that a transport failure on the first
// adapter advances to the second, invoking exactly two adapters.
func TestChat_FailoverOnTransport(t *testing.T) {
	first := failing("a", ai.ErrTransport)
	second := succeeding("b", "from b")
	router, _ := New([]ai.ChatAdapter{first, second})

	response, err := router.Chat(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.OutputText != "from b" {
		t.Errorf("expected the fallback's response, got %q", response.OutputText)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Errorf("expected exactly one call each, got %d and %d", first.calls, second.calls)
	}
}

// TestChat_AuthShortCircuits verifies the non-retryable short-circuit: an auth
// failure is returned immediately and the remaining list is never consulted,
// even when a later adapter would succeed.
func TestChat_AuthShortCircuits(t *testing.T) {
	first := failing("a", ai.ErrAuth)
	second := succeeding("b", "would succeed")
	router, _ := New([]ai.ChatAdapter{first, second})

	_, err := router.Chat(context.Background(), request())
	if ai.KindOf(err) != ai.ErrAuth {
		t.Fatalf("expected the auth error back, got %v", err)
	}
	if second.calls != 0 {
		t.Errorf("second adapter was invoked after a non-retryable failure")
	}
}

// TestChat_ExhaustionReturnsLastError verifies that when every adapter fails
// retryably, the last adapter's error is returned, not the first's.
func TestChat_ExhaustionReturnsLastError(t *testing.T) {
	first := failing("a", ai.ErrTransport)
	second := failing("b", ai.ErrRateLimited)
	router, _ := New([]ai.ChatAdapter{first, second})

	_, err := router.Chat(context.Background(), request())
	if err == nil {
		t.Fatal("expected an error after exhausting all adapters")
	}
	if ai.KindOf(err) != ai.ErrRateLimited {
		t.Errorf("expected the last adapter's kind (rate_limited), got %q", ai.KindOf(err))
	}
	var classified *ai.Error
	if !errors.As(err, &classified) || classified.Detail != "b is down" {
		t.Errorf("expected the last adapter's detail, got %v", err)
	}
}

// TestChat_Deterministic verifies that a fixed list with fixed outcomes routes
// identically across repeated calls.
func TestChat_Deterministic(t *testing.T) {
	first := failing("a", ai.ErrProvider)
	second := succeeding("b", "stable")
	router, _ := New([]ai.ChatAdapter{first, second})

	for range 5 {
		response, err := router.Chat(context.Background(), request())
		if err != nil || response.OutputText != "stable" {
			t.Fatalf("routing changed across identical calls: %v %v", response, err)
		}
	}
	if first.calls != 5 || second.calls != 5 {
		t.Errorf("expected 5 calls each, got %d and %d", first.calls, second.calls)
	}
}

// TestChatStream_FailoverOnInitiation verifies that the retry policy applies
// to stream initiation and that the winning adapter's events flow through.
func TestChatStream_FailoverOnInitiation(t *testing.T) {
	first := failing("a", ai.ErrTransport)
	second := succeeding("b", "streamed")
	router, _ := New([]ai.ChatAdapter{first, second})

	stream, err := router.ChatStream(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected initiation error: %v", err)
	}
	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if response.OutputText != "streamed" {
		t.Errorf("expected %q, got %q", "streamed", response.OutputText)
	}
}

// TestChatStream_MidStreamErrorDoesNotFailover verifies that once a stream has
// begun, a mid-stream failure terminates the sequence instead of switching to
// the next adapter.
func TestChatStream_MidStreamErrorDoesNotFailover(t *testing.T) {
	streamErr := ai.Errorf(ai.ErrTransport, "connection dropped mid-stream")
	broken := &midStreamFailingAdapter{err: streamErr}
	fallback := succeeding("b", "never consulted")
	router, _ := New([]ai.ChatAdapter{broken, fallback})

	stream, err := router.ChatStream(context.Background(), request())
	if err != nil {
		t.Fatalf("initiation should have succeeded: %v", err)
	}

	_, err = stream.Collect()
	if !errors.Is(err, streamErr) {
		t.Fatalf("expected the mid-stream error to surface, got %v", err)
	}
	if fallback.calls != 0 {
		t.Error("router failed over mid-stream")
	}
}

// midStreamFailingAdapter initiates successfully, emits one delta, then fails.
type midStreamFailingAdapter struct {
	err error
}

func (a *midStreamFailingAdapter) Info() ai.AdapterInfo {
	return ai.AdapterInfo{Name: "broken", Capabilities: ai.CapabilityMatrix{Streaming: true}}
}

func (a *midStreamFailingAdapter) Chat(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return nil, a.err
}

func (a *midStreamFailingAdapter) ChatStream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		if !yield(ai.StreamEvent{Type: ai.StreamEventTextDelta, Delta: "partial"}, nil) {
			return
		}
		yield(ai.StreamEvent{}, a.err)
	}), nil
}

// TestInfo_CapabilityIntersection verifies the synthesized descriptor only
// advertises what every adapter in the list provides.
func TestInfo_CapabilityIntersection(t *testing.T) {
	full := &scriptedAdapter{name: "full", caps: ai.CapabilityMatrix{Streaming: true, Tools: true, StructuredOutput: true}}
	partial := &scriptedAdapter{name: "partial", caps: ai.CapabilityMatrix{Streaming: true, Tools: false, StructuredOutput: true}}
	router, _ := New([]ai.ChatAdapter{full, partial})

	info := router.Info()
	if info.Name != RouterName {
		t.Errorf("expected name %q, got %q", RouterName, info.Name)
	}
	want := ai.CapabilityMatrix{Streaming: true, Tools: false, StructuredOutput: true}
	if info.Capabilities != want {
		t.Errorf("capabilities = %+v, want %+v", info.Capabilities, want)
	}
}

// TestWithMaxAdaptersToTry verifies the attempt cap stops the sweep early.
func TestWithMaxAdaptersToTry(t *testing.T) {
	first := failing("a", ai.ErrTransport)
	second := failing("b", ai.ErrTransport)
	third := succeeding("c", "unreachable under the cap")
	router, _ := New([]ai.ChatAdapter{first, second, third}, WithMaxAdaptersToTry(2))

	_, err := router.Chat(context.Background(), request())
	if err == nil {
		t.Fatal("expected failure when the cap excludes the succeeding adapter")
	}
	if third.calls != 0 {
		t.Errorf("adapter beyond the cap was invoked %d times", third.calls)
	}
}
