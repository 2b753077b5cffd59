package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/forgeai/forgeai-go/providers/ai"
)

func TestTimeout_SendDeadlineEnforced(t *testing.T) {
	slowSend := func(ctx context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
			return &ai.ChatResponse{OutputText: "too late"}, nil
		}
	}
	wrapped := NewTimeoutMiddleware(10 * time.Millisecond).Send(slowSend)

	_, err := wrapped(context.Background(), ai.ChatRequest{Model: "m"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestTimeout_SendFastRequestUnaffected(t *testing.T) {
	send := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{OutputText: "quick"}, nil
	}
	wrapped := NewTimeoutMiddleware(time.Second).Send(send)

	response, err := wrapped(context.Background(), ai.ChatRequest{Model: "m"})
	if err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}
	if response.OutputText != "quick" {
		t.Errorf("OutputText = %q, want %q", response.OutputText, "quick")
	}
}

func TestTimeout_StreamDeadlineCoversConsumption(t *testing.T) {
	// The stream checks its context between events; the deadline must still
	// be armed while the caller consumes.
	streamFunc := func(ctx context.Context, _ ai.ChatRequest) (*ai.ChatStream, error) {
		return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
			if !yield(ai.StreamEvent{Type: ai.StreamEventTextDelta, Delta: "a"}, nil) {
				return
			}
			select {
			case <-ctx.Done():
				yield(ai.StreamEvent{}, ctx.Err())
			case <-time.After(time.Second):
				yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
			}
		}), nil
	}
	wrapped := NewTimeoutMiddleware(10 * time.Millisecond).Stream(streamFunc)

	stream, err := wrapped(context.Background(), ai.ChatRequest{Model: "m"})
	if err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}

	_, err = stream.Collect()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Collect() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTimeout_StreamInitiationErrorReleasesContext(t *testing.T) {
	initErr := ai.Errorf(ai.ErrTransport, "refused")
	streamFunc := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatStream, error) {
		return nil, initErr
	}
	wrapped := NewTimeoutMiddleware(time.Second).Stream(streamFunc)

	_, err := wrapped(context.Background(), ai.ChatRequest{Model: "m"})
	if !errors.Is(err, initErr) {
		t.Fatalf("err = %v, want initiation error unchanged", err)
	}
}

func TestTimeout_StreamCompletesWithinDeadline(t *testing.T) {
	streamFunc := func(_ context.Context, _ ai.ChatRequest) (*ai.ChatStream, error) {
		return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
			if !yield(ai.StreamEvent{Type: ai.StreamEventTextDelta, Delta: "hi"}, nil) {
				return
			}
			yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
		}), nil
	}
	wrapped := NewTimeoutMiddleware(time.Second).Stream(streamFunc)

	stream, err := wrapped(context.Background(), ai.ChatRequest{Model: "m"})
	if err != nil {
		t.Fatalf("wrapped() error = %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if response.OutputText != "hi" {
		t.Errorf("OutputText = %q, want %q", response.OutputText, "hi")
	}
}
