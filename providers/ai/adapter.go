package ai

import (
	"context"
)

// ChatAdapter is the capability interface every backend implements. A single
// adapter instance is expected to be shared across many simultaneous
// conversations, so implementations must be immutable after construction and
// safe for concurrent invocation.
type ChatAdapter interface {
	// Info returns the adapter's static descriptor. It is pure, has no side
	// effects, and never fails.
	Info() AdapterInfo

	// Chat sends a chat request and returns the completed response in one
	// blocking round trip. The request is never mutated. Fails with an
	// ErrInvalidRequest-kind error when the model or message list is empty,
	// and with ErrUnsupported when tools are requested but the capability
	// matrix reports Tools=false.
	Chat(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// ChatStream sends a chat request and returns a ChatStream that yields
	// incremental deltas as they arrive. Initiation failures (auth, connect,
	// validation) are returned as a normal error with the same taxonomy as
	// Chat; once the stream has begun producing events, delivery failures
	// surface as a terminating error on the iterator after whatever complete
	// events were already received. Fails with ErrUnsupported when the
	// capability matrix reports Streaming=false.
	ChatStream(ctx context.Context, request ChatRequest) (*ChatStream, error)
}

// ValidateRequest checks the caller-supplied parts of a request against the
// adapter's capability matrix. All adapters run this before touching the wire
// so the error taxonomy stays uniform across backends.
//
// The streaming flag distinguishes Chat from ChatStream validation: streaming
// initiation additionally requires Capabilities.Streaming.
func ValidateRequest(info AdapterInfo, request ChatRequest, streaming bool) error {
	if request.Model == "" {
		return Errorf(ErrInvalidRequest, "model cannot be empty")
	}
	if len(request.Messages) == 0 {
		return Errorf(ErrInvalidRequest, "messages cannot be empty")
	}
	if len(request.Tools) > 0 && !info.Capabilities.Tools {
		return Errorf(ErrUnsupported, "adapter %q does not support tools", info.Name)
	}
	if streaming && !info.Capabilities.Streaming {
		return Errorf(ErrUnsupported, "adapter %q does not support streaming", info.Name)
	}
	return nil
}
