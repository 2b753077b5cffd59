package client

import (
	"context"

	"github.com/forgeai/forgeai-go/providers/ai"
)

// SendFunc is a function that sends a chat request and returns the completed
// response. It is the base unit threaded through the send middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// StreamFunc is a function that sends a chat request and returns a ChatStream
// for incremental delivery. It is the base unit threaded through the stream
// middleware chain.
type StreamFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error)

// Middleware intercepts and optionally transforms chat requests and responses.
// Each Middleware receives the next SendFunc in the chain and returns a new
// SendFunc that wraps it. Middlewares are applied outermost-first: the first
// middleware in the slice is the outermost wrapper.
type Middleware func(next SendFunc) SendFunc

// StreamMiddleware is the streaming counterpart of Middleware. It intercepts
// stream initiation and may wrap the returned ChatStream to observe or
// transform the event sequence.
type StreamMiddleware func(next StreamFunc) StreamFunc

// MiddlewareConfig pairs a send middleware with its optional streaming
// counterpart. The Send field is required; a nil Send causes [New] to return
// an error. The Stream field is optional: a nil value means streaming calls
// bypass this entry entirely (the stream chain falls through to the next one).
type MiddlewareConfig struct {
	// Send is applied to Chat and ChatWithTools calls. Required.
	Send Middleware

	// Stream is applied to ChatStream and ChatWithToolsStream calls.
	// A nil value means streaming bypasses this middleware.
	Stream StreamMiddleware
}

// buildSendChain constructs the linear send chain over the adapter.
// Middlewares are applied in reverse order so that the first entry in the
// slice becomes the outermost wrapper, i.e. the first to execute on an
// incoming request.
func buildSendChain(adapter ai.ChatAdapter, middlewares []MiddlewareConfig) SendFunc {
	var chain SendFunc = adapter.Chat

	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i].Send(chain)
	}

	return chain
}

// buildStreamChain constructs the linear stream chain over the adapter.
// Entries with a nil Stream field are skipped.
func buildStreamChain(adapter ai.ChatAdapter, middlewares []MiddlewareConfig) StreamFunc {
	var chain StreamFunc = adapter.ChatStream

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i].Stream != nil {
			chain = middlewares[i].Stream(chain)
		}
	}

	return chain
}
