package client

import (
	"context"
	"fmt"

	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
)

// Client wraps an [ai.ChatAdapter] behind a middleware chain and exposes the
// tool-call loop on top of it. A Client is immutable after construction and
// safe for concurrent use; each loop invocation owns its own conversation
// slice, so concurrent calls never share mutable state.
type Client struct {
	adapter ai.ChatAdapter
	send    SendFunc
	stream  StreamFunc
}

// Option configures a Client during construction.
type Option func(*clientConfig)

type clientConfig struct {
	middlewares []MiddlewareConfig
	observer    observability.Provider
}

// WithMiddleware appends middleware entries to the chain. Entries execute
// outermost-first: the first entry passed is the first to see a request and
// the last to see its response.
func WithMiddleware(middlewares ...MiddlewareConfig) Option {
	return func(c *clientConfig) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}

// WithObserver attaches an observability provider. The observability
// middleware is prepended to the chain so it wraps everything else and
// records the final outcome of each request, after any retries or timeouts.
func WithObserver(observer observability.Provider) Option {
	return func(c *clientConfig) {
		c.observer = observer
	}
}

// New creates a Client over the given adapter.
// Returns an error when the adapter is nil or a middleware entry has a nil
// Send field.
func New(adapter ai.ChatAdapter, options ...Option) (*Client, error) {
	if adapter == nil {
		return nil, fmt.Errorf("client: adapter cannot be nil")
	}

	cfg := &clientConfig{}
	for _, option := range options {
		option(cfg)
	}

	for i, middleware := range cfg.middlewares {
		if middleware.Send == nil {
			return nil, fmt.Errorf("client: middleware %d has a nil Send", i)
		}
	}

	middlewares := cfg.middlewares
	if cfg.observer != nil {
		middlewares = append([]MiddlewareConfig{NewObservabilityMiddleware(cfg.observer)}, middlewares...)
	}

	return &Client{
		adapter: adapter,
		send:    buildSendChain(adapter, middlewares),
		stream:  buildStreamChain(adapter, middlewares),
	}, nil
}

// Info returns the underlying adapter's descriptor.
func (c *Client) Info() ai.AdapterInfo {
	return c.adapter.Info()
}

// Chat sends a single request through the middleware chain and returns the
// completed response.
func (c *Client) Chat(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	return c.send(ctx, request)
}

// ChatStream sends a single request through the middleware chain and returns
// a stream of incremental deltas.
func (c *Client) ChatStream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	return c.stream(ctx, request)
}
