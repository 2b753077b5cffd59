package failover

import (
	"context"

	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
)

// RouterName is the adapter name reported by Router.Info.
const RouterName = "failover-router"

// Router is an ordered, non-empty sequence of adapters behaving as one.
// Immutable after construction and safe for concurrent use, provided the
// wrapped adapters are.
type Router struct {
	adapters   []ai.ChatAdapter
	maxAttempt int
}

// Option configures a Router at construction time.
type Option func(*Router)

// WithMaxAdaptersToTry caps how many adapters a single call may attempt before
// giving up, counted from the front of the list. Zero or negative means no cap
// (the default).
func WithMaxAdaptersToTry(n int) Option {
	return func(router *Router) {
		router.maxAttempt = n
	}
}

// New creates a Router over the given adapters, tried in argument order.
// Returns an invalid-request error when no adapters are supplied.
func New(adapters []ai.ChatAdapter, options ...Option) (*Router, error) {
	if len(adapters) == 0 {
		return nil, ai.Errorf(ai.ErrInvalidRequest, "failover router requires at least one adapter")
	}

	router := &Router{adapters: adapters}
	for _, option := range options {
		option(router)
	}
	return router, nil
}

// Info returns a synthesized descriptor for the whole list. The capability
// matrix is the logical intersection of all adapters' capabilities: the router
// only promises what every fallback also provides. The base URL is the first
// adapter's, as the representative primary.
func (router *Router) Info() ai.AdapterInfo {
	first := router.adapters[0].Info()
	capabilities := first.Capabilities
	for _, adapter := range router.adapters[1:] {
		capabilities = capabilities.Intersect(adapter.Info().Capabilities)
	}

	return ai.AdapterInfo{
		Name:         RouterName,
		BaseURL:      first.BaseURL,
		Capabilities: capabilities,
	}
}

// Chat tries each adapter in list order. The first success wins and remaining
// adapters are never consulted. A non-retryable failure is returned
// immediately; when the list is exhausted, the last observed error is
// returned so the caller sees the final backend's diagnostics.
func (router *Router) Chat(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	var lastErr error

	for position, adapter := range router.candidates() {
		response, err := adapter.Chat(ctx, request)
		if err == nil {
			return response, nil
		}
		if !ai.IsRetryable(err) {
			return nil, err
		}

		router.traceFailover(ctx, position, adapter, err)
		lastErr = err
	}

	return nil, lastErr
}

// ChatStream applies the same ordering and retry policy to the stream
// initiation step only. Once a chosen adapter's stream has begun emitting
// events, a mid-stream failure terminates the sequence with an error rather
// than switching backends: resuming on a different adapter would splice an
// inconsistent partial answer.
func (router *Router) ChatStream(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	var lastErr error

	for position, adapter := range router.candidates() {
		stream, err := adapter.ChatStream(ctx, request)
		if err == nil {
			return stream, nil
		}
		if !ai.IsRetryable(err) {
			return nil, err
		}

		router.traceFailover(ctx, position, adapter, err)
		lastErr = err
	}

	return nil, lastErr
}

// candidates returns the adapters a single call may attempt, honoring the
// optional cap.
func (router *Router) candidates() []ai.ChatAdapter {
	if router.maxAttempt > 0 && router.maxAttempt < len(router.adapters) {
		return router.adapters[:router.maxAttempt]
	}
	return router.adapters
}

// traceFailover records one failed attempt on the active span, if any.
func (router *Router) traceFailover(ctx context.Context, position int, adapter ai.ChatAdapter, err error) {
	span := observability.SpanFromContext(ctx)
	if span == nil {
		return
	}
	span.AddEvent(observability.EventFailoverAttempt,
		observability.Int(observability.AttrFailoverPosition, position),
		observability.String(observability.AttrFailoverAdapter, adapter.Info().Name),
		observability.String(observability.AttrFailoverErrorKind, string(ai.KindOf(err))),
		observability.Error(err),
	)
}
