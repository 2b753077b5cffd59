package observability

import "context"

// Private key types prevent collisions with other context values.
type spanKey struct{}
type observerKey struct{}

// ContextWithSpan returns a new context with the given span attached.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanKey{}, span)
}

// SpanFromContext extracts a Span from the context.
// Returns nil if no span is present; callers must nil-check before use.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanKey{}).(Span)
	return span
}

// ContextWithObserver returns a new context carrying the given provider.
func ContextWithObserver(ctx context.Context, provider Provider) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerKey{}, provider)
}

// ObserverFromContext extracts the Provider from the context.
// Returns a no-op provider when none is attached, so the result is
// always safe to use.
func ObserverFromContext(ctx context.Context) Provider {
	if ctx == nil {
		return NoopProvider()
	}
	if provider, ok := ctx.Value(observerKey{}).(Provider); ok && provider != nil {
		return provider
	}
	return NoopProvider()
}
