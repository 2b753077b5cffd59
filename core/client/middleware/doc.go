// Package middleware provides built-in middleware implementations for the
// client. Each is constructed via a New* function returning a
// [client.MiddlewareConfig] ready to be passed to [client.WithMiddleware].
//
// # Available Middleware
//
//   - [NewRetryMiddleware]: retries failed adapter calls with exponential
//     backoff and jitter. Retry eligibility follows the error taxonomy by
//     default: transport, provider, and rate-limit failures retry; auth,
//     invalid-request, and unsupported failures do not.
//
//   - [NewTimeoutMiddleware]: adds a per-request deadline via
//     context.WithTimeout, so a stalled adapter call cannot block the caller
//     indefinitely.
//
//   - [NewLoggingMiddleware]: emits structured slog entries before and after
//     every adapter call, with three verbosity levels (Minimal, Standard,
//     Verbose).
//
// # Usage
//
//	c, err := client.New(adapter,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 3}),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute outermost-first: the first entry in WithMiddleware is
// the outermost wrapper. In the example above a request travels
// Timeout -> Retry -> Logging -> adapter, and the response travels back in
// reverse.
package middleware
