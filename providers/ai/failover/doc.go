// Package failover provides a Router that composes an ordered list of
// [ai.ChatAdapter] values into one adapter: calls are tried in list order, and
// a retryable failure on one backend advances to the next. The Router itself
// satisfies [ai.ChatAdapter], so it drops into any call site that expects a
// single adapter, including another Router.
//
// Retryability follows [ai.IsRetryable]: transport, provider, and rate-limit
// failures advance; auth, invalid-request, and unsupported failures stop the
// sweep immediately. When every adapter has been tried, the last observed
// error is returned.
package failover
