package middleware

import "errors"

// ErrRetryExhausted is returned by the retry middleware when all retry
// attempts have been consumed without a successful response. It is wrapped
// together with the last underlying error so callers can use [errors.Is] /
// [errors.As] to inspect the root cause.
//
//	if errors.Is(err, middleware.ErrRetryExhausted) {
//	    // all retries failed
//	}
var ErrRetryExhausted = errors.New("forge: all retry attempts exhausted")
