package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failure into exactly one category. The kind decides
// whether a failover router may retry the call against another adapter:
// transient upstream conditions (transport, provider, rate limit) are
// retryable; caller mistakes and credential problems are not.
type ErrorKind string

const (
	// ErrTransport indicates a network or connection-level failure before a
	// well-formed upstream response was received.
	ErrTransport ErrorKind = "transport"

	// ErrProvider indicates the upstream returned an application-level error
	// (5xx, malformed payload, refused generation).
	ErrProvider ErrorKind = "provider"

	// ErrRateLimited indicates an upstream throttling signal (HTTP 429/529).
	ErrRateLimited ErrorKind = "rate_limited"

	// ErrAuth indicates the credential was rejected (HTTP 401/403).
	ErrAuth ErrorKind = "auth"

	// ErrInvalidRequest indicates the caller-supplied request is malformed.
	ErrInvalidRequest ErrorKind = "invalid_request"

	// ErrUnsupported indicates the adapter's capability matrix does not offer
	// the requested feature.
	ErrUnsupported ErrorKind = "unsupported"
)

// Error is the uniform failure type shared by every adapter. Each Error
// carries exactly one kind, a human-readable detail string, and optionally the
// wrapped cause for errors.Is/errors.As inspection.
type Error struct {
	Kind   ErrorKind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Errorf builds an *Error of the given kind with a formatted detail string.
// If the final formatting argument is an error it is additionally recorded as
// the wrapped cause when %w is used.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{
		Kind:   kind,
		Detail: wrapped.Error(),
		Cause:  errors.Unwrap(wrapped),
	}
}

// WrapError attaches a kind to an existing error, preserving it as the cause.
// A nil err returns nil. An err that is already an *Error is returned as-is so
// classification survives layered wrapping without being rewritten.
func WrapError(kind ErrorKind, detail string, err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	return &Error{Kind: kind, Detail: detail, Cause: err}
}

// KindOf extracts the ErrorKind from err, unwrapping as needed.
// Unclassified errors report ErrProvider: by the time an error escapes an
// adapter it either came from the upstream or from decoding its response.
func KindOf(err error) ErrorKind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ErrProvider
}

// IsRetryable reports whether a failover router should advance to the next
// adapter after this failure. Transport, provider, and rate-limit failures are
// worth retrying elsewhere; auth, invalid-request, and unsupported failures
// would fail identically (or near-identically) on every backend, so the router
// stops immediately.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case ErrTransport, ErrProvider, ErrRateLimited:
		return true
	default:
		return false
	}
}

// FromStatusCode maps an upstream HTTP status to a classified *Error.
// The body is included verbatim in the detail string for diagnostics.
func FromStatusCode(adapterName string, statusCode int, body string) *Error {
	kind := ErrProvider
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = ErrAuth
	case statusCode == http.StatusTooManyRequests || statusCode == 529:
		kind = ErrRateLimited
	case statusCode >= 400 && statusCode < 500:
		kind = ErrInvalidRequest
	}
	return &Error{
		Kind:   kind,
		Detail: fmt.Sprintf("%s returned status %d: %s", adapterName, statusCode, body),
	}
}
