package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Executor is the contract a tool-execution backend implements. A single
// Executor instance may be shared across concurrent loop invocations, so
// implementations must be safe for concurrent use.
//
// Implementations must not retry internally: retry policy is the
// orchestrator's responsibility, not the tool's.
type Executor interface {
	// Call resolves name and invokes it with the JSON-encoded input, returning
	// the JSON-encoded output. Failures are reported as *Error values carrying
	// one of the three kinds.
	Call(ctx context.Context, name string, input json.RawMessage) (json.RawMessage, error)
}

// ErrorKind classifies a tool failure.
type ErrorKind string

const (
	// ErrNotFound indicates no tool with the requested name is registered.
	ErrNotFound ErrorKind = "not_found"
	// ErrInvalidInput indicates the model-supplied arguments could not be
	// parsed into the tool's input type.
	ErrInvalidInput ErrorKind = "invalid_input"
	// ErrExecutionFailed indicates the tool ran and returned an error.
	ErrExecutionFailed ErrorKind = "execution_failed"
)

// Error is the uniform failure type for tool execution.
type Error struct {
	Kind   ErrorKind
	Name   string // tool name, when known
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("tool %q: %s: %s", e.Name, e.Kind, e.Detail)
	}
	return fmt.Sprintf("tool: %s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds a classified tool error.
func NewError(kind ErrorKind, name, detail string, cause error) *Error {
	return &Error{Kind: kind, Name: name, Detail: detail, Cause: cause}
}

// KindOf extracts the ErrorKind from err, unwrapping as needed.
// Unclassified errors report ErrExecutionFailed.
func KindOf(err error) ErrorKind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return ErrExecutionFailed
}
