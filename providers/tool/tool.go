package tool

import (
	"context"
	"encoding/json"
	"time"

	"github.com/forgeai/forgeai-go/core/parse"
	"github.com/forgeai/forgeai-go/internal/jsonschema"
	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
)

// Tool binds a name and description to a strongly-typed Go function and
// automatically derives a JSON schema for the input type I via reflection.
// Use [NewTool] to construct one; store heterogeneous tools behind [GenericTool].
type Tool[I, O any] struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
}

// GenericTool is the type-erased interface for all tools. It abstracts over
// the concrete generic parameters of [Tool] so that tools can be stored,
// dispatched, and advertised without knowing their exact input/output types.
type GenericTool interface {
	// Definition returns the metadata (name, description, input schema) used
	// to advertise this tool to a model.
	Definition() ai.ToolDefinition

	// Call invokes the tool with JSON-encoded input and returns JSON-encoded
	// output. Failures are classified *Error values.
	Call(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// funcToolOptions holds optional configuration for a tool created via [NewTool].
type funcToolOptions struct {
	Description string
}

// WithDescription sets a human-readable description for the tool. Providers
// surface this description to the model to help it decide when and how to
// invoke the tool.
func WithDescription(description string) func(*funcToolOptions) {
	return func(o *funcToolOptions) {
		o.Description = description
	}
}

// NewTool constructs a [Tool] with the given name and handler function.
// The JSON schema for the input type I is derived automatically via reflection.
//
// Example:
//
//	lookup := tool.NewTool("city_weather", weatherFunc,
//	    tool.WithDescription("Returns current weather for a city."),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(*funcToolOptions)) *Tool[I, O] {
	toolOptions := &funcToolOptions{}
	for _, option := range options {
		option(toolOptions)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: toolOptions.Description,
		InputSchema: jsonschema.GenerateJSONSchema[I](),
		Function:    function,
	}
}

// Definition returns the [ai.ToolDefinition] advertised to the model.
func (t *Tool[I, O]) Definition() ai.ToolDefinition {
	return ai.ToolDefinition{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
}

// Call invokes the tool's underlying function with the given JSON-encoded
// input. Model-produced argument JSON is parsed leniently (minor syntax damage
// is repaired) into the input type I; the result is serialized back to JSON.
// Span events are emitted at the start and end of execution when a span is
// present in ctx.
func (t *Tool[I, O]) Call(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	span := observability.SpanFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, t.Name),
			observability.String(observability.AttrToolInput, string(input)),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd)
	}

	start := time.Now()

	parsedInput, err := parse.ParseStringAs[I](string(input))
	if err != nil {
		if span != nil {
			span.RecordError(err)
		}
		return nil, NewError(ErrInvalidInput, t.Name, "cannot parse arguments", err)
	}

	output, err := t.Function(ctx, parsedInput)
	duration := time.Since(start)

	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(
				observability.String(observability.AttrToolError, err.Error()),
				observability.Duration(observability.AttrToolDuration, duration),
			)
		}
		return nil, NewError(ErrExecutionFailed, t.Name, "execution failed", err)
	}

	outputBytes, err := json.Marshal(output)
	if err != nil {
		if span != nil {
			span.RecordError(err)
		}
		return nil, NewError(ErrExecutionFailed, t.Name, "cannot marshal output", err)
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrToolOutput, string(outputBytes)),
			observability.Duration(observability.AttrToolDuration, duration),
		)
	}

	return outputBytes, nil
}
