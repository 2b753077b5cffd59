package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
	"github.com/forgeai/forgeai-go/providers/tool"
)

// DefaultMaxIterations is the generation budget used when no explicit limit
// is configured. One iteration is one adapter invocation.
const DefaultMaxIterations = 10

// ErrIterationLimit is returned when the tool loop reaches its generation
// budget without the model producing a terminal (zero tool call) response.
// It is distinct from adapter and tool failures so callers can tell a runaway
// loop apart from a broken backend.
//
//	if errors.Is(err, client.ErrIterationLimit) {
//	    // model kept requesting tools past the budget
//	}
var ErrIterationLimit = errors.New("forge: tool loop iteration limit exceeded")

// ToolLoopOption configures one ChatWithTools / ChatWithToolsStream invocation.
type ToolLoopOption func(*toolLoopConfig)

type toolLoopConfig struct {
	maxIterations int
}

// WithMaxIterations caps the number of adapter invocations in one loop.
// Values below 1 are ignored.
func WithMaxIterations(n int) ToolLoopOption {
	return func(c *toolLoopConfig) {
		if n >= 1 {
			c.maxIterations = n
		}
	}
}

func applyToolLoopOptions(options []ToolLoopOption) toolLoopConfig {
	cfg := toolLoopConfig{maxIterations: DefaultMaxIterations}
	for _, option := range options {
		option(&cfg)
	}
	return cfg
}

// ToolInvocation records one executed tool call.
type ToolInvocation struct {
	CallID   string          `json:"call_id"`
	Name     string          `json:"name"`
	Input    json.RawMessage `json:"input,omitempty"`
	Output   json.RawMessage `json:"output,omitempty"`
	Duration time.Duration   `json:"duration"`
}

// ToolLoopResult is the outcome of a completed tool loop.
type ToolLoopResult struct {
	// FinalResponse is the terminal response, carrying zero tool calls.
	FinalResponse *ai.ChatResponse

	// Messages is the full conversation as it stood at termination: the
	// caller's messages followed by every assistant and tool turn the loop
	// appended.
	Messages []ai.Message

	// Invocations lists every tool call executed, in execution order.
	Invocations []ToolInvocation

	// Iterations is the number of adapter invocations performed.
	Iterations int
}

// ChatWithTools drives the tool-call loop to completion.
//
// Each iteration sends the conversation through the middleware chain. A
// response with zero tool calls is terminal and ends the loop. Otherwise the
// assistant turn recording the calls is appended, every call is executed via
// executor strictly in response order, each result is appended as a tool-role
// message correlated by call id, and the next iteration begins with the
// extended conversation.
//
// Any tool failure aborts the loop immediately; there is no partial
// continuation with only the succeeding results. Adapter errors surface with
// their classification untouched. Reaching the iteration budget returns an
// error wrapping [ErrIterationLimit].
//
// The request is treated as a value: the loop builds a fresh request per
// iteration and never mutates the caller's message slice.
func (c *Client) ChatWithTools(ctx context.Context, request ai.ChatRequest, executor tool.Executor, options ...ToolLoopOption) (*ToolLoopResult, error) {
	if executor == nil {
		return nil, fmt.Errorf("client: executor cannot be nil")
	}
	cfg := applyToolLoopOptions(options)

	messages := append([]ai.Message(nil), request.Messages...)
	result := &ToolLoopResult{}

	for iteration := 1; iteration <= cfg.maxIterations; iteration++ {
		result.Iterations = iteration

		response, err := c.send(ctx, requestWithMessages(request, messages))
		if err != nil {
			return nil, err
		}

		messages = append(messages, assistantMessage(response))

		if len(response.ToolCalls) == 0 {
			result.FinalResponse = response
			result.Messages = messages
			return result, nil
		}

		toolMessages, invocations, err := c.executeToolCalls(ctx, executor, response.ToolCalls)
		result.Invocations = append(result.Invocations, invocations...)
		if err != nil {
			return nil, err
		}
		messages = append(messages, toolMessages...)
	}

	return nil, fmt.Errorf("%w after %d iterations", ErrIterationLimit, cfg.maxIterations)
}

// executeToolCalls runs the batch sequentially, in the order the response
// listed the calls. On failure it returns the invocations completed so far
// together with the classified tool error.
func (c *Client) executeToolCalls(ctx context.Context, executor tool.Executor, calls []ai.ToolCall) ([]ai.Message, []ToolInvocation, error) {
	messages := make([]ai.Message, 0, len(calls))
	invocations := make([]ToolInvocation, 0, len(calls))

	for _, call := range calls {
		start := time.Now()
		output, err := executor.Call(ctx, call.Name, call.Arguments)
		elapsed := time.Since(start)

		invocations = append(invocations, ToolInvocation{
			CallID:   call.ID,
			Name:     call.Name,
			Input:    call.Arguments,
			Output:   output,
			Duration: elapsed,
		})

		if err != nil {
			if span := observability.SpanFromContext(ctx); span != nil {
				span.RecordError(err)
			}
			return messages, invocations, err
		}

		messages = append(messages, ai.Message{
			Role:       ai.RoleTool,
			Content:    string(output),
			ToolCallID: call.ID,
			Name:       call.Name,
		})
	}

	return messages, invocations, nil
}

// requestWithMessages clones the request with a new conversation.
func requestWithMessages(request ai.ChatRequest, messages []ai.Message) ai.ChatRequest {
	request.Messages = messages
	return request
}

// assistantMessage converts a response into the assistant turn recorded in
// the conversation, preserving any tool-call requests it carried.
func assistantMessage(response *ai.ChatResponse) ai.Message {
	return ai.Message{
		Role:      ai.RoleAssistant,
		Content:   response.OutputText,
		ToolCalls: response.ToolCalls,
	}
}
