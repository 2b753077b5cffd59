package observability

// Semantic conventions for attribute, span, event, and metric names.
// Components share these constants so the same concept always carries
// the same key in telemetry.

// --- LLM Adapter Attributes ---

const (
	// AttrLLMProvider is the adapter name (e.g. "openai", "anthropic")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g. "gpt-4o", "claude-sonnet-4-5")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the response identifier assigned by the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTemperature is the sampling temperature used
	AttrLLMTemperature = "llm.temperature"

	// AttrLLMMaxTokens is the output token cap requested
	AttrLLMMaxTokens = "llm.max_tokens" // #nosec G101 -- LLM tokens, not a credential
)

// --- Token Usage Attributes ---

const (
	// AttrLLMTokensPrompt is the number of input tokens consumed
	AttrLLMTokensPrompt = "llm.tokens.prompt" // #nosec G101 -- LLM tokens, not a credential

	// AttrLLMTokensCompletion is the number of output tokens produced
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- LLM tokens, not a credential

	// AttrLLMTokensTotal is the total token count for the call
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- LLM tokens, not a credential
)

// --- Tool Execution Attributes ---

const (
	// AttrToolName is the name of the tool being executed
	AttrToolName = "tool.name"

	// AttrToolInput is the serialized tool input
	AttrToolInput = "tool.input"

	// AttrToolOutput is the serialized tool output
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the tool execution duration
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error message when tool execution failed
	AttrToolError = "tool.error"
)

// --- Failover Attributes ---

const (
	// AttrFailoverAdapter is the name of the adapter that was tried
	AttrFailoverAdapter = "failover.adapter"

	// AttrFailoverPosition is the adapter's position in the priority list
	AttrFailoverPosition = "failover.position"

	// AttrFailoverErrorKind is the classification of the error that
	// triggered the failover
	AttrFailoverErrorKind = "failover.error_kind"
)

// --- Request/Response Attributes ---

const (
	// AttrRequestMessagesCount is the number of messages in the request
	AttrRequestMessagesCount = "request.messages_count"

	// AttrRequestToolsCount is the number of tool definitions in the request
	AttrRequestToolsCount = "request.tools_count"

	// AttrResponseContent is the text content of the response
	AttrResponseContent = "response.content"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- Client Attributes ---

const (
	// AttrClientPrompt is the user prompt
	AttrClientPrompt = "client.prompt"

	// AttrClientToolsCount is the number of tools available to the client
	AttrClientToolsCount = "client.tools_count"

	// AttrClientToolCalls is the number of tool calls in a response
	AttrClientToolCalls = "client.tool_calls"

	// AttrClientIteration is the current tool-loop iteration (1-based)
	AttrClientIteration = "client.iteration"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrErrorType is the error type or classification
	AttrErrorType = "error.type"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanClientSendMessage covers a full client send, including any
	// tool-loop iterations
	SpanClientSendMessage = "client.send_message"

	// SpanLLMRequest covers a single adapter API call
	SpanLLMRequest = "llm.request"

	// SpanToolExecution covers a single tool execution
	SpanToolExecution = "tool.execution"
)

// --- Event Names ---

const (
	// EventLLMRequestStart marks the start of an adapter API call
	EventLLMRequestStart = "llm.request.start"

	// EventLLMRequestEnd marks the end of an adapter API call
	EventLLMRequestEnd = "llm.request.end"

	// EventToolExecutionStart marks the start of a tool execution
	EventToolExecutionStart = "tool.execution.start"

	// EventToolExecutionEnd marks the end of a tool execution
	EventToolExecutionEnd = "tool.execution.end"

	// EventTokensReceived marks receipt of usage numbers from a provider
	EventTokensReceived = "llm.tokens.received" // #nosec G101 -- LLM tokens, not a credential

	// EventFailoverAttempt marks an adapter failure that caused the
	// router to move on to the next candidate
	EventFailoverAttempt = "failover.adapter_failed"
)

// --- Metric Names ---

const (
	// MetricClientRequestCount counts client requests
	MetricClientRequestCount = "forge.client.request.count"

	// MetricClientRequestDuration is the request duration histogram
	MetricClientRequestDuration = "forge.client.request.duration"

	// MetricClientTokensTotal counts total tokens
	MetricClientTokensTotal = "forge.client.tokens.total"

	// MetricClientTokensPrompt counts input tokens
	MetricClientTokensPrompt = "forge.client.tokens.prompt"

	// MetricClientTokensCompletion counts output tokens
	MetricClientTokensCompletion = "forge.client.tokens.completion"
)
