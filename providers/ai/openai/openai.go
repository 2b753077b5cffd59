package openai

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/forgeai/forgeai-go/internal/utils"
	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"

	adapterName = "openai"
)

// Adapter implements [ai.ChatAdapter] for OpenAI's Chat Completions API.
// A single Adapter is safe for concurrent use once constructed.
type Adapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns an Adapter initialized from environment variables. It reads
// OPENAI_API_KEY for authentication and OPENAI_API_BASE_URL for the endpoint
// base (defaulting to https://api.openai.com/v1 when unset). Use the With*
// methods to override these values after construction.
func New() *Adapter {
	baseURL := os.Getenv("OPENAI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Adapter{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey overrides the API key read from OPENAI_API_KEY.
func (a *Adapter) WithAPIKey(apiKey string) *Adapter {
	a.apiKey = apiKey
	return a
}

// WithBaseURL overrides the API base URL. Use this when targeting a proxy,
// an OpenAI-compatible server, or a test endpoint.
func (a *Adapter) WithBaseURL(baseURL string) *Adapter {
	a.baseURL = baseURL
	return a
}

// WithHTTPClient replaces the default [http.Client] used for API calls.
// Useful for injecting custom timeouts, transports, or test doubles.
func (a *Adapter) WithHTTPClient(httpClient *http.Client) *Adapter {
	a.client = httpClient
	return a
}

// Info implements [ai.ChatAdapter].
func (a *Adapter) Info() ai.AdapterInfo {
	return ai.AdapterInfo{
		Name:    adapterName,
		BaseURL: a.baseURL,
		Capabilities: ai.CapabilityMatrix{
			Streaming:        true,
			Tools:            true,
			StructuredOutput: true,
			MultimodalInput:  true,
		},
	}
}

// Chat implements [ai.ChatAdapter] with one blocking round trip to the chat
// completions endpoint.
func (a *Adapter) Chat(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := ai.ValidateRequest(a.Info(), request, false); err != nil {
		return nil, err
	}
	if a.apiKey == "" {
		return nil, ai.Errorf(ai.ErrAuth, "OPENAI_API_KEY is not set")
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, adapterName),
			observability.String(observability.AttrLLMEndpoint, a.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
		)
		defer span.AddEvent(observability.EventLLMRequestEnd)
	}

	url := a.baseURL + chatCompletionsEndpoint
	wireResponse, err := utils.DoPostSync[chatCompletionResponse](ctx, a.client, url, a.apiKey, requestToWire(request, false))
	if err != nil {
		return nil, classifyError(err)
	}

	response, err := responseFromWire(wireResponse)
	if err != nil {
		return nil, err
	}

	if span != nil {
		span.SetAttributes(observability.String(observability.AttrLLMResponseID, response.ID))
		if response.Usage != nil {
			span.AddEvent(observability.EventTokensReceived,
				observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
			)
		}
	}

	return response, nil
}

// classifyError maps transport-layer failures onto the shared error taxonomy.
// Upstream HTTP statuses keep their body for diagnostics; everything else is a
// transport failure (DNS, connect, TLS, body read).
func classifyError(err error) error {
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		return ai.FromStatusCode(adapterName, statusErr.StatusCode, statusErr.Body)
	}
	return ai.Errorf(ai.ErrTransport, "openai request failed: %w", err)
}
