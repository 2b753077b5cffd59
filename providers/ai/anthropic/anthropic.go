package anthropic

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
	defaultBaseURL   = "https://api.anthropic.com/v1"
	messagesEndpoint = "/messages"

	// anthropicVersion pins the wire format independently of the URL.
	anthropicVersion = "2023-06-01"

	// defaultMaxTokens is applied when the caller leaves MaxTokens unset,
	// since the Messages API requires it on every request.
	defaultMaxTokens = 4096

	adapterName = "anthropic"
)

// Adapter implements [ai.ChatAdapter] for Anthropic's Messages API.
// A single Adapter is safe for concurrent use once constructed.
type Adapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns an Adapter initialized from environment variables. It reads
// ANTHROPIC_API_KEY for authentication and ANTHROPIC_API_BASE_URL for the
// endpoint base (defaulting to https://api.anthropic.com/v1 when unset).
func New() *Adapter {
	baseURL := os.Getenv("ANTHROPIC_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Adapter{
		apiKey:  os.Getenv("ANTHROPIC_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey overrides the API key read from ANTHROPIC_API_KEY.
func (a *Adapter) WithAPIKey(apiKey string) *Adapter {
	a.apiKey = apiKey
	return a
}

// WithBaseURL overrides the API base URL. Use this when targeting a proxy or
// a test endpoint.
func (a *Adapter) WithBaseURL(baseURL string) *Adapter {
	a.baseURL = baseURL
	return a
}

// WithHTTPClient replaces the default [http.Client] used for API calls.
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
			Streaming:       true,
			Tools:           true,
			MultimodalInput: true,
			Citations:       true,
		},
	}
}

// buildHeaders constructs the headers required on every request. Anthropic
// authenticates via x-api-key rather than a Bearer token, so DoPostSync is
// called with an empty apiKey and these headers instead.
func (a *Adapter) buildHeaders() []utils.HeaderOption {
	return []utils.HeaderOption{
		{Key: "x-api-key", Value: a.apiKey},
		{Key: "anthropic-version", Value: anthropicVersion},
	}
}

// Chat implements [ai.ChatAdapter] with one blocking round trip to the
// Messages API.
func (a *Adapter) Chat(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := ai.ValidateRequest(a.Info(), request, false); err != nil {
		return nil, err
	}
	if a.apiKey == "" {
		return nil, ai.Errorf(ai.ErrAuth, "ANTHROPIC_API_KEY is not set")
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

	url := a.baseURL + messagesEndpoint
	wireResponse, err := utils.DoPostSync[messagesResponse](ctx, a.client, url, "", requestToWire(request, false), a.buildHeaders()...)
	if err != nil {
		return nil, classifyError(err)
	}

	response := responseFromWire(wireResponse)
	if response.Model == "" {
		response.Model = request.Model
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

func classifyError(err error) error {
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		return ai.FromStatusCode(adapterName, statusErr.StatusCode, statusErr.Body)
	}
	return ai.Errorf(ai.ErrTransport, "anthropic request failed: %w", err)
}
