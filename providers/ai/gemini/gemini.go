package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/forgeai/forgeai-go/internal/utils"
	"github.com/forgeai/forgeai-go/providers/ai"
	"github.com/forgeai/forgeai-go/providers/observability"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	adapterName = "gemini"
)

// Adapter implements [ai.ChatAdapter] for the Gemini generateContent API.
// A single Adapter is safe for concurrent use once constructed.
type Adapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns an Adapter initialized from environment variables. It reads
// GEMINI_API_KEY for authentication and GEMINI_API_BASE_URL for the endpoint
// base (defaulting to the public generativelanguage endpoint when unset).
func New() *Adapter {
	baseURL := os.Getenv("GEMINI_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Adapter{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// WithAPIKey overrides the API key read from GEMINI_API_KEY.
func (a *Adapter) WithAPIKey(apiKey string) *Adapter {
	a.apiKey = apiKey
	return a
}

// WithBaseURL overrides the API base URL.
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
			Streaming:        true,
			Tools:            true,
			StructuredOutput: true,
			MultimodalInput:  true,
		},
	}
}

// buildHeaders returns the authentication header. Gemini uses x-goog-api-key
// rather than a Bearer token.
func (a *Adapter) buildHeaders() []utils.HeaderOption {
	return []utils.HeaderOption{{Key: "x-goog-api-key", Value: a.apiKey}}
}

// Chat implements [ai.ChatAdapter] with one blocking round trip to the
// model's generateContent endpoint.
func (a *Adapter) Chat(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if err := ai.ValidateRequest(a.Info(), request, false); err != nil {
		return nil, err
	}
	if a.apiKey == "" {
		return nil, ai.Errorf(ai.ErrAuth, "GEMINI_API_KEY is not set")
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

	url := fmt.Sprintf("%s/models/%s:generateContent", a.baseURL, request.Model)
	wireResponse, err := utils.DoPostSync[generateContentResponse](ctx, a.client, url, "", requestToWire(request), a.buildHeaders()...)
	if err != nil {
		return nil, classifyError(err)
	}

	response, err := responseFromWire(wireResponse, request.Model)
	if err != nil {
		return nil, err
	}

	if span != nil && response.Usage != nil {
		span.AddEvent(observability.EventTokensReceived,
			observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
		)
	}

	return response, nil
}

func classifyError(err error) error {
	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		return ai.FromStatusCode(adapterName, statusErr.StatusCode, statusErr.Body)
	}
	return ai.Errorf(ai.ErrTransport, "gemini request failed: %w", err)
}
