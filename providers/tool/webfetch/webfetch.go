// Package webfetch provides a built-in tool that fetches a web page and
// returns its content as markdown, sized for model consumption.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/forgeai/forgeai-go/internal/utils"
	"github.com/forgeai/forgeai-go/providers/tool"
)

const (
	// DefaultTimeout bounds the whole fetch when the input sets no timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the tool to upstream servers.
	DefaultUserAgent = "forgeai-webfetch/1.0"
	// MaxBodySize caps the response body read (10 MB).
	MaxBodySize = 10 * 1024 * 1024
	// maxRedirects bounds redirect chains.
	maxRedirects = 10
)

// New returns a [tool.Tool] that fetches a page over HTTP(S) and converts the
// HTML to markdown. Partial URLs get an https:// prefix; redirects are
// followed up to a limit and the final URL is reported alongside the content.
func New() *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		"web_fetch",
		Fetch,
		tool.WithDescription("Fetches a web page and returns its content converted to markdown. Accepts partial URLs (https:// is assumed), follows redirects, and reports the final URL."),
	)
}

// Input selects the page to fetch.
type Input struct {
	URL            string `json:"url" jsonschema:"description=URL of the page to fetch,required"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"description=Optional request timeout in seconds"`
	UserAgent      string `json:"user_agent,omitempty" jsonschema:"description=Optional User-Agent override"`
}

// Output carries the fetched page.
type Output struct {
	URL      string `json:"url" jsonschema:"description=Final URL after redirects"`
	Markdown string `json:"markdown" jsonschema:"description=Page content converted to markdown"`
}

// newFetchClient builds an HTTP client with per-phase timeouts so a stalled
// server cannot hold the tool loop hostage beyond the overall deadline.
func newFetchClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			ForceAttemptHTTP2:     true,
		},
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (>%d)", maxRedirects)
			}
			return nil
		},
	}
}

// Fetch retrieves input.URL and converts the body to markdown. It fails on
// empty URLs, non-200 statuses, bodies above [MaxBodySize], conversion
// failures, and context cancellation.
func Fetch(ctx context.Context, input Input) (Output, error) {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return Output{}, fmt.Errorf("url cannot be empty")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	timeout := DefaultTimeout
	if input.TimeoutSeconds > 0 {
		timeout = time.Duration(input.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Output{}, fmt.Errorf("building request: %w", err)
	}

	userAgent := DefaultUserAgent
	if input.UserAgent != "" {
		userAgent = input.UserAgent
	}
	request.Header.Set("User-Agent", userAgent)

	response, err := newFetchClient(timeout).Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return Output{}, fmt.Errorf("fetch timed out or was cancelled: %w", err)
		}
		return Output{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer utils.CloseWithLog(response.Body)

	if response.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("unexpected status %d fetching %s", response.StatusCode, url)
	}

	// Read one byte past the cap to distinguish "exactly at the limit" from
	// "truncated".
	body, err := io.ReadAll(io.LimitReader(response.Body, MaxBodySize+1))
	if err != nil {
		return Output{}, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > MaxBodySize {
		return Output{}, fmt.Errorf("response body exceeds %d bytes", MaxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return Output{}, fmt.Errorf("converting HTML to markdown: %w", err)
	}

	finalURL := url
	if response.Request != nil && response.Request.URL != nil {
		finalURL = response.Request.URL.String()
	}

	return Output{URL: finalURL, Markdown: markdown}, nil
}
