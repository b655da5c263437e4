// Package webfetch downloads a web page and reduces it to readable text for
// the model.
package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentagent/config"
	"contentagent/internal/htmltext"
	"contentagent/tools"
)

const (
	DefaultTimeout = 20 * time.Second
	MinTimeout     = 1 * time.Second
	MaxTimeout     = 120 * time.Second

	maxBodyBytes = 8 << 20
)

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	FetchHTML(ctx context.Context, pageURL string) (string, error)
}

// NewFetcher picks the fetch strategy from configuration. The plain HTTP
// fetcher is the default; headless Chrome handles script-heavy pages.
func NewFetcher(cfg config.ToolsConfig) (Fetcher, error) {
	switch cfg.FetcherType {
	case "", "http":
		return &HTTPFetcher{
			Client:    &http.Client{Timeout: MaxTimeout},
			UserAgent: cfg.UserAgent,
		}, nil
	case "chromedp":
		return &ChromeFetcher{UserAgent: cfg.UserAgent}, nil
	default:
		return nil, fmt.Errorf("unsupported fetcher type %q", cfg.FetcherType)
	}
}

// HTTPFetcher is a straight GET with a browser-ish user agent.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

func (f *HTTPFetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", tools.Invalidf("build request for %s: %v", pageURL, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", tools.Upstreamf("fetch %s: %v", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", tools.Upstreamf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", tools.Upstreamf("read %s: %v", pageURL, err)
	}
	return string(body), nil
}

// Tool bundles a fetcher with its limits.
type Tool struct {
	Fetcher  Fetcher
	Timeout  time.Duration
	MaxChars int
}

func NewTool(cfg config.ToolsConfig) (*Tool, error) {
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return nil, err
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout < MinTimeout {
		timeout = MinTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	maxChars := cfg.FetchMaxChars
	if maxChars <= 0 {
		maxChars = htmltext.DefaultMaxChars
	}
	return &Tool{Fetcher: fetcher, Timeout: timeout, MaxChars: maxChars}, nil
}

// Fetch validates the URL, downloads it, and returns extracted text. The
// scheme check happens before any connection so bad input fails fast.
// timeout and maxChars override the tool defaults for this call; zero keeps
// the default.
func (t *Tool) Fetch(ctx context.Context, pageURL string, timeout time.Duration, maxChars int) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", tools.Invalidf("%q is not a valid URL: %v", pageURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", tools.Invalidf("unsupported URL scheme %q: only http and https are fetchable", u.Scheme)
	}
	if u.Host == "" {
		return "", tools.Invalidf("%q has no host", pageURL)
	}

	if timeout <= 0 {
		timeout = t.Timeout
	}
	if timeout < MinTimeout {
		timeout = MinTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	if maxChars <= 0 {
		maxChars = t.MaxChars
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	rawHTML, err := t.Fetcher.FetchHTML(ctx, pageURL)
	if err != nil {
		return "", err
	}
	text := htmltext.Extract(rawHTML, pageURL, maxChars)
	if strings.TrimSpace(text) == "" {
		return "", tools.NotFoundf("no readable text found at %s", pageURL)
	}
	return text, nil
}

// Descriptor wires the tool into the registry.
func Descriptor(t *Tool) tools.Descriptor {
	return tools.Descriptor{
		Name: "fetch_webpage",
		Description: "Download a web page and return its main text content. " +
			"Markup, scripts, and styling are stripped; long pages are truncated.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "Absolute http or https URL of the page",
				},
				"timeout": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"maximum":     120,
					"description": "Seconds to wait for the page before giving up",
				},
				"max_chars": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"description": "Character budget for the returned text",
				},
			},
			"required":             []any{"url"},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			timeout := time.Duration(tools.AsInt(args, "timeout", 0)) * time.Second
			maxChars := tools.AsInt(args, "max_chars", 0)
			return t.Fetch(ctx, tools.Str(args, "url"), timeout, maxChars)
		},
	}
}
