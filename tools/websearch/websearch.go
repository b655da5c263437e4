// Package websearch queries Google Programmable Search and returns ranked
// results as plain text.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentagent/models"
	"contentagent/tools"
)

const (
	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

	// The API refuses more than 10 results per request.
	MaxResults     = 10
	DefaultResults = 5
)

// Search holds the Programmable Search credentials. BaseURL is overridable
// for tests.
type Search struct {
	APIKey     string
	EngineID   string
	BaseURL    string
	HTTPClient *http.Client
}

func New(apiKey, engineID string) *Search {
	return &Search{
		APIKey:     apiKey,
		EngineID:   engineID,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type cseResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Discover runs one query. Credentials are checked before any network
// traffic so a misconfigured deployment fails with a clear message.
func (s *Search) Discover(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if s.APIKey == "" || s.EngineID == "" {
		return nil, tools.Invalidf("web search is not configured: set GOOGLE_CSE_API_KEY and GOOGLE_CSE_ID")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, tools.Invalidf("query must not be empty")
	}
	if maxResults < 1 {
		return nil, tools.Invalidf("max_results must be at least 1, got %d", maxResults)
	}
	if maxResults > MaxResults {
		maxResults = MaxResults
	}

	q := url.Values{}
	q.Set("key", s.APIKey)
	q.Set("cx", s.EngineID)
	q.Set("q", query)
	q.Set("num", fmt.Sprintf("%d", maxResults))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, tools.Upstreamf("build search request: %v", err)
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, tools.Upstreamf("web search for %q: %v", query, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, tools.Upstreamf("read search response: %v", err)
	}

	var parsed cseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, tools.Upstreamf("parse search response: %v", err)
	}
	if parsed.Error != nil {
		return nil, tools.Upstreamf("web search failed (HTTP %d): %s", parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, tools.Upstreamf("web search returned HTTP %d", resp.StatusCode)
	}

	results := make([]models.SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		results = append(results, models.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

// Descriptor wires the search client into the tool registry.
func Descriptor(s *Search) tools.Descriptor {
	return tools.Descriptor{
		Name: "search_web",
		Description: "Search the web and return ranked results with titles, URLs, and snippets. " +
			"Use fetch_webpage afterwards to read a result in full.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"description": "How many results to return (capped at 10)",
				},
			},
			"required":             []any{"query"},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			results, err := s.Discover(ctx, tools.Str(args, "query"), tools.AsInt(args, "max_results", DefaultResults))
			if err != nil {
				return "", err
			}
			return models.FormatSearchResults(results), nil
		},
	}
}
