// Package videosearch queries the YouTube Data API and returns matching
// videos as watch URLs.
package videosearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentagent/internal/helpers"
	"contentagent/models"
	"contentagent/tools"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3/search"

	MaxResults     = 10
	DefaultResults = 5
)

// Search holds the YouTube Data API credentials. BaseURL is overridable for
// tests.
type Search struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func New(apiKey string) *Search {
	return &Search{
		APIKey:     apiKey,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Discover runs one video search. Results use canonical watch URLs so they
// feed straight into the transcript tool.
func (s *Search) Discover(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if s.APIKey == "" {
		return nil, tools.Invalidf("video search is not configured: set YOUTUBE_API_KEY")
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
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("q", query)
	q.Set("maxResults", fmt.Sprintf("%d", maxResults))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, tools.Upstreamf("build video search request: %v", err)
	}
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, tools.Upstreamf("video search for %q: %v", query, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, tools.Upstreamf("read video search response: %v", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, tools.Upstreamf("parse video search response: %v", err)
	}
	if parsed.Error != nil {
		return nil, tools.Upstreamf("video search failed (HTTP %d): %s", parsed.Error.Code, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, tools.Upstreamf("video search returned HTTP %d", resp.StatusCode)
	}

	results := make([]models.SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.ID.VideoID == "" {
			continue
		}
		snippet := item.Snippet.Description
		if item.Snippet.ChannelTitle != "" {
			snippet = "by " + item.Snippet.ChannelTitle + ". " + snippet
		}
		results = append(results, models.SearchResult{
			Title:   item.Snippet.Title,
			URL:     helpers.WatchURL(item.ID.VideoID),
			Snippet: strings.TrimSpace(snippet),
		})
	}
	return results, nil
}

// Descriptor wires the video search client into the tool registry.
func Descriptor(s *Search) tools.Descriptor {
	return tools.Descriptor{
		Name: "search_videos",
		Description: "Search YouTube for videos and return watch URLs with titles and descriptions. " +
			"Use get_video_transcript afterwards to read a video's content.",
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
