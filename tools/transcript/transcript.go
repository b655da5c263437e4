// Package transcript fetches YouTube captions and renders them as
// timestamped plain text.
package transcript

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentagent/internal/helpers"
	"contentagent/models"
	"contentagent/tools"
)

const defaultBaseURL = "https://www.youtube.com/api/timedtext"

// Client talks to the captions endpoint. BaseURL is overridable for tests.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Lang       string
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    defaultBaseURL,
		Lang:       "en",
	}
}

type timedText struct {
	XMLName xml.Name    `xml:"transcript"`
	Texts   []timedLine `xml:"text"`
}

type timedLine struct {
	Start float64 `xml:"start,attr"`
	Body  string  `xml:",chardata"`
}

// Fetch resolves ref to a video id, retrieves its caption track, and returns
// the segments in upstream order.
func (c *Client) Fetch(ctx context.Context, ref string) ([]models.TranscriptSegment, error) {
	id, err := helpers.ParseVideoID(ref)
	if err != nil {
		return nil, tools.Invalidf("%q is not a YouTube video URL or id: %v", ref, err)
	}

	q := url.Values{}
	q.Set("v", id)
	q.Set("lang", c.Lang)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, tools.Upstreamf("build transcript request: %v", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, tools.Upstreamf("fetch transcript for %s: %v", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, tools.Upstreamf("transcript endpoint returned HTTP %d for video %s", resp.StatusCode, id)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, tools.Upstreamf("read transcript for %s: %v", id, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, tools.NotFoundf("no captions available for video %s", id)
	}

	var doc timedText
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, tools.Upstreamf("parse transcript for %s: %v", id, err)
	}
	segments := make([]models.TranscriptSegment, 0, len(doc.Texts))
	for _, line := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(line.Body))
		if text == "" {
			continue
		}
		segments = append(segments, models.TranscriptSegment{Start: line.Start, Text: text})
	}
	if len(segments) == 0 {
		return nil, tools.NotFoundf("no captions available for video %s", id)
	}
	return segments, nil
}

// Descriptor wires the client into the tool registry.
func Descriptor(c *Client) tools.Descriptor {
	return tools.Descriptor{
		Name: "get_video_transcript",
		Description: "Fetch the full transcript of a YouTube video as timestamped text. " +
			"Accepts a watch/short/embed URL or a bare 11-character video id.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"video": map[string]any{
					"type":        "string",
					"description": "YouTube URL or video id",
				},
			},
			"required":             []any{"video"},
			"additionalProperties": false,
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			ref := strings.TrimSpace(tools.Str(args, "video"))
			if ref == "" {
				return "", tools.Invalidf("video must not be empty")
			}
			segments, err := c.Fetch(ctx, ref)
			if err != nil {
				var terr *tools.Error
				if errors.As(err, &terr) {
					return "", terr
				}
				return "", tools.Upstreamf("fetch transcript: %v", err)
			}
			text := models.FormatTranscript(segments)
			return fmt.Sprintf("Transcript (%d segments):\n%s", len(segments), text), nil
		},
	}
}
