// Package htmltext converts raw HTML into readable plain text bounded by a
// character cap.
package htmltext

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// DefaultMaxChars bounds extracted text when the caller does not say
// otherwise.
const DefaultMaxChars = 6000

// TruncationMarker is appended when text had to be cut. The marker counts
// against the cap, so truncated output never exceeds it.
const TruncationMarker = "\n\n...[truncated]"

// Extract converts HTML to plain text. Readability extraction is tried
// first; documents it rejects (fragments, menus-only pages, broken markup)
// fall back to a tag-stripping tokenizer pass. The result is truncated to
// maxChars at a rune boundary.
func Extract(rawHTML, pageURL string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	text := ""
	if article, err := readability.FromReader(strings.NewReader(rawHTML), parseURL(pageURL)); err == nil {
		text = strings.TrimSpace(article.TextContent)
	}
	if text == "" {
		text = StripTags(rawHTML)
	}
	return Truncate(text, maxChars)
}

// skip holds container tags whose text content is never readable.
var skip = map[string]bool{"script": true, "style": true, "noscript": true}

// blockTags are rendered as paragraph-level breaks.
var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "li": true,
	"br": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "tr": true, "blockquote": true, "pre": true,
}

// StripTags is the best-effort fallback extractor: drops script/style
// content, turns block elements into newlines and collapses whitespace
// within each line. Malformed HTML never fails; the tokenizer recovers on
// its own.
func StripTags(rawHTML string) string {
	tok := html.NewTokenizer(strings.NewReader(rawHTML))
	var (
		lines    []string
		current  []string
		skipping int
	)
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
		}
	}
	for {
		switch tok.Next() {
		case html.ErrorToken:
			flush()
			return strings.Join(lines, "\n")
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tok.TagName()
			tag := string(name)
			if skip[tag] {
				skipping++
			} else if blockTags[tag] {
				flush()
			}
		case html.EndTagToken:
			name, _ := tok.TagName()
			tag := string(name)
			if skip[tag] {
				if skipping > 0 {
					skipping--
				}
			} else if blockTags[tag] {
				flush()
			}
		case html.TextToken:
			if skipping > 0 {
				continue
			}
			if t := strings.TrimSpace(collapseSpaces(string(tok.Text()))); t != "" {
				current = append(current, t)
			}
		}
	}
}

// Truncate cuts s to at most maxChars runes, never splitting a multibyte
// sequence. When a cut happens the truncation marker replaces the tail and
// the total still fits inside maxChars.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	marker := []rune(TruncationMarker)
	if maxChars <= len(marker) {
		return string(runes[:maxChars])
	}
	return string(runes[:maxChars-len(marker)]) + TruncationMarker
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
