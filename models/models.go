package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidVideoReference is returned when a video reference cannot be
// resolved to an 11-character video id.
var ErrInvalidVideoReference = errors.New("invalid video reference")

// Role identifies who produced a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in a conversation. Assistant messages may carry tool
// calls; tool messages carry the id of the call they answer.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is one tool invocation requested by the model. ID is unique
// within a single orchestration turn.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Signature renders a stable identity for loop detection: same tool, same
// arguments, same signature.
func (c ToolCall) Signature() string {
	return fmt.Sprintf("%s(%v)", c.Name, c.Args)
}

// Completion is a model reply: either final prose or a batch of tool calls.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// IsToolCall reports whether the model requested tool execution instead of
// producing final prose.
func (c Completion) IsToolCall() bool { return len(c.ToolCalls) > 0 }

// TranscriptSegment is one caption entry of a video transcript. Start is the
// offset from the beginning of the video in seconds and is never negative.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

// Timestamp renders the segment offset as [MM:SS]. Minutes are unbounded;
// seconds are zero-padded.
func (s TranscriptSegment) Timestamp() string {
	total := int(s.Start)
	return fmt.Sprintf("[%02d:%02d]", total/60, total%60)
}

// FormatTranscript serialises segments as "[MM:SS] text" lines in source
// order.
func FormatTranscript(segments []TranscriptSegment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, seg.Timestamp()+" "+seg.Text)
	}
	return strings.Join(lines, "\n")
}

// SearchResult is one ranked hit from a web or video search.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// FormatSearchResults renders hits as a numbered list the model can quote
// from. Rank order is preserved.
func FormatSearchResults(results []SearchResult) string {
	if len(results) == 0 {
		return "No results found."
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
