package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contentagent/config"
	"contentagent/models"
	"contentagent/tools"
)

func TestNewProvider(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		cfg     config.LLMConfig
		wantErr bool
	}{
		{"openai with key", config.LLMConfig{Type: "openai", APIKey: "sk-x", Model: "gpt-4o"}, false},
		{"openai without key", config.LLMConfig{Type: "openai"}, true},
		{"local with base url", config.LLMConfig{Type: "local", BaseURL: "http://localhost:1234/v1", Model: "qwen3-4b"}, false},
		{"local without base url", config.LLMConfig{Type: "local"}, true},
		{"unknown type", config.LLMConfig{Type: "palm"}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func chatServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChatProse(t *testing.T) {
	t.Parallel()
	srv := chatServer(t, `{
		"choices": [{"message": {"role": "assistant", "content": "Hello there."}}]
	}`)
	p := newOpenAIProvider(config.LLMConfig{
		BaseURL: srv.URL, Model: "test-model", Timeout: 5 * time.Second,
	})

	got, err := p.Chat(context.Background(), []models.Message{
		{Role: models.RoleUser, Content: "hi"},
	}, nil)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got.IsToolCall() {
		t.Fatal("expected prose, got tool calls")
	}
	if got.Content != "Hello there." {
		t.Fatalf("content = %q", got.Content)
	}
}

func TestChatToolCalls(t *testing.T) {
	t.Parallel()
	srv := chatServer(t, `{
		"choices": [{"message": {
			"role": "assistant",
			"tool_calls": [{
				"id": "call_1",
				"type": "function",
				"function": {"name": "search_web", "arguments": "{\"query\": \"golang\", \"max_results\": 3}"}
			}]
		}}]
	}`)
	p := newOpenAIProvider(config.LLMConfig{
		BaseURL: srv.URL, Model: "test-model", Timeout: 5 * time.Second,
	})

	got, err := p.Chat(context.Background(), nil, []tools.Descriptor{
		{Name: "search_web", Description: "d", Schema: map[string]any{"type": "object"}},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !got.IsToolCall() || len(got.ToolCalls) != 1 {
		t.Fatalf("completion = %+v", got)
	}
	call := got.ToolCalls[0]
	if call.ID != "call_1" || call.Name != "search_web" {
		t.Fatalf("call = %+v", call)
	}
	if call.Args["query"] != "golang" {
		t.Fatalf("args = %v", call.Args)
	}
}

func TestChatMalformedArguments(t *testing.T) {
	t.Parallel()
	srv := chatServer(t, `{
		"choices": [{"message": {
			"role": "assistant",
			"tool_calls": [{
				"id": "call_1",
				"type": "function",
				"function": {"name": "search_web", "arguments": "{not json"}
			}]
		}}]
	}`)
	p := newOpenAIProvider(config.LLMConfig{
		BaseURL: srv.URL, Model: "test-model", Timeout: 5 * time.Second,
	})

	if _, err := p.Chat(context.Background(), nil, nil); err == nil {
		t.Fatal("expected malformed tool arguments to error")
	}
}

func TestToWireMessagesRoundTrip(t *testing.T) {
	t.Parallel()
	msgs := []models.Message{
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{
			{ID: "c1", Name: "read_file", Args: map[string]any{"path": "a.txt"}},
		}},
		{Role: models.RoleTool, ToolCallID: "c1", Content: "file text"},
	}
	wire := toWireMessages(msgs)
	if len(wire) != 2 {
		t.Fatalf("len = %d", len(wire))
	}
	if wire[0].ToolCalls[0].Function.Name != "read_file" {
		t.Fatalf("tool call lost: %+v", wire[0])
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(wire[0].ToolCalls[0].Function.Arguments), &args); err != nil {
		t.Fatalf("arguments not JSON: %v", err)
	}
	if wire[1].ToolCallID != "c1" {
		t.Fatalf("tool result correlation lost: %+v", wire[1])
	}
}
