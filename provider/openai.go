package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"contentagent/config"
	"contentagent/models"
	"contentagent/tools"
)

type openaiProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func newOpenAIProvider(cfg config.LLMConfig) *openaiProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	return &openaiProvider{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (p *openaiProvider) Model() string { return p.model }

func (p *openaiProvider) Chat(ctx context.Context, messages []models.Message, catalog []tools.Descriptor) (models.Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toWireMessages(messages),
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Tools:       toWireTools(catalog),
	}
	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return models.Completion{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Completion{}, fmt.Errorf("chat completion: model returned no choices")
	}
	choice := resp.Choices[0].Message

	completion := models.Completion{Content: choice.Content}
	for _, call := range choice.ToolCalls {
		if call.Type != openai.ToolTypeFunction {
			continue
		}
		args := map[string]any{}
		if raw := call.Function.Arguments; raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return models.Completion{}, fmt.Errorf("tool call %s: malformed arguments %q: %w",
					call.Function.Name, raw, err)
			}
		}
		id := call.ID
		if id == "" {
			id = uuid.NewString()
		}
		completion.ToolCalls = append(completion.ToolCalls, models.ToolCall{
			ID:   id,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return completion, nil
}

func toWireMessages(messages []models.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		wire := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, call := range m.ToolCalls {
			raw, _ := json.Marshal(call.Args)
			wire.ToolCalls = append(wire.ToolCalls, openai.ToolCall{
				ID:   call.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      call.Name,
					Arguments: string(raw),
				},
			})
		}
		out = append(out, wire)
	}
	return out
}

func toWireTools(catalog []tools.Descriptor) []openai.Tool {
	out := make([]openai.Tool, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Schema,
			},
		})
	}
	return out
}
