// Package provider abstracts the model backend behind a single Chat call so
// the agent loop does not care whether it talks to a hosted API or a local
// server.
package provider

import (
	"context"
	"errors"
	"fmt"

	"contentagent/config"
	"contentagent/models"
	"contentagent/tools"
)

// Client names the supported backend families.
type Client string

const (
	OpenAI Client = "openai"
	Local  Client = "local"
)

// Provider is one model backend. Chat sends the conversation and the tool
// catalog, and returns either prose or tool calls.
type Provider interface {
	Chat(ctx context.Context, messages []models.Message, catalog []tools.Descriptor) (models.Completion, error)
	Model() string
}

// NewProvider builds the backend named by the configuration. Both supported
// families speak the same wire protocol; a local server only changes the
// base URL and drops the key requirement.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Type) {
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, errors.New("llm.type is \"openai\" but OPENAI_API_KEY is not set")
		}
		return newOpenAIProvider(cfg), nil
	case Local, "":
		if cfg.BaseURL == "" {
			return nil, errors.New("llm.type is \"local\" but no base URL is configured")
		}
		return newOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm type %q", cfg.Type)
	}
}
