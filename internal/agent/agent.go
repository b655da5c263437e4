// Package agent runs the tool-orchestration loop: it feeds the conversation
// to the model, executes the tool calls the model asks for, and repeats
// until the model answers in prose or the step ceiling is hit.
package agent

import (
	"context"
	"fmt"
	"strings"

	"contentagent/config"
	"contentagent/internal/telemetry"
	"contentagent/models"
	"contentagent/provider"
	"contentagent/tools"
)

const DefaultMaxSteps = 8

// Outcome is what one user turn produced.
type Outcome struct {
	Text string
	Quit bool
}

// Agent owns one conversation and drives it through the provider and the
// tool registry.
type Agent struct {
	provider     provider.Provider
	registry     *tools.Registry
	conversation *Conversation
	tel          *telemetry.Telemetry

	maxSteps   int
	retry      RetryPolicy
	resetWords map[string]bool
	exitWords  map[string]bool
	llmType    string
	baseURL    string
}

func New(p provider.Provider, reg *tools.Registry, systemPrompt string, cfg *config.Config, tel *telemetry.Telemetry) *Agent {
	maxSteps := cfg.Agent.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	retry := RetryPolicy{
		MaxAttempts: cfg.LLM.MaxRetries,
		BaseDelay:   cfg.LLM.RetryDelay,
		Jitter:      true,
	}
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}
	return &Agent{
		provider:     p,
		registry:     reg,
		conversation: NewConversation(systemPrompt),
		tel:          tel,
		maxSteps:     maxSteps,
		retry:        retry,
		resetWords:   wordSet(cfg.Agent.ResetWords, "reset", "clear", "new"),
		exitWords:    wordSet(cfg.Agent.ExitWords, "exit", "quit", "bye"),
		llmType:      cfg.LLM.Type,
		baseURL:      cfg.LLM.BaseURL,
	}
}

func wordSet(words []string, defaults ...string) map[string]bool {
	if len(words) == 0 {
		words = defaults
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}

// Conversation exposes the history, mainly for tests and the REPL status
// line.
func (a *Agent) Conversation() *Conversation { return a.conversation }

// Turn handles one user input end to end. Control words short-circuit
// before the model sees anything.
func (a *Agent) Turn(ctx context.Context, input string) (Outcome, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if a.exitWords[trimmed] {
		return Outcome{Text: "Goodbye!", Quit: true}, nil
	}
	if a.resetWords[trimmed] {
		a.conversation.Reset()
		return Outcome{Text: "Conversation cleared. What shall we work on?"}, nil
	}
	if strings.TrimSpace(input) == "" {
		return Outcome{Text: "Say something and I'll get to work."}, nil
	}

	a.conversation.Append(models.Message{Role: models.RoleUser, Content: input})
	catalog := a.registry.Catalog()

	var lastBatch string
	for step := 0; step < a.maxSteps; step++ {
		completion, err := a.chat(ctx, catalog)
		if err != nil {
			// The turn still ends in prose: the readable message is the
			// answer, and the history stays consistent for the next turn.
			text := err.Error()
			a.conversation.Append(models.Message{Role: models.RoleAssistant, Content: text})
			return Outcome{Text: text}, nil
		}
		if !completion.IsToolCall() {
			a.conversation.Append(models.Message{Role: models.RoleAssistant, Content: completion.Content})
			return Outcome{Text: completion.Content}, nil
		}

		a.conversation.Append(models.Message{
			Role:      models.RoleAssistant,
			Content:   completion.Content,
			ToolCalls: completion.ToolCalls,
		})
		batch := batchSignature(completion.ToolCalls)
		if batch == lastBatch {
			a.tel.Logger().Printf("model repeated tool batch %s, forcing an answer", batch)
			a.appendToolResults(ctx, completion.ToolCalls, true)
			return a.finishWithoutTools(ctx)
		}
		lastBatch = batch
		a.appendToolResults(ctx, completion.ToolCalls, false)
	}

	a.tel.Logger().Printf("step ceiling of %d reached, forcing an answer", a.maxSteps)
	return a.finishWithoutTools(ctx)
}

// appendToolResults runs the batch in the order the model issued it and
// appends one tool message per call. When skip is set the calls are not
// executed; the model is told to answer with what it already has.
func (a *Agent) appendToolResults(ctx context.Context, calls []models.ToolCall, skip bool) {
	for _, call := range calls {
		var content string
		if skip {
			content = "Error: this exact tool call was just made. Use the results you already have."
		} else {
			content, _ = a.registry.Dispatch(ctx, call.Name, call.Args)
		}
		a.conversation.Append(models.Message{
			Role:       models.RoleTool,
			ToolCallID: call.ID,
			Content:    content,
		})
	}
}

// finishWithoutTools asks for a final prose answer with no tool catalog, so
// a runaway loop still ends with something useful for the user.
func (a *Agent) finishWithoutTools(ctx context.Context) (Outcome, error) {
	a.conversation.Append(models.Message{
		Role:    models.RoleUser,
		Content: "Stop calling tools. Give your best final answer from the material gathered so far.",
	})
	completion, err := a.chat(ctx, nil)
	if err != nil {
		return Outcome{Text: "I gathered material but could not finish the answer. Please try again or narrow the request."}, nil
	}
	text := completion.Content
	if strings.TrimSpace(text) == "" {
		text = "I gathered material but could not finish the answer. Please try again or narrow the request."
	}
	a.conversation.Append(models.Message{Role: models.RoleAssistant, Content: text})
	return Outcome{Text: text}, nil
}

func (a *Agent) chat(ctx context.Context, catalog []tools.Descriptor) (models.Completion, error) {
	var completion models.Completion
	err := a.retry.Do(ctx, func() error {
		var callErr error
		completion, callErr = a.provider.Chat(ctx, a.conversation.Messages(), catalog)
		a.tel.RecordModelCall(callErr)
		return callErr
	})
	if err != nil {
		return models.Completion{}, a.describeBackendError(err)
	}
	return completion, nil
}

// describeBackendError turns transport failures into a message that tells
// the user what to check.
func (a *Agent) describeBackendError(err error) error {
	msg := err.Error()
	switch {
	case a.llmType != "openai" && (strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host")):
		return fmt.Errorf("cannot reach the local model server at %s: %w (is it running?)", a.baseURL, err)
	case strings.Contains(msg, "401"):
		return fmt.Errorf("the model API rejected the key: %w (check OPENAI_API_KEY)", err)
	case strings.Contains(msg, "429"):
		return fmt.Errorf("the model API is rate limiting: %w (wait a moment and retry)", err)
	default:
		return fmt.Errorf("model backend error: %w", err)
	}
}

func batchSignature(calls []models.ToolCall) string {
	parts := make([]string, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, call.Signature())
	}
	return strings.Join(parts, "; ")
}
