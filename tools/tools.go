// Package tools defines the tool surface exposed to the model: descriptors
// with JSON schemas, a registry that validates arguments before dispatch, and
// the error taxonomy tool handlers report through.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"contentagent/internal/telemetry"
)

// Kind classifies a tool failure so the loop can phrase it for the model.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindUpstream     Kind = "upstream_unavailable"
	KindNotFound     Kind = "not_found"
)

// Error is the failure type handlers return. The message is written for the
// model to read and act on, not for a stack trace.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Invalidf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Upstreamf(format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Handler executes one tool call with already-validated arguments.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Descriptor describes one tool: what the model sees plus how to run it.
type Descriptor struct {
	Name        string
	Description string
	Schema      map[string]any
	Handler     Handler
}

// Registry holds the registered tools and their compiled schemas.
type Registry struct {
	descriptors map[string]Descriptor
	schemas     map[string]*jsonschema.Schema
	order       []string
	tel         *telemetry.Telemetry
}

func NewRegistry(tel *telemetry.Telemetry) *Registry {
	return &Registry{
		descriptors: map[string]Descriptor{},
		schemas:     map[string]*jsonschema.Schema{},
		tel:         tel,
	}
}

// Register adds a tool. It fails when the name is taken or the schema does
// not compile, so a bad descriptor surfaces at startup rather than mid-turn.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("register tool: empty name")
	}
	if d.Handler == nil {
		return fmt.Errorf("register tool %s: nil handler", d.Name)
	}
	if _, dup := r.descriptors[d.Name]; dup {
		return fmt.Errorf("register tool %s: already registered", d.Name)
	}
	raw, err := json.Marshal(d.Schema)
	if err != nil {
		return fmt.Errorf("register tool %s: marshal schema: %w", d.Name, err)
	}
	compiler := jsonschema.NewCompiler()
	url := "tool://" + d.Name
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("register tool %s: %w", d.Name, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("register tool %s: compile schema: %w", d.Name, err)
	}
	r.descriptors[d.Name] = d
	r.schemas[d.Name] = schema
	r.order = append(r.order, d.Name)
	return nil
}

// MustRegister is Register for static descriptors assembled at startup.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Names lists the registered tools in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Catalog returns the descriptors advertised to the model, in registration
// order.
func (r *Registry) Catalog() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.descriptors[name])
	}
	return out
}

// Dispatch validates and runs one tool call. It never returns a Go error:
// every failure becomes a readable message so the conversation can continue.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (content string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			content = fmt.Sprintf("Error: tool %q panicked: %v", name, rec)
			ok = false
			r.tel.RecordToolInvocation(name, false, len(content))
		}
	}()

	d, known := r.descriptors[name]
	if !known {
		msg := fmt.Sprintf("Error: unknown tool %q. Available tools: %v", name, r.Names())
		r.tel.RecordToolInvocation(name, false, len(msg))
		return msg, false
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := r.schemas[name].Validate(normalizeJSON(args)); err != nil {
		msg := fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
		r.tel.RecordToolInvocation(name, false, len(msg))
		return msg, false
	}

	out, err := d.Handler(ctx, args)
	if err != nil {
		msg := "Error: " + err.Error()
		r.tel.RecordToolInvocation(name, false, len(msg))
		return msg, false
	}
	r.tel.RecordToolInvocation(name, true, len(out))
	return out, true
}

// normalizeJSON maps decoded argument values onto the shapes the schema
// validator expects. Numbers that arrived as Go ints become json.Number so
// "integer" constraints validate.
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeJSON(val)
		}
		return out
	case int:
		return json.Number(fmt.Sprintf("%d", t))
	case int64:
		return json.Number(fmt.Sprintf("%d", t))
	case float64:
		return json.Number(jsonFloat(t))
	default:
		return v
	}
}

func jsonFloat(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}

// Str reads a string argument, trimming nothing: schemas handle shape, the
// handler handles meaning.
func Str(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// AsInt reads an integer-valued argument regardless of how the decoder
// represented it, falling back to def when the key is absent.
func AsInt(args map[string]any, key string, def int) int {
	v, present := args[key]
	if !present {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}

// AsBool reads a boolean argument with a default.
func AsBool(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// ClampInt pins v into [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SortedKeys is a helper for error messages that enumerate valid options.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
