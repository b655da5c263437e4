package tools

import (
	"context"
	"strings"
	"testing"
)

func echoDescriptor() Descriptor {
	return Descriptor{
		Name:        "echo",
		Description: "Echo a message back.",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
				"times":   map[string]any{"type": "integer", "minimum": 1},
			},
			"required":             []any{"message"},
			"additionalProperties": false,
		},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			msg := Str(args, "message")
			n := ClampInt(AsInt(args, "times", 1), 1, 3)
			return strings.Repeat(msg, n), nil
		},
	}
}

func TestRegistryDispatch(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(nil)
	if err := reg.Register(echoDescriptor()); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantOK  bool
		contain string
	}{
		{"plain call", "echo", map[string]any{"message": "hi"}, true, "hi"},
		{"int arg", "echo", map[string]any{"message": "a", "times": 2}, true, "aa"},
		{"clamped high", "echo", map[string]any{"message": "a", "times": 99}, true, "aaa"},
		{"missing required", "echo", map[string]any{}, false, "invalid arguments"},
		{"wrong type", "echo", map[string]any{"message": 7}, false, "invalid arguments"},
		{"below minimum", "echo", map[string]any{"message": "a", "times": 0}, false, "invalid arguments"},
		{"unknown property", "echo", map[string]any{"message": "a", "bogus": true}, false, "invalid arguments"},
		{"unknown tool", "nope", map[string]any{}, false, `unknown tool "nope"`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Dispatch(context.Background(), tt.tool, tt.args)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (output %q)", ok, tt.wantOK, got)
			}
			if !strings.Contains(got, tt.contain) {
				t.Fatalf("output %q does not contain %q", got, tt.contain)
			}
		})
	}
}

func TestRegistryDispatchRecoversPanic(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(nil)
	reg.MustRegister(Descriptor{
		Name:        "boom",
		Description: "Always panics.",
		Schema:      map[string]any{"type": "object"},
		Handler: func(_ context.Context, _ map[string]any) (string, error) {
			panic("kaboom")
		},
	})
	got, ok := reg.Dispatch(context.Background(), "boom", nil)
	if ok {
		t.Fatalf("expected failure, got success: %q", got)
	}
	if !strings.Contains(got, "kaboom") {
		t.Fatalf("output %q does not mention the panic", got)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(nil)
	if err := reg.Register(echoDescriptor()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register(echoDescriptor()); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestCatalogPreservesOrder(t *testing.T) {
	t.Parallel()
	reg := NewRegistry(nil)
	for _, name := range []string{"c", "a", "b"} {
		name := name
		reg.MustRegister(Descriptor{
			Name:        name,
			Description: name,
			Schema:      map[string]any{"type": "object"},
			Handler:     func(_ context.Context, _ map[string]any) (string, error) { return name, nil },
		})
	}
	cat := reg.Catalog()
	if len(cat) != 3 || cat[0].Name != "c" || cat[1].Name != "a" || cat[2].Name != "b" {
		t.Fatalf("catalog order wrong: %+v", cat)
	}
}
