// Package instructions ships the writing playbooks the model loads on
// demand, plus the base system prompt.
package instructions

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"contentagent/tools"
)

//go:embed prompts/*.md
var promptFS embed.FS

// System is the base system prompt for the agent.
func System() string {
	return mustLoad("system")
}

// Tasks lists the loadable task slugs, sorted.
func Tasks() []string {
	entries, err := promptFS.ReadDir("prompts")
	if err != nil {
		panic(fmt.Sprintf("embedded prompts unreadable: %v", err))
	}
	var out []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".md")
		if name == "system" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Load returns the playbook for the given task slug.
func Load(task string) (string, error) {
	task = strings.TrimSpace(strings.ToLower(task))
	if task == "" || task == "system" {
		return "", tools.Invalidf("unknown task %q: valid tasks are %s", task, strings.Join(Tasks(), ", "))
	}
	data, err := promptFS.ReadFile("prompts/" + task + ".md")
	if err != nil {
		return "", tools.Invalidf("unknown task %q: valid tasks are %s", task, strings.Join(Tasks(), ", "))
	}
	return strings.TrimSpace(string(data)), nil
}

func mustLoad(name string) string {
	data, err := promptFS.ReadFile("prompts/" + name + ".md")
	if err != nil {
		panic(fmt.Sprintf("embedded prompt %s missing: %v", name, err))
	}
	return strings.TrimSpace(string(data))
}

// Descriptor wires the playbook loader into the tool registry.
func Descriptor() tools.Descriptor {
	return tools.Descriptor{
		Name: "get_writing_instructions",
		Description: "Load the detailed writing playbook for a content task. " +
			"Call this before producing the final piece. Tasks: " + strings.Join(Tasks(), ", ") + ".",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"task": map[string]any{
					"type":        "string",
					"description": "Task slug, e.g. write_blog_post",
				},
			},
			"required":             []any{"task"},
			"additionalProperties": false,
		},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			return Load(tools.Str(args, "task"))
		},
	}
}
