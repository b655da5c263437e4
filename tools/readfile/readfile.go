// Package readfile extracts plain text from local documents so the model
// can work with file contents it cannot open itself.
package readfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"contentagent/config"
	"contentagent/internal/htmltext"
	"contentagent/internal/telemetry"
	"contentagent/tools"
)

const (
	DefaultMaxChars = 6000
	MaxCharsCeiling = 200000
)

// extractor turns one file format into plain text.
type extractor func(path string) (string, error)

var extractors = map[string]extractor{
	".txt":      extractPlain,
	".md":       extractPlain,
	".markdown": extractPlain,
	".pdf":      extractPDF,
	".docx":     extractDOCX,
	".doc":      extractDOC,
}

// SupportedExtensions lists the formats the reader understands, sorted.
func SupportedExtensions() []string {
	return tools.SortedKeys(extractors)
}

// Reader reads documents under the configured limits.
type Reader struct {
	MaxChars int
	Debug    bool
	Tel      *telemetry.Telemetry
}

func NewReader(cfg config.ToolsConfig, tel *telemetry.Telemetry) *Reader {
	maxChars := cfg.FileMaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Reader{MaxChars: maxChars, Debug: cfg.FileDebug, Tel: tel}
}

// Read extracts text from the file at path, truncated to maxChars runes.
// maxChars <= 0 means the reader default.
func (r *Reader) Read(path string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = r.MaxChars
	}
	maxChars = tools.ClampInt(maxChars, 1, MaxCharsCeiling)

	resolved, err := resolvePath(path)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(resolved))
	extract, ok := extractors[ext]
	if !ok {
		return "", tools.Invalidf("unsupported file type %q: supported extensions are %s",
			ext, strings.Join(SupportedExtensions(), ", "))
	}

	r.Tel.Debugf(r.Debug, "reading %s (%s, max %d chars)", resolved, ext, maxChars)
	raw, err := extract(resolved)
	if err != nil {
		return "", err
	}
	text := normalizeText(raw)
	if strings.TrimSpace(text) == "" {
		return "", tools.NotFoundf("no extractable text in %s", resolved)
	}
	return htmltext.Truncate(text, maxChars), nil
}

// resolvePath expands ~ and verifies the target is an existing regular file.
func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", tools.Invalidf("path must not be empty")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", tools.Invalidf("cannot expand ~ in %q: %v", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", tools.Invalidf("cannot resolve path %q: %v", path, err)
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", tools.NotFoundf("file not found: %s", abs)
	}
	if err != nil {
		return "", tools.Upstreamf("stat %s: %v", abs, err)
	}
	if info.IsDir() {
		return "", tools.Invalidf("%s is a directory, not a file", abs)
	}
	if !info.Mode().IsRegular() {
		return "", tools.Invalidf("%s is not a regular file", abs)
	}
	return abs, nil
}

// normalizeText unifies line endings and drops blank lines so truncation
// budgets are spent on content.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", tools.Upstreamf("read %s: %v", path, err)
	}
	return string(data), nil
}

// Descriptor wires the reader into the tool registry.
func Descriptor(r *Reader) tools.Descriptor {
	supported := strings.Join(SupportedExtensions(), ", ")
	return tools.Descriptor{
		Name: "read_file",
		Description: fmt.Sprintf("Read a local document and return its text content. "+
			"Supported formats: %s. Long documents are truncated.", supported),
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path to the file; ~ expands to the home directory",
				},
				"max_chars": map[string]any{
					"type":        "integer",
					"minimum":     1,
					"description": "Character budget for the returned text",
				},
			},
			"required":             []any{"path"},
			"additionalProperties": false,
		},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			return r.Read(tools.Str(args, "path"), tools.AsInt(args, "max_chars", 0))
		},
	}
}
