package readfile

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"contentagent/tools"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadPlainText(t *testing.T) {
	t.Parallel()
	r := &Reader{MaxChars: 6000}
	path := writeFile(t, "note.txt", "first line\r\n\r\n  \r\nsecond line\r\n")

	out, err := r.Read(path, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out != "first line\nsecond line" {
		t.Fatalf("out = %q", out)
	}
}

func TestReadTruncates(t *testing.T) {
	t.Parallel()
	r := &Reader{MaxChars: 6000}
	path := writeFile(t, "big.md", strings.Repeat("über ", 2000))

	out, err := r.Read(path, 100)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n := utf8.RuneCountInString(out); n > 100 {
		t.Fatalf("output is %d runes, cap is 100", n)
	}
	if !strings.HasSuffix(out, "...[truncated]") {
		t.Fatalf("missing truncation marker: %q", out)
	}
}

func TestReadErrors(t *testing.T) {
	t.Parallel()
	r := &Reader{MaxChars: 6000}
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantKind tools.Kind
		contain  string
	}{
		{
			"missing file",
			func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone.txt") },
			tools.KindNotFound, "not found",
		},
		{
			"directory",
			func(t *testing.T) string { return t.TempDir() },
			tools.KindInvalidInput, "directory",
		},
		{
			"unsupported extension",
			func(t *testing.T) string { return writeFile(t, "tool.exe", "MZ") },
			tools.KindInvalidInput, ".txt",
		},
		{
			"empty path",
			func(t *testing.T) string { return "   " },
			tools.KindInvalidInput, "empty",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := r.Read(tt.path(t), 0)
			terr, ok := err.(*tools.Error)
			if !ok {
				t.Fatalf("error %v is not a tools.Error", err)
			}
			if terr.Kind != tt.wantKind {
				t.Fatalf("kind = %q, want %q", terr.Kind, tt.wantKind)
			}
			if !strings.Contains(terr.Message, tt.contain) {
				t.Fatalf("message %q missing %q", terr.Message, tt.contain)
			}
		})
	}
}

func TestSupportedExtensionsSorted(t *testing.T) {
	t.Parallel()
	exts := SupportedExtensions()
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Fatalf("extensions not sorted: %v", exts)
		}
	}
	for _, want := range []string{".txt", ".md", ".pdf", ".docx", ".doc"} {
		found := false
		for _, e := range exts {
			if e == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing extension %s in %v", want, exts)
		}
	}
}

func TestReadDOCX(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	part, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hello</w:t><w:tab/><w:t>world</w:t></w:r></w:p>
    <w:p><w:r><w:t>second paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	f.Close()

	r := &Reader{MaxChars: 6000}
	out, err := r.Read(path, 0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(out, "Hello\tworld") {
		t.Errorf("tab lost: %q", out)
	}
	if !strings.Contains(out, "second paragraph") {
		t.Errorf("paragraph lost: %q", out)
	}
}

func TestScrapePrintableRuns(t *testing.T) {
	t.Parallel()
	in := "\x00\x01Some legacy text here\x00\x02ok\x00more of the document\x05"
	out := scrapePrintableRuns(in, 4)
	if !strings.Contains(out, "Some legacy text here") {
		t.Errorf("long run lost: %q", out)
	}
	if strings.Contains(out, "ok") {
		t.Errorf("short run kept: %q", out)
	}
}
