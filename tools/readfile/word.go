package readfile

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"contentagent/tools"
)

// extractDOCX reads the main document part of the OOXML package. Paragraph
// boundaries become newlines, tabs and breaks keep their meaning.
func extractDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", tools.Upstreamf("open docx %s: %v", path, err)
	}
	defer archive.Close()

	var doc *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", tools.Upstreamf("docx %s has no word/document.xml", path)
	}
	rc, err := doc.Open()
	if err != nil {
		return "", tools.Upstreamf("open document part of %s: %v", path, err)
	}
	defer rc.Close()
	return parseDocumentXML(rc)
}

func parseDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	var inText bool
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", tools.Upstreamf("parse document xml: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// extractDOC scrapes readable text out of the legacy binary Word format.
// There is no full parser here: runs of printable characters long enough to
// be prose are kept, with a UTF-16 pass for files that store text wide.
func extractDOC(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", tools.Upstreamf("read doc %s: %v", path, err)
	}
	text := scrapePrintableRuns(string(data), 4)
	if len(text) < 40 {
		if wide := decodeUTF16LE(data); wide != "" {
			if alt := scrapePrintableRuns(wide, 4); len(alt) > len(text) {
				text = alt
			}
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", tools.NotFoundf("no extractable text in doc %s", path)
	}
	return text, nil
}

// scrapePrintableRuns keeps maximal runs of printable runes of at least
// minRun length, separated by newlines.
func scrapePrintableRuns(s string, minRun int) string {
	var sb strings.Builder
	var run []rune
	flush := func() {
		if len(run) >= minRun {
			sb.WriteString(strings.TrimSpace(string(run)))
			sb.WriteString("\n")
		}
		run = run[:0]
	}
	for _, r := range s {
		if r == utf8.RuneError || (!unicode.IsPrint(r) && r != ' ' && r != '\t') {
			flush()
			continue
		}
		run = append(run, r)
	}
	flush()
	return sb.String()
}

func decodeUTF16LE(data []byte) string {
	if len(data) < 2 {
		return ""
	}
	u16 := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		u16 = append(u16, uint16(data[i])|uint16(data[i+1])<<8)
	}
	return string(utf16.Decode(u16))
}
