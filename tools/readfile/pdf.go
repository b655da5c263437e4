package readfile

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"contentagent/tools"
)

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", tools.Upstreamf("open pdf %s: %v", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single damaged page should not lose the rest of the document.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return "", tools.NotFoundf("no extractable text in pdf %s (it may be scanned images)", path)
	}
	return sb.String(), nil
}
