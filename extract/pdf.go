package extract

import (
	"bytes"
	"strings"

	tts "github.com/Deeks1996/tts-server"
	"github.com/ledongthuc/pdf"
)

// NoTextInPDF is returned for PDFs that parse but contain no
// extractable text. This is a successful extraction, not a failure.
const NoTextInPDF = "No text found in PDF."

// extractPDF returns the text content of a PDF, page by page. Text
// items are joined with a single space within a page and pages are
// joined with a newline.
func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", tts.ErrUnreadableDocument
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", tts.ErrUnreadableDocument
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() || page.V.Key("Contents").IsNull() {
			pages = append(pages, "")
			continue
		}

		var items []string
		for _, t := range page.Content().Text {
			if t.S != "" {
				items = append(items, t.S)
			}
		}
		pages = append(pages, strings.Join(items, " "))
	}

	joined := strings.Join(pages, "\n")
	if strings.TrimSpace(joined) == "" {
		return NoTextInPDF, nil
	}
	return joined, nil
}
