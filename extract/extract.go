// Package extract converts uploaded documents into plain text.
//
// Dispatch is by declared MIME type, with the filename extension as a
// fallback signal for Markdown and CSV. The contract is fully extracted
// text or a failure, never partial text, and parse failures never
// propagate as panics.
package extract

import (
	"path/filepath"
	"strings"

	tts "github.com/Deeks1996/tts-server"
)

// MIME types recognized by the extractor.
const (
	mimeText = "text/plain"
	mimePDF  = "application/pdf"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeCSV  = "text/csv"
)

// Ensure extractor implements interface.
var _ tts.TextExtractor = &Extractor{}

// Extractor converts documents into plain text.
type Extractor struct{}

// NewExtractor returns a new instance of Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the plain text content of doc.
// Unrecognized formats fail with tts.ErrUnsupportedFileType.
func (e *Extractor) ExtractText(doc *tts.Document) (string, error) {
	mimeType := doc.MimeType
	if i := strings.Index(mimeType, ";"); i != -1 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(doc.Filename), "."))

	switch {
	case mimeType == mimeText || ext == "md" || ext == "markdown":
		return string(doc.Data), nil
	case mimeType == mimePDF:
		return extractPDF(doc.Data)
	case mimeType == mimeDocx:
		return extractDocx(doc.Data)
	case mimeType == mimeCSV || ext == "csv":
		return extractCSV(doc.Data)
	default:
		return "", tts.ErrUnsupportedFileType
	}
}
