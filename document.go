package tts

// Document errors.
const (
	ErrUnsupportedFileType = Error("unsupported file format")
	ErrUnreadableDocument  = Error("unable to extract text from file")
)

// Document represents an uploaded document held fully in memory.
// Only the text derived from it is ever persisted.
type Document struct {
	MimeType string
	Filename string
	Data     []byte
}

// TextExtractor converts an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(doc *Document) (string, error)
}
