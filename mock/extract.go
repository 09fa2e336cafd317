package mock

import (
	tts "github.com/Deeks1996/tts-server"
)

var _ tts.TextExtractor = &TextExtractor{}

type TextExtractor struct {
	ExtractTextFn func(doc *tts.Document) (string, error)
}

func (e *TextExtractor) ExtractText(doc *tts.Document) (string, error) {
	return e.ExtractTextFn(doc)
}
