package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	tts "github.com/Deeks1996/tts-server"
)

// docxDocumentPath is the zip entry holding the document body in an
// OOXML word-processing file.
const docxDocumentPath = "word/document.xml"

// extractDocx returns the raw text content of an OOXML word-processing
// document, discarding all formatting. Text runs (<w:t>) are collected
// in order and paragraphs are separated by newlines.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", tts.ErrUnreadableDocument
	}

	var f *zip.File
	for _, zf := range zr.File {
		if zf.Name == docxDocumentPath {
			f = zf
			break
		}
	}
	if f == nil {
		return "", tts.ErrUnreadableDocument
	}

	rc, err := f.Open()
	if err != nil {
		return "", tts.ErrUnreadableDocument
	}
	defer rc.Close()

	var buf strings.Builder
	var inText bool
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", tts.ErrUnreadableDocument
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}

	return strings.TrimSpace(buf.String()), nil
}
