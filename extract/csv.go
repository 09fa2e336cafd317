package extract

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	tts "github.com/Deeks1996/tts-server"
)

// extractCSV flattens a CSV file into plain text. Every record's fields
// are joined with a single space, records are concatenated in file
// order, and the final result is trimmed. All records are included;
// there is no header row handling.
func extractCSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var buf strings.Builder
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", tts.ErrUnreadableDocument
		}
		buf.WriteString(strings.Join(record, " "))
		buf.WriteString(" ")
	}

	return strings.TrimSpace(buf.String()), nil
}
