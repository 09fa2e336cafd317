package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	tts "github.com/Deeks1996/tts-server"
)

const (
	ErrInvalidRequestBody = tts.Error("invalid request body")
)

// errorMap is a whitelist that maps errors to status codes. Client
// input errors map to 4xx so the caller knows to fix its request;
// upstream provider failures map to 502 so it knows a retry may help.
var errorMap = map[error]int{
	tts.ErrTokenRequired:       http.StatusUnauthorized,
	tts.ErrInvalidToken:        http.StatusUnauthorized,
	tts.ErrUnauthorized:        http.StatusUnauthorized,
	tts.ErrCredentialsRequired: http.StatusBadRequest,
	tts.ErrUnsupportedFileType: http.StatusBadRequest,
	tts.ErrUnreadableDocument:  http.StatusBadRequest,
	tts.ErrTextRequired:        http.StatusBadRequest,
	tts.ErrTextTooLong:         http.StatusBadRequest,
	ErrInvalidRequestBody:      http.StatusBadRequest,
	tts.ErrSpeechUnavailable:   http.StatusBadGateway,
	tts.ErrEmptyAudio:          http.StatusBadGateway,
	tts.ErrAudioUploadFailed:   http.StatusInternalServerError,
	tts.ErrConversionNotSaved:  http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an error object.
func ErrorStatusCode(err error) int {
	if code, ok := errorMap[err]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// Error writes an error response to the writer.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	// Determine status code.
	code := ErrorStatusCode(err)

	// Log error.
	if logOutput := FromContext(r.Context()); logOutput != nil {
		fmt.Fprintf(logOutput, "http error: %d %s\n", code, err.Error())
	}

	// Mask unrecognized errors from end users.
	if _, ok := errorMap[err]; !ok {
		err = tts.ErrInternal
	}

	// Write response.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(&errorResponse{Err: err.Error()})
}

type errorResponse struct {
	Err     string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}
