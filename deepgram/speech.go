// Package deepgram provides speech synthesis through the Deepgram
// speak API.
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	tts "github.com/Deeks1996/tts-server"
)

// DefaultBaseURL is the production Deepgram API endpoint.
const DefaultBaseURL = "https://api.deepgram.com"

// DefaultTimeout bounds a single synthesis call when the caller's
// context carries no deadline.
const DefaultTimeout = 30 * time.Second

// Ensure service implements interface.
var _ tts.SpeechService = &SpeechService{}

// SpeechService represents a service for synthesizing speech over the
// Deepgram HTTP API.
type SpeechService struct {
	// API settings.
	APIKey  string
	BaseURL string

	Timeout    time.Duration
	HTTPClient *http.Client

	LogOutput io.Writer
}

// NewSpeechService returns a new instance of SpeechService.
func NewSpeechService() *SpeechService {
	return &SpeechService{
		BaseURL:    DefaultBaseURL,
		Timeout:    DefaultTimeout,
		HTTPClient: http.DefaultClient,
		LogOutput:  io.Discard,
	}
}

// Synthesize converts text to an MP3 audio payload. The text is sent
// verbatim; an empty response body is reported as tts.ErrEmptyAudio
// even when the provider returns a success status.
func (s *SpeechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	// Apply the default timeout unless the caller set a deadline.
	if _, ok := ctx.Deadline(); !ok && s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.BaseURL+"/v1/speak", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		fmt.Fprintf(s.LogOutput, "deepgram: request error: err=%s\n", err)
		return nil, tts.ErrSpeechUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(s.LogOutput, "deepgram: error response: status=%d body=%s\n", resp.StatusCode, bytes.TrimSpace(buf))
		return nil, tts.ErrSpeechUnavailable
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(s.LogOutput, "deepgram: read error: err=%s\n", err)
		return nil, tts.ErrSpeechUnavailable
	} else if len(audio) == 0 {
		return nil, tts.ErrEmptyAudio
	}

	fmt.Fprintf(s.LogOutput, "deepgram: synthesized: chars=%d bytes=%d\n", len(text), len(audio))
	return audio, nil
}
