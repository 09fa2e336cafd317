package tts

import "context"

// Speech errors.
const (
	ErrSpeechUnavailable = Error("speech service unavailable")
	ErrEmptyAudio        = Error("speech service returned empty audio")
)

// SpeechService represents a service for synthesizing speech from text.
// Implementations return the complete encoded audio payload and must
// never return an empty payload without an error.
type SpeechService interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
