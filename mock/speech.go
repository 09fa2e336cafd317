package mock

import (
	"context"

	tts "github.com/Deeks1996/tts-server"
)

var _ tts.SpeechService = &SpeechService{}

type SpeechService struct {
	SynthesizeFn func(ctx context.Context, text string) ([]byte, error)
}

func (s *SpeechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return s.SynthesizeFn(ctx, text)
}
