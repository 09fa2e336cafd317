package mock

import (
	"context"

	tts "github.com/Deeks1996/tts-server"
)

var _ tts.AudioStorage = &AudioStorage{}

type AudioStorage struct {
	UploadFn func(ctx context.Context, key, contentType string, data []byte) (string, error)
}

func (s *AudioStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return s.UploadFn(ctx, key, contentType, data)
}
