package mock

import (
	"context"

	tts "github.com/Deeks1996/tts-server"
)

var _ tts.ConversionService = &ConversionService{}

type ConversionService struct {
	CreateConversionFn    func(ctx context.Context, conversion *tts.Conversion) error
	ConversionsByUserIDFn func(ctx context.Context, userID string) ([]*tts.Conversion, error)
}

func (s *ConversionService) CreateConversion(ctx context.Context, conversion *tts.Conversion) error {
	return s.CreateConversionFn(ctx, conversion)
}

func (s *ConversionService) ConversionsByUserID(ctx context.Context, userID string) ([]*tts.Conversion, error) {
	return s.ConversionsByUserIDFn(ctx, userID)
}
