package tts

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"
)

// Conversion errors.
const (
	ErrTextRequired           = Error("text required")
	ErrTextTooLong            = Error("text exceeds maximum length")
	ErrConversionNotSaved     = Error("conversion record not saved")
	ErrConversionUserRequired = Error("conversion user required")
	ErrAudioURLRequired       = Error("audio url required")
)

// MaxTextLen is the maximum number of characters accepted for synthesis.
const MaxTextLen = 2000

// Conversion represents one completed text-to-speech conversion.
// Records are insert-only; they are never updated or deleted.
type Conversion struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	AudioURL  string    `json:"audio_url"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversionService represents a service for persisting conversion records.
type ConversionService interface {
	CreateConversion(ctx context.Context, conversion *Conversion) error
	ConversionsByUserID(ctx context.Context, userID string) ([]*Conversion, error)
}

// ConversionRequest represents a single request to convert text or an
// uploaded document to speech. Exactly one effective text source must
// resolve: the direct text field, or the document's extracted text.
type ConversionRequest struct {
	Text     string
	Document *Document
	UserID   string
}

// ValidateText checks that s is acceptable input for speech synthesis.
// It returns s unchanged; no normalization is performed.
func ValidateText(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrTextRequired
	} else if utf8.RuneCountInString(s) > MaxTextLen {
		return "", ErrTextTooLong
	}
	return s, nil
}

// Converter runs the conversion pipeline: resolve the effective input
// text, synthesize speech, store the audio, and record the conversion.
// Each step is a hard gate; a failure aborts the remaining steps and no
// partial result is committed. A stored audio object whose record
// insert fails is left in place for an external reconciliation job.
type Converter struct {
	TextExtractor     TextExtractor
	SpeechService     SpeechService
	AudioStorage      AudioStorage
	ConversionService ConversionService

	// GenerateKey returns the storage key for a new audio object.
	GenerateKey func() string

	Now       func() time.Time
	LogOutput io.Writer
}

// NewConverter returns a new instance of Converter.
func NewConverter() *Converter {
	return &Converter{
		GenerateKey: GenerateAudioKey,
		Now:         time.Now,
		LogOutput:   io.Discard,
	}
}

// Convert processes a single conversion request and returns the
// persisted conversion. The request's user must already be authorized;
// no synthesis work happens for unauthenticated callers.
func (c *Converter) Convert(ctx context.Context, req *ConversionRequest) (*Conversion, error) {
	// Resolve effective input text.
	text := req.Text
	if req.Document != nil {
		s, err := c.TextExtractor.ExtractText(req.Document)
		if err != nil {
			fmt.Fprintf(c.LogOutput, "convert: extract error: file=%s type=%s err=%s\n", req.Document.Filename, req.Document.MimeType, err)
			return nil, err
		}
		text = s
	}
	text, err := ValidateText(text)
	if err != nil {
		return nil, err
	}

	// Synthesize speech. An empty payload without an error is still a
	// failure and nothing may be stored for it.
	audio, err := c.SpeechService.Synthesize(ctx, text)
	if err != nil {
		fmt.Fprintf(c.LogOutput, "convert: synthesis error: user=%s err=%s\n", req.UserID, err)
		return nil, err
	} else if len(audio) == 0 {
		return nil, ErrEmptyAudio
	}

	// Store the audio under a collision-resistant key.
	key := c.GenerateKey()
	audioURL, err := c.AudioStorage.Upload(ctx, key, AudioContentType, audio)
	if err != nil {
		fmt.Fprintf(c.LogOutput, "convert: upload error: key=%s err=%s\n", key, err)
		return nil, ErrAudioUploadFailed
	}

	// Record the conversion. The uploaded object is not removed if this
	// fails; see ConversionService for the orphaned object policy.
	conversion := &Conversion{
		UserID:    req.UserID,
		Text:      text,
		AudioURL:  audioURL,
		CreatedAt: c.Now(),
	}
	if err := c.ConversionService.CreateConversion(ctx, conversion); err != nil {
		fmt.Fprintf(c.LogOutput, "convert: create conversion error: user=%s key=%s err=%s\n", req.UserID, key, err)
		return nil, ErrConversionNotSaved
	}

	fmt.Fprintf(c.LogOutput, "convert: completed: user=%s chars=%d bytes=%d\n", req.UserID, utf8.RuneCountInString(text), len(audio))
	return conversion, nil
}
