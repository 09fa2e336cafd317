package tts

import "context"

// Storage errors.
const (
	ErrAudioUploadFailed = Error("audio upload failed")
)

// AudioStorage represents a service for storing audio objects under a
// publicly resolvable URL. Upload returns the public URL of the stored
// object, built from the backend's known base URL and the key without
// an extra round trip.
type AudioStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
