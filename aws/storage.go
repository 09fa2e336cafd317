package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"

	tts "github.com/Deeks1996/tts-server"
)

// DefaultBucket is the bucket used for synthesized audio objects.
const DefaultBucket = "ttsaudio"

// Ensure service implements interface.
var _ tts.AudioStorage = &AudioStorage{}

// AudioStorage stores audio objects in S3 or an S3-compatible store.
type AudioStorage struct {
	Session *Session

	// Target bucket for audio objects.
	Bucket string

	// Endpoint overrides the AWS S3 endpoint for S3-compatible stores.
	// Path-style addressing is used when set.
	Endpoint string

	// PublicBaseURL is the base under which stored objects are publicly
	// reachable. The public URL of an object is PublicBaseURL + "/" + key.
	PublicBaseURL string

	LogOutput io.Writer
}

// NewAudioStorage returns a new instance of AudioStorage.
func NewAudioStorage() *AudioStorage {
	return &AudioStorage{
		Bucket:    DefaultBucket,
		LogOutput: io.Discard,
	}
}

// Upload stores data under key and returns the object's public URL.
// The URL is derived from the configured base URL; no extra round trip
// to the store is made.
func (s *AudioStorage) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	svc := s3.New(s.Session.session, s.config())

	if _, err := svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}); err != nil {
		fmt.Fprintf(s.LogOutput, "s3: upload error: bucket=%s key=%s err=%s\n", s.Bucket, key, err)
		return "", err
	}

	fmt.Fprintf(s.LogOutput, "s3: uploaded: bucket=%s key=%s bytes=%d\n", s.Bucket, key, len(data))
	return s.ObjectURL(key), nil
}

// ObjectURL returns the public URL for the object stored under key.
func (s *AudioStorage) ObjectURL(key string) string {
	if s.PublicBaseURL != "" {
		return strings.TrimSuffix(s.PublicBaseURL, "/") + "/" + key
	}
	if s.Endpoint != "" {
		return strings.TrimSuffix(s.Endpoint, "/") + "/" + s.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.Bucket, key)
}

func (s *AudioStorage) config() *aws.Config {
	cfg := &aws.Config{}
	if s.Endpoint != "" {
		cfg.Endpoint = aws.String(s.Endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	return cfg
}
