package tts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AudioKeyPrefix is the storage namespace for synthesized audio objects.
const AudioKeyPrefix = "tts_audio"

// AudioContentType is the media type of synthesized audio payloads.
const AudioContentType = "audio/mpeg"

// GenerateAudioKey returns a storage key for a synthesized audio object.
// Keys carry a millisecond timestamp so objects list in rough
// chronological order; the random suffix prevents collisions between
// concurrent requests.
func GenerateAudioKey() string {
	return fmt.Sprintf("%s/%d-%s.mp3", AudioKeyPrefix, time.Now().UnixMilli(), uuid.NewString())
}
