package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/polly"
	"golang.org/x/sync/errgroup"

	tts "github.com/Deeks1996/tts-server"
)

// MaxCharactersPerRequest is the maximum number of characters allowed
// by Polly in a single request. Inputs above it are split and
// synthesized in parallel.
const MaxCharactersPerRequest = 1500

// DefaultVoiceID is the default voice to use when synthesizing speech.
const DefaultVoiceID = "Emma"

// Ensure service implements interface.
var _ tts.SpeechService = &SpeechService{}

// SpeechService represents a speech synthesis service backed by AWS Polly.
type SpeechService struct {
	Session   *Session
	VoiceID   string
	LogOutput io.Writer
}

// NewSpeechService returns a new instance of SpeechService.
func NewSpeechService() *SpeechService {
	return &SpeechService{
		VoiceID:   DefaultVoiceID,
		LogOutput: io.Discard,
	}
}

// Synthesize converts text to an MP3 audio payload.
func (s *SpeechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	// Split into chunks under the per-request limit.
	chunks := splitTextOnParagraphs(text, MaxCharactersPerRequest)

	// Synthesize chunks in parallel.
	bufs := make([][]byte, len(chunks))
	var wg errgroup.Group
	for i, chunk := range chunks {
		i, chunk := i, chunk
		fmt.Fprintf(s.LogOutput, "polly: synthesizing chunk: index=%d len=%d\n", i, len(chunk))

		wg.Go(func() error {
			buf, err := s.synthesizeChunk(ctx, chunk)
			bufs[i] = buf
			return err
		})
	}

	// Wait for the chunks to complete.
	if err := wg.Wait(); err != nil {
		fmt.Fprintf(s.LogOutput, "polly: synthesis error: err=%s\n", err)
		return nil, tts.ErrSpeechUnavailable
	}

	// MP3 frames are self-contained so chunk payloads concatenate directly.
	audio := bytes.Join(bufs, nil)
	if len(audio) == 0 {
		return nil, tts.ErrEmptyAudio
	}
	return audio, nil
}

// synthesizeChunk synthesizes a single chunk of text.
func (s *SpeechService) synthesizeChunk(ctx context.Context, text string) ([]byte, error) {
	svc := polly.New(s.Session.session)

	resp, err := svc.SynthesizeSpeechWithContext(ctx, &polly.SynthesizeSpeechInput{
		OutputFormat: aws.String("mp3"),
		VoiceId:      aws.String(s.VoiceID),
		Text:         aws.String(text),
	})
	if resp != nil && resp.RequestCharacters != nil {
		fmt.Fprintf(s.LogOutput, "polly: response: chars=%d\n", *resp.RequestCharacters)
	}
	if err != nil {
		return nil, err
	}
	defer resp.AudioStream.Close()

	return io.ReadAll(resp.AudioStream)
}

// splitTextOnParagraphs splits into chunks of maxChars-length chunks.
func splitTextOnParagraphs(text string, maxChars int) []string {
	lines := regexp.MustCompile(`\n+`).Split(text, -1)

	var chunks []string
	for _, line := range lines {
		line += "\n"

		// If line is too large for one chunk then split on words.
		if len(line) > maxChars {
			chunks = append(chunks, splitTextOnWords(line, maxChars)...)
			continue
		}

		// Add if this is the first line.
		if len(chunks) == 0 {
			chunks = append(chunks, line)
			continue
		}

		// Add new chunk if adding line will exceed max.
		if len(chunks[len(chunks)-1])+len(line) > maxChars {
			chunks = append(chunks, line)
			continue
		}

		// Append to last chunk.
		chunks[len(chunks)-1] = chunks[len(chunks)-1] + "\n" + line
	}

	return chunks
}

// splitTextOnWords splits into max length chunks at word boundries.
func splitTextOnWords(text string, maxChars int) []string {
	words := regexp.MustCompile(` +`).Split(text, -1)

	chunks := make([]string, 1)
	chunks[0] = words[0]
	for _, word := range words[1:] {
		if len(chunks[len(chunks)-1])+len(word) > maxChars {
			chunks = append(chunks, word)
			continue
		}

		chunks[len(chunks)-1] = chunks[len(chunks)-1] + " " + word
	}

	return chunks
}
