package deepgram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tts "github.com/Deeks1996/tts-server"
	"github.com/Deeks1996/tts-server/deepgram"
)

// Ensure the effective input is sent verbatim with the API credential
// and the binary payload is returned.
func TestSpeechService_Synthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/v1/speak" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		} else if got := r.Header.Get("Authorization"); got != "Token KEY" {
			t.Fatalf("unexpected authorization header: %q", got)
		}

		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		} else if body.Text != "hello world" {
			t.Fatalf("unexpected text: %q", body.Text)
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("AUDIO"))
	}))
	defer srv.Close()

	s := deepgram.NewSpeechService()
	s.APIKey = "KEY"
	s.BaseURL = srv.URL

	audio, err := s.Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatal(err)
	} else if string(audio) != "AUDIO" {
		t.Fatalf("unexpected audio: %q", audio)
	}
}

// Ensure a zero-length success response is reported as empty audio.
func TestSpeechService_Synthesize_ErrEmptyAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := deepgram.NewSpeechService()
	s.BaseURL = srv.URL

	if _, err := s.Synthesize(context.Background(), "hello"); err != tts.ErrEmptyAudio {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure provider error statuses map to the unavailable error.
func TestSpeechService_Synthesize_ErrSpeechUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err_msg":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := deepgram.NewSpeechService()
	s.BaseURL = srv.URL

	if _, err := s.Synthesize(context.Background(), "hello"); err != tts.ErrSpeechUnavailable {
		t.Fatalf("unexpected error: %v", err)
	}

	// An unreachable endpoint maps the same way.
	s.BaseURL = "http://127.0.0.1:0"
	if _, err := s.Synthesize(context.Background(), "hello"); err != tts.ErrSpeechUnavailable {
		t.Fatalf("unexpected error: %v", err)
	}
}
