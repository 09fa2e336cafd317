package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tts "github.com/Deeks1996/tts-server"
	"github.com/Deeks1996/tts-server/extract"
	"github.com/Deeks1996/tts-server/mock"
)

// Ensure a valid request converts text end-to-end: one synthesis call
// with the exact text, one upload, one insert, audio URL in response.
func TestTTSHandler_Convert(t *testing.T) {
	f := newServerFixture()

	var synthN, uploadN, createN int
	f.speech.SynthesizeFn = func(ctx context.Context, text string) ([]byte, error) {
		synthN++
		if text != "hello world" {
			t.Fatalf("unexpected text: %q", text)
		}
		return []byte("AUDIO"), nil
	}
	f.storage.UploadFn = func(ctx context.Context, key, contentType string, data []byte) (string, error) {
		uploadN++
		return "https://example.com/" + key, nil
	}
	f.conversions.CreateConversionFn = func(ctx context.Context, conversion *tts.Conversion) error {
		createN++
		if conversion.Text != "hello world" {
			t.Fatalf("unexpected text: %q", conversion.Text)
		} else if conversion.UserID != "user-1" {
			t.Fatalf("unexpected user: %q", conversion.UserID)
		}
		return nil
	}

	r := httptest.NewRequest("POST", "/tts/convert", strings.NewReader(`{"text":"hello world"}`))
	r.Header.Set("Authorization", "Bearer TOKEN")
	r.Header.Set("Content-Type", "application/json")
	w := f.do(r)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message  string `json:"message"`
		AudioURL string `json:"audioUrl"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	} else if resp.AudioURL == "" {
		t.Fatal("expected audio url")
	} else if resp.Message != "TTS conversion successful" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}

	if synthN != 1 || uploadN != 1 || createN != 1 {
		t.Fatalf("unexpected call counts: synth=%d upload=%d create=%d", synthN, uploadN, createN)
	}
}

// Ensure an uploaded file's extracted text becomes the effective input.
func TestTTSHandler_Convert_File(t *testing.T) {
	f := newServerFixture()

	f.speech.SynthesizeFn = func(ctx context.Context, text string) ([]byte, error) {
		if text != "a b c d" {
			t.Fatalf("unexpected text: %q", text)
		}
		return []byte("AUDIO"), nil
	}
	f.storage.UploadFn = func(ctx context.Context, key, contentType string, data []byte) (string, error) {
		return "https://example.com/" + key, nil
	}
	f.conversions.CreateConversionFn = func(ctx context.Context, conversion *tts.Conversion) error {
		return nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "data.csv")
	if err != nil {
		t.Fatal(err)
	} else if _, err := io.WriteString(fw, "a,b\nc,d\n"); err != nil {
		t.Fatal(err)
	} else if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest("POST", "/tts/convert", &body)
	r.Header.Set("Authorization", "Bearer TOKEN")
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := f.do(r)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d: %s", w.Code, w.Body.String())
	}
}

// Ensure requests without a bearer token never reach the pipeline.
func TestTTSHandler_Convert_ErrTokenRequired(t *testing.T) {
	f := newServerFixture()

	f.speech.SynthesizeFn = func(ctx context.Context, text string) ([]byte, error) {
		t.Fatal("unexpected synthesis call")
		return nil, nil
	}

	r := httptest.NewRequest("POST", "/tts/convert", strings.NewReader(`{"text":"hi"}`))
	r.Header.Set("Content-Type", "application/json")
	w := f.do(r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

// Ensure a rejected token maps to 401.
func TestTTSHandler_Convert_ErrInvalidToken(t *testing.T) {
	f := newServerFixture()

	r := httptest.NewRequest("POST", "/tts/convert", strings.NewReader(`{"text":"hi"}`))
	r.Header.Set("Authorization", "Bearer WRONG")
	r.Header.Set("Content-Type", "application/json")
	w := f.do(r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

// Ensure provider failures map to 502 with a structured error body.
func TestTTSHandler_Convert_ErrEmptyAudio(t *testing.T) {
	f := newServerFixture()

	f.speech.SynthesizeFn = func(ctx context.Context, text string) ([]byte, error) {
		return nil, tts.ErrEmptyAudio
	}

	r := httptest.NewRequest("POST", "/tts/convert", strings.NewReader(`{"text":"hi"}`))
	r.Header.Set("Authorization", "Bearer TOKEN")
	r.Header.Set("Content-Type", "application/json")
	w := f.do(r)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	var resp struct {
		Err string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	} else if resp.Err != tts.ErrEmptyAudio.Error() {
		t.Fatalf("unexpected error: %q", resp.Err)
	}
}

// Ensure validation failures map to 400.
func TestTTSHandler_Convert_ErrTextRequired(t *testing.T) {
	f := newServerFixture()

	r := httptest.NewRequest("POST", "/tts/convert", strings.NewReader(`{"text":""}`))
	r.Header.Set("Authorization", "Bearer TOKEN")
	r.Header.Set("Content-Type", "application/json")
	w := f.do(r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

// Ensure the history endpoint returns the caller's conversions.
func TestTTSHandler_ListConversions(t *testing.T) {
	f := newServerFixture()

	f.conversions.ConversionsByUserIDFn = func(ctx context.Context, userID string) ([]*tts.Conversion, error) {
		if userID != "user-1" {
			t.Fatalf("unexpected user id: %q", userID)
		}
		return []*tts.Conversion{{ID: 1, UserID: userID, Text: "hi", AudioURL: "https://example.com/x.mp3"}}, nil
	}

	r := httptest.NewRequest("GET", "/tts/conversions", nil)
	r.Header.Set("Authorization", "Bearer TOKEN")
	w := f.do(r)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	var a []*tts.Conversion
	if err := json.NewDecoder(w.Body).Decode(&a); err != nil {
		t.Fatal(err)
	} else if len(a) != 1 || a[0].Text != "hi" {
		t.Fatalf("unexpected conversions: %#v", a)
	}
}

// Ensure registration proxies to the auth backend.
func TestAuthHandler_Register(t *testing.T) {
	f := newServerFixture()

	f.auth.SignUpFn = func(ctx context.Context, email, password string) (*tts.Session, error) {
		if email != "u@example.com" || password != "hunter2" {
			t.Fatalf("unexpected credentials: %q", email)
		}
		return &tts.Session{AccessToken: "AT"}, nil
	}

	r := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"email":"u@example.com","password":"hunter2"}`))
	r.Header.Set("Content-Type", "application/json")
	w := f.do(r)

	if w.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d: %s", w.Code, w.Body.String())
	}
}

// Ensure missing credentials are rejected before the backend call.
func TestAuthHandler_Register_ErrCredentialsRequired(t *testing.T) {
	f := newServerFixture()

	r := httptest.NewRequest("POST", "/auth/register", strings.NewReader(`{"email":"u@example.com"}`))
	r.Header.Set("Content-Type", "application/json")
	w := f.do(r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

// Ensure backend login rejections pass their message through with a 400.
func TestAuthHandler_Login_BackendError(t *testing.T) {
	f := newServerFixture()

	f.auth.SignInFn = func(ctx context.Context, email, password string) (*tts.Session, error) {
		return nil, tts.Error("Invalid login credentials")
	}

	r := httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"email":"u@example.com","password":"wrong"}`))
	r.Header.Set("Content-Type", "application/json")
	w := f.do(r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", w.Code)
	}

	var resp struct {
		Err string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	} else if resp.Err != "Invalid login credentials" {
		t.Fatalf("unexpected error: %q", resp.Err)
	}
}

// serverFixture wires a Server to mocked collaborators with a real
// document extractor.
type serverFixture struct {
	server *Server

	auth        mock.AuthService
	speech      mock.SpeechService
	storage     mock.AudioStorage
	conversions mock.ConversionService
}

func newServerFixture() *serverFixture {
	f := &serverFixture{}
	f.auth.VerifyTokenFn = func(ctx context.Context, token string) (*tts.User, error) {
		if token != "TOKEN" {
			return nil, tts.ErrInvalidToken
		}
		return &tts.User{ID: "user-1"}, nil
	}

	converter := tts.NewConverter()
	converter.TextExtractor = extract.NewExtractor()
	converter.SpeechService = &f.speech
	converter.AudioStorage = &f.storage
	converter.ConversionService = &f.conversions
	converter.GenerateKey = func() string { return "tts_audio/0001.mp3" }

	s := NewServer()
	s.AuthService = &f.auth
	s.ConversionService = &f.conversions
	s.Converter = converter

	f.server = s
	return f
}

func (f *serverFixture) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.server.router().ServeHTTP(w, r)
	return w
}
