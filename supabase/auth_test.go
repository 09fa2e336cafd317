package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tts "github.com/Deeks1996/tts-server"
	"github.com/Deeks1996/tts-server/supabase"
)

// Ensure a bearer token resolves to its user.
func TestAuthService_VerifyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		} else if got := r.Header.Get("Authorization"); got != "Bearer TOKEN" {
			t.Fatalf("unexpected authorization header: %q", got)
		} else if got := r.Header.Get("apikey"); got != "ANON" {
			t.Fatalf("unexpected apikey header: %q", got)
		}

		json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "email": "u@example.com"})
	}))
	defer srv.Close()

	s := supabase.NewAuthService()
	s.BaseURL = srv.URL
	s.APIKey = "ANON"

	user, err := s.VerifyToken(context.Background(), "TOKEN")
	if err != nil {
		t.Fatal(err)
	} else if user.ID != "user-1" {
		t.Fatalf("unexpected user id: %q", user.ID)
	} else if user.Email != "u@example.com" {
		t.Fatalf("unexpected email: %q", user.Email)
	}
}

// Ensure a missing token fails without contacting the backend.
func TestAuthService_VerifyToken_ErrTokenRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request")
	}))
	defer srv.Close()

	s := supabase.NewAuthService()
	s.BaseURL = srv.URL

	if _, err := s.VerifyToken(context.Background(), ""); err != tts.ErrTokenRequired {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure backend rejection maps to an invalid token error.
func TestAuthService_VerifyToken_ErrInvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"invalid JWT"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := supabase.NewAuthService()
	s.BaseURL = srv.URL

	if _, err := s.VerifyToken(context.Background(), "EXPIRED"); err != tts.ErrInvalidToken {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure sign-in returns the backend session.
func TestAuthService_SignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		} else if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Fatalf("unexpected grant type: %q", got)
		}

		var body struct{ Email, Password string }
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		} else if body.Email != "u@example.com" || body.Password != "hunter2" {
			t.Fatalf("unexpected credentials: %q", body.Email)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "AT",
			"refresh_token": "RT",
			"token_type":    "bearer",
			"expires_in":    3600,
			"user":          map[string]string{"id": "user-1", "email": "u@example.com"},
		})
	}))
	defer srv.Close()

	s := supabase.NewAuthService()
	s.BaseURL = srv.URL

	session, err := s.SignIn(context.Background(), "u@example.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	} else if session.AccessToken != "AT" {
		t.Fatalf("unexpected access token: %q", session.AccessToken)
	} else if session.User == nil || session.User.ID != "user-1" {
		t.Fatalf("unexpected session user: %#v", session.User)
	}
}

// Ensure sign-up rejection surfaces the backend's message.
func TestAuthService_SignUp_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"msg":"User already registered"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	s := supabase.NewAuthService()
	s.BaseURL = srv.URL

	if _, err := s.SignUp(context.Background(), "u@example.com", "hunter2"); err == nil {
		t.Fatal("expected error")
	} else if err.Error() != "User already registered" {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure missing credentials are rejected without a request.
func TestAuthService_SignUp_ErrCredentialsRequired(t *testing.T) {
	s := supabase.NewAuthService()

	if _, err := s.SignUp(context.Background(), "", "hunter2"); err != tts.ErrCredentialsRequired {
		t.Fatalf("unexpected error: %v", err)
	}
}
