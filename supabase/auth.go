// Package supabase provides authentication against a Supabase
// (GoTrue-compatible) identity backend.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	tts "github.com/Deeks1996/tts-server"
)

// Ensure service implements interface.
var _ tts.AuthService = &AuthService{}

// AuthService represents a service for verifying tokens and managing
// accounts through the identity backend's REST API. The backend is
// treated as opaque: any non-success verification response maps to
// tts.ErrInvalidToken.
type AuthService struct {
	// Project base URL, e.g. https://xyzcompany.supabase.co
	BaseURL string

	// Publishable key sent as the apikey header on every request.
	APIKey string

	HTTPClient *http.Client

	LogOutput io.Writer
}

// NewAuthService returns a new instance of AuthService.
func NewAuthService() *AuthService {
	return &AuthService{
		HTTPClient: http.DefaultClient,
		LogOutput:  io.Discard,
	}
}

// VerifyToken resolves a bearer token to the user it belongs to.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*tts.User, error) {
	if token == "" {
		return nil, tts.ErrTokenRequired
	}

	req, err := http.NewRequestWithContext(ctx, "GET", s.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.APIKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		fmt.Fprintf(s.LogOutput, "supabase: verify request error: err=%s\n", err)
		return nil, tts.ErrInvalidToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(s.LogOutput, "supabase: verify rejected: status=%d\n", resp.StatusCode)
		return nil, tts.ErrInvalidToken
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil || user.ID == "" {
		return nil, tts.ErrInvalidToken
	}

	return &tts.User{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt}, nil
}

// SignUp registers a new user with the identity backend.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*tts.Session, error) {
	return s.postCredentials(ctx, "/auth/v1/signup", email, password)
}

// SignIn authenticates an existing user and returns a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*tts.Session, error) {
	return s.postCredentials(ctx, "/auth/v1/token?grant_type=password", email, password)
}

func (s *AuthService) postCredentials(ctx context.Context, path, email, password string) (*tts.Session, error) {
	if email == "" || password == "" {
		return nil, tts.ErrCredentialsRequired
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(errorMessage(resp.Body, resp.StatusCode))
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}

	out := &tts.Session{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
	}
	if session.User != nil {
		out.User = &tts.User{ID: session.User.ID, Email: session.User.Email, CreatedAt: session.User.CreatedAt}
	} else if session.ID != "" {
		// Signup with confirmation enabled returns a bare user object.
		out.User = &tts.User{ID: session.ID, Email: session.Email, CreatedAt: session.CreatedAt}
	}
	return out, nil
}

// errorMessage extracts a human-readable message from an error response.
func errorMessage(r io.Reader, statusCode int) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(r).Decode(&body); err == nil {
		switch {
		case body.Msg != "":
			return body.Msg
		case body.Message != "":
			return body.Message
		case body.ErrorDescription != "":
			return body.ErrorDescription
		}
	}
	return fmt.Sprintf("auth backend returned status %d", statusCode)
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"`
	User         *userResponse `json:"user"`

	// Bare user fields, present on signup responses.
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
