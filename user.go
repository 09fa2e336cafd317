package tts

import (
	"context"
	"time"
)

// Auth errors.
const (
	ErrTokenRequired       = Error("authorization token required")
	ErrInvalidToken        = Error("invalid authorization token")
	ErrCredentialsRequired = Error("email and password required")
)

// User represents an authenticated user in the system.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session represents an authenticated session issued by the auth backend.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// AuthService represents a service for verifying tokens and managing
// user accounts against an external identity backend.
type AuthService interface {
	VerifyToken(ctx context.Context, token string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
}
