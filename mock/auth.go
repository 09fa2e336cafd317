package mock

import (
	"context"

	tts "github.com/Deeks1996/tts-server"
)

var _ tts.AuthService = &AuthService{}

type AuthService struct {
	VerifyTokenFn func(ctx context.Context, token string) (*tts.User, error)
	SignUpFn      func(ctx context.Context, email, password string) (*tts.Session, error)
	SignInFn      func(ctx context.Context, email, password string) (*tts.Session, error)
}

func (s *AuthService) VerifyToken(ctx context.Context, token string) (*tts.User, error) {
	return s.VerifyTokenFn(ctx, token)
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*tts.Session, error) {
	return s.SignUpFn(ctx, email, password)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*tts.Session, error) {
	return s.SignInFn(ctx, email, password)
}
