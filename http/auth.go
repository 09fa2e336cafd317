package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	tts "github.com/Deeks1996/tts-server"
)

// authHandler represents an HTTP handler proxying registration and
// login to the identity backend.
type authHandler struct {
	router chi.Router

	authService tts.AuthService
}

// newAuthHandler returns a new instance of authHandler.
func newAuthHandler() *authHandler {
	h := &authHandler{router: chi.NewRouter()}
	h.router.Post("/register", h.handleRegister)
	h.router.Post("/login", h.handleLogin)
	return h
}

// ServeHTTP implements http.Handler.
func (h *authHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *authHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, password, err := decodeCredentials(r)
	if err != nil {
		Error(w, r, err)
		return
	}

	session, err := h.authService.SignUp(ctx, email, password)
	if err != nil {
		backendError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(&authResponse{
		Message: "user registered successfully",
		Data:    session,
	})
}

func (h *authHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, password, err := decodeCredentials(r)
	if err != nil {
		Error(w, r, err)
		return
	}

	session, err := h.authService.SignIn(ctx, email, password)
	if err != nil {
		backendError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&authResponse{
		Message: "login successful",
		Data:    session,
	})
}

func decodeCredentials(r *http.Request) (email, password string, err error) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", "", ErrInvalidRequestBody
	} else if body.Email == "" || body.Password == "" {
		return "", "", tts.ErrCredentialsRequired
	}
	return body.Email, body.Password, nil
}

// backendError reports an identity backend rejection. These are caused
// by the caller's credentials so the backend's message passes through
// with a 400, unlike the masking applied by Error.
func backendError(w http.ResponseWriter, r *http.Request, err error) {
	if logOutput := FromContext(r.Context()); logOutput != nil {
		fmt.Fprintf(logOutput, "http auth error: %s\n", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(&errorResponse{Err: err.Error()})
}

type authResponse struct {
	Message string       `json:"message"`
	Data    *tts.Session `json:"data,omitempty"`
}
