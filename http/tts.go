package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	tts "github.com/Deeks1996/tts-server"
)

// DefaultMaxUploadBytes is the default cap on uploaded document size.
const DefaultMaxUploadBytes = 10 << 20

// ttsHandler represents an HTTP handler for text-to-speech conversion.
// All routes require a verified bearer token; no extraction or
// synthesis work happens for unauthenticated requests.
type ttsHandler struct {
	router chi.Router

	maxUploadBytes int64

	// Services
	authService       tts.AuthService
	conversionService tts.ConversionService
	converter         *tts.Converter
}

// newTTSHandler returns a new instance of ttsHandler.
func newTTSHandler() *ttsHandler {
	h := &ttsHandler{
		router:         chi.NewRouter(),
		maxUploadBytes: DefaultMaxUploadBytes,
	}
	h.router.Use(h.requireAuth)
	h.router.Post("/convert", h.handleConvert)
	h.router.Get("/conversions", h.handleListConversions)
	return h
}

// ServeHTTP implements http.Handler.
func (h *ttsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// requireAuth resolves the bearer token to a user and stores it in the
// request context. Requests without a valid token never reach the
// conversion pipeline.
func (h *ttsHandler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := bearerToken(r)
		if token == "" {
			Error(w, r, tts.ErrTokenRequired)
			return
		}

		user, err := h.authService.VerifyToken(ctx, token)
		if err != nil {
			Error(w, r, err)
			return
		} else if user == nil {
			Error(w, r, tts.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(tts.NewContext(ctx, user)))
	})
}

func (h *ttsHandler) handleConvert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := tts.FromContext(ctx)

	req := tts.ConversionRequest{UserID: user.ID}

	// The body is either a multipart form with a file and/or text
	// field, or a JSON object with a text field.
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			Error(w, r, ErrInvalidRequestBody)
			return
		}
		req.Text = r.FormValue("text")

		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				Error(w, r, ErrInvalidRequestBody)
				return
			}
			req.Document = &tts.Document{
				MimeType: header.Header.Get("Content-Type"),
				Filename: header.Filename,
				Data:     data,
			}
		} else if err != http.ErrMissingFile {
			Error(w, r, ErrInvalidRequestBody)
			return
		}
	} else {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadBytes)).Decode(&body); err != nil {
			Error(w, r, ErrInvalidRequestBody)
			return
		}
		req.Text = body.Text
	}

	// Run the conversion pipeline.
	conversion, err := h.converter.Convert(ctx, &req)
	if err != nil {
		Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&convertResponse{
		Message:  "TTS conversion successful",
		AudioURL: conversion.AudioURL,
	})
}

func (h *ttsHandler) handleListConversions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := tts.FromContext(ctx)

	conversions, err := h.conversionService.ConversionsByUserID(ctx, user.ID)
	if err != nil {
		Error(w, r, err)
		return
	}
	if conversions == nil {
		conversions = []*tts.Conversion{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(conversions)
}

// bearerToken extracts the bearer credential from the request, if any.
func bearerToken(r *http.Request) string {
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
		return fields[1]
	}
	return ""
}

type convertResponse struct {
	Message  string `json:"message"`
	AudioURL string `json:"audioUrl"`
}
