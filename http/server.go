package http

import (
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/acme/autocert"

	tts "github.com/Deeks1996/tts-server"
)

// Server represents an HTTP server.
type Server struct {
	ln net.Listener

	// Services
	AuthService       tts.AuthService
	ConversionService tts.ConversionService
	Converter         *tts.Converter

	// Server options.
	Addr        string // bind address
	Host        string // external hostname
	Autocert    bool   // ACME autocert
	Recoverable bool   // panic recovery

	// MaxUploadBytes caps the size of an uploaded document. Payloads
	// are held fully in memory for the duration of a request.
	MaxUploadBytes int64

	LogOutput io.Writer
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	return &Server{
		Recoverable:    true,
		MaxUploadBytes: DefaultMaxUploadBytes,
		LogOutput:      io.Discard,
	}
}

// Open opens the server.
func (s *Server) Open() error {
	// Open listener on specified bind address.
	// Use HTTPS port if autocert is enabled.
	if s.Autocert {
		s.ln = autocert.NewListener(s.Host)
	} else {
		ln, err := net.Listen("tcp", s.Addr)
		if err != nil {
			return err
		}
		s.ln = ln
	}

	// Start HTTP server.
	go http.Serve(s.ln, s.router())

	return nil
}

// Close closes the socket.
func (s *Server) Close() error {
	if s.ln != nil {
		s.ln.Close()
	}
	return nil
}

// URL returns a base URL string with the scheme and host.
// This is available after the server has been opened.
func (s *Server) URL() url.URL {
	if s.ln == nil {
		return url.URL{}
	}

	if s.Autocert {
		return url.URL{Scheme: "https", Host: s.Host}
	}
	return url.URL{Scheme: "http", Host: s.ln.Addr().String()}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	// Attach router middleware.
	r.Use(middleware.RealIP)
	if s.Recoverable {
		r.Use(middleware.Recoverer)
	}
	// Carry the log output in request context for error reporting.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s.LogOutput)))
		})
	})

	r.Mount("/debug", middleware.Profiler())

	// Create API routes.
	r.Route("/", func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Get("/ping", s.handlePing)
		r.Mount("/auth", s.authHandler())
		r.Mount("/tts", s.ttsHandler())
	})

	return r
}

// handlePing returns a success so load balancers can verify liveness.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (s *Server) authHandler() *authHandler {
	h := newAuthHandler()
	h.authService = s.AuthService
	return h
}

func (s *Server) ttsHandler() *ttsHandler {
	h := newTTSHandler()
	h.authService = s.AuthService
	h.conversionService = s.ConversionService
	h.converter = s.Converter
	h.maxUploadBytes = s.MaxUploadBytes
	return h
}
