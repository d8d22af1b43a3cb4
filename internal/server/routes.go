package server

import (
	"log/slog"
	"net/http"

	"github.com/crieapp/crie-api/internal/auth"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing. Generation and
// user routes require a bearer token; auth and health routes do not.
func NewRouter(h *Handlers, tokens *auth.Manager, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()
	authed := AuthMiddleware(tokens)

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("POST /api/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("GET /api/auth/verify", h.Verify)

	mux.Handle("GET /api/users/{id}", authed(http.HandlerFunc(h.GetUser)))
	mux.Handle("PUT /api/users/{id}/tokens", authed(http.HandlerFunc(h.SetUserTokens)))

	mux.Handle("POST /api/music", authed(http.HandlerFunc(h.GenerateMusic)))
	mux.Handle("POST /api/music/extend", authed(http.HandlerFunc(h.ExtendMusic)))
	mux.Handle("GET /api/music/{taskId}", authed(http.HandlerFunc(h.MusicStatus)))
	mux.Handle("GET /api/music/{taskId}/wait", authed(http.HandlerFunc(h.MusicWait)))
	mux.Handle("GET /api/music/{taskId}/video", authed(http.HandlerFunc(h.MusicVideoStatus)))
	mux.Handle("GET /api/music/{taskId}/video/wait", authed(http.HandlerFunc(h.MusicVideoWait)))

	mux.Handle("POST /api/video", authed(http.HandlerFunc(h.GenerateVideo)))
	mux.Handle("GET /api/video/{generationId}", authed(http.HandlerFunc(h.VideoStatus)))
	mux.Handle("GET /api/video/{generationId}/wait", authed(http.HandlerFunc(h.VideoWait)))

	// Apply middleware chain
	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
