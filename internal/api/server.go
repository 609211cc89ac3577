// Package api exposes the session gateway to the browser UI as a JSON API.
// It is a thin boundary: every state transition happens inside the session
// manager and its stores; handlers only decode, dispatch, and encode.
package api

import (
	"log/slog"
	"net/http"

	"docchat-client/internal/backend"
	"docchat-client/internal/config"
	"docchat-client/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP API server for the docchat client gateway.
type Server struct {
	router   chi.Router
	sessions *session.Manager
	backend  *backend.Client
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Manager, bc *backend.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		backend:  bc,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session/document", s.handleUploadDocument)
		r.Post("/session/youtube", s.handleUploadYouTube)
		r.Get("/session", s.handleGetSession)
		r.Delete("/session", s.handleCloseSession)
		r.Post("/session/player-ready", s.handlePlayerReady)

		r.Post("/ask", s.handleAsk)
		r.Get("/transcript", s.handleTranscript)
		r.Post("/navigate", s.handleNavigate)

		r.Post("/viewer/page", s.handleSetPage)
		r.Post("/viewer/seek", s.handleSeek)

		r.Get("/bookmarks", s.handleListBookmarks)
		r.Post("/bookmarks", s.handleAddBookmark)
		r.Delete("/bookmarks", s.handleClearBookmarks)
		r.Delete("/bookmarks/{messageID}", s.handleRemoveBookmark)
		r.Post("/bookmarks/{messageID}/reveal", s.handleRevealBookmark)
	})

	s.router = r
}

// handleHealth reports the gateway's view of the backend: healthy or
// degraded per the backend's own probe, unreachable when the probe fails.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backendStatus := "unreachable"
	if status, err := s.backend.Health(r.Context()); err == nil {
		backendStatus = status
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"backend": backendStatus,
	})
}
