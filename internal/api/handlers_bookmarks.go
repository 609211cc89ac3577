package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"docchat-client/internal/bookmark"
	"docchat-client/internal/citation"
	"docchat-client/internal/session"

	"github.com/go-chi/chi/v5"
)

type bookmarkDTO struct {
	MessageID    string          `json:"message_id"`
	Question     string          `json:"question"`
	Answer       string          `json:"answer"`
	Sources      []citation.Wire `json:"sources"`
	BookmarkedAt time.Time       `json:"bookmarked_at"`
}

func toBookmarkDTO(b bookmark.Bookmark) bookmarkDTO {
	return bookmarkDTO{
		MessageID:    b.MessageID,
		Question:     b.Question,
		Answer:       b.Answer,
		Sources:      citation.ToWireList(b.Sources),
		BookmarkedAt: b.BookmarkedAt,
	}
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Active()
	if guard(w, err) {
		return
	}

	all := sess.Bookmarks.All()
	out := make([]bookmarkDTO, 0, len(all))
	for _, b := range all {
		out = append(out, toBookmarkDTO(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookmarks": out})
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID string `json:"message_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.MessageID == "" {
		jsonError(w, "message_id is required", http.StatusBadRequest)
		return
	}

	err := s.sessions.AddBookmark(req.MessageID)
	if guard(w, err) {
		return
	}
	if errors.Is(err, session.ErrNotBookmarkable) {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Active()
	if guard(w, err) {
		return
	}
	sess.Bookmarks.Remove(chi.URLParam(r, "messageID"))
	w.WriteHeader(http.StatusNoContent)
}

// handleClearBookmarks requires confirm=true: clearing everything is the
// one destructive bulk action, and the confirmation step lives here at the
// boundary rather than in the store.
func (s *Server) handleClearBookmarks(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Active()
	if guard(w, err) {
		return
	}
	if r.URL.Query().Get("confirm") != "true" {
		jsonError(w, "clearing all bookmarks requires confirm=true", http.StatusBadRequest)
		return
	}
	sess.Bookmarks.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRevealBookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.RevealBookmark(chi.URLParam(r, "messageID")); guard(w, err) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
