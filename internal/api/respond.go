package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"docchat-client/internal/citation"
	"docchat-client/internal/render"
	"docchat-client/internal/session"
	"docchat-client/internal/transcript"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// guard writes the no-session response and reports whether it did.
func guard(w http.ResponseWriter, err error) bool {
	if errors.Is(err, session.ErrNoSession) {
		jsonError(w, "no content loaded", http.StatusNotFound)
		return true
	}
	return false
}

type messageDTO struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Text      string          `json:"text"`
	HTML      string          `json:"html,omitempty"`
	Sources   []citation.Wire `json:"sources"`
	CreatedAt time.Time       `json:"created_at"`
}

func toMessageDTO(m transcript.Message) messageDTO {
	dto := messageDTO{
		ID:        m.ID,
		Role:      string(m.Role),
		Text:      m.Text,
		Sources:   citation.ToWireList(m.Sources),
		CreatedAt: m.CreatedAt,
	}
	if m.Role == transcript.RoleAssistant {
		dto.HTML = render.Markdown(m.Text)
	}
	return dto
}

type viewerDTO struct {
	// Document fields
	State      string `json:"state,omitempty"`
	Page       int    `json:"page,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`
	// Stream fields
	Ready    *bool    `json:"ready,omitempty"`
	Position *float64 `json:"position,omitempty"`
	Playing  *bool    `json:"playing,omitempty"`
}

type sessionDTO struct {
	SessionID    string    `json:"session_id"`
	Kind         string    `json:"kind"`
	ContentRef   string    `json:"content_ref"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	Loading      bool      `json:"loading"`
	Viewer       viewerDTO `json:"viewer"`
	SplitLeftPct float64   `json:"split_left_pct"`
	ScrollTarget string    `json:"scroll_target,omitempty"`
	Emphasized   string    `json:"emphasized,omitempty"`
}

func toSessionDTO(s *session.Session) sessionDTO {
	dto := sessionDTO{
		SessionID:    s.ID,
		Kind:         string(s.Descriptor.Kind),
		ContentRef:   s.Descriptor.ContentRef,
		Title:        s.Descriptor.Title,
		CreatedAt:    s.Descriptor.CreatedAt,
		Loading:      s.Transcript.Loading(),
		SplitLeftPct: s.Split.LeftPct(),
		ScrollTarget: s.View.ScrollTarget(),
		Emphasized:   s.View.Emphasized(),
	}
	switch {
	case s.Doc != nil:
		dto.Viewer = viewerDTO{
			State:      string(s.Doc.State()),
			Page:       s.Doc.Page(),
			TotalPages: s.Doc.TotalPages(),
		}
	case s.Stream != nil:
		ready := s.Stream.Ready()
		position := s.Stream.Position()
		playing := s.Stream.Playing()
		dto.Viewer = viewerDTO{
			Ready:    &ready,
			Position: &position,
			Playing:  &playing,
		}
	}
	return dto
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
