package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Active()
	if guard(w, err) {
		return
	}
	// The input surface disables submission while an answer is in flight;
	// this is that gate for HTTP callers.
	if sess.Transcript.Loading() {
		jsonError(w, "a question is already in flight", http.StatusConflict)
		return
	}

	user, assistant, err := s.sessions.Ask(r.Context(), req.Question)
	if guard(w, err) {
		return
	}
	if err != nil {
		// Session torn down mid-flight; the completed answer is a no-op.
		jsonError(w, "session closed", http.StatusGone)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":      toMessageDTO(user),
		"assistant": toMessageDTO(assistant),
	})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Active()
	if guard(w, err) {
		return
	}

	msgs := sess.Transcript.Messages()
	out := make([]messageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageDTO(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": out,
		"loading":  sess.Transcript.Loading(),
	})
}

// handleNavigate dispatches a clicked source. Contract mismatches (absent
// message, bad index, citation kind not matching the mounted viewer) are
// deliberately invisible: the response is 204 either way and the viewer
// position simply does not move.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MessageID   string `json:"message_id"`
		SourceIndex int    `json:"source_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.MessageID == "" {
		jsonError(w, "message_id is required", http.StatusBadRequest)
		return
	}

	if err := s.sessions.NavigateSource(req.MessageID, req.SourceIndex); guard(w, err) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetPage is the manual paging surface. The viewer remains the single
// source of truth: the committed page comes back in the response, which may
// differ from the request when it was out of range.
func (s *Server) handleSetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Active()
	if guard(w, err) {
		return
	}
	if sess.Doc == nil {
		jsonError(w, "active session has no document viewer", http.StatusConflict)
		return
	}
	sess.Doc.SetPage(req.Page)
	writeJSON(w, http.StatusOK, map[string]any{
		"page":        sess.Doc.Page(),
		"total_pages": sess.Doc.TotalPages(),
		"state":       sess.Doc.State(),
	})
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seconds float64 `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Active()
	if guard(w, err) {
		return
	}
	if sess.Stream == nil {
		jsonError(w, "active session has no stream viewer", http.StatusConflict)
		return
	}
	sess.Stream.Seek(req.Seconds)
	writeJSON(w, http.StatusOK, map[string]any{
		"ready":    sess.Stream.Ready(),
		"position": sess.Stream.Position(),
		"playing":  sess.Stream.Playing(),
	})
}
