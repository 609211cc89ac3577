// Package bookmark keeps the user-curated subset of assistant messages.
// A bookmark is a value snapshot taken at add time, keyed by message id,
// with a lifetime independent of the transcript.
package bookmark

import (
	"sync"
	"time"

	"docchat-client/internal/citation"
	"docchat-client/internal/transcript"
)

// Bookmark is a snapshot of one question/answer exchange. It never changes
// after creation, even if the originating message somehow did.
type Bookmark struct {
	MessageID    string
	Question     string
	Answer       string
	Sources      []citation.Citation
	BookmarkedAt time.Time
}

// Store holds the session's bookmarks in add order.
type Store struct {
	mu    sync.Mutex
	byID  map[string]Bookmark
	order []string
}

// NewStore returns an empty bookmark store.
func NewStore() *Store {
	return &Store{byID: make(map[string]Bookmark)}
}

// Add snapshots an assistant message together with the question that
// produced it. Idempotent by message id: a duplicate add is a no-op and the
// snapshot from the first add is preserved.
func (s *Store) Add(msg transcript.Message, question string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[msg.ID]; ok {
		return
	}
	s.byID[msg.ID] = Bookmark{
		MessageID:    msg.ID,
		Question:     question,
		Answer:       msg.Text,
		Sources:      append([]citation.Citation(nil), msg.Sources...),
		BookmarkedAt: time.Now(),
	}
	s.order = append(s.order, msg.ID)
}

// Remove drops the bookmark for the given message id. Absent id is a no-op.
func (s *Store) Remove(messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[messageID]; !ok {
		return
	}
	delete(s.byID, messageID)
	for i, id := range s.order {
		if id == messageID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// IsBookmarked reports whether the message id has a bookmark.
func (s *Store) IsBookmarked(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[messageID]
	return ok
}

// Get returns the bookmark for a message id.
func (s *Store) Get(messageID string) (Bookmark, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[messageID]
	return b, ok
}

// All returns the bookmarks in add order.
func (s *Store) All() []Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Bookmark, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Clear removes all bookmarks. The confirmation step guarding this lives at
// the UI boundary, not here.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]Bookmark)
	s.order = nil
}
