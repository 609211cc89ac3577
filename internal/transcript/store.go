// Package transcript holds the ordered log of user/assistant exchanges for
// the active session. Messages are immutable after creation and are never
// reordered or removed; their ids are the only key other subsystems use to
// refer to them.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"docchat-client/internal/citation"

	"github.com/google/uuid"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Sources is empty for user messages.
type Message struct {
	ID        string
	Role      Role
	Text      string
	Sources   []citation.Citation
	CreatedAt time.Time
}

// Answer is what the external answer service returns for a question.
type Answer struct {
	Text    string
	Sources []citation.Citation
}

// AnswerService is the retrieval backend boundary consumed by Ask.
type AnswerService interface {
	Answer(ctx context.Context, question string, topK int) (Answer, error)
}

// AppendFunc observes transcript growth (the UI scrolls to latest on it).
type AppendFunc func(Message)

// ErrBusy is returned by callers that gate submission while a question is
// in flight. The store itself does not enforce mutual exclusion; see Ask.
var ErrBusy = errors.New("a question is already in flight")

// ErrClosed is returned when asking on a torn-down session.
var ErrClosed = errors.New("transcript is closed")

// Store is the session's transcript. One store per mounted session.
type Store struct {
	mu       sync.Mutex
	messages []Message
	loading  bool
	closed   bool
	onAppend []AppendFunc

	svc  AnswerService
	topK int
}

// NewStore creates an empty transcript backed by the given answer service.
func NewStore(svc AnswerService, topK int) *Store {
	if topK < 1 {
		topK = 3
	}
	if topK > 10 {
		topK = 10
	}
	return &Store{svc: svc, topK: topK}
}

// OnAppend registers an observer called after each append.
func (s *Store) OnAppend(fn AppendFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAppend = append(s.onAppend, fn)
}

// Ask appends the user message, raises the loading flag, awaits the answer
// service, then appends the assistant message — or, on failure, a synthetic
// assistant message carrying the error text with no sources, leaving the
// session usable for further questions.
//
// Loading is a single session-wide flag. The store does not enforce mutual
// exclusion between concurrent Asks; the input surface is expected to
// disable submission while Loading is true. If two are in flight anyway,
// completion order determines transcript order.
func (s *Store) Ask(ctx context.Context, question string) (user, assistant Message, err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Message{}, Message{}, ErrClosed
	}
	s.loading = true
	topK := s.topK
	s.mu.Unlock()

	user = s.append(RoleUser, question, nil)

	ans, svcErr := s.svc.Answer(ctx, question, topK)

	s.mu.Lock()
	if s.closed {
		// Session was torn down while the answer was in flight. Its
		// completion must be a safe no-op on unmounted state.
		s.mu.Unlock()
		return user, Message{}, ErrClosed
	}
	s.loading = false
	s.mu.Unlock()

	if svcErr != nil {
		assistant = s.append(RoleAssistant,
			fmt.Sprintf("Sorry, I couldn't answer that: %v. Please try again.", svcErr), nil)
		return user, assistant, nil
	}
	assistant = s.append(RoleAssistant, ans.Text, ans.Sources)
	return user, assistant, nil
}

// append creates and stores a message, then notifies observers. IDs are
// UUIDv7: unique within the session and time-ordered, so creation order is
// recoverable from the id alone.
func (s *Store) append(role Role, text string, sources []citation.Citation) Message {
	msg := Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      role,
		Text:      text,
		Sources:   append([]citation.Citation(nil), sources...),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return msg
	}
	s.messages = append(s.messages, msg)
	observers := append([]AppendFunc(nil), s.onAppend...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(msg)
	}
	return msg
}

// Loading reports whether an answer is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Messages returns a copy of the ordered transcript.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Find looks a message up by id.
func (s *Store) Find(id string) (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Close marks the transcript torn down. In-flight Asks complete as no-ops.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.loading = false
}
