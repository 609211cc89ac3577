// Package session composes the stores, viewers, and navigation coordinator
// for one active session. At most one session exists at a time — starting a
// new one replaces the previous, matching the backend, which keeps a single
// ingested content. Absence of a session is a guard state: every operation
// returns ErrNoSession and nothing else mounts.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"docchat-client/internal/backend"
	"docchat-client/internal/bookmark"
	"docchat-client/internal/citation"
	"docchat-client/internal/nav"
	"docchat-client/internal/splitpane"
	"docchat-client/internal/transcript"
	"docchat-client/internal/viewer"

	"github.com/google/uuid"
)

// ErrNoSession is returned when no content is loaded.
var ErrNoSession = errors.New("no active session")

// ErrNotBookmarkable is returned when a bookmark add targets a message that
// is not an assistant answer.
var ErrNotBookmarkable = errors.New("only assistant messages can be bookmarked")

// Backend is the slice of the RAG backend the session manager consumes.
// *backend.Client satisfies it.
type Backend interface {
	transcript.AnswerService
	UploadPDF(ctx context.Context, filename string, data []byte, progress backend.ProgressFunc) (backend.UploadResult, error)
	UploadYouTube(ctx context.Context, url string) (backend.YouTubeResult, error)
}

// TitleResolver looks up a video title when the backend omits one.
// *videometa.Client satisfies it.
type TitleResolver interface {
	Title(ctx context.Context, videoID string) (string, error)
}

// Descriptor identifies the content a session is mounted over. Immutable
// for the session's lifetime.
type Descriptor struct {
	Kind       citation.ContentKind
	ContentRef string // filename for documents, video id for streams
	Title      string
	CreatedAt  time.Time
}

// Options tune per-session behavior.
type Options struct {
	TopK             int
	PreReadySeek     viewer.PreReadyPolicy
	EmphasisDuration time.Duration
	SplitInitialPct  float64
	SplitMinPct      float64
	SplitMaxPct      float64
}

// Session is one mounted {viewer + transcript + bookmarks} instance.
type Session struct {
	ID         string
	Descriptor Descriptor

	Transcript *transcript.Store
	Bookmarks  *bookmark.Store
	View       *TranscriptView
	Split      *splitpane.Pane

	// Exactly one of the two is non-nil, per Descriptor.Kind.
	Doc    *viewer.Document
	Stream *viewer.Stream
}

// Manager owns the active session and the navigation coordinator bound to
// it. The coordinator is re-bound on every mount and unbound on teardown.
type Manager struct {
	mu      sync.Mutex
	active  *Session
	coord   *nav.Coordinator
	backend Backend
	titles  TitleResolver
	opts    Options
	log     *slog.Logger

	// countPages is viewer.CountPages, swappable in tests.
	countPages func(r io.Reader) (int, error)
}

// NewManager creates a manager with no active session.
func NewManager(b Backend, titles TitleResolver, opts Options, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		coord:      nav.New(),
		backend:    b,
		titles:     titles,
		opts:       opts,
		log:        log,
		countPages: viewer.CountPages,
	}
}

// StartDocument uploads a PDF to the backend and mounts a document session.
// The page count is computed locally and asynchronously; until it lands,
// page requests buffer in the viewer.
func (m *Manager) StartDocument(ctx context.Context, filename string, data []byte, progress backend.ProgressFunc) (*Session, error) {
	res, err := m.backend.UploadPDF(ctx, filename, data, progress)
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	s := m.newSession(Descriptor{
		Kind:       citation.KindDocument,
		ContentRef: res.Filename,
		Title:      res.Filename,
		CreatedAt:  time.Now(),
	})
	s.Doc = viewer.NewDocument()

	m.mount(s)
	m.coord.BindDocument(s.Doc, s.Transcript, s.View)

	// The document "loads" by counting pages from the uploaded bytes.
	go func() {
		pages, err := m.countPages(bytes.NewReader(data))
		if err != nil {
			m.log.Error("document load failed", "filename", filename, "error", err)
			s.Doc.FailLoad(err)
			return
		}
		s.Doc.CompleteLoad(pages)
		m.log.Info("document loaded", "filename", filename, "pages", pages)
	}()

	m.log.Info("document session started", "session_id", s.ID, "filename", res.Filename, "chunks", res.TotalChunks)
	return s, nil
}

// StartStream asks the backend to ingest a YouTube video and mounts a
// stream session. The player starts not-ready; PlayerReady flips it once
// the embedded player reports in.
func (m *Manager) StartStream(ctx context.Context, videoURL string) (*Session, error) {
	res, err := m.backend.UploadYouTube(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("upload youtube: %w", err)
	}

	title := res.VideoTitle
	if title == "" && m.titles != nil {
		if t, err := m.titles.Title(ctx, res.VideoID); err == nil {
			title = t
		} else {
			m.log.Warn("video title lookup failed", "video_id", res.VideoID, "error", err)
		}
	}

	s := m.newSession(Descriptor{
		Kind:       citation.KindStream,
		ContentRef: res.VideoID,
		Title:      title,
		CreatedAt:  time.Now(),
	})
	s.Stream = viewer.NewStream(m.opts.PreReadySeek)

	m.mount(s)
	m.coord.BindStream(s.Stream, s.Transcript, s.View)

	m.log.Info("stream session started", "session_id", s.ID, "video_id", res.VideoID, "chunks", res.TotalChunks)
	return s, nil
}

func (m *Manager) newSession(desc Descriptor) *Session {
	s := &Session{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Descriptor: desc,
		Transcript: transcript.NewStore(m.backend, m.opts.TopK),
		Bookmarks:  bookmark.NewStore(),
		View:       NewTranscriptView(m.opts.EmphasisDuration),
		Split:      splitpane.New(m.opts.SplitInitialPct, m.opts.SplitMinPct, m.opts.SplitMaxPct),
	}
	// Scroll-to-latest whenever the transcript grows.
	s.Transcript.OnAppend(func(msg transcript.Message) {
		s.View.ScrollToLatest(msg.ID)
	})
	return s
}

// mount replaces the active session, tearing the previous one down first.
func (m *Manager) mount(s *Session) {
	m.mu.Lock()
	old := m.active
	m.active = s
	m.mu.Unlock()

	if old != nil {
		old.Transcript.Close()
		m.log.Info("previous session unmounted", "session_id", old.ID)
	}
}

// Active returns the mounted session, or ErrNoSession in the guard state.
func (m *Manager) Active() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil, ErrNoSession
	}
	return m.active, nil
}

// Close unmounts the active session. Completions of in-flight asks become
// no-ops on the closed transcript.
func (m *Manager) Close() {
	m.mu.Lock()
	old := m.active
	m.active = nil
	m.mu.Unlock()

	m.coord.Unbind()
	if old != nil {
		old.Transcript.Close()
		m.log.Info("session closed", "session_id", old.ID)
	}
}

// Ask runs one question through the active session's transcript.
func (m *Manager) Ask(ctx context.Context, question string) (user, assistant transcript.Message, err error) {
	s, err := m.Active()
	if err != nil {
		return transcript.Message{}, transcript.Message{}, err
	}
	return s.Transcript.Ask(ctx, question)
}

// Navigate dispatches a clicked citation through the coordinator.
func (m *Manager) Navigate(target citation.Citation) error {
	if _, err := m.Active(); err != nil {
		return err
	}
	m.coord.Navigate(target)
	return nil
}

// NavigateSource resolves message id + source index to a citation and
// dispatches it. An absent message or index is silently absorbed, matching
// the coordinator's policy for upstream inconsistencies.
func (m *Manager) NavigateSource(messageID string, sourceIndex int) error {
	s, err := m.Active()
	if err != nil {
		return err
	}
	msg, ok := s.Transcript.Find(messageID)
	if !ok || sourceIndex < 0 || sourceIndex >= len(msg.Sources) {
		return nil
	}
	m.coord.Navigate(msg.Sources[sourceIndex])
	return nil
}

// RevealBookmark scrolls the transcript to a bookmarked message.
func (m *Manager) RevealBookmark(messageID string) error {
	if _, err := m.Active(); err != nil {
		return err
	}
	m.coord.RevealBookmark(messageID)
	return nil
}

// AddBookmark snapshots an assistant message. The question stored with it
// is the nearest preceding user message.
func (m *Manager) AddBookmark(messageID string) error {
	s, err := m.Active()
	if err != nil {
		return err
	}
	msg, ok := s.Transcript.Find(messageID)
	if !ok {
		return fmt.Errorf("message %s not found", messageID)
	}
	if msg.Role != transcript.RoleAssistant {
		return ErrNotBookmarkable
	}
	s.Bookmarks.Add(msg, m.questionFor(s, messageID))
	return nil
}

func (m *Manager) questionFor(s *Session, assistantID string) string {
	msgs := s.Transcript.Messages()
	question := ""
	for _, msg := range msgs {
		if msg.ID == assistantID {
			break
		}
		if msg.Role == transcript.RoleUser {
			question = msg.Text
		}
	}
	return question
}

// PlayerReady reports the embedded player finished initializing. No-op for
// document sessions.
func (m *Manager) PlayerReady() error {
	s, err := m.Active()
	if err != nil {
		return err
	}
	if s.Stream != nil {
		s.Stream.MarkReady()
	}
	return nil
}
