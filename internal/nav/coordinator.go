// Package nav translates citation clicks into commands on the mounted
// content viewer, and bookmark clicks into transcript reveals. The
// coordinator owns no state of its own: it dispatches over whichever
// handles are currently bound and is re-bound on every mount/unmount.
package nav

import (
	"sync"

	"docchat-client/internal/citation"
	"docchat-client/internal/transcript"
	"docchat-client/internal/viewer"
)

// TranscriptView is the rendered transcript surface: it can scroll a
// message into view and apply the transient emphasis around it.
type TranscriptView interface {
	Reveal(messageID string)
}

// Coordinator dispatches navigation events for the active session.
type Coordinator struct {
	mu     sync.Mutex
	kind   citation.ContentKind
	doc    *viewer.Document
	stream *viewer.Stream
	log    *transcript.Store
	view   TranscriptView
}

// New returns an unbound coordinator. Every Navigate before a bind is a
// no-op.
func New() *Coordinator {
	return &Coordinator{}
}

// BindDocument wires the coordinator to a document session's handles.
func (c *Coordinator) BindDocument(doc *viewer.Document, log *transcript.Store, view TranscriptView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kind = citation.KindDocument
	c.doc = doc
	c.stream = nil
	c.log = log
	c.view = view
}

// BindStream wires the coordinator to a stream session's handles.
func (c *Coordinator) BindStream(stream *viewer.Stream, log *transcript.Store, view TranscriptView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kind = citation.KindStream
	c.stream = stream
	c.doc = nil
	c.log = log
	c.view = view
}

// Unbind drops all handles on unmount.
func (c *Coordinator) Unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kind = ""
	c.doc = nil
	c.stream = nil
	c.log = nil
	c.view = nil
}

// Navigate dispatches a clicked citation to the mounted viewer. A citation
// whose variant does not match the active content kind is silently ignored:
// the backend should only return matching citations, and a mismatch is an
// upstream contract violation the user cannot act on. The viewer's own
// command surface handles range checks, so the coordinator never mutates
// position directly.
func (c *Coordinator) Navigate(target citation.Citation) {
	c.mu.Lock()
	kind, doc, stream := c.kind, c.doc, c.stream
	c.mu.Unlock()

	switch t := target.(type) {
	case citation.DocumentCitation:
		if kind == citation.KindDocument && doc != nil {
			doc.SetPage(t.Page)
		}
	case citation.StreamCitation:
		if kind == citation.KindStream && stream != nil {
			stream.Seek(t.TimestampSeconds)
		}
	}
}

// RevealBookmark relocates the transcript view to the referenced message.
// An absent message (or no bound session) is a silent no-op — the
// transcript never removes messages, so this indicates an internal
// inconsistency rather than a user-actionable condition.
func (c *Coordinator) RevealBookmark(messageID string) {
	c.mu.Lock()
	log, view := c.log, c.view
	c.mu.Unlock()

	if log == nil || view == nil {
		return
	}
	if _, ok := log.Find(messageID); !ok {
		return
	}
	view.Reveal(messageID)
}
