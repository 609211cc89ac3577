package nav

import (
	"context"
	"testing"

	"docchat-client/internal/citation"
	"docchat-client/internal/transcript"
	"docchat-client/internal/viewer"
)

type fakeView struct {
	revealed []string
}

func (v *fakeView) Reveal(id string) { v.revealed = append(v.revealed, id) }

type stubService struct{}

func (stubService) Answer(ctx context.Context, question string, topK int) (transcript.Answer, error) {
	return transcript.Answer{Text: "an answer"}, nil
}

func readyStream() *viewer.Stream {
	s := viewer.NewStream(viewer.DropPreReady)
	s.MarkReady()
	return s
}

func readyDoc(pages int) *viewer.Document {
	d := viewer.NewDocument()
	d.CompleteLoad(pages)
	return d
}

func TestNavigate_DocumentCitationToDocumentViewer(t *testing.T) {
	c := New()
	doc := readyDoc(10)
	c.BindDocument(doc, transcript.NewStore(stubService{}, 3), &fakeView{})

	c.Navigate(citation.DocumentCitation{Page: 7, SourceFilename: "a.pdf"})
	if got := doc.Page(); got != 7 {
		t.Errorf("page = %d, want 7", got)
	}
}

func TestNavigate_StreamCitationToStreamViewer(t *testing.T) {
	c := New()
	stream := readyStream()
	c.BindStream(stream, transcript.NewStore(stubService{}, 3), &fakeView{})

	c.Navigate(citation.StreamCitation{TimestampSeconds: 125, VideoTitle: "X"})
	if got := stream.Position(); got != 125 {
		t.Errorf("position = %v, want 125", got)
	}
	if !stream.Playing() {
		t.Error("stream not playing after citation navigation")
	}
}

func TestNavigate_KindMismatchIsSilentNoOp(t *testing.T) {
	c := New()
	stream := readyStream()
	c.BindStream(stream, transcript.NewStore(stubService{}, 3), &fakeView{})

	// A document citation during a stream session must not move anything
	// and must not panic.
	c.Navigate(citation.DocumentCitation{Page: 7})
	if stream.Position() != 0 || stream.Playing() {
		t.Errorf("stream moved on mismatched citation: pos=%v playing=%v", stream.Position(), stream.Playing())
	}

	doc := readyDoc(10)
	c.BindDocument(doc, transcript.NewStore(stubService{}, 3), &fakeView{})
	c.Navigate(citation.StreamCitation{TimestampSeconds: 60})
	if doc.Page() != 1 {
		t.Errorf("document moved on mismatched citation: page=%d", doc.Page())
	}
}

func TestNavigate_UnboundCoordinatorIsNoOp(t *testing.T) {
	c := New()
	c.Navigate(citation.DocumentCitation{Page: 3}) // must not panic

	c.BindDocument(readyDoc(5), transcript.NewStore(stubService{}, 3), &fakeView{})
	c.Unbind()
	c.Navigate(citation.DocumentCitation{Page: 3}) // must not panic either
}

func TestRevealBookmark_PresentMessage(t *testing.T) {
	c := New()
	store := transcript.NewStore(stubService{}, 3)
	view := &fakeView{}
	c.BindDocument(readyDoc(5), store, view)

	_, assistant, err := store.Ask(context.Background(), "what is this?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	c.RevealBookmark(assistant.ID)
	if len(view.revealed) != 1 || view.revealed[0] != assistant.ID {
		t.Errorf("revealed = %v, want [%s]", view.revealed, assistant.ID)
	}
}

func TestRevealBookmark_AbsentMessageIsSilentNoOp(t *testing.T) {
	c := New()
	store := transcript.NewStore(stubService{}, 3)
	view := &fakeView{}
	c.BindDocument(readyDoc(5), store, view)

	c.RevealBookmark("no-such-id")
	if len(view.revealed) != 0 {
		t.Errorf("revealed = %v, want none", view.revealed)
	}
}

func TestRevealBookmark_UnboundIsNoOp(t *testing.T) {
	c := New()
	c.RevealBookmark("anything") // must not panic
}
