package transcript

import (
	"context"
	"errors"
	"testing"
	"time"

	"docchat-client/internal/citation"
)

type fakeService struct {
	answer  Answer
	err     error
	release chan struct{} // when non-nil, Answer blocks until closed
	calls   int
	gotTopK int
}

func (f *fakeService) Answer(ctx context.Context, question string, topK int) (Answer, error) {
	f.calls++
	f.gotTopK = topK
	if f.release != nil {
		<-f.release
	}
	return f.answer, f.err
}

func TestAsk_AppendsUserAndAssistant(t *testing.T) {
	svc := &fakeService{answer: Answer{
		Text: "The main topic is machine learning.",
		Sources: []citation.Citation{
			citation.DocumentCitation{Page: 7, SourceFilename: "a.pdf", Text: "...", Relevance: 0.91},
		},
	}}
	s := NewStore(svc, 3)

	user, assistant, err := s.Ask(context.Background(), "What is the main topic?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if user.Role != RoleUser || user.Text != "What is the main topic?" {
		t.Errorf("user message = %+v", user)
	}
	if assistant.Role != RoleAssistant {
		t.Errorf("assistant role = %s", assistant.Role)
	}
	if len(assistant.Sources) != 1 {
		t.Fatalf("assistant sources = %d, want 1", len(assistant.Sources))
	}
	if s.Len() != 2 {
		t.Errorf("transcript length = %d, want 2", s.Len())
	}
	if s.Loading() {
		t.Error("Loading() = true after completion")
	}
}

func TestAsk_FailureAppendsSyntheticAssistantMessage(t *testing.T) {
	svc := &fakeService{err: errors.New("backend unreachable")}
	s := NewStore(svc, 3)

	_, assistant, err := s.Ask(context.Background(), "anything?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if assistant.Role != RoleAssistant {
		t.Errorf("assistant role = %s", assistant.Role)
	}
	if len(assistant.Sources) != 0 {
		t.Errorf("synthetic message carries %d sources, want 0", len(assistant.Sources))
	}
	if assistant.Text == "" {
		t.Error("synthetic message has empty text")
	}
	if s.Loading() {
		t.Error("Loading() = true after failure")
	}

	// The session stays usable.
	svc.err = nil
	svc.answer = Answer{Text: "recovered"}
	if _, _, err := s.Ask(context.Background(), "again?"); err != nil {
		t.Fatalf("Ask after failure: %v", err)
	}
	if s.Len() != 4 {
		t.Errorf("transcript length = %d, want 4", s.Len())
	}
}

func TestAsk_LoadingFlagDuringFlight(t *testing.T) {
	svc := &fakeService{release: make(chan struct{}), answer: Answer{Text: "ok"}}
	s := NewStore(svc, 3)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Ask(context.Background(), "slow question")
	}()

	// Wait for the user message to land, then observe the flag.
	for s.Len() == 0 {
		time.Sleep(time.Millisecond)
	}
	if !s.Loading() {
		t.Error("Loading() = false while answer in flight")
	}

	close(svc.release)
	<-done
	if s.Loading() {
		t.Error("Loading() = true after completion")
	}
}

func TestAsk_ClosedStoreIsNoOp(t *testing.T) {
	svc := &fakeService{answer: Answer{Text: "ok"}}
	s := NewStore(svc, 3)
	s.Close()

	if _, _, err := s.Ask(context.Background(), "q"); !errors.Is(err, ErrClosed) {
		t.Fatalf("Ask on closed store: err = %v, want ErrClosed", err)
	}
	if s.Len() != 0 {
		t.Errorf("closed store grew to %d messages", s.Len())
	}
}

func TestAsk_CompletionAfterCloseIsNoOp(t *testing.T) {
	svc := &fakeService{release: make(chan struct{}), answer: Answer{Text: "late"}}
	s := NewStore(svc, 3)

	done := make(chan error, 1)
	go func() {
		_, _, err := s.Ask(context.Background(), "q")
		done <- err
	}()
	for s.Len() == 0 {
		time.Sleep(time.Millisecond)
	}

	s.Close()
	close(svc.release)
	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if s.Len() != 1 {
		t.Errorf("transcript length = %d, want 1 (no assistant append after close)", s.Len())
	}
}

func TestMessageIDsAreOrderedAndUnique(t *testing.T) {
	svc := &fakeService{answer: Answer{Text: "ok"}}
	s := NewStore(svc, 3)

	for i := 0; i < 5; i++ {
		if _, _, err := s.Ask(context.Background(), "q"); err != nil {
			t.Fatalf("Ask: %v", err)
		}
	}

	msgs := s.Messages()
	seen := make(map[string]bool)
	for i, m := range msgs {
		if seen[m.ID] {
			t.Fatalf("duplicate id %s", m.ID)
		}
		seen[m.ID] = true
		if i > 0 && !(msgs[i-1].ID < m.ID) {
			t.Errorf("ids not in creation order: %s !< %s", msgs[i-1].ID, m.ID)
		}
	}
}

func TestOnAppend_FiresForEveryGrowth(t *testing.T) {
	svc := &fakeService{answer: Answer{Text: "ok"}}
	s := NewStore(svc, 3)

	var appended []Role
	s.OnAppend(func(m Message) { appended = append(appended, m.Role) })

	s.Ask(context.Background(), "q")
	if len(appended) != 2 || appended[0] != RoleUser || appended[1] != RoleAssistant {
		t.Errorf("append notifications = %v, want [user assistant]", appended)
	}
}

func TestNewStore_ClampsTopK(t *testing.T) {
	svc := &fakeService{answer: Answer{Text: "ok"}}

	s := NewStore(svc, 50)
	s.Ask(context.Background(), "q")
	if svc.gotTopK != 10 {
		t.Errorf("topK = %d, want clamped 10", svc.gotTopK)
	}

	s = NewStore(svc, 0)
	s.Ask(context.Background(), "q")
	if svc.gotTopK != 3 {
		t.Errorf("topK = %d, want default 3", svc.gotTopK)
	}
}
