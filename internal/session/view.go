package session

import (
	"sync"
	"time"
)

// TranscriptView tracks where the rendered transcript is scrolled and which
// message carries the transient emphasis after a bookmark reveal. The
// emphasis clears itself after a fixed duration; a newer reveal supersedes
// an older timer instead of being clipped by it.
type TranscriptView struct {
	mu         sync.Mutex
	duration   time.Duration
	scrollTo   string
	emphasized string
	gen        int
}

// NewTranscriptView returns a view whose emphasis lasts the given duration.
func NewTranscriptView(duration time.Duration) *TranscriptView {
	if duration <= 0 {
		duration = 2 * time.Second
	}
	return &TranscriptView{duration: duration}
}

// Reveal scrolls the message into view and applies the transient emphasis.
func (v *TranscriptView) Reveal(messageID string) {
	v.mu.Lock()
	v.scrollTo = messageID
	v.emphasized = messageID
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	time.AfterFunc(v.duration, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.gen == gen {
			v.emphasized = ""
		}
	})
}

// ScrollToLatest records that the view follows transcript growth.
func (v *TranscriptView) ScrollToLatest(messageID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollTo = messageID
}

// ScrollTarget returns the message id the view last scrolled to.
func (v *TranscriptView) ScrollTarget() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollTo
}

// Emphasized returns the currently emphasized message id, "" when none.
func (v *TranscriptView) Emphasized() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.emphasized
}
