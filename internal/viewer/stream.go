package viewer

import "sync"

// PreReadyPolicy names what happens to seek requests that arrive before the
// underlying player reports ready. The reference behavior drops them; the
// buffered variant mirrors the document viewer's latest-wins buffering.
type PreReadyPolicy string

const (
	DropPreReady   PreReadyPolicy = "drop"
	BufferPreReady PreReadyPolicy = "buffer"
)

// SeekedFunc observes committed seeks.
type SeekedFunc func(seconds float64)

// Stream renders a seekable video. The seek capability exists only after
// the player reports ready; mute and pause are local toggles outside the
// synchronization contract.
type Stream struct {
	mu       sync.Mutex
	policy   PreReadyPolicy
	ready    bool
	position float64
	playing  bool
	muted    bool
	pending  *float64 // buffered pre-ready seek, only under BufferPreReady

	onSeeked []SeekedFunc
}

// NewStream returns a not-ready viewer with the given pre-ready policy.
func NewStream(policy PreReadyPolicy) *Stream {
	if policy == "" {
		policy = DropPreReady
	}
	return &Stream{policy: policy}
}

// OnSeeked registers an observer for committed seeks.
func (s *Stream) OnSeeked(fn SeekedFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSeeked = append(s.onSeeked, fn)
}

// Seek moves playback to the given timestamp and resumes playing — a
// citation click is a "take me there and play" intent. Negative timestamps
// are ignored. Before readiness the request is dropped or buffered
// (latest wins) depending on the configured policy.
func (s *Stream) Seek(seconds float64) {
	if seconds < 0 {
		return
	}
	s.mu.Lock()
	if !s.ready {
		if s.policy == BufferPreReady {
			v := seconds
			s.pending = &v
		}
		s.mu.Unlock()
		return
	}
	s.position = seconds
	s.playing = true
	observers := append([]SeekedFunc(nil), s.onSeeked...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(seconds)
	}
}

// MarkReady records that the player finished initializing. Under
// BufferPreReady a pending request is applied immediately.
func (s *Stream) MarkReady() {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return
	}
	s.ready = true
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending != nil {
		s.Seek(*pending)
	}
}

// Ready reports whether the seek capability is available.
func (s *Stream) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Position returns the current playback position in seconds.
func (s *Stream) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Playing reports whether playback is active.
func (s *Stream) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Pause stops playback without moving the position.
func (s *Stream) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

// SetMuted toggles the local mute flag.
func (s *Stream) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

// Muted reports the local mute flag.
func (s *Stream) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}
