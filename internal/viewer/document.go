// Package viewer models the two content viewer command surfaces: a
// paginated document and a seekable video stream. Each viewer is the single
// source of truth for its own position; callers request changes and observe
// the committed result through notifications.
package viewer

import "sync"

// LoadState is the document viewer's lifecycle.
type LoadState string

const (
	StateLoading LoadState = "loading"
	StateReady   LoadState = "ready"
	// StateFailed is terminal for the viewer instance; recovery is a
	// user-initiated reload (a new viewer).
	StateFailed LoadState = "failed"
)

// PageChangedFunc observes committed page changes.
type PageChangedFunc func(page int)

// Document renders one page of a paginated document at a time. The page
// count becomes known asynchronously once the document finishes loading;
// until then the latest SetPage request is buffered and applied on load.
type Document struct {
	mu         sync.Mutex
	state      LoadState
	page       int
	totalPages int
	pending    int // latest buffered request; 0 = none
	loadErr    error

	onPageChanged []PageChangedFunc
}

// NewDocument returns a viewer in the loading state, positioned on page 1.
func NewDocument() *Document {
	return &Document{state: StateLoading, page: 1}
}

// OnPageChanged registers an observer for committed page changes.
func (d *Document) OnPageChanged(fn PageChangedFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onPageChanged = append(d.onPageChanged, fn)
}

// SetPage requests page n. Before load completes the latest request is
// buffered (a newer request overwrites an older unapplied one). After load,
// out-of-range requests are ignored and the current page is retained —
// citation page numbers come from a separate extraction process and may be
// slightly off, so the viewer never errors the caller.
func (d *Document) SetPage(n int) {
	d.mu.Lock()
	switch d.state {
	case StateLoading:
		d.pending = n
		d.mu.Unlock()
		return
	case StateFailed:
		d.mu.Unlock()
		return
	}
	if n < 1 || n > d.totalPages {
		d.mu.Unlock()
		return
	}
	d.page = n
	observers := append([]PageChangedFunc(nil), d.onPageChanged...)
	d.mu.Unlock()

	for _, fn := range observers {
		fn(n)
	}
}

// CompleteLoad marks the document loaded with the given page count and
// applies the buffered request, if any, under the same range policy.
func (d *Document) CompleteLoad(totalPages int) {
	d.mu.Lock()
	if d.state != StateLoading {
		d.mu.Unlock()
		return
	}
	d.state = StateReady
	if totalPages < 1 {
		totalPages = 1
	}
	d.totalPages = totalPages

	committed := 0
	if d.pending >= 1 && d.pending <= totalPages {
		d.page = d.pending
		committed = d.pending
	}
	d.pending = 0
	observers := append([]PageChangedFunc(nil), d.onPageChanged...)
	d.mu.Unlock()

	if committed != 0 {
		for _, fn := range observers {
			fn(committed)
		}
	}
}

// FailLoad moves the viewer to its terminal failed state.
func (d *Document) FailLoad(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateLoading {
		return
	}
	d.state = StateFailed
	d.loadErr = err
	d.pending = 0
}

// Page returns the current page.
func (d *Document) Page() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

// TotalPages returns the page count, 0 until load completes.
func (d *Document) TotalPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalPages
}

// State returns the current load state.
func (d *Document) State() LoadState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Err returns the load error, nil unless failed.
func (d *Document) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loadErr
}
