// Package citation defines the source-citation model shared by the
// transcript, bookmark, and navigation packages. A citation is a pointer
// from an assistant answer back to the document page or video timestamp
// that supports it.
package citation

import "fmt"

// ContentKind selects which content viewer a session mounts and which
// citation variant is actionable in it.
type ContentKind string

const (
	KindDocument ContentKind = "document"
	KindStream   ContentKind = "stream"
)

// Citation is a closed sum over the two source variants. The retrieval
// backend tags each source; the tag determines which fields are present.
// Adding a new content kind means adding a variant here and a case at
// every type switch, which the compiler's exhaustiveness over the two
// concrete types makes easy to audit.
type Citation interface {
	// Kind reports which viewer the citation targets.
	Kind() ContentKind
	// Snippet returns the supporting passage text.
	Snippet() string
	// Score returns the backend's relevance score in [0,1]. Display only;
	// source order as returned is preserved.
	Score() float64

	isCitation()
}

// DocumentCitation points into a paginated document.
type DocumentCitation struct {
	Page           int     `json:"page"`
	SourceFilename string  `json:"filename"`
	Text           string  `json:"text"`
	Relevance      float64 `json:"score"`
}

func (DocumentCitation) Kind() ContentKind { return KindDocument }
func (c DocumentCitation) Snippet() string { return c.Text }
func (c DocumentCitation) Score() float64  { return c.Relevance }
func (DocumentCitation) isCitation()       {}

// StreamCitation points into a seekable video.
type StreamCitation struct {
	TimestampSeconds   float64 `json:"timestamp"`
	VideoTitle         string  `json:"video_title"`
	VideoURL           string  `json:"video_url,omitempty"`
	Text               string  `json:"text"`
	Relevance          float64 `json:"score"`
	TimestampFormatted string  `json:"timestamp_formatted,omitempty"`
}

func (StreamCitation) Kind() ContentKind { return KindStream }
func (c StreamCitation) Snippet() string { return c.Text }
func (c StreamCitation) Score() float64  { return c.Relevance }
func (StreamCitation) isCitation()       {}

// FormatTimestamp returns the backend-provided display string when present,
// otherwise derives mm:ss (or h:mm:ss) from the raw seconds. Display only.
func (c StreamCitation) FormatTimestamp() string {
	if c.TimestampFormatted != "" {
		return c.TimestampFormatted
	}
	total := int(c.TimestampSeconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
