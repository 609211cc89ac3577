package citation

// Wire is the flat source shape the retrieval backend returns and the
// gateway re-emits to its own clients. The Type tag carries the variant:
// "pdf" maps to DocumentCitation, "youtube" to StreamCitation.
type Wire struct {
	Type               string  `json:"type"`
	Page               int     `json:"page,omitempty"`
	Filename           string  `json:"filename,omitempty"`
	Timestamp          float64 `json:"timestamp,omitempty"`
	VideoTitle         string  `json:"video_title,omitempty"`
	VideoURL           string  `json:"video_url,omitempty"`
	Text               string  `json:"text"`
	Score              float64 `json:"score"`
	TimestampFormatted string  `json:"timestamp_formatted,omitempty"`
}

const (
	wireTypePDF     = "pdf"
	wireTypeYouTube = "youtube"
)

// FromWire converts a backend source into a Citation. Unknown type tags
// return nil; callers skip them rather than failing the whole answer.
func FromWire(w Wire) Citation {
	switch w.Type {
	case wireTypePDF:
		return DocumentCitation{
			Page:           w.Page,
			SourceFilename: w.Filename,
			Text:           w.Text,
			Relevance:      w.Score,
		}
	case wireTypeYouTube:
		return StreamCitation{
			TimestampSeconds:   w.Timestamp,
			VideoTitle:         w.VideoTitle,
			VideoURL:           w.VideoURL,
			Text:               w.Text,
			Relevance:          w.Score,
			TimestampFormatted: w.TimestampFormatted,
		}
	default:
		return nil
	}
}

// ToWire converts a Citation back to the flat wire shape.
func ToWire(c Citation) Wire {
	switch c := c.(type) {
	case DocumentCitation:
		return Wire{
			Type:     wireTypePDF,
			Page:     c.Page,
			Filename: c.SourceFilename,
			Text:     c.Text,
			Score:    c.Relevance,
		}
	case StreamCitation:
		return Wire{
			Type:               wireTypeYouTube,
			Timestamp:          c.TimestampSeconds,
			VideoTitle:         c.VideoTitle,
			VideoURL:           c.VideoURL,
			Text:               c.Text,
			Score:              c.Relevance,
			TimestampFormatted: c.TimestampFormatted,
		}
	default:
		return Wire{}
	}
}

// ToWireList maps a citation sequence preserving order.
func ToWireList(cs []Citation) []Wire {
	out := make([]Wire, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToWire(c))
	}
	return out
}
