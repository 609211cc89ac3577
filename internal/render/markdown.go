// Package render converts assistant answer markdown to HTML for transcript
// payloads. Pure formatting; no state.
package render

import (
	"bytes"
	stdhtml "html"
	"strings"

	"github.com/yuin/goldmark"
)

// Markdown renders answer text to HTML. If conversion fails the text is
// returned escaped, so a malformed answer still displays as plain text.
func Markdown(src string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "<p>" + stdhtml.EscapeString(src) + "</p>"
	}
	return strings.TrimSpace(buf.String())
}
