package viewer

import (
	"fmt"
	"io"
	"os"

	pdflib "github.com/ledongthuc/pdf"
)

// CountPages reads a PDF and returns its page count. The session uses it to
// complete a document viewer's load after upload. ledongthuc/pdf needs a
// ReadSeeker plus size, so the stream is spooled to a temp file first.
func CountPages(r io.Reader) (int, error) {
	tmp, err := os.CreateTemp("", "docchat-pdf-*.pdf")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	n := reader.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return n, nil
}
