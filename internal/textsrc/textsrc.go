// Package textsrc loads recitation texts from files or stdin.
package textsrc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// ErrEmptyText is returned when a source holds no words.
var ErrEmptyText = errors.New("text is empty")

// ErrUnsupported is returned for file types that cannot be read.
var ErrUnsupported = errors.New("unsupported text format")

// Load reads the text at path. Plain text and Markdown are read as UTF-8,
// PDFs are flattened to page text, and Stdin reads standard input.
func Load(path string) (string, error) {
	if path == Stdin {
		return Read(os.Stdin)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return ReadPDF(data)
	case "", ".txt", ".md", ".markdown", ".text":
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return Read(f)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
}

// Read reads plain text from r. A UTF-8 byte order mark is dropped and
// line endings are normalized to "\n".
func Read(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return clean(string(data))
}

// ReadPDF extracts the plain text of every page. Pages are separated by a
// blank line so each starts a new paragraph.
func ReadPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for n := 1; n <= r.NumPage(); n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", n, err)
		}
		pages = append(pages, text)
	}
	return clean(strings.Join(pages, "\n\n"))
}

func clean(s string) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSpace(s)
	if len(strings.Fields(s)) == 0 {
		return "", ErrEmptyText
	}
	return s, nil
}
