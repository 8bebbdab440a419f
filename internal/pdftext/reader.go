package pdftext

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Token is one positioned fragment of a page's embedded text layer.
type Token struct {
	Text string
	X    float64
	Y    float64
}

// Document wraps an in-memory PDF and exposes its text layer page by page.
type Document struct {
	data   []byte
	reader *pdf.Reader
	pages  int
	logger *slog.Logger
}

// Open validates the byte stream and prepares it for per-page access.
// The pdfcpu page count is authoritative; ledongthuc is only consulted for
// the positioned text layer.
func Open(name string, data []byte, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pages, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu page count: %w", err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("document %q has no pages", name)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &Document{data: data, reader: reader, pages: pages, logger: logger}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.pages
}

// Bytes returns the raw file content, for the rasterizing OCR fallback.
func (d *Document) Bytes() []byte {
	return d.data
}

// Tokens returns the positioned text fragments of one page (1-indexed).
// A scanned page with no embedded text yields an empty slice, not an error.
// ledongthuc/pdf panics on some malformed content streams, so the call is
// fenced with a recover that degrades to "no text layer".
func (d *Document) Tokens(pageNum int) (tokens []Token, err error) {
	if pageNum < 1 || pageNum > d.pages {
		return nil, fmt.Errorf("page %d out of range (1..%d)", pageNum, d.pages)
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("text layer extraction panicked", "page", pageNum, "panic", r)
			tokens, err = nil, nil
		}
	}()

	page := d.reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, nil
	}

	content := page.Content()
	tokens = make([]Token, 0, len(content.Text))
	for _, t := range content.Text {
		s := strings.TrimSpace(t.S)
		if s == "" {
			continue
		}
		tokens = append(tokens, Token{Text: t.S, X: t.X, Y: t.Y})
	}
	return tokens, nil
}
