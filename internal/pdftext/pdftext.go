// Package pdftext pulls plain text out of PDFs so certificate and report
// uploads can prefill admin forms.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Zachkp/portfolio/internal/fetch"
)

const (
	maxTitle = 120
	maxText  = 12000
)

// ErrMissingURL is returned by FromURL for an empty url.
var ErrMissingURL = errors.New("Missing url")

// Result is what the admin dashboard receives.
type Result struct {
	Pages      int     `json:"pages"`
	TitleGuess *string `json:"titleGuess"`
	Text       string  `json:"text"`
}

// Extractor fetches PDFs by URL and extracts their text.
type Extractor struct {
	fetcher *fetch.Fetcher
}

func NewExtractor(f *fetch.Fetcher) *Extractor {
	return &Extractor{fetcher: f}
}

// FromURL downloads the PDF at url and extracts it.
func (e *Extractor) FromURL(ctx context.Context, url string) (*Result, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrMissingURL
	}

	res, err := e.fetcher.Get(ctx, url, "application/pdf")
	if err != nil {
		var se *fetch.StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("Failed to fetch PDF (%d)", se.Code)
		}
		return nil, fmt.Errorf("Failed to fetch PDF: %w", err)
	}
	return Parse(res.Body)
}

// Parse extracts the text of every page of an in-memory PDF.
func Parse(content []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// some pages fail on odd fonts; keep the rest
			continue
		}
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	return summarize(numPages, sb.String()), nil
}

func summarize(pages int, raw string) *Result {
	text := strings.TrimSpace(raw)
	r := &Result{Pages: pages, Text: truncate(text, maxText)}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) > 6 {
			title := truncate(line, maxTitle)
			r.TitleGuess = &title
			break
		}
	}
	return r
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
