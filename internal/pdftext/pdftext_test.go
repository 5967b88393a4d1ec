package pdftext

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/fetch"
)

// onePagePDF builds a minimal single page PDF that shows text with a
// standard font.
func onePagePDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 18 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return []byte(b.String())
}

func TestParse(t *testing.T) {
	res, err := Parse(onePagePDF("Offensive Security Certified Professional"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "Offensive Security Certified Professional")
	require.NotNil(t, res.TitleGuess)
	assert.Contains(t, *res.TitleGuess, "Offensive Security")
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("not a pdf file"))
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	long := strings.Repeat("a", 200)
	res := summarize(3, "  \nOSCP\n  "+long+"  \nmore\n")
	assert.Equal(t, 3, res.Pages)
	require.NotNil(t, res.TitleGuess)
	assert.Len(t, *res.TitleGuess, maxTitle)

	res = summarize(1, "short\nlines\nonly")
	assert.Nil(t, res.TitleGuess)

	res = summarize(1, strings.Repeat("x", maxText+50))
	assert.Len(t, res.Text, maxText)
}

func TestFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cert.pdf" {
			_, _ = w.Write(onePagePDF("Certified Ethical Hacker"))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	e := NewExtractor(fetch.New(5*time.Second, 1<<20, fetch.AllowPrivate()))
	ctx := context.Background()

	res, err := e.FromURL(ctx, srv.URL+"/cert.pdf")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Certified Ethical Hacker")

	_, err = e.FromURL(ctx, srv.URL+"/private.pdf")
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch PDF (403)", err.Error())

	_, err = e.FromURL(ctx, "  ")
	require.Error(t, err)
	assert.Equal(t, "Missing url", err.Error())
}
