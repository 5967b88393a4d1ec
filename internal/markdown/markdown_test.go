package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render("# Findings\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n- [x] done\n\n~~old~~")
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<h1 id="findings">Findings</h1>`)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, `type="checkbox"`)
	assert.Contains(t, html, "<del>old</del>")
}

func TestRenderDropsRawHTML(t *testing.T) {
	out, err := Render("hello <script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
}

func TestPlainText(t *testing.T) {
	src := "## Recon\n\nScan **carefully** then `validate`.\n\n```sh\nnmap -sV host\n```\n"
	plain := PlainText(src)
	assert.Contains(t, plain, "Recon")
	assert.Contains(t, plain, "Scan carefully then validate.")
	assert.Contains(t, plain, "nmap -sV host")
	assert.NotContains(t, plain, "**")
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime("a few words"))
	assert.Equal(t, 1, ReadingTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadingTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 3, ReadingTime(strings.Repeat("word ", 450)))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", Excerpt("short *text*", 50))
	assert.Equal(t, "one two…", Excerpt("one two three four", 9))
}
