package importer

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"

	"github.com/Zachkp/portfolio/internal/markdown"
	"github.com/Zachkp/portfolio/internal/model"
)

var excessiveLines = regexp.MustCompile(`\n{3,}`)

// Article is a web page reduced to its main content.
type Article struct {
	Title       string
	Description string
	Image       string
	Markdown    string
}

// Converter turns HTML pages into markdown articles.
type Converter struct {
	converter *md.Converter
}

func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Converter{converter: converter}
}

// Convert extracts the main content area of an HTML document and converts
// it to markdown.
func (c *Converter) Convert(content []byte) (*Article, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	a := &Article{}
	readMeta(doc, a)

	root := mainContent(doc)
	out, err := c.converter.ConvertString(render(root))
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}
	a.Markdown = cleanMarkdown(out)

	if a.Title == "" {
		a.Title = markdownTitle(a.Markdown)
	}
	return a, nil
}

// readMeta fills the title, description and preview image from the head.
func readMeta(doc *html.Node, a *Article) {
	var ogTitle string
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "title":
			if a.Title == "" && n.FirstChild != nil {
				a.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			key := attr(n, "property")
			if key == "" {
				key = attr(n, "name")
			}
			val := strings.TrimSpace(attr(n, "content"))
			switch key {
			case "og:title":
				ogTitle = val
			case "og:description", "description":
				if a.Description == "" {
					a.Description = val
				}
			case "og:image":
				a.Image = val
			}
		case "body":
			return false
		}
		return true
	})
	if ogTitle != "" {
		a.Title = ogTitle
	}
}

// mainContent prefers <main>, then <article>, then [role=main]; failing
// that it strips page chrome from <body>.
func mainContent(doc *html.Node) *html.Node {
	for _, match := range []func(*html.Node) bool{
		func(n *html.Node) bool { return n.Data == "main" },
		func(n *html.Node) bool { return n.Data == "article" },
		func(n *html.Node) bool { return attr(n, "role") == "main" },
	} {
		if n := find(doc, match); n != nil {
			strip(n)
			return n
		}
	}

	body := find(doc, func(n *html.Node) bool { return n.Data == "body" })
	if body == nil {
		body = doc
	}
	strip(body)
	removeMatching(body, func(n *html.Node) bool {
		switch n.Data {
		case "nav", "header", "footer", "aside":
			return true
		}
		return hasClass(n, chromeClasses)
	})
	return body
}

var chromeClasses = map[string]bool{
	"nav": true, "navbar": true, "navigation": true, "sidebar": true, "menu": true,
	"toc": true, "table-of-contents": true, "footer": true, "header": true,
	"ad": true, "advertisement": true, "social": true, "share": true,
	"comments": true, "related": true, "breadcrumb": true,
}

// strip drops elements that never carry article text.
func strip(n *html.Node) {
	removeMatching(n, func(n *html.Node) bool {
		switch n.Data {
		case "script", "style", "noscript", "iframe", "object", "embed", "form", "input", "button":
			return true
		}
		return false
	})
}

// walk visits nodes depth-first; returning false skips a node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func find(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func removeMatching(root *html.Node, match func(*html.Node) bool) {
	var doomed []*html.Node
	walk(root, func(n *html.Node) bool {
		if n != root && n.Type == html.ElementNode && match(n) {
			doomed = append(doomed, n)
			return false
		}
		return true
	})
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, classes map[string]bool) bool {
	for _, c := range strings.Fields(strings.ToLower(attr(n, "class"))) {
		if classes[c] {
			return true
		}
	}
	return false
}

func render(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

func cleanMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = excessiveLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(content)
}

func markdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if t := strings.TrimSpace(line); strings.HasPrefix(t, "# ") {
			return strings.TrimSpace(t[2:])
		}
	}
	return ""
}

// URL imports a web article as a draft blog post. The source link is kept
// at the end of the content.
func (im *Importer) URL(ctx context.Context, rawURL string) (*model.BlogPost, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, model.ValidationErrorf("Missing url")
	}

	res, err := im.fetcher.Get(ctx, rawURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	article, err := im.converter.Convert(res.Body)
	if err != nil {
		return nil, err
	}
	if article.Markdown == "" {
		return nil, model.ValidationErrorf("No readable content found at %s", rawURL)
	}

	post := model.NewBlogPost()
	post.Title = first(article.Title, "Untitled")
	post.Excerpt = model.String(first(article.Description, markdown.Excerpt(article.Markdown, 200)))
	post.CoverURL = model.String(article.Image)
	post.ContentMD = model.String(article.Markdown + "\n\n---\n\nSource: <" + res.FinalURL + ">")
	post.Tags = []string{"imported"}
	if err := post.Normalize(); err != nil {
		return nil, err
	}
	if err := im.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("save imported post: %w", err)
	}
	log.Printf("Imported %s as draft %q", res.FinalURL, post.Slug)
	return post, nil
}
