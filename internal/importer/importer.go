// Package importer pulls content into the portfolio from outside sources:
// Notion databases and arbitrary web articles. Imports are one-way and
// upsert on slug.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/lib/pq"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/fetch"
	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

// ErrMissingKey is returned by Notion when no API key is configured.
var ErrMissingKey = errors.New("Missing NOTION_API_KEY")

// SyncResult counts the rows written per target.
type SyncResult struct {
	Blog     int `json:"blog"`
	Projects int `json:"projects"`
}

type Importer struct {
	projects  store.ProjectStore
	posts     store.BlogStore
	notionCfg config.Notion
	notion    *NotionClient
	fetcher   *fetch.Fetcher
	converter *Converter
}

func New(projects store.ProjectStore, posts store.BlogStore, cfg config.Notion, notion *NotionClient, f *fetch.Fetcher) *Importer {
	return &Importer{
		projects:  projects,
		posts:     posts,
		notionCfg: cfg,
		notion:    notion,
		fetcher:   f,
		converter: NewConverter(),
	}
}

// Notion syncs the configured blog and projects databases. A database
// without an id is skipped.
func (im *Importer) Notion(ctx context.Context) (*SyncResult, error) {
	if im.notionCfg.APIKey == "" || im.notion == nil {
		return nil, ErrMissingKey
	}
	res := &SyncResult{}

	if id := im.notionCfg.BlogDatabaseID; id != "" {
		pages, err := im.notion.QueryDatabase(ctx, id)
		if err != nil {
			return res, fmt.Errorf("query blog database: %w", err)
		}
		for _, pg := range pages {
			post, err := im.blogPost(ctx, page(pg))
			if err != nil {
				return res, err
			}
			if _, err := im.posts.UpsertBySlug(ctx, post); err != nil {
				return res, fmt.Errorf("save post %q: %w", post.Slug, err)
			}
			res.Blog++
		}
	}

	if id := im.notionCfg.ProjectsDatabaseID; id != "" {
		pages, err := im.notion.QueryDatabase(ctx, id)
		if err != nil {
			return res, fmt.Errorf("query projects database: %w", err)
		}
		for _, pg := range pages {
			p, err := im.project(ctx, page(pg))
			if err != nil {
				return res, err
			}
			if _, err := im.projects.UpsertBySlug(ctx, p); err != nil {
				return res, fmt.Errorf("save project %q: %w", p.Slug, err)
			}
			res.Projects++
		}
	}

	log.Printf("Notion sync: %d posts, %d projects", res.Blog, res.Projects)
	return res, nil
}

func (im *Importer) content(ctx context.Context, pg page) (string, error) {
	md, err := im.notion.PageMarkdown(ctx, string(pg.ID))
	if err != nil {
		return "", fmt.Errorf("read page %s: %w", pg.ID, err)
	}
	if md == "" {
		md = pg.text("Content")
	}
	return md, nil
}

func (im *Importer) blogPost(ctx context.Context, pg page) (*model.BlogPost, error) {
	title := first(pg.text("Title"), pg.title(), "Untitled")
	post := model.NewBlogPost()
	post.Title = title
	post.Slug = first(pg.text("Slug"), model.Slugify(title))
	post.Excerpt = model.String(first(pg.text("Excerpt"), pg.text("Summary")))
	post.Category = model.String(first(pg.selectName("Category"), pg.text("Category")))
	post.Tags = pq.StringArray(pg.multiSelect("Tags"))
	post.CoverURL = model.String(first(pg.text("Cover"), pg.text("Cover URL")))

	if strings.Contains(strings.ToLower(pg.selectName("Status")), "publish") {
		post.Status = model.StatusPublished
	}
	switch sev := model.Severity(strings.ToLower(pg.selectName("Severity"))); sev {
	case model.SeverityCritical, model.SeverityHigh, model.SeverityLow:
		post.Severity = sev
	}

	md, err := im.content(ctx, pg)
	if err != nil {
		return nil, err
	}
	post.ContentMD = model.String(md)

	if err := post.Normalize(); err != nil {
		return nil, fmt.Errorf("post %q: %w", title, err)
	}
	return post, nil
}

func (im *Importer) project(ctx context.Context, pg page) (*model.Project, error) {
	title := first(pg.text("Title"), pg.title(), "Untitled")
	p := model.NewProject()
	p.Title = title
	p.Slug = first(pg.text("Slug"), model.Slugify(title))
	p.Summary = model.String(first(pg.text("Summary"), pg.text("Excerpt")))
	p.Category = model.String(first(pg.selectName("Category"), pg.text("Category")))
	tech := pg.multiSelect("Tech")
	if len(tech) == 0 {
		tech = pg.multiSelect("Tech Stack")
	}
	p.TechStack = pq.StringArray(tech)
	p.GithubURL = model.String(first(pg.text("GitHub URL"), pg.text("GitHub")))
	p.DemoURL = model.String(first(pg.text("Demo URL"), pg.text("Demo")))
	p.Featured = pg.checked("Featured") ||
		strings.EqualFold(pg.selectName("Featured"), "true") ||
		strings.EqualFold(pg.text("Featured"), "true")

	md, err := im.content(ctx, pg)
	if err != nil {
		return nil, err
	}
	p.ContentMD = model.String(md)

	if err := p.Normalize(); err != nil {
		return nil, fmt.Errorf("project %q: %w", title, err)
	}
	return p, nil
}

// page adds property readers to a Notion page.
type page notionapi.Page

// text reads a rich_text, title or url property.
func (pg page) text(name string) string {
	switch prop := pg.Properties[name].(type) {
	case *notionapi.RichTextProperty:
		return plain(prop.RichText)
	case *notionapi.TitleProperty:
		return plain(prop.Title)
	case *notionapi.URLProperty:
		return strings.TrimSpace(prop.URL)
	}
	return ""
}

// title reads the page's title property, whatever it is called.
func (pg page) title() string {
	for _, prop := range pg.Properties {
		if t, ok := prop.(*notionapi.TitleProperty); ok {
			return plain(t.Title)
		}
	}
	return ""
}

func (pg page) selectName(name string) string {
	switch prop := pg.Properties[name].(type) {
	case *notionapi.SelectProperty:
		return prop.Select.Name
	case *notionapi.StatusProperty:
		return prop.Status.Name
	}
	return ""
}

func (pg page) checked(name string) bool {
	prop, ok := pg.Properties[name].(*notionapi.CheckboxProperty)
	return ok && prop.Checkbox
}

func (pg page) multiSelect(name string) []string {
	prop, ok := pg.Properties[name].(*notionapi.MultiSelectProperty)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(prop.MultiSelect))
	for _, o := range prop.MultiSelect {
		if o.Name != "" {
			out = append(out, o.Name)
		}
	}
	return out
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
