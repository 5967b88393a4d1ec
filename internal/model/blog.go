package model

import (
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/Zachkp/portfolio/internal/markdown"
)

// BlogPost is an incident report on the blog.
type BlogPost struct {
	Base
	Slug               string         `json:"slug" yaml:"slug"`
	Title              string         `json:"title" yaml:"title"`
	Excerpt            *string        `json:"excerpt" yaml:"excerpt"`
	ContentMD          *string        `json:"content_md" yaml:"content_md" gorm:"column:content_md"`
	CoverURL           *string        `json:"cover_url" yaml:"cover_url" gorm:"column:cover_url"`
	Category           *string        `json:"category" yaml:"category"`
	Tags               pq.StringArray `json:"tags" yaml:"tags" gorm:"type:text[]"`
	Severity           Severity       `json:"severity" yaml:"severity"`
	ReadingTimeMinutes *int           `json:"reading_time_minutes" yaml:"reading_time_minutes"`
	Status             ContentStatus  `json:"status" yaml:"status"`
	PublishedAt        *time.Time     `json:"published_at" yaml:"published_at"`
}

func (BlogPost) TableName() string { return "blog_posts" }

// NewBlogPost returns a post with the dashboard's form defaults.
func NewBlogPost() *BlogPost {
	return &BlogPost{
		Tags:     pq.StringArray{},
		Severity: SeverityMedium,
		Status:   StatusDraft,
	}
}

// Published reports whether the post is visible on the public site.
func (p *BlogPost) Published() bool {
	return p.Status == StatusPublished
}

// Reference is the report number shown on cards.
func (p *BlogPost) Reference() string {
	if p.Slug != "" {
		return strings.ToUpper(p.Slug)
	}
	return strings.ToUpper(p.ID)
}

func (p *BlogPost) Normalize() error {
	p.Title = strings.TrimSpace(p.Title)
	slug, err := resolveSlug(p.Slug, p.Title)
	if err != nil {
		return err
	}
	p.Slug = slug
	if p.Title == "" {
		return invalid("Title is required.")
	}

	p.Excerpt = Optional(p.Excerpt)
	p.ContentMD = Optional(p.ContentMD)
	p.CoverURL = Optional(p.CoverURL)
	p.Category = Optional(p.Category)
	p.Tags = cleanList(p.Tags)

	if p.Severity == "" {
		p.Severity = SeverityMedium
	}
	if !p.Severity.Valid() {
		return invalid("unknown severity %q", p.Severity)
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if !p.Status.Valid() {
		return invalid("unknown status %q", p.Status)
	}

	if p.Status == StatusPublished {
		if p.PublishedAt == nil {
			t := now().UTC()
			p.PublishedAt = &t
		}
	} else {
		p.PublishedAt = nil
	}

	if p.ReadingTimeMinutes == nil && p.ContentMD != nil {
		minutes := markdown.ReadingTime(*p.ContentMD)
		p.ReadingTimeMinutes = &minutes
	}
	return nil
}
