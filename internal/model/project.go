package model

import (
	"strings"

	"github.com/lib/pq"
)

// Project is a portfolio case study.
type Project struct {
	Base
	Slug          string         `json:"slug" yaml:"slug"`
	Title         string         `json:"title" yaml:"title"`
	Summary       *string        `json:"summary" yaml:"summary"`
	ContentMD     *string        `json:"content_md" yaml:"content_md" gorm:"column:content_md"`
	Category      *string        `json:"category" yaml:"category"`
	TechStack     pq.StringArray `json:"tech_stack" yaml:"tech_stack" gorm:"type:text[]"`
	Featured      bool           `json:"featured" yaml:"featured"`
	GithubURL     *string        `json:"github_url" yaml:"github_url" gorm:"column:github_url"`
	DemoURL       *string        `json:"demo_url" yaml:"demo_url" gorm:"column:demo_url"`
	SecurityScore *int           `json:"security_score" yaml:"security_score"`
	Status        ProjectStatus  `json:"status" yaml:"status"`
	Visibility    Visibility     `json:"visibility" yaml:"visibility"`

	// AccessPasswordHash is the bcrypt hash guarding password projects.
	AccessPasswordHash *string `json:"-" yaml:"-" gorm:"column:access_password"`
	// AccessPassword is write-only input; the web layer hashes it.
	AccessPassword string `json:"access_password,omitempty" yaml:"access_password" gorm:"-"`
}

func (Project) TableName() string { return "projects" }

// NewProject returns a project with the dashboard's form defaults.
func NewProject() *Project {
	return &Project{
		TechStack:  pq.StringArray{},
		Status:     ProjectActive,
		Visibility: VisibilityPublic,
	}
}

// Protected reports whether opening the project requires a password.
func (p *Project) Protected() bool {
	return p.Visibility == VisibilityPassword
}

// Listed reports whether the project may appear on public pages.
func (p *Project) Listed() bool {
	return p.Visibility != VisibilityPrivate
}

func (p *Project) Normalize() error {
	p.Title = strings.TrimSpace(p.Title)
	slug, err := resolveSlug(p.Slug, p.Title)
	if err != nil {
		return err
	}
	p.Slug = slug
	if p.Title == "" {
		return invalid("Title is required.")
	}

	p.Summary = Optional(p.Summary)
	p.ContentMD = Optional(p.ContentMD)
	p.Category = Optional(p.Category)
	p.GithubURL = Optional(p.GithubURL)
	p.DemoURL = Optional(p.DemoURL)
	p.TechStack = cleanList(p.TechStack)

	if p.Status == "" {
		p.Status = ProjectActive
	}
	if !p.Status.Valid() {
		return invalid("unknown project status %q", p.Status)
	}
	if p.Visibility == "" {
		p.Visibility = VisibilityPublic
	}
	if !p.Visibility.Valid() {
		return invalid("unknown visibility %q", p.Visibility)
	}
	if p.SecurityScore != nil {
		score := clamp(*p.SecurityScore, 0, 100)
		p.SecurityScore = &score
	}

	p.AccessPassword = strings.TrimSpace(p.AccessPassword)
	if p.Visibility != VisibilityPassword {
		p.AccessPassword = ""
		p.AccessPasswordHash = nil
		return nil
	}
	if p.AccessPassword == "" && p.AccessPasswordHash == nil {
		return invalid("Password-protected projects need an access password.")
	}
	return nil
}
