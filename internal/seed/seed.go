// Package seed loads portfolio content from a YAML document into the
// store. Projects and posts are matched on slug; everything else is
// created only when no row with the same name exists, so a seed file can
// be applied repeatedly.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

// Document is the seed file layout.
type Document struct {
	Projects       []yaml.Node      `yaml:"projects"`
	BlogPosts      []yaml.Node      `yaml:"blog_posts"`
	Certifications []yaml.Node      `yaml:"certifications"`
	Skills         []yaml.Node      `yaml:"skills"`
	Services       []yaml.Node      `yaml:"services"`
	Testimonials   []yaml.Node      `yaml:"testimonials"`
	Settings       model.JSONObject `yaml:"settings"`
}

// Result counts what an Apply changed.
type Result struct {
	Created  int
	Updated  int
	Skipped  int
	Settings bool
}

func (r Result) String() string {
	return fmt.Sprintf("%d created, %d updated, %d skipped, settings written: %t",
		r.Created, r.Updated, r.Skipped, r.Settings)
}

// Seeder writes seed documents into a store.
type Seeder struct {
	st *store.Store
}

func New(st *store.Store) *Seeder {
	return &Seeder{st: st}
}

// ApplyFile reads and applies the seed file at path.
func (s *Seeder) ApplyFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return s.Apply(ctx, f)
}

// Apply parses a seed document from r and writes it.
func (s *Seeder) Apply(ctx context.Context, r io.Reader) (Result, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return Result{}, fmt.Errorf("failed to parse seed file: %w", err)
	}

	var res Result
	steps := []func(context.Context, *Document, *Result) error{
		s.projects,
		s.blogPosts,
		s.certifications,
		s.skills,
		s.services,
		s.testimonials,
	}
	for _, step := range steps {
		if err := step(ctx, &doc, &res); err != nil {
			return res, err
		}
	}

	if doc.Settings != nil {
		if _, err := s.st.Settings.Put(ctx, doc.Settings); err != nil {
			return res, fmt.Errorf("write settings: %w", err)
		}
		res.Settings = true
	}
	return res, nil
}

// decode builds each entry on top of the dashboard defaults from newFn and
// normalizes it. before, when set, runs between the two.
func decode[T any, PT interface {
	*T
	model.Normalizer
}](nodes []yaml.Node, kind string, newFn func() PT, before func(PT) error) ([]PT, error) {
	out := make([]PT, 0, len(nodes))
	for i := range nodes {
		v := newFn()
		if err := nodes[i].Decode(v); err != nil {
			return nil, fmt.Errorf("%s #%d (line %d): %w", kind, i+1, nodes[i].Line, err)
		}
		if before != nil {
			if err := before(v); err != nil {
				return nil, fmt.Errorf("%s #%d (line %d): %w", kind, i+1, nodes[i].Line, err)
			}
		}
		if err := v.Normalize(); err != nil {
			return nil, fmt.Errorf("%s #%d (line %d): %w", kind, i+1, nodes[i].Line, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Seeder) projects(ctx context.Context, doc *Document, res *Result) error {
	items, err := decode(doc.Projects, "project", model.NewProject, s.storedPassword(ctx))
	if err != nil {
		return err
	}
	for _, p := range items {
		if err := auth.SealProject(p); err != nil {
			return fmt.Errorf("project %q: %w", p.Slug, err)
		}
		created, err := s.st.Projects.UpsertBySlug(ctx, p)
		if err != nil {
			return fmt.Errorf("project %q: %w", p.Slug, err)
		}
		res.count(created)
	}
	return nil
}

// storedPassword gives a password project whose entry leaves out
// access_password the hash already stored under its slug.
func (s *Seeder) storedPassword(ctx context.Context) func(*model.Project) error {
	return func(p *model.Project) error {
		if !p.Protected() || p.AccessPassword != "" {
			return nil
		}
		slug := strings.TrimSpace(p.Slug)
		if slug == "" {
			slug = model.Slugify(p.Title)
		}
		existing, err := s.st.Projects.BySlug(ctx, slug)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("look up %q: %w", slug, err)
		}
		p.AccessPasswordHash = existing.AccessPasswordHash
		return nil
	}
}

func (s *Seeder) blogPosts(ctx context.Context, doc *Document, res *Result) error {
	items, err := decode(doc.BlogPosts, "blog post", model.NewBlogPost, nil)
	if err != nil {
		return err
	}
	for _, p := range items {
		created, err := s.st.BlogPosts.UpsertBySlug(ctx, p)
		if err != nil {
			return fmt.Errorf("blog post %q: %w", p.Slug, err)
		}
		res.count(created)
	}
	return nil
}

func (s *Seeder) certifications(ctx context.Context, doc *Document, res *Result) error {
	items, err := decode(doc.Certifications, "certification", model.NewCertification, nil)
	if err != nil {
		return err
	}
	return createMissing[model.Certification](ctx, s.st.Certifications, items, func(c *model.Certification) string { return c.Name }, res)
}

func (s *Seeder) skills(ctx context.Context, doc *Document, res *Result) error {
	items, err := decode(doc.Skills, "skill", model.NewSkill, nil)
	if err != nil {
		return err
	}
	return createMissing[model.Skill](ctx, s.st.Skills, items, func(k *model.Skill) string { return k.Name }, res)
}

func (s *Seeder) services(ctx context.Context, doc *Document, res *Result) error {
	items, err := decode(doc.Services, "service", model.NewService, nil)
	if err != nil {
		return err
	}
	return createMissing[model.Service](ctx, s.st.Services, items, func(v *model.Service) string { return v.Name }, res)
}

func (s *Seeder) testimonials(ctx context.Context, doc *Document, res *Result) error {
	items, err := decode(doc.Testimonials, "testimonial", model.NewTestimonial, nil)
	if err != nil {
		return err
	}
	return createMissing[model.Testimonial](ctx, s.st.Testimonials, items, func(t *model.Testimonial) string { return t.ClientName }, res)
}

// createMissing inserts the items whose name no stored row already uses.
func createMissing[T any](ctx context.Context, repo store.Repository[T], items []*T, name func(*T) string, res *Result) error {
	for _, item := range items {
		key := name(item)
		existing, err := repo.List(ctx, store.ListOptions{Query: key, Limit: 1000})
		if err != nil {
			return fmt.Errorf("look up %q: %w", key, err)
		}
		found := false
		for i := range existing {
			if strings.EqualFold(name(&existing[i]), key) {
				found = true
				break
			}
		}
		if found {
			res.Skipped++
			continue
		}
		if err := repo.Create(ctx, item); err != nil {
			return fmt.Errorf("create %q: %w", key, err)
		}
		res.Created++
	}
	return nil
}

func (r *Result) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Updated++
	}
}

// logResult is shared by the one-shot and watch paths.
func logResult(path string, res Result) {
	log.Printf("Seeded %s: %s", path, res)
}
