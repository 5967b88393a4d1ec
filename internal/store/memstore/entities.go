package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

var (
	_ store.ProjectStore       = (*ProjectStore)(nil)
	_ store.BlogStore          = (*BlogStore)(nil)
	_ store.CertificationStore = (*CertificationStore)(nil)
	_ store.SkillStore         = (*SkillStore)(nil)
	_ store.ServiceStore       = (*ServiceStore)(nil)
	_ store.TestimonialStore   = (*TestimonialStore)(nil)
	_ store.MediaStore         = (*MediaStore)(nil)
	_ store.MessageStore       = (*MessageStore)(nil)
	_ store.SettingsStore      = (*SettingsStore)(nil)
	_ store.ProfileStore       = (*ProfileStore)(nil)
)

func str(s *string) string { return model.Deref(s) }

type ProjectStore struct {
	*repo[model.Project]
}

func NewProjectStore() *ProjectStore {
	s := baseSchema(func(p *model.Project) *model.Base { return &p.Base })
	s.unique = func(p *model.Project) string { return p.Slug }
	s.search = func(p *model.Project) []string { return []string{p.Title, p.Slug, str(p.Category)} }
	s.less = newestUpdated(s.updated)
	s.limit = 200
	return &ProjectStore{newRepo(s)}
}

func (s *ProjectStore) BySlug(_ context.Context, slug string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.rows {
		if p.Slug == slug {
			p = clone(p)
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *ProjectStore) Featured(_ context.Context, limit int) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(func(p *model.Project) bool { return p.Featured && p.Listed() }, s.s.less, limit), nil
}

func (s *ProjectStore) Public(_ context.Context, limit int) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	featuredFirst := func(a, b *model.Project) bool {
		if a.Featured != b.Featured {
			return a.Featured
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return s.query((*model.Project).Listed, featuredFirst, limit), nil
}

func (s *ProjectStore) UpsertBySlug(_ context.Context, p *model.Project) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.rows {
		if existing.Slug != p.Slug {
			continue
		}
		if p.Protected() && p.AccessPasswordHash == nil {
			p.AccessPasswordHash = existing.AccessPasswordHash
		}
		return false, s.update(id, p)
	}
	return true, s.create(p)
}

type BlogStore struct {
	*repo[model.BlogPost]
}

func NewBlogStore() *BlogStore {
	s := baseSchema(func(p *model.BlogPost) *model.Base { return &p.Base })
	s.unique = func(p *model.BlogPost) string { return p.Slug }
	s.search = func(p *model.BlogPost) []string { return []string{p.Title, p.Slug, str(p.Category)} }
	s.less = newestUpdated(s.updated)
	s.limit = 200
	return &BlogStore{newRepo(s)}
}

func (s *BlogStore) Published(_ context.Context, limit int) ([]model.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	newest := func(a, b *model.BlogPost) bool {
		switch {
		case a.PublishedAt == nil:
			return false
		case b.PublishedAt == nil:
			return true
		}
		return a.PublishedAt.After(*b.PublishedAt)
	}
	return s.query((*model.BlogPost).Published, newest, limit), nil
}

func (s *BlogStore) PublishedBySlug(_ context.Context, slug string) (*model.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.rows {
		if p.Slug == slug && p.Published() {
			p = clone(p)
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *BlogStore) UpsertBySlug(_ context.Context, p *model.BlogPost) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.rows {
		if existing.Slug != p.Slug {
			continue
		}
		if p.Published() && existing.PublishedAt != nil {
			p.PublishedAt = existing.PublishedAt
		}
		return false, s.update(id, p)
	}
	return true, s.create(p)
}

type CertificationStore struct {
	*repo[model.Certification]
}

func NewCertificationStore() *CertificationStore {
	s := baseSchema(func(c *model.Certification) *model.Base { return &c.Base })
	s.search = func(c *model.Certification) []string { return []string{c.Name, str(c.IssuingOrg), str(c.Category)} }
	s.less = func(a, b *model.Certification) bool {
		if a.Prestige != b.Prestige {
			return a.Prestige > b.Prestige
		}
		return obtained(a).After(obtained(b))
	}
	return &CertificationStore{newRepo(s)}
}

func obtained(c *model.Certification) time.Time {
	if c.ObtainedAt == nil {
		return time.Time{}
	}
	return c.ObtainedAt.Time
}

func (s *CertificationStore) Top(_ context.Context, limit int) ([]model.Certification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(all[model.Certification], s.s.less, limit), nil
}

type SkillStore struct {
	*repo[model.Skill]
}

func NewSkillStore() *SkillStore {
	s := baseSchema(func(k *model.Skill) *model.Base { return &k.Base })
	s.search = func(k *model.Skill) []string { return []string{k.Name, str(k.Category)} }
	s.less = func(a, b *model.Skill) bool {
		if str(a.Category) != str(b.Category) {
			return str(a.Category) < str(b.Category)
		}
		return a.Proficiency > b.Proficiency
	}
	s.limit = 500
	return &SkillStore{newRepo(s)}
}

type ServiceStore struct {
	*repo[model.Service]
}

func NewServiceStore() *ServiceStore {
	s := baseSchema(func(v *model.Service) *model.Base { return &v.Base })
	s.search = func(v *model.Service) []string { return []string{v.Name} }
	s.less = func(a, b *model.Service) bool {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return &ServiceStore{newRepo(s)}
}

func (s *ServiceStore) OnHome(context.Context) ([]model.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(func(v *model.Service) bool { return v.ShowOnHome }, s.s.less, 0), nil
}

type TestimonialStore struct {
	*repo[model.Testimonial]
}

func NewTestimonialStore() *TestimonialStore {
	s := baseSchema(func(t *model.Testimonial) *model.Base { return &t.Base })
	s.search = func(t *model.Testimonial) []string { return []string{t.ClientName, str(t.Company), t.Quote} }
	s.less = newestUpdated(s.updated)
	return &TestimonialStore{newRepo(s)}
}

func (s *TestimonialStore) OnHome(context.Context) ([]model.Testimonial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(func(t *model.Testimonial) bool { return t.ShowOnHome }, s.s.less, 0), nil
}

type MediaStore struct {
	*repo[model.Media]
}

func NewMediaStore() *MediaStore {
	return &MediaStore{newRepo(schema[model.Media]{
		id:      func(m *model.Media) *string { return &m.ID },
		created: func(m *model.Media) *time.Time { return &m.CreatedAt },
		search:  func(m *model.Media) []string { return []string{m.URL, str(m.Alt)} },
		less:    func(a, b *model.Media) bool { return a.CreatedAt.After(b.CreatedAt) },
		limit:   300,
	})}
}

type MessageStore struct {
	*repo[model.Message]
}

func NewMessageStore() *MessageStore {
	return &MessageStore{newRepo(schema[model.Message]{
		id:      func(m *model.Message) *string { return &m.ID },
		created: func(m *model.Message) *time.Time { return &m.CreatedAt },
		search: func(m *model.Message) []string {
			return []string{m.Name, m.Email, str(m.Subject), m.Message}
		},
		less:  func(a, b *model.Message) bool { return a.CreatedAt.After(b.CreatedAt) },
		limit: 300,
	})}
}

func (s *MessageStore) SetStatus(_ context.Context, id string, status model.MessageStatus) error {
	if !status.Valid() {
		return model.ValidationErrorf("unknown message status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	m.Status = status
	s.rows[id] = m
	return nil
}

type SettingsStore struct {
	mu  sync.RWMutex
	row *model.SiteSettings
}

func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

func (s *SettingsStore) Get(context.Context) (*model.SiteSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.row == nil {
		return &model.SiteSettings{ID: model.SettingsID, Settings: model.JSONObject{}}, nil
	}
	cp := clone(*s.row)
	return &cp, nil
}

func (s *SettingsStore) Put(_ context.Context, settings model.JSONObject) (*model.SiteSettings, error) {
	row := &model.SiteSettings{Settings: settings}
	if err := row.Normalize(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := Now()
	row.CreatedAt, row.UpdatedAt = now, now
	if s.row != nil {
		row.CreatedAt = s.row.CreatedAt
	}
	stored := clone(*row)
	s.row = &stored
	cp := clone(stored)
	return &cp, nil
}

type ProfileStore struct {
	*repo[model.Profile]
}

func NewProfileStore() *ProfileStore {
	s := baseSchema(func(p *model.Profile) *model.Base { return &p.Base })
	s.unique = func(p *model.Profile) string { return p.Email }
	s.search = func(p *model.Profile) []string { return []string{p.Email, str(p.DisplayName)} }
	s.less = func(a, b *model.Profile) bool { return a.CreatedAt.After(b.CreatedAt) }
	s.limit = 500
	return &ProfileStore{newRepo(s)}
}

func (s *ProfileStore) ByEmail(_ context.Context, email string) (*model.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.rows {
		if p.Email == email {
			p = clone(p)
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *ProfileStore) SetRole(_ context.Context, id string, role model.Role) error {
	if !role.Valid() {
		return model.ValidationErrorf("unknown role %q", role)
	}
	return s.set(id, func(p *model.Profile) { p.Role = role })
}

func (s *ProfileStore) SetPassword(_ context.Context, id, hash string) error {
	return s.set(id, func(p *model.Profile) { p.PasswordHash = hash })
}

func (s *ProfileStore) set(id string, change func(*model.Profile)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	change(&p)
	p.UpdatedAt = Now()
	s.rows[id] = p
	return nil
}
