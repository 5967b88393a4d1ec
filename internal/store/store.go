// Package store defines the storage interfaces the web handlers depend on.
//
// The gormstore subpackage implements them over Postgres. Handlers only see
// these interfaces so they can be tested against in-memory fakes.
//
//	st := gormstore.New(db)
//	p, err := st.Projects.BySlug(ctx, "secure-network")
//	if errors.Is(err, store.ErrNotFound) {
//	    // 404
//	}
package store

import (
	"context"
	"errors"

	"github.com/Zachkp/portfolio/internal/model"
)

// ErrNotFound is returned when a lookup, update or delete touches no row.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write violates a unique constraint, such
// as a duplicate slug or email.
var ErrConflict = errors.New("record already exists")

// ListOptions narrows a list query. Zero values mean "no filter" and "the
// entity's default limit".
type ListOptions struct {
	Query string
	Limit int
}

// Repository is the CRUD surface every dashboard section shares.
type Repository[T any] interface {
	List(ctx context.Context, opts ListOptions) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, v *T) error
	// Update replaces every column except id and created_at.
	Update(ctx context.Context, id string, v *T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ProjectStore interface {
	Repository[model.Project]
	BySlug(ctx context.Context, slug string) (*model.Project, error)
	// Featured returns listed projects flagged as featured, newest first.
	Featured(ctx context.Context, limit int) ([]model.Project, error)
	// Public returns every listed (non-private) project.
	Public(ctx context.Context, limit int) ([]model.Project, error)
	// UpsertBySlug inserts p or overwrites the row with the same slug.
	UpsertBySlug(ctx context.Context, p *model.Project) (created bool, err error)
}

type BlogStore interface {
	Repository[model.BlogPost]
	Published(ctx context.Context, limit int) ([]model.BlogPost, error)
	PublishedBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	UpsertBySlug(ctx context.Context, p *model.BlogPost) (created bool, err error)
}

type CertificationStore interface {
	Repository[model.Certification]
	Top(ctx context.Context, limit int) ([]model.Certification, error)
}

type SkillStore interface {
	Repository[model.Skill]
}

type ServiceStore interface {
	Repository[model.Service]
	OnHome(ctx context.Context) ([]model.Service, error)
}

type TestimonialStore interface {
	Repository[model.Testimonial]
	OnHome(ctx context.Context) ([]model.Testimonial, error)
}

type MediaStore interface {
	Repository[model.Media]
}

type MessageStore interface {
	Repository[model.Message]
	SetStatus(ctx context.Context, id string, status model.MessageStatus) error
}

// SettingsStore reads and writes the singleton site_settings row.
type SettingsStore interface {
	Get(ctx context.Context) (*model.SiteSettings, error)
	Put(ctx context.Context, settings model.JSONObject) (*model.SiteSettings, error)
}

type ProfileStore interface {
	List(ctx context.Context, opts ListOptions) ([]model.Profile, error)
	Get(ctx context.Context, id string) (*model.Profile, error)
	ByEmail(ctx context.Context, email string) (*model.Profile, error)
	Create(ctx context.Context, p *model.Profile) error
	SetRole(ctx context.Context, id string, role model.Role) error
	SetPassword(ctx context.Context, id, hash string) error
	Count(ctx context.Context) (int64, error)
}

// HealthStore verifies database connectivity.
type HealthStore interface {
	Ping(ctx context.Context) error
}

// Store groups every store the application uses.
type Store struct {
	Projects       ProjectStore
	BlogPosts      BlogStore
	Certifications CertificationStore
	Skills         SkillStore
	Services       ServiceStore
	Testimonials   TestimonialStore
	Media          MediaStore
	Messages       MessageStore
	Settings       SettingsStore
	Profiles       ProfileStore
	Health         HealthStore
}
