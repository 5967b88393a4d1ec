package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

var _ store.BlogStore = (*BlogStore)(nil)

// BlogStore implements store.BlogStore using GORM
type BlogStore struct {
	repo[model.BlogPost]
}

func NewBlogStore(db *gorm.DB) *BlogStore {
	return &BlogStore{repo[model.BlogPost]{
		db:     db,
		order:  "updated_at desc",
		limit:  200,
		search: []string{"title", "slug", "category"},
	}}
}

func (s *BlogStore) Published(ctx context.Context, limit int) ([]model.BlogPost, error) {
	out := []model.BlogPost{}
	err := s.db.WithContext(ctx).
		Where("status = ?", model.StatusPublished).
		Order("published_at desc nulls last").
		Limit(limitOr(limit, s.limit)).
		Find(&out).Error
	return out, translate(err)
}

func (s *BlogStore) PublishedBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	var p model.BlogPost
	err := s.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, model.StatusPublished).
		Take(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// UpsertBySlug overwrites the post sharing p's slug or inserts p. A post
// that stays published keeps its original publish time.
func (s *BlogStore) UpsertBySlug(ctx context.Context, p *model.BlogPost) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.BlogPost
		err := tx.Where("slug = ?", p.Slug).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(p).Error
		}
		if err != nil {
			return err
		}
		p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
		if p.Published() && existing.PublishedAt != nil {
			p.PublishedAt = existing.PublishedAt
		}
		return update(tx, existing.ID, p)
	})
	return created, translate(err)
}
