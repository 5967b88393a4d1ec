package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

var _ store.ProjectStore = (*ProjectStore)(nil)

// ProjectStore implements store.ProjectStore using GORM
type ProjectStore struct {
	repo[model.Project]
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{repo[model.Project]{
		db:     db,
		order:  "updated_at desc",
		limit:  200,
		search: []string{"title", "slug", "category"},
	}}
}

func (s *ProjectStore) BySlug(ctx context.Context, slug string) (*model.Project, error) {
	var p model.Project
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).Take(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *ProjectStore) Featured(ctx context.Context, limit int) ([]model.Project, error) {
	out := []model.Project{}
	err := s.db.WithContext(ctx).
		Where("featured = ? AND visibility <> ?", true, model.VisibilityPrivate).
		Order("updated_at desc").
		Limit(limitOr(limit, s.limit)).
		Find(&out).Error
	return out, translate(err)
}

func (s *ProjectStore) Public(ctx context.Context, limit int) ([]model.Project, error) {
	out := []model.Project{}
	err := s.db.WithContext(ctx).
		Where("visibility <> ?", model.VisibilityPrivate).
		Order("featured desc, updated_at desc").
		Limit(limitOr(limit, s.limit)).
		Find(&out).Error
	return out, translate(err)
}

// UpsertBySlug overwrites the project sharing p's slug, keeping its id and
// creation time, or inserts p when there is none.
func (s *ProjectStore) UpsertBySlug(ctx context.Context, p *model.Project) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Project
		err := tx.Where("slug = ?", p.Slug).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(p).Error
		}
		if err != nil {
			return err
		}
		p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
		if p.Protected() && p.AccessPasswordHash == nil {
			p.AccessPasswordHash = existing.AccessPasswordHash
		}
		return update(tx, existing.ID, p)
	})
	return created, translate(err)
}
