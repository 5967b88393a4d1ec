package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

var _ store.ProfileStore = (*ProfileStore)(nil)

type ProfileStore struct {
	repo[model.Profile]
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{repo[model.Profile]{
		db:     db,
		order:  "created_at desc",
		limit:  500,
		search: []string{"email", "display_name"},
	}}
}

func (s *ProfileStore) ByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var p model.Profile
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *ProfileStore) SetRole(ctx context.Context, id string, role model.Role) error {
	if !role.Valid() {
		return model.ValidationErrorf("unknown role %q", role)
	}
	return s.set(ctx, id, "role", role)
}

func (s *ProfileStore) SetPassword(ctx context.Context, id, hash string) error {
	return s.set(ctx, id, "password_hash", hash)
}

func (s *ProfileStore) set(ctx context.Context, id, column string, value any) error {
	tx := s.db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", id).Update(column, value)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
