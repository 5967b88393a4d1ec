package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zachkp/portfolio/internal/model"
	"github.com/Zachkp/portfolio/internal/store"
)

var _ store.SettingsStore = (*SettingsStore)(nil)

type SettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the settings row, or an empty object when it was never
// written.
func (s *SettingsStore) Get(ctx context.Context) (*model.SiteSettings, error) {
	var row model.SiteSettings
	err := s.db.WithContext(ctx).Where("id = ?", model.SettingsID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.SiteSettings{ID: model.SettingsID, Settings: model.JSONObject{}}, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (s *SettingsStore) Put(ctx context.Context, settings model.JSONObject) (*model.SiteSettings, error) {
	row := &model.SiteSettings{Settings: settings}
	if err := row.Normalize(); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"settings", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, translate(err)
	}
	return s.Get(ctx)
}
